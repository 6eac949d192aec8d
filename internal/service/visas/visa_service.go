package visas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/kafka"
	"github.com/avelkov/tripdesk/internal/pricing"
	"github.com/avelkov/tripdesk/internal/repository"
)

type VisaUseCase interface {
	Apply(ctx context.Context, input ApplyInput) (*domain.VisaBooking, error)
	VerifyTransaction(ctx context.Context, transactionID string) (*domain.VisaBooking, error)
	SettlePayment(ctx context.Context, transactionID string, succeeded bool, reason string) (*domain.VisaBooking, error)
	ExpireStalePending(ctx context.Context) ([]domain.VisaBooking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type VisaService struct {
	bookings           repository.VisaBookingRepository
	visas              repository.VisaRepository
	producer           Producer
	paymentTopic       string
	notificationsTopic string
	holdTTL            time.Duration
}

type ApplyInput struct {
	VisaID string `json:"visa_id"`
	Email  string `json:"email"`
}

type VisaServiceOption func(*VisaService)

func WithNotificationsTopic(topic string) VisaServiceOption {
	return func(s *VisaService) {
		s.notificationsTopic = topic
	}
}

func NewVisaService(
	bookings repository.VisaBookingRepository,
	visas repository.VisaRepository,
	producer Producer,
	paymentTopic string,
	holdTTL time.Duration,
	opts ...VisaServiceOption,
) *VisaService {
	service := &VisaService{
		bookings:     bookings,
		visas:        visas,
		producer:     producer,
		paymentTopic: paymentTopic,
		holdTTL:      holdTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Apply creates a pending visa application. The application fee is a
// snapshot of the visa's fee at application time, never recomputed.
func (s *VisaService) Apply(ctx context.Context, input ApplyInput) (*domain.VisaBooking, error) {
	if input.VisaID == "" {
		return nil, errors.New("visa id is required")
	}
	if input.Email == "" {
		return nil, errors.New("email is required")
	}

	visa, err := s.visas.GetByID(ctx, input.VisaID)
	if err != nil {
		return nil, fmt.Errorf("load visa: %w", err)
	}

	booking := &domain.VisaBooking{
		VisaID:              visa.ID,
		TransactionID:       uuid.NewString(),
		Email:               input.Email,
		Country:             visa.Country,
		VisaType:            visa.VisaType,
		AmountCents:         visa.PriceCents,
		ApplicationFeeCents: pricing.BookingFee(visa.PriceCents, visa.ApplicationFeePercent),
		ExpiresAt:           time.Now().Add(s.holdTTL),
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "visa_application_created", booking); err != nil {
		fmt.Printf("WARNING: Failed to publish visa_application_created event for transaction %s: %v\n", booking.TransactionID, err)
	}
	return booking, nil
}

func (s *VisaService) VerifyTransaction(ctx context.Context, transactionID string) (*domain.VisaBooking, error) {
	if transactionID == "" {
		return nil, domain.ErrNotFound
	}
	return s.bookings.GetByTransactionID(ctx, transactionID)
}

func (s *VisaService) SettlePayment(ctx context.Context, transactionID string, succeeded bool, reason string) (*domain.VisaBooking, error) {
	updated, err := s.bookings.SettlePayment(ctx, transactionID, succeeded, reason)
	if errors.Is(err, domain.ErrAlreadySettled) {
		return s.bookings.GetByTransactionID(ctx, transactionID)
	}
	if err != nil {
		return nil, err
	}

	eventType := "visa_payment_failed"
	if succeeded {
		eventType = "visa_payment_settled"
	}
	if err := s.publish(ctx, eventType, updated); err != nil {
		fmt.Printf("WARNING: Failed to publish %s event for transaction %s: %v\n", eventType, updated.TransactionID, err)
	}
	return updated, nil
}

func (s *VisaService) ExpireStalePending(ctx context.Context) ([]domain.VisaBooking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for _, b := range expired {
		_ = s.publish(ctx, "visa_application_expired", &b)
	}
	return expired, nil
}

func (s *VisaService) publish(ctx context.Context, eventType string, booking *domain.VisaBooking) error {
	if s.producer == nil || s.paymentTopic == "" {
		return nil
	}
	event := kafka.PaymentEvent{
		Type:          eventType,
		TransactionID: booking.TransactionID,
		Kind:          "visa",
		Email:         booking.Email,
		AmountCents:   booking.AmountCents,
		FeeCents:      booking.ApplicationFeeCents,
		PaymentStatus: string(booking.PaymentStatus),
		Status:        string(booking.ApplicationStatus),
		Reason:        booking.FailureReason,
		OccurredAt:    time.Now(),
	}
	if err := s.producer.Publish(ctx, s.paymentTopic, booking.TransactionID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.TransactionID, event)
	}
	return nil
}

var _ VisaUseCase = (*VisaService)(nil)
