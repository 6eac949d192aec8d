package booking

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

type BookingUseCase interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Booking, error)
	VerifyTransaction(ctx context.Context, transactionID string) (*domain.Booking, error)
	SettlePayment(ctx context.Context, transactionID string, succeeded bool, reason string) (*domain.Booking, error)
	ExpireStalePending(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	tours              repository.TourRepository
	producer           Producer
	paymentTopic       string
	notificationsTopic string
	holdTTL            time.Duration
}

type CheckoutInput struct {
	TourID    string `json:"tour_id"`
	Email     string `json:"email"`
	Travelers int    `json:"travelers"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	tours repository.TourRepository,
	producer Producer,
	paymentTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		tours:        tours,
		producer:     producer,
		paymentTopic: paymentTopic,
		holdTTL:      holdTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Checkout creates a pending booking for a tour. The amount and the booking
// fee are computed once here and persisted as snapshots; later changes to
// the tour's price never touch an existing booking.
func (s *BookingService) Checkout(ctx context.Context, input CheckoutInput) (*domain.Booking, error) {
	if input.TourID == "" {
		return nil, errors.New("tour id is required")
	}
	if input.Email == "" {
		return nil, errors.New("email is required")
	}
	if input.Travelers <= 0 {
		return nil, errors.New("travelers must be positive")
	}

	tour, err := s.tours.GetByID(ctx, input.TourID)
	if err != nil {
		return nil, fmt.Errorf("load tour: %w", err)
	}

	booking := &domain.Booking{
		TourID:          tour.ID,
		TransactionID:   uuid.NewString(),
		Email:           input.Email,
		Travelers:       input.Travelers,
		AmountCents:     pricing.DiscountedPrice(tour.BasePriceCents, tour.Offer),
		BookingFeeCents: pricing.BookingFee(tour.BasePriceCents, tour.BookingFeePercent),
		ExpiresAt:       time.Now().Add(s.holdTTL),
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "booking_created", booking); err != nil {
		fmt.Printf("WARNING: Failed to publish booking_created event for transaction %s: %v\n", booking.TransactionID, err)
	}
	return booking, nil
}

// VerifyTransaction is a pure read of already-settled server state, keyed by
// the gateway's transaction ID. It never mutates, so redirect pages may
// repeat it freely.
func (s *BookingService) VerifyTransaction(ctx context.Context, transactionID string) (*domain.Booking, error) {
	if transactionID == "" {
		return nil, domain.ErrNotFound
	}
	return s.bookings.GetByTransactionID(ctx, transactionID)
}

// SettlePayment applies the webhook-driven pending -> paid/failed
// transition exactly once. A replayed webhook gets the already settled
// record back and publishes nothing.
func (s *BookingService) SettlePayment(ctx context.Context, transactionID string, succeeded bool, reason string) (*domain.Booking, error) {
	updated, err := s.bookings.SettlePayment(ctx, transactionID, succeeded, reason)
	if errors.Is(err, domain.ErrAlreadySettled) {
		return s.bookings.GetByTransactionID(ctx, transactionID)
	}
	if err != nil {
		return nil, err
	}

	eventType := "payment_failed"
	if succeeded {
		eventType = "payment_settled"
	}
	if err := s.publish(ctx, eventType, updated); err != nil {
		fmt.Printf("WARNING: Failed to publish %s event for transaction %s: %v\n", eventType, updated.TransactionID, err)
	}
	return updated, nil
}

func (s *BookingService) ExpireStalePending(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for _, b := range expired {
		_ = s.publish(ctx, "booking_expired", &b)
	}
	return expired, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.paymentTopic == "" {
		return nil
	}
	event := kafka.PaymentEvent{
		Type:          eventType,
		TransactionID: booking.TransactionID,
		Kind:          "tour",
		Email:         booking.Email,
		AmountCents:   booking.AmountCents,
		FeeCents:      booking.BookingFeeCents,
		PaymentStatus: string(booking.PaymentStatus),
		Status:        string(booking.Status),
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

var _ BookingUseCase = (*BookingService)(nil)
