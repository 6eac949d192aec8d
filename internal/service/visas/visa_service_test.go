package visas

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avelkov/tripdesk/internal/domain"
)

type MockVisaBookingRepository struct {
	mock.Mock
}

func (m *MockVisaBookingRepository) CreatePending(ctx context.Context, booking *domain.VisaBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockVisaBookingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.VisaBooking, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VisaBooking), args.Error(1)
}

func (m *MockVisaBookingRepository) SettlePayment(ctx context.Context, transactionID string, paid bool, reason string) (*domain.VisaBooking, error) {
	args := m.Called(ctx, transactionID, paid, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VisaBooking), args.Error(1)
}

func (m *MockVisaBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.VisaBooking, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.VisaBooking), args.Error(1)
}

type MockVisaRepository struct {
	mock.Mock
}

func (m *MockVisaRepository) GetByID(ctx context.Context, id string) (*domain.Visa, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visa), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestVisaService_Apply_SnapshotsFee(t *testing.T) {
	mockBookingRepo := &MockVisaBookingRepository{}
	mockVisaRepo := &MockVisaRepository{}
	mockProducer := &MockProducer{}

	service := &VisaService{
		bookings:     mockBookingRepo,
		visas:        mockVisaRepo,
		producer:     mockProducer,
		paymentTopic: "payment_topic",
		holdTTL:      30 * time.Minute,
	}

	ctx := context.Background()
	visa := &domain.Visa{
		ID:                    "visa-1",
		Country:               "Japan",
		VisaType:              "tourist",
		PriceCents:            30000,
		ApplicationFeePercent: decimal.NewFromInt(25),
	}

	mockVisaRepo.On("GetByID", ctx, "visa-1").Return(visa, nil).Once()
	mockBookingRepo.On("CreatePending", ctx, mock.AnythingOfType("*domain.VisaBooking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "payment_topic", mock.Anything, mock.Anything).Return(nil).Once()

	created, err := service.Apply(ctx, ApplyInput{VisaID: "visa-1", Email: "a@b.cd"})

	assert.NoError(t, err)
	assert.Equal(t, int64(30000), created.AmountCents)
	assert.Equal(t, int64(7500), created.ApplicationFeeCents)
	assert.Equal(t, "Japan", created.Country)
	assert.Equal(t, "tourist", created.VisaType)
	assert.NotEmpty(t, created.TransactionID)

	mockVisaRepo.AssertExpectations(t)
	mockBookingRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestVisaService_Apply_ValidationErrors(t *testing.T) {
	service := &VisaService{holdTTL: time.Minute}
	ctx := context.Background()

	testCases := []struct {
		name        string
		input       ApplyInput
		expectedErr string
	}{
		{
			name:        "missing visa id",
			input:       ApplyInput{Email: "a@b.cd"},
			expectedErr: "visa id is required",
		},
		{
			name:        "missing email",
			input:       ApplyInput{VisaID: "visa-1"},
			expectedErr: "email is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := service.Apply(ctx, tc.input)
			assert.Error(t, err)
			assert.Nil(t, created)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestVisaService_SettlePayment_ReplayIsIdempotent(t *testing.T) {
	mockBookingRepo := &MockVisaBookingRepository{}
	mockProducer := &MockProducer{}
	service := &VisaService{
		bookings:     mockBookingRepo,
		producer:     mockProducer,
		paymentTopic: "payment_topic",
	}

	ctx := context.Background()
	already := &domain.VisaBooking{
		TransactionID:       "tx-1",
		PaymentStatus:       domain.PaymentStatusPaid,
		ApplicationStatus:   domain.ApplicationStatusProcessing,
		ApplicationFeeCents: 7500,
	}
	mockBookingRepo.On("SettlePayment", ctx, "tx-1", true, "").Return(nil, domain.ErrAlreadySettled).Once()
	mockBookingRepo.On("GetByTransactionID", ctx, "tx-1").Return(already, nil).Once()

	updated, err := service.SettlePayment(ctx, "tx-1", true, "")

	assert.NoError(t, err)
	assert.Equal(t, already, updated)
	assert.Equal(t, int64(7500), updated.ApplicationFeeCents)
	mockProducer.AssertNotCalled(t, "Publish")
	mockBookingRepo.AssertExpectations(t)
}

func TestVisaService_VerifyTransaction_EmptyID(t *testing.T) {
	mockBookingRepo := &MockVisaBookingRepository{}
	service := &VisaService{bookings: mockBookingRepo}

	found, err := service.VerifyTransaction(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, found)
	mockBookingRepo.AssertNotCalled(t, "GetByTransactionID")
}
