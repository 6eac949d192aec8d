package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/reconcile"
	"github.com/avelkov/tripdesk/internal/service/visas"
)

type MockVisaUseCase struct {
	mock.Mock
}

func (m *MockVisaUseCase) Apply(ctx context.Context, input visas.ApplyInput) (*domain.VisaBooking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VisaBooking), args.Error(1)
}

func (m *MockVisaUseCase) VerifyTransaction(ctx context.Context, transactionID string) (*domain.VisaBooking, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VisaBooking), args.Error(1)
}

func (m *MockVisaUseCase) SettlePayment(ctx context.Context, transactionID string, succeeded bool, reason string) (*domain.VisaBooking, error) {
	args := m.Called(ctx, transactionID, succeeded, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VisaBooking), args.Error(1)
}

func (m *MockVisaUseCase) ExpireStalePending(ctx context.Context) ([]domain.VisaBooking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VisaBooking), args.Error(1)
}

type landingResponse struct {
	State   string          `json:"state"`
	Success bool            `json:"success"`
	Reason  string          `json:"reason"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestPaymentHandler_notify_settles(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	mockVisas := &MockVisaUseCase{}
	handler := NewPaymentHandler(mockBookings, mockVisas)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"transaction_id":"tx-1","succeeded":true}`)
	c.Request = httptest.NewRequest("POST", "/payments/notify", body)
	c.Request.Header.Set("Content-Type", "application/json")

	settled := &domain.Booking{TransactionID: "tx-1", PaymentStatus: domain.PaymentStatusPaid}
	mockBookings.On("SettlePayment", c.Request.Context(), "tx-1", true, "").Return(settled, nil)

	handler.notify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockBookings.AssertExpectations(t)
	mockVisas.AssertNotCalled(t, "SettlePayment")
}

func TestPaymentHandler_notify_routesVisaKind(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	mockVisas := &MockVisaUseCase{}
	handler := NewPaymentHandler(mockBookings, mockVisas)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"transaction_id":"tx-2","kind":"visa","succeeded":false,"reason":"payment_failed"}`)
	c.Request = httptest.NewRequest("POST", "/payments/notify", body)
	c.Request.Header.Set("Content-Type", "application/json")

	settled := &domain.VisaBooking{TransactionID: "tx-2", PaymentStatus: domain.PaymentStatusFailed}
	mockVisas.On("SettlePayment", c.Request.Context(), "tx-2", false, "payment_failed").Return(settled, nil)

	handler.notify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockVisas.AssertExpectations(t)
	mockBookings.AssertNotCalled(t, "SettlePayment")
}

func TestPaymentHandler_success_landing(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	mockVisas := &MockVisaUseCase{}
	handler := NewPaymentHandler(mockBookings, mockVisas)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/success?tran_id=tx-1", nil)

	found := &domain.Booking{TransactionID: "tx-1", PaymentStatus: domain.PaymentStatusPaid}
	mockBookings.On("VerifyTransaction", mock.Anything, "tx-1").Return(found, nil)

	handler.landing(false)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp landingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, string(reconcile.StateSettled), resp.State)
	mockBookings.AssertExpectations(t)
}

func TestPaymentHandler_landing_missingTransactionID(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	mockVisas := &MockVisaUseCase{}
	handler := NewPaymentHandler(mockBookings, mockVisas)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/success", nil)

	handler.landing(false)(c)

	var resp landingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(reconcile.StateNotFound), resp.State)
	assert.Equal(t, string(reconcile.ReasonNoTransactionID), resp.Reason)
	// no verification fetch was made
	mockBookings.AssertNotCalled(t, "VerifyTransaction")
}

func TestPaymentHandler_fail_landing_gatewayErrorPrecedence(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	mockVisas := &MockVisaUseCase{}
	handler := NewPaymentHandler(mockBookings, mockVisas)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/fail?tran_id=tx-1&error=payment_failed", nil)

	handler.landing(false)(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	var resp landingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(reconcile.ReasonPaymentFailed), resp.Reason)
	// the gateway already reported the outcome; no fetch
	mockBookings.AssertNotCalled(t, "VerifyTransaction")
}

func TestPaymentHandler_cancel_landing(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	mockVisas := &MockVisaUseCase{}
	handler := NewPaymentHandler(mockBookings, mockVisas)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/cancel", nil)

	handler.landing(true)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp landingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(reconcile.StateCancelled), resp.State)
	mockBookings.AssertNotCalled(t, "VerifyTransaction")
	mockVisas.AssertNotCalled(t, "VerifyTransaction")
}

func TestPaymentHandler_landing_selectsVisaVerifier(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	mockVisas := &MockVisaUseCase{}
	handler := NewPaymentHandler(mockBookings, mockVisas)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/success?tran_id=tx-9&applicationId=app-1&visaType=tourist", nil)

	found := &domain.VisaBooking{TransactionID: "tx-9", PaymentStatus: domain.PaymentStatusPaid}
	mockVisas.On("VerifyTransaction", mock.Anything, "tx-9").Return(found, nil)

	handler.landing(false)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockVisas.AssertExpectations(t)
	mockBookings.AssertNotCalled(t, "VerifyTransaction")
}
