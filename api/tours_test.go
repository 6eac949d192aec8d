package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avelkov/tripdesk/internal/domain"
)

type MockTourRepository struct {
	mock.Mock
}

func (m *MockTourRepository) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tour), args.Error(1)
}

func (m *MockTourRepository) List(ctx context.Context) ([]domain.Tour, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Tour), args.Error(1)
}

func TestTourHandler_get_derivesPrices(t *testing.T) {
	mockRepo := &MockTourRepository{}
	handler := NewTourHandler(mockRepo)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "tour-1"}}
	c.Request = httptest.NewRequest("GET", "/tours/tour-1", nil)

	tour := &domain.Tour{
		ID:                "tour-1",
		BasePriceCents:    50000,
		BookingFeePercent: decimal.NewFromInt(20),
		Offer:             &domain.Offer{Active: true, Type: domain.DiscountPercentage, Percent: decimal.NewFromInt(10)},
	}
	mockRepo.On("GetByID", c.Request.Context(), "tour-1").Return(tour, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SellPrice  int64 `json:"sell_price"`
		BookingFee int64 `json:"booking_fee_due"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(45000), resp.SellPrice)
	// fee is charged on the undiscounted base price
	assert.Equal(t, int64(10000), resp.BookingFee)
	mockRepo.AssertExpectations(t)
}

func TestTourHandler_get_notFound(t *testing.T) {
	mockRepo := &MockTourRepository{}
	handler := NewTourHandler(mockRepo)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/tours/missing", nil)

	mockRepo.On("GetByID", c.Request.Context(), "missing").Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTourHandler_list(t *testing.T) {
	mockRepo := &MockTourRepository{}
	handler := NewTourHandler(mockRepo)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/tours/", nil)

	tours := []domain.Tour{
		{ID: "tour-1", BasePriceCents: 10000, BookingFeePercent: decimal.NewFromInt(20)},
	}
	mockRepo.On("List", c.Request.Context()).Return(tours, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}
