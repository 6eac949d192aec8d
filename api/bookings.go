package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type checkoutRequest struct {
	TourID    string `json:"tour_id"`
	Email     string `json:"email"`
	Travelers int    `json:"travelers"`
}

// transactionResponse is the envelope the redirect landing pages consume:
// success plus either the record or a message, never both raw.
type transactionResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.checkout)
	router.GET("/transaction/:transactionId", h.byTransaction)
}

func (h *BookingHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Checkout(c.Request.Context(), booking.CheckoutInput{
		TourID:    req.TourID,
		Email:     req.Email,
		Travelers: req.Travelers,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) byTransaction(c *gin.Context) {
	found, err := h.service.VerifyTransaction(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, transactionResponse{Success: false, Message: "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, transactionResponse{Success: false, Message: "failed to verify transaction"})
		return
	}

	c.JSON(http.StatusOK, transactionResponse{Success: true, Data: found})
}
