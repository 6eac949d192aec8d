package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/reconcile"
	"github.com/avelkov/tripdesk/internal/service/booking"
	"github.com/avelkov/tripdesk/internal/service/visas"
)

// PaymentHandler owns the gateway-facing surface: the webhook that settles
// payments and the redirect landing pages that only read.
type PaymentHandler struct {
	bookings booking.BookingUseCase
	visas    visas.VisaUseCase
}

type webhookRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Kind          string `json:"kind"`
	Succeeded     bool   `json:"succeeded"`
	Reason        string `json:"reason"`
}

func NewPaymentHandler(bookings booking.BookingUseCase, visaSvc visas.VisaUseCase) *PaymentHandler {
	return &PaymentHandler{bookings: bookings, visas: visaSvc}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/notify", h.notify)
	router.GET("/success", h.landing(false))
	router.GET("/fail", h.landing(false))
	router.GET("/cancel", h.landing(true))
}

// notify is the server-to-server settlement call from the payment gateway.
// It is the only mutation in the payment flow and it is idempotent: a
// replayed webhook returns the already settled record.
func (h *PaymentHandler) notify(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		settled interface{}
		err     error
	)
	if req.Kind == "visa" {
		settled, err = h.visas.SettlePayment(c.Request.Context(), req.TransactionID, req.Succeeded, req.Reason)
	} else {
		settled, err = h.bookings.SettlePayment(c.Request.Context(), req.TransactionID, req.Succeeded, req.Reason)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settled)
}

// landing resolves a gateway redirect to a terminal outcome via the
// reconciler. Visa redirects carry visa context parameters, which select
// the visa verifier; everything else goes to the booking verifier.
func (h *PaymentHandler) landing(cancelled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := map[string]string{
			"tran_id":       c.Query("tran_id"),
			"transactionId": c.Query("transactionId"),
			"error":         c.Query("error"),
			"applicationId": c.Query("applicationId"),
			"country":       c.Query("country"),
			"visaType":      c.Query("visaType"),
			"amount":        c.Query("amount"),
		}
		params := reconcile.ParseRedirect(query, cancelled)

		var verifier reconcile.Verifier
		if params.ApplicationID != "" || params.VisaType != "" {
			verifier = visaVerifier{h.visas}
		} else {
			verifier = bookingVerifier{h.bookings}
		}

		outcome := reconcile.New(verifier).Reconcile(c.Request.Context(), params)
		status := http.StatusOK
		if !outcome.Success && outcome.State != reconcile.StateCancelled {
			status = http.StatusPaymentRequired
		}
		c.JSON(status, gin.H{
			"state":   outcome.State,
			"success": outcome.Success,
			"reason":  outcome.Reason,
			"message": outcome.Message,
			"data":    outcome.Booking,
		})
	}
}

type bookingVerifier struct {
	service booking.BookingUseCase
}

func (v bookingVerifier) VerifyTransaction(ctx context.Context, transactionID string) (*reconcile.Verification, error) {
	found, err := v.service.VerifyTransaction(ctx, transactionID)
	if errors.Is(err, domain.ErrNotFound) {
		return &reconcile.Verification{Success: false, Message: "transaction not found"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &reconcile.Verification{Success: true, Booking: found}, nil
}

type visaVerifier struct {
	service visas.VisaUseCase
}

func (v visaVerifier) VerifyTransaction(ctx context.Context, transactionID string) (*reconcile.Verification, error) {
	found, err := v.service.VerifyTransaction(ctx, transactionID)
	if errors.Is(err, domain.ErrNotFound) {
		return &reconcile.Verification{Success: false, Message: "transaction not found"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &reconcile.Verification{Success: true, Booking: found}, nil
}

var (
	_ reconcile.Verifier = bookingVerifier{}
	_ reconcile.Verifier = visaVerifier{}
)
