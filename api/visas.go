package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/service/visas"
)

type VisaBookingHandler struct {
	service visas.VisaUseCase
}

type visaApplyRequest struct {
	VisaID string `json:"visa_id"`
	Email  string `json:"email"`
}

func NewVisaBookingHandler(service visas.VisaUseCase) *VisaBookingHandler {
	return &VisaBookingHandler{service: service}
}

func (h *VisaBookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.apply)
	router.GET("/transaction/:transactionId", h.byTransaction)
}

func (h *VisaBookingHandler) apply(c *gin.Context) {
	var req visaApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Apply(c.Request.Context(), visas.ApplyInput{
		VisaID: req.VisaID,
		Email:  req.Email,
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

func (h *VisaBookingHandler) byTransaction(c *gin.Context) {
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
