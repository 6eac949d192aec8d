package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/pricing"
	"github.com/avelkov/tripdesk/internal/repository"
)

type TourHandler struct {
	tours repository.TourRepository
}

// tourResponse augments the stored tour with the derived selling price and
// the fee the customer would pay at checkout today.
type tourResponse struct {
	domain.Tour
	SellPriceCents int64 `json:"sell_price"`
	BookingFee     int64 `json:"booking_fee_due"`
}

func NewTourHandler(tours repository.TourRepository) *TourHandler {
	return &TourHandler{tours: tours}
}

func (h *TourHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *TourHandler) list(c *gin.Context) {
	tours, err := h.tours.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]tourResponse, 0, len(tours))
	for _, t := range tours {
		out = append(out, toTourResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *TourHandler) get(c *gin.Context) {
	tour, err := h.tours.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toTourResponse(*tour))
}

func toTourResponse(t domain.Tour) tourResponse {
	return tourResponse{
		Tour:           t,
		SellPriceCents: pricing.DiscountedPrice(t.BasePriceCents, t.Offer),
		BookingFee:     pricing.BookingFee(t.BasePriceCents, t.BookingFeePercent),
	}
}
