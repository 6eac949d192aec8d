package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountFlat       DiscountType = "flat"
	DiscountPercentage DiscountType = "percentage"
)

// Offer is a promotional discount attached to a tour. Exactly one of
// FlatDiscountCents/Percent is meaningful, selected by Type. An inactive
// offer never affects price.
type Offer struct {
	Active            bool            `json:"is_active"`
	Type              DiscountType    `json:"discount_type"`
	FlatDiscountCents int64           `json:"flat_discount,omitempty"`
	Percent           decimal.Decimal `json:"discount_percentage,omitempty"`
}

type Tour struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	BasePriceCents    int64           `json:"base_price"`
	BookingFeePercent decimal.Decimal `json:"booking_fee_percentage"`
	Offer             *Offer          `json:"offer,omitempty"`
	Position          int             `json:"position"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
