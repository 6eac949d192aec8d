package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Visa struct {
	ID                    string          `json:"id"`
	Country               string          `json:"country"`
	VisaType              string          `json:"visa_type"`
	PriceCents            int64           `json:"price"`
	ApplicationFeePercent decimal.Decimal `json:"application_fee_percentage"`
	Position              int             `json:"position"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
