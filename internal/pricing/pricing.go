// Package pricing derives customer-facing prices and deposit fees from a
// tour's base price and its promotional offer. All functions are pure:
// no I/O, no mutation, safe to call repeatedly with the same inputs.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/avelkov/tripdesk/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// DiscountedPrice returns the sellable price in cents for a base price and
// an optional offer. A nil or inactive offer leaves the base price
// unchanged. The result is never negative; out-of-range inputs clamp to
// zero instead of propagating.
func DiscountedPrice(baseCents int64, offer *domain.Offer) int64 {
	if baseCents < 0 {
		baseCents = 0
	}
	if offer == nil || !offer.Active {
		return baseCents
	}

	base := decimal.NewFromInt(baseCents)
	var price decimal.Decimal
	switch offer.Type {
	case domain.DiscountFlat:
		price = base.Sub(decimal.NewFromInt(max(0, offer.FlatDiscountCents)))
	case domain.DiscountPercentage:
		price = base.Sub(base.Mul(clampPercent(offer.Percent)).Div(hundred))
	default:
		return baseCents
	}

	if price.IsNegative() {
		return 0
	}
	return price.Round(0).IntPart()
}

// BookingFee returns the deposit charged at checkout, in cents, as a
// percentage of the undiscounted base price. The fee is deliberately
// computed against the base price, not the discounted one.
func BookingFee(baseCents int64, feePercent decimal.Decimal) int64 {
	if baseCents < 0 {
		return 0
	}
	fee := decimal.NewFromInt(baseCents).Mul(clampPercent(feePercent)).Div(hundred)
	return fee.Round(0).IntPart()
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
