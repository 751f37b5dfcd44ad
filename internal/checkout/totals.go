// Package checkout computes order totals client-side for display and
// drives order submission. The server re-validates everything; nothing here
// is a pricing authority.
package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/luxurygifts/storefront/internal/cart"
	"github.com/luxurygifts/storefront/internal/coupon"
)

// Pricing holds the fixed client-side rate constants.
type Pricing struct {
	TaxRate      decimal.Decimal
	FlatShipping decimal.Decimal
}

// DefaultPricing is 5% tax and a 10.00 flat shipping rate.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:      decimal.NewFromFloat(0.05),
		FlatShipping: decimal.NewFromInt(10),
	}
}

type Totals struct {
	Subtotal            decimal.Decimal
	Tax                 decimal.Decimal
	Shipping            decimal.Decimal
	Discount            decimal.Decimal
	Total               decimal.Decimal
	PromotionalShipping bool
}

// ComputeTotals derives the checkout summary from the cart and the applied
// coupon, if any. Tax is computed on the subtotal before the discount. The
// total is clamped at zero: a discount larger than the rest of the order
// never produces a negative amount due.
func ComputeTotals(items []cart.Item, applied *coupon.Applied, p Pricing) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	promo := hasPromotionalShipping(items)
	shipping := p.FlatShipping
	if promo {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(p.TaxRate).Round(2)

	discount := decimal.Zero
	if applied != nil {
		discount = decimal.NewFromFloat(applied.DiscountAmount)
	}

	total := subtotal.Add(tax).Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:            subtotal,
		Tax:                 tax,
		Shipping:            shipping,
		Discount:            discount,
		Total:               total,
		PromotionalShipping: promo,
	}
}

// hasPromotionalShipping reports whether any item qualifies for the
// romantic-gift free-shipping promotion: its name, tags, and description
// together must contain both keywords, case-insensitively.
func hasPromotionalShipping(items []cart.Item) bool {
	for _, item := range items {
		var sb strings.Builder
		sb.WriteString(item.Name)
		for _, tag := range item.Tags {
			sb.WriteByte(' ')
			sb.WriteString(tag)
		}
		sb.WriteByte(' ')
		sb.WriteString(item.Description)

		haystack := strings.ToLower(sb.String())
		if strings.Contains(haystack, "romantic") && strings.Contains(haystack, "gift") {
			return true
		}
	}
	return false
}
