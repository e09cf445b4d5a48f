package order

import "github.com/shopspring/decimal"

// taxRate is the VAT applied to order subtotals.
var taxRate = decimal.RequireFromString("0.16")

// Totals holds the derived financial figures of an order aggregate.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ItemSubtotal computes (unitPrice + sum(modifierPrices)) * quantity.
func ItemSubtotal(unitPrice decimal.Decimal, modifiers []ItemModifier, quantity int) decimal.Decimal {
	perUnit := unitPrice
	for _, m := range modifiers {
		perUnit = perUnit.Add(m.PriceAtTime)
	}
	return perUnit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ComputeTotals re-derives subtotal, tax, and total from the full aggregate.
// This is the single write path for totals: item, modifier, and discount
// mutations all go through it, so total always equals
// subtotal + tax - sum(discount amounts), floored at zero. Discount amounts
// are the frozen values captured at application time.
func ComputeTotals(items []Item, discounts []AppliedDiscount) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	discounted := decimal.Zero
	for _, d := range discounts {
		discounted = discounted.Add(d.Amount)
	}

	total := subtotal.Add(tax).Sub(discounted)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total.Round(2),
	}
}
