package models

import "github.com/shopspring/decimal"

type ShippingOption struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	RegionID              string           `json:"region_id"`
	Amount                decimal.Decimal  `json:"amount"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
}

// AmountFor is the price charged for a cart with the given subtotal.
func (o ShippingOption) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	return ShippingAmountFor(o.Amount, o.FreeShippingThreshold, subtotal)
}

func ShippingAmountFor(amount decimal.Decimal, threshold *decimal.Decimal, subtotal decimal.Decimal) decimal.Decimal {
	if threshold != nil && subtotal.GreaterThanOrEqual(*threshold) {
		return decimal.Zero
	}
	return amount
}

func (o ShippingOption) Method() *ShippingMethod {
	return &ShippingMethod{
		OptionID:              o.ID,
		Name:                  o.Name,
		Amount:                o.Amount,
		FreeShippingThreshold: o.FreeShippingThreshold,
	}
}

type Region struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currency_code"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
}
