package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentSessionStatus string

const (
	PaymentSessionPending    PaymentSessionStatus = "pending"
	PaymentSessionAuthorized PaymentSessionStatus = "authorized"
	PaymentSessionError      PaymentSessionStatus = "error"
)

type PaymentSession struct {
	ID         string               `json:"id"`
	CartID     string               `json:"cart_id"`
	ProviderID string               `json:"provider_id"`
	Status     PaymentSessionStatus `json:"status"`
	Data       map[string]string    `json:"data,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

type PaymentProvider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PaymentProviderDiscount struct {
	ProviderID string          `json:"provider_id"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     bool            `json:"active"`
}

// Apply returns the displayed total after the provider discount; line totals are untouched.
func (d *PaymentProviderDiscount) Apply(total decimal.Decimal) decimal.Decimal {
	if d == nil || !d.Active || d.Percentage.Sign() <= 0 {
		return total
	}
	off := total.Mul(d.Percentage).Div(decimal.NewFromInt(100)).Round(2)
	return total.Sub(off)
}
