package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending       OrderStatus = "pending"
	OrderPaid          OrderStatus = "paid"
	OrderPaymentFailed OrderStatus = "payment_failed"
)

type Order struct {
	ID                string          `json:"id"`
	DisplayID         int64           `json:"display_id"`
	CartID            string          `json:"cart_id"`
	CustomerID        string          `json:"customer_id,omitempty"`
	Email             string          `json:"email"`
	CurrencyCode      string          `json:"currency_code"`
	Total             decimal.Decimal `json:"total"`
	Status            OrderStatus     `json:"status"`
	PaymentProviderID string          `json:"payment_provider_id,omitempty"`
	TxnID             string          `json:"txn_id,omitempty"`
	ShippingAddress   *Address        `json:"shipping_address,omitempty"`
	Items             []LineItem      `json:"items,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
