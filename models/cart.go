package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MetaGiftWrapLine = "gift_wrap_line"
	MetaParentLineID = "parent_line_id"
)

type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address_1"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone,omitempty"`
}

func (a *Address) Complete() bool {
	return a != nil && a.FirstName != "" && a.Address1 != "" && a.City != "" && a.CountryCode != ""
}

type LineItem struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cart_id"`
	VariantID string          `json:"variant_id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (l *LineItem) RecalculateTotal() {
	l.Total = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type ShippingMethod struct {
	OptionID              string           `json:"option_id"`
	Name                  string           `json:"name"`
	Amount                decimal.Decimal  `json:"amount"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
}

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

type Discount struct {
	Code   string          `json:"code"`
	Kind   DiscountKind    `json:"kind"`
	Value  decimal.Decimal `json:"value"`
	Active bool            `json:"active"`
}

// AmountFor never exceeds subtotal.
func (d *Discount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	if d == nil || !d.Active || subtotal.Sign() <= 0 {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch d.Kind {
	case DiscountPercentage:
		amount = subtotal.Mul(d.Value).Div(decimal.NewFromInt(100)).Round(2)
	case DiscountFixed:
		amount = d.Value
	default:
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

type GiftCard struct {
	Code    string          `json:"code"`
	Balance decimal.Decimal `json:"balance"`
}

type Cart struct {
	ID              string          `json:"id"`
	CurrencyCode    string          `json:"currency_code"`
	RegionID        string          `json:"region_id"`
	CustomerID      string          `json:"customer_id,omitempty"`
	Email           string          `json:"email,omitempty"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	Items           []LineItem      `json:"items"`
	ShippingMethod  *ShippingMethod `json:"shipping_method,omitempty"`
	PaymentSession  *PaymentSession `json:"payment_session,omitempty"`
	Discount        *Discount       `json:"discount,omitempty"`
	GiftCards       []GiftCard      `json:"gift_cards,omitempty"`
	TaxRate         decimal.Decimal `json:"tax_rate"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	ShippingTotal decimal.Decimal `json:"shipping_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	GiftCardTotal decimal.Decimal `json:"gift_card_total"`
	Total         decimal.Decimal `json:"total"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Recalculate derives every total from line items, shipping and discount.
// Total = sum(items) + shipping - discount; TaxTotal is the tax included in Total.
func (c *Cart) Recalculate() {
	subtotal := decimal.Zero
	for i := range c.Items {
		c.Items[i].RecalculateTotal()
		subtotal = subtotal.Add(c.Items[i].Total)
	}
	c.Subtotal = subtotal

	c.ShippingTotal = decimal.Zero
	if c.ShippingMethod != nil {
		c.ShippingTotal = ShippingAmountFor(c.ShippingMethod.Amount, c.ShippingMethod.FreeShippingThreshold, subtotal)
	}

	c.DiscountTotal = c.Discount.AmountFor(subtotal)
	c.Total = subtotal.Add(c.ShippingTotal).Sub(c.DiscountTotal)

	c.TaxTotal = decimal.Zero
	if c.TaxRate.Sign() > 0 {
		c.TaxTotal = c.Total.Mul(c.TaxRate).Div(decimal.NewFromInt(1).Add(c.TaxRate)).Round(2)
	}

	balance := decimal.Zero
	for _, gc := range c.GiftCards {
		balance = balance.Add(gc.Balance)
	}
	c.GiftCardTotal = decimal.Min(balance, c.Total)
}

// PaidByGiftCard reports whether gift cards cover the whole total.
func (c *Cart) PaidByGiftCard() bool {
	return len(c.GiftCards) > 0 && c.GiftCardTotal.GreaterThanOrEqual(c.Total)
}

func (c *Cart) FindItem(lineID string) (int, *LineItem) {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i, &c.Items[i]
		}
	}
	return -1, nil
}

func (c *Cart) IsCompleted() bool {
	return c.CompletedAt != nil
}

// Clone returns a deep copy so snapshots never share slices or maps.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = CloneItems(c.Items)
	if c.ShippingAddress != nil {
		addr := *c.ShippingAddress
		out.ShippingAddress = &addr
	}
	if c.ShippingMethod != nil {
		sm := *c.ShippingMethod
		out.ShippingMethod = &sm
	}
	if c.PaymentSession != nil {
		ps := *c.PaymentSession
		if c.PaymentSession.Data != nil {
			ps.Data = make(map[string]string, len(c.PaymentSession.Data))
			for k, v := range c.PaymentSession.Data {
				ps.Data[k] = v
			}
		}
		out.PaymentSession = &ps
	}
	if c.Discount != nil {
		d := *c.Discount
		out.Discount = &d
	}
	if c.GiftCards != nil {
		out.GiftCards = append([]GiftCard(nil), c.GiftCards...)
	}
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Metadata != nil {
			out[i].Metadata = make(map[string]any, len(item.Metadata))
			for k, v := range item.Metadata {
				out[i].Metadata[k] = v
			}
		}
	}
	return out
}
