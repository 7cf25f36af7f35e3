package models

import "github.com/shopspring/decimal"

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type LoginResponse struct {
	Token    string   `json:"token"`
	Customer Customer `json:"customer"`
}

// CartResponse is the cart read payload; Cart is null when no cart exists.
type CartResponse struct {
	Cart    *Cart        `json:"cart"`
	Pricing *CartPricing `json:"pricing,omitempty"`
}

type CartPricing struct {
	DisplayTotal     decimal.Decimal   `json:"display_total"`
	ProviderDiscount string            `json:"provider_discount,omitempty"`
	Formatted        map[string]string `json:"formatted"`
}

type ShippingOptionsResponse struct {
	ShippingOptions []ShippingOption `json:"shippingOptions"`
	RegionID        *string          `json:"regionId"`
}

type PaymentRequest struct {
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

type RevalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Tags        []string `json:"tags"`
	Paths       []string `json:"paths"`
}

type MetaData struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type PaginationResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    MetaData    `json:"meta"`
}
