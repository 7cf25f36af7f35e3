package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Variant struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (v Variant) DisplayTitle() string {
	if v.Title == "" || v.Title == v.ProductTitle {
		return v.ProductTitle
	}
	return v.ProductTitle + " - " + v.Title
}
