package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(id string, price string, qty int) LineItem {
	return LineItem{ID: id, UnitPrice: dec(price), Quantity: qty}
}

func TestRecalculate_TotalInvariant(t *testing.T) {
	threshold := dec("100")
	carts := []*Cart{
		{Items: []LineItem{line("a", "10.50", 2)}},
		{
			Items:          []LineItem{line("a", "19.99", 1), line("b", "5", 3)},
			ShippingMethod: &ShippingMethod{Amount: dec("4.95")},
			Discount:       &Discount{Code: "TEN", Kind: DiscountPercentage, Value: dec("10"), Active: true},
		},
		{
			Items:          []LineItem{line("a", "60", 2)},
			ShippingMethod: &ShippingMethod{Amount: dec("9"), FreeShippingThreshold: &threshold},
			Discount:       &Discount{Code: "FIVE", Kind: DiscountFixed, Value: dec("5"), Active: true},
			TaxRate:        dec("0.2"),
		},
		{Items: nil},
	}

	for _, c := range carts {
		c.Recalculate()
		sum := decimal.Zero
		for _, item := range c.Items {
			sum = sum.Add(item.Total)
		}
		expected := sum.Add(c.ShippingTotal).Sub(c.DiscountTotal)
		assert.True(t, expected.Equal(c.Total), "expected %s, got %s", expected, c.Total)
	}
}

func TestRecalculate_FreeShippingThreshold(t *testing.T) {
	threshold := dec("50")
	c := &Cart{
		Items:          []LineItem{line("a", "20", 1)},
		ShippingMethod: &ShippingMethod{Amount: dec("7"), FreeShippingThreshold: &threshold},
	}
	c.Recalculate()
	assert.True(t, dec("7").Equal(c.ShippingTotal))

	c.Items[0].Quantity = 3
	c.Recalculate()
	assert.True(t, c.ShippingTotal.IsZero())
	assert.True(t, dec("60").Equal(c.Total))
}

func TestDiscount_FixedIsCappedAtSubtotal(t *testing.T) {
	d := &Discount{Kind: DiscountFixed, Value: dec("30"), Active: true}
	assert.True(t, dec("12").Equal(d.AmountFor(dec("12"))))

	inactive := &Discount{Kind: DiscountFixed, Value: dec("30")}
	assert.True(t, inactive.AmountFor(dec("12")).IsZero())
}

func TestRecalculate_IncludedTax(t *testing.T) {
	c := &Cart{Items: []LineItem{line("a", "120", 1)}, TaxRate: dec("0.2")}
	c.Recalculate()
	assert.True(t, dec("20").Equal(c.TaxTotal))
	assert.True(t, dec("120").Equal(c.Total))
}

func TestPaidByGiftCard(t *testing.T) {
	c := &Cart{
		Items:     []LineItem{line("a", "25", 2)},
		GiftCards: []GiftCard{{Code: "GC1", Balance: dec("30")}},
	}
	c.Recalculate()
	assert.False(t, c.PaidByGiftCard())

	c.GiftCards = append(c.GiftCards, GiftCard{Code: "GC2", Balance: dec("40")})
	c.Recalculate()
	assert.True(t, c.PaidByGiftCard())
	assert.True(t, dec("50").Equal(c.GiftCardTotal))
}

func TestClone_IsDeep(t *testing.T) {
	c := &Cart{
		ID: "cart_1",
		Items: []LineItem{{
			ID:       "li_1",
			Quantity: 1,
			Metadata: map[string]any{"note": "blue"},
		}},
		PaymentSession: &PaymentSession{ProviderID: "pp_payu_payu", Data: map[string]string{"txnid": "T1"}},
	}
	cp := c.Clone()
	require.NotNil(t, cp)

	cp.Items[0].Quantity = 5
	cp.Items[0].Metadata["note"] = "red"
	cp.PaymentSession.Data["txnid"] = "T2"

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, "blue", c.Items[0].Metadata["note"])
	assert.Equal(t, "T1", c.PaymentSession.Data["txnid"])
	assert.Nil(t, (*Cart)(nil).Clone())
}

func TestPaymentProviderDiscount_Apply(t *testing.T) {
	d := &PaymentProviderDiscount{ProviderID: "pp_payu_payu", Percentage: dec("5"), Active: true}
	assert.True(t, dec("95").Equal(d.Apply(dec("100"))))

	d.Active = false
	assert.True(t, dec("100").Equal(d.Apply(dec("100"))))
}
