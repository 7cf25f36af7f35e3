package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingService_ListForCartUsesCartSignature(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.readyCart()

	first, err := f.shippingSvc.ListForCart(ctx, "cart_1")
	require.NoError(t, err)
	require.Len(t, first.ShippingOptions, 2)
	require.NotNil(t, first.RegionID)
	assert.Equal(t, "reg_in", *first.RegionID)

	_, err = f.shippingSvc.ListForCart(ctx, "cart_1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.options.calls)

	_, err = f.cartSvc.AddLineItem(ctx, "cart_1", "var_blocks", 1)
	require.NoError(t, err)

	_, err = f.shippingSvc.ListForCart(ctx, "cart_1")
	require.NoError(t, err)
	assert.Equal(t, 2, f.options.calls)
}

func TestShippingService_MissingCart(t *testing.T) {
	f := newFixture()

	resp, err := f.shippingSvc.ListForCart(context.Background(), "cart_404")
	require.NoError(t, err)
	assert.Empty(t, resp.ShippingOptions)
	assert.Nil(t, resp.RegionID)
}

func TestShippingService_SelectOption(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.readyCart()

	cart, err := f.shippingSvc.SelectOption(ctx, "cart_1", "so_express")
	require.NoError(t, err)
	require.NotNil(t, cart.ShippingMethod)
	assert.Equal(t, "so_express", cart.ShippingMethod.OptionID)
	assert.True(t, decimal.RequireFromString("29.00").Equal(cart.Total))

	_, err = f.shippingSvc.SelectOption(ctx, "cart_1", "so_teleport")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShippingService_SelectOptionNeedsAddress(t *testing.T) {
	f := newFixture()
	cart := f.readyCart()
	cart.ShippingAddress = nil
	f.carts.put(cart)

	_, err := f.shippingSvc.SelectOption(context.Background(), "cart_1", "so_standard")
	assert.ErrorIs(t, err, ErrValidation)
}
