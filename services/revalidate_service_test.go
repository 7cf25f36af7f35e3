package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toy-store/cache"
	"toy-store/models"
)

func TestRevalidateService_DedupesTagsAndPaths(t *testing.T) {
	tags := &mockTagInvalidator{}
	svc := NewRevalidateService(tags, nil, nil)

	resp, err := svc.Revalidate(context.Background(), models.RevalidateRequest{
		Tags:  []string{"products", " products", "carts", ""},
		Paths: []string{"/store/products", "/store/products"},
	})
	require.NoError(t, err)

	assert.True(t, resp.Revalidated)
	assert.Equal(t, []string{"products", "carts"}, resp.Tags)
	assert.Equal(t, []string{"/store/products"}, resp.Paths)
	assert.Equal(t, []string{"products", "carts"}, tags.tags)
	assert.Equal(t, []string{"/store/products"}, tags.paths)
}

func TestRevalidateService_EmptyPayload(t *testing.T) {
	tags := &mockTagInvalidator{}
	svc := NewRevalidateService(tags, nil, nil)

	_, err := svc.Revalidate(context.Background(), models.RevalidateRequest{Tags: []string{" "}})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, tags.tags)
}

func TestRevalidateService_ShippingTagPurgesOptions(t *testing.T) {
	shipping := cache.NewMemoryShippingCache(time.Minute)
	key := cache.ShippingKey{CartID: "cart_1", RegionID: "reg_in", UpdatedAt: time.Now()}
	_, err := shipping.GetOrFetch(context.Background(), key, func(context.Context) ([]models.ShippingOption, error) {
		return []models.ShippingOption{{ID: "so_standard", Amount: decimal.NewFromInt(4)}}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, shipping.Len())

	svc := NewRevalidateService(&mockTagInvalidator{}, shipping, nil)
	_, err = svc.Revalidate(context.Background(), models.RevalidateRequest{Tags: []string{cache.TagShipping}})
	require.NoError(t, err)

	assert.Equal(t, 0, shipping.Len())
}

func TestRevalidateService_InvalidationError(t *testing.T) {
	svc := NewRevalidateService(&mockTagInvalidator{err: errors.New("redis down")}, nil, nil)

	_, err := svc.Revalidate(context.Background(), models.RevalidateRequest{Tags: []string{"carts"}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}
