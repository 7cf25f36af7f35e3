package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"toy-store/cache"
	"toy-store/models"
)

type ShippingService struct {
	carts   *CartService
	repo    CartRepository
	options ShippingOptionRepository
	cache   cache.ShippingOptionsCache
	timeout time.Duration
	logger  *zap.Logger
}

func NewShippingService(carts *CartService, repo CartRepository, options ShippingOptionRepository, optionsCache cache.ShippingOptionsCache, timeout time.Duration, logger *zap.Logger) *ShippingService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingService{
		carts:   carts,
		repo:    repo,
		options: options,
		cache:   optionsCache,
		timeout: timeout,
		logger:  logger,
	}
}

// ListForCart returns the options for the cart's current signature. A
// missing cart yields an empty list and a nil region.
func (s *ShippingService) ListForCart(ctx context.Context, cartID string) (*models.ShippingOptionsResponse, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if errors.Is(err, ErrNotFound) {
		return &models.ShippingOptionsResponse{ShippingOptions: []models.ShippingOption{}}, nil
	}
	if err != nil {
		return nil, err
	}

	options, err := s.optionsFor(ctx, cart)
	if err != nil {
		return nil, err
	}
	regionID := cart.RegionID
	return &models.ShippingOptionsResponse{ShippingOptions: options, RegionID: &regionID}, nil
}

func (s *ShippingService) optionsFor(ctx context.Context, cart *models.Cart) ([]models.ShippingOption, error) {
	key := cache.ShippingKey{CartID: cart.ID, RegionID: cart.RegionID, UpdatedAt: cart.UpdatedAt}
	regionID := cart.RegionID
	options, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]models.ShippingOption, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.options.ListByRegion(ctx, regionID)
	})
	if err != nil {
		s.logger.Error("shipping options fetch failed", zap.String("cart_id", cart.ID), zap.Error(err))
		return nil, fmt.Errorf("fetch shipping options: %w", err)
	}
	if options == nil {
		options = []models.ShippingOption{}
	}
	return options, nil
}

// SelectOption sets the cart's shipping method to one of the options offered
// for its current signature.
func (s *ShippingService) SelectOption(ctx context.Context, cartID, optionID string) (*models.Cart, error) {
	cart, err := s.carts.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.ShippingAddress.Complete() {
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	}

	options, err := s.optionsFor(ctx, cart)
	if err != nil {
		return nil, err
	}
	var chosen *models.ShippingOption
	for i := range options {
		if options[i].ID == optionID {
			chosen = &options[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: shipping option %q is not available for this cart", ErrValidation, optionID)
	}

	cart.ShippingMethod = chosen.Method()
	if err := s.repo.UpdateDetails(ctx, cart); err != nil {
		return nil, err
	}
	return s.carts.refresh(ctx, cart.ID)
}
