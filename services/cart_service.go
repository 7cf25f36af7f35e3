package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"toy-store/cache"
	"toy-store/giftwrap"
	"toy-store/models"
	"toy-store/repositories"
	"toy-store/utils"
)

const MaxLineQuantity = 99

type CartServiceConfig struct {
	GiftWrapVariantID string
	Cache             TagInvalidator
	Logger            *zap.Logger
}

type CartService struct {
	carts             CartRepository
	variants          VariantRepository
	discounts         DiscountRepository
	payments          PaymentRepository
	cache             TagInvalidator
	giftWrapVariantID string
	logger            *zap.Logger
}

func NewCartService(carts CartRepository, variants VariantRepository, discounts DiscountRepository, payments PaymentRepository, cfg CartServiceConfig) *CartService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		carts:             carts,
		variants:          variants,
		discounts:         discounts,
		payments:          payments,
		cache:             cfg.Cache,
		giftWrapVariantID: cfg.GiftWrapVariantID,
		logger:            logger,
	}
}

func (s *CartService) Create(ctx context.Context, regionID string, customer *models.Customer) (*models.Cart, error) {
	region, err := s.carts.FindRegion(ctx, regionID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown region %q", ErrValidation, regionID)
	}
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{
		ID:           "cart_" + uuid.NewString(),
		RegionID:     region.ID,
		CurrencyCode: region.CurrencyCode,
		TaxRate:      region.TaxRate,
		Items:        []models.LineItem{},
	}
	if customer != nil {
		cart.CustomerID = customer.ID
		cart.Email = customer.Email
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	cart.Recalculate()
	return cart, nil
}

// Get loads a cart, drops orphaned gift-wrap lines and recomputes totals.
func (s *CartService) Get(ctx context.Context, id string) (*models.Cart, error) {
	cart, err := s.carts.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.dropOrphans(ctx, cart)
	cart.Recalculate()
	return cart, nil
}

func (s *CartService) dropOrphans(ctx context.Context, cart *models.Cart) {
	kept, orphans := giftwrap.DropOrphans(cart.Items)
	if len(orphans) == 0 {
		return
	}
	ids := make([]string, 0, len(orphans))
	for _, orphan := range orphans {
		parentID, _ := giftwrap.ParentID(orphan)
		s.logger.Warn("dropping orphaned gift wrap line",
			zap.String("cart_id", cart.ID),
			zap.String("line_id", orphan.ID),
			zap.String("parent_line_id", parentID),
		)
		ids = append(ids, orphan.ID)
	}
	cart.Items = kept

	if cart.IsCompleted() {
		return
	}
	updatedAt, err := s.carts.DeleteLineItems(ctx, cart.ID, ids)
	if err != nil {
		s.logger.Warn("failed to delete orphaned gift wrap lines", zap.String("cart_id", cart.ID), zap.Error(err))
		return
	}
	cart.UpdatedAt = updatedAt
	s.Invalidate(ctx, cart.ID)
}

// View is the storefront read: a missing or completed cart reads as null.
func (s *CartService) View(ctx context.Context, id string) (*models.CartResponse, error) {
	cart, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &models.CartResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	if cart.IsCompleted() {
		return &models.CartResponse{}, nil
	}
	return &models.CartResponse{Cart: cart, Pricing: s.Pricing(ctx, cart)}, nil
}

// Pricing applies the selected provider's discount to the displayed total
// only; line and cart totals stay as computed.
func (s *CartService) Pricing(ctx context.Context, cart *models.Cart) *models.CartPricing {
	var discount *models.PaymentProviderDiscount
	if cart.PaymentSession != nil && s.payments != nil {
		d, err := s.payments.FindProviderDiscount(ctx, cart.PaymentSession.ProviderID)
		if err != nil {
			s.logger.Warn("provider discount lookup failed",
				zap.String("provider_id", cart.PaymentSession.ProviderID), zap.Error(err))
		} else {
			discount = d
		}
	}

	display := discount.Apply(cart.Total)
	pricing := &models.CartPricing{
		DisplayTotal: display,
		Formatted: utils.FormattedCartTotals(cart.CurrencyCode, map[string]decimal.Decimal{
			"subtotal":        cart.Subtotal,
			"discount_total":  cart.DiscountTotal,
			"shipping_total":  cart.ShippingTotal,
			"tax_total":       cart.TaxTotal,
			"gift_card_total": cart.GiftCardTotal,
			"total":           cart.Total,
			"display_total":   display,
		}),
	}
	if !display.Equal(cart.Total) {
		pricing.ProviderDiscount = utils.PercentageDiff(cart.Total, display)
	}
	return pricing
}

// AmountDue is what the customer still pays after gift cards.
func AmountDue(cart *models.Cart, pricing *models.CartPricing) decimal.Decimal {
	due := pricing.DisplayTotal.Sub(cart.GiftCardTotal)
	if due.Sign() < 0 {
		return decimal.Zero
	}
	return due
}

func (s *CartService) mutable(ctx context.Context, id string) (*models.Cart, error) {
	cart, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart.IsCompleted() {
		return nil, ErrCartCompleted
	}
	return cart, nil
}

func (s *CartService) refresh(ctx context.Context, id string) (*models.Cart, error) {
	s.Invalidate(ctx, id)
	return s.Get(ctx, id)
}

// Invalidate drops cached reads of the cart. Failures are logged; the
// cache entries expire on their own.
func (s *CartService) Invalidate(ctx context.Context, cartID string) {
	if s == nil || s.cache == nil {
		return
	}
	if _, err := s.cache.InvalidateTag(ctx, cache.CartTag(cartID)); err != nil {
		s.logger.Warn("cart cache invalidation failed", zap.String("cart_id", cartID), zap.Error(err))
	}
}

func (s *CartService) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*models.Cart, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrValidation, MaxLineQuantity)
	}
	if variantID == s.giftWrapVariantID {
		return nil, fmt.Errorf("%w: gift wrap is added to a line item", ErrValidation)
	}
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}

	variant, err := s.variants.FindByID(ctx, variantID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown variant %q", ErrValidation, variantID)
	}
	if err != nil {
		return nil, err
	}
	if !variant.IsActive {
		return nil, fmt.Errorf("%w: variant %q is not available", ErrValidation, variantID)
	}

	for _, item := range cart.Items {
		if item.VariantID == variantID && !giftwrap.IsGiftWrapLine(item) {
			return s.UpdateLineItem(ctx, cartID, item.ID, item.Quantity+quantity)
		}
	}

	if variant.Stock < quantity {
		return nil, fmt.Errorf("%w: only %d left in stock", ErrValidation, variant.Stock)
	}

	line := models.LineItem{
		ID:        "li_" + uuid.NewString(),
		CartID:    cart.ID,
		VariantID: variant.ID,
		ProductID: variant.ProductID,
		Title:     variant.DisplayTitle(),
		Quantity:  quantity,
		UnitPrice: variant.Price,
	}
	line.RecalculateTotal()

	if _, err := s.carts.AddLineItems(ctx, cart.ID, line); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

// UpdateLineItem changes a line's quantity; its gift wrap follows.
func (s *CartService) UpdateLineItem(ctx context.Context, cartID, lineID string, quantity int) (*models.Cart, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrValidation, MaxLineQuantity)
	}
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}
	_, item := cart.FindItem(lineID)
	if item == nil {
		return nil, ErrNotFound
	}
	if giftwrap.IsGiftWrapLine(*item) {
		return nil, fmt.Errorf("%w: gift wrap quantity follows its line", ErrValidation)
	}

	variant, err := s.variants.FindByID(ctx, item.VariantID)
	if err == nil && variant.Stock < quantity {
		return nil, fmt.Errorf("%w: only %d left in stock", ErrValidation, variant.Stock)
	}

	ids := giftwrap.CascadeQuantity(cart.Items, lineID, quantity)
	if _, err := s.carts.SetQuantity(ctx, cart.ID, ids, quantity); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

// RemoveLineItem deletes a line together with its gift wrap. Removing a
// line that is already gone returns the cart unchanged.
func (s *CartService) RemoveLineItem(ctx context.Context, cartID, lineID string) (*models.Cart, error) {
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}
	ids := giftwrap.RemovalIDs(cart.Items, lineID)
	if len(ids) == 0 {
		return cart, nil
	}
	if _, err := s.carts.DeleteLineItems(ctx, cart.ID, ids); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

// AddGiftWrap attaches a gift-wrap line to lineID. A line already wrapped is
// left as is.
func (s *CartService) AddGiftWrap(ctx context.Context, cartID, lineID string) (*models.Cart, error) {
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}
	_, parent := cart.FindItem(lineID)
	if parent == nil {
		return nil, ErrNotFound
	}
	if giftwrap.IsGiftWrapLine(*parent) {
		return nil, fmt.Errorf("%w: gift wrap cannot be wrapped", ErrValidation)
	}
	if giftwrap.HasGiftWrap(cart.Items, lineID) {
		return cart, nil
	}

	wrap, err := s.variants.FindByID(ctx, s.giftWrapVariantID)
	if err != nil {
		return nil, fmt.Errorf("gift wrap unavailable: %w", err)
	}

	line := giftwrap.NewLine(*parent, *wrap)
	if _, err := s.carts.AddLineItems(ctx, cart.ID, line); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

func (s *CartService) Update(ctx context.Context, cartID string, req models.UpdateCartRequest) (*models.Cart, error) {
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		cart.Email = strings.ToLower(email)
	}
	if req.ShippingAddress != nil {
		addr := *req.ShippingAddress
		addr.CountryCode = strings.ToLower(strings.TrimSpace(addr.CountryCode))
		cart.ShippingAddress = &addr
	}
	if err := s.carts.UpdateDetails(ctx, cart); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

// AssociateCustomer claims an anonymous cart for the signed-in customer.
func (s *CartService) AssociateCustomer(ctx context.Context, cartID string, customer *models.Customer) (*models.Cart, error) {
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.CustomerID == customer.ID && cart.Email != "" {
		return cart, nil
	}
	cart.CustomerID = customer.ID
	if cart.Email == "" {
		cart.Email = customer.Email
	}
	if err := s.carts.UpdateDetails(ctx, cart); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

func (s *CartService) ApplyDiscount(ctx context.Context, cartID, code string) (*models.Cart, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: discount code is required", ErrValidation)
	}
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}

	discount, err := s.discounts.FindDiscount(ctx, code)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && !discount.Active) {
		return nil, fmt.Errorf("%w: discount code %q is not valid", ErrValidation, code)
	}
	if err != nil {
		return nil, err
	}

	cart.Discount = discount
	if err := s.carts.UpdateDetails(ctx, cart); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

func (s *CartService) RemoveDiscount(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Discount == nil {
		return cart, nil
	}
	cart.Discount = nil
	if err := s.carts.UpdateDetails(ctx, cart); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}

func (s *CartService) ApplyGiftCard(ctx context.Context, cartID, code string) (*models.Cart, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: gift card code is required", ErrValidation)
	}
	cart, err := s.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}

	card, err := s.discounts.FindGiftCard(ctx, code)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && card.Balance.Sign() <= 0) {
		return nil, fmt.Errorf("%w: gift card %q is not valid", ErrValidation, code)
	}
	if err != nil {
		return nil, err
	}
	for _, applied := range cart.GiftCards {
		if strings.EqualFold(applied.Code, card.Code) {
			return cart, nil
		}
	}

	if _, err := s.carts.AddGiftCard(ctx, cart.ID, card.Code); err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart.ID)
}
