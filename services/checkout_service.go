package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toy-store/giftwrap"
	"toy-store/models"
	"toy-store/payment"
	"toy-store/repositories"
)

const giftCardProviderID = "gift_card"

type CheckoutService struct {
	carts    *CartService
	payments *PaymentService
	orders   OrderRepository
	logger   *zap.Logger
}

func NewCheckoutService(carts *CartService, payments *PaymentService, orders OrderRepository, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{carts: carts, payments: payments, orders: orders, logger: logger}
}

// Complete turns the cart into an order. Calling it again for the same cart
// returns the order created the first time.
func (s *CheckoutService) Complete(ctx context.Context, cartID string, customer *models.Customer) (*models.Order, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if customer != nil && cart.CustomerID != "" && cart.CustomerID != customer.ID {
		return nil, ErrNotFound
	}
	if customer != nil && cart.CustomerID == "" && !cart.IsCompleted() {
		if cart, err = s.carts.AssociateCustomer(ctx, cartID, customer); err != nil {
			return nil, err
		}
	}

	var providerID string
	var discount *models.PaymentProviderDiscount
	if cart.PaymentSession != nil {
		providerID = cart.PaymentSession.ProviderID
		discount, err = s.payments.payments.FindProviderDiscount(ctx, providerID)
		if err != nil {
			return nil, fmt.Errorf("provider discount: %w", err)
		}
	}

	order, created, err := s.orders.Complete(ctx, cartID, func(locked *models.Cart) (*models.Order, error) {
		return buildOrder(locked, providerID, discount)
	})
	if errors.Is(err, repositories.ErrInsufficientStock) {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if created {
		s.carts.Invalidate(ctx, cartID)
		s.logger.Info("order created",
			zap.String("order_id", order.ID),
			zap.String("cart_id", cartID),
			zap.String("status", string(order.Status)),
		)
		if order.Status == models.OrderPaid {
			s.payments.afterPaid(ctx, order)
		}
	}
	return order, nil
}

// buildOrder runs against the locked cart row. The pending session must be
// the one the provider discount was looked up for.
func buildOrder(cart *models.Cart, providerID string, discount *models.PaymentProviderDiscount) (*models.Order, error) {
	cart.Items, _ = giftwrap.DropOrphans(cart.Items)
	cart.Recalculate()

	switch {
	case len(cart.Items) == 0:
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	case !cart.ShippingAddress.Complete():
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	case cart.Email == "":
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	case cart.ShippingMethod == nil:
		return nil, fmt.Errorf("%w: shipping method is required", ErrValidation)
	}

	order := &models.Order{
		ID:              "order_" + uuid.NewString(),
		CartID:          cart.ID,
		CustomerID:      cart.CustomerID,
		Email:           cart.Email,
		CurrencyCode:    cart.CurrencyCode,
		ShippingAddress: cart.ShippingAddress,
		Items:           cart.Items,
		Status:          models.OrderPending,
	}

	if cart.PaidByGiftCard() {
		order.Status = models.OrderPaid
		order.PaymentProviderID = giftCardProviderID
		order.Total = cart.Total
		return order, nil
	}

	binding, err := payment.Bind(cart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if binding.Session.ProviderID != providerID {
		return nil, fmt.Errorf("%w: payment method changed, please review your order", ErrValidation)
	}

	pricing := &models.CartPricing{DisplayTotal: discount.Apply(cart.Total)}
	order.Total = AmountDue(cart, pricing)
	order.PaymentProviderID = binding.Session.ProviderID
	order.TxnID = binding.Session.Data["txnid"]
	return order, nil
}

// StartPayU completes the cart into a pending order and signs the PayU
// form for it. A retry for the same cart signs the same transaction.
func (s *CheckoutService) StartPayU(ctx context.Context, cartID string, customer *models.Customer) (*models.PaymentRequest, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.IsCompleted() {
		binding, err := payment.Bind(cart)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if binding.Kind != payment.KindPayU {
			return nil, fmt.Errorf("%w: cart is not set up for PayU", ErrValidation)
		}
	}

	order, err := s.Complete(ctx, cartID, customer)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending || payment.Resolve(order.PaymentProviderID) != payment.KindPayU {
		return nil, ErrCartCompleted
	}

	firstName := ""
	if order.ShippingAddress != nil {
		firstName = order.ShippingAddress.FirstName
	}
	if firstName == "" && customer != nil {
		firstName = customer.FirstName
	}
	return s.payments.PayURequest(order, firstName)
}

func (s *CheckoutService) Orders(ctx context.Context, customerID string) ([]models.Order, error) {
	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Order returns one of the customer's orders.
func (s *CheckoutService) Order(ctx context.Context, customerID, orderID string) (*models.Order, error) {
	orders, err := s.Orders(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}
	return nil, ErrNotFound
}
