package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"toy-store/libs"
	"toy-store/models"
	"toy-store/payment"
	"toy-store/repositories"
)

const payuProductInfo = "Toy Store order"

type PayUConfig struct {
	Key         string
	Salt        string
	SaltV2      string
	BaseURL     string
	CallbackURL string
}

type PaymentServiceConfig struct {
	PayU            PayUConfig
	DefaultProvider string
	Mailer          OrderMailer
	Events          EventPublisher
	Logger          *zap.Logger
	Now             func() time.Time
}

type PaymentService struct {
	carts           *CartService
	payments        PaymentRepository
	orders          OrderRepository
	payu            PayUConfig
	defaultProvider string
	mailer          OrderMailer
	events          EventPublisher
	logger          *zap.Logger
	now             func() time.Time
}

func NewPaymentService(carts *CartService, payments PaymentRepository, orders OrderRepository, cfg PaymentServiceConfig) *PaymentService {
	s := &PaymentService{
		carts:           carts,
		payments:        payments,
		orders:          orders,
		payu:            cfg.PayU,
		defaultProvider: cfg.DefaultProvider,
		mailer:          cfg.Mailer,
		events:          cfg.Events,
		logger:          cfg.Logger,
		now:             cfg.Now,
	}
	if s.defaultProvider == "" {
		s.defaultProvider = payment.DefaultProviderID
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ListPaymentMethods never fails: when the provider query errors the
// storefront still gets the default manual provider.
func (s *PaymentService) ListPaymentMethods(ctx context.Context, regionID string) []models.PaymentProvider {
	providers, err := s.payments.ListProviders(ctx, regionID)
	if err != nil {
		s.logger.Warn("payment provider lookup failed, using default",
			zap.String("region_id", regionID), zap.Error(err))
		return []models.PaymentProvider{{ID: s.defaultProvider, Name: "Manual payment"}}
	}
	if providers == nil {
		providers = []models.PaymentProvider{}
	}
	return providers
}

// SelectProvider starts a pending session for providerID, superseding any
// pending session the cart already has.
func (s *PaymentService) SelectProvider(ctx context.Context, cartID, providerID string) (*models.Cart, error) {
	if payment.Resolve(providerID) == payment.KindUnknown {
		return nil, fmt.Errorf("%w: unsupported payment provider %q", ErrValidation, providerID)
	}
	cart, err := s.carts.mutable(ctx, cartID)
	if err != nil {
		return nil, err
	}

	offered := false
	for _, p := range s.ListPaymentMethods(ctx, cart.RegionID) {
		if p.ID == providerID {
			offered = true
			break
		}
	}
	if !offered {
		return nil, fmt.Errorf("%w: payment provider %q is not available in this region", ErrValidation, providerID)
	}

	if current := cart.PaymentSession; current != nil && current.ProviderID == providerID &&
		current.Status == models.PaymentSessionPending {
		return cart, nil
	}

	session := payment.NewSession(cart.ID, providerID, s.now())
	if err := s.payments.ReplacePendingSession(ctx, &session); err != nil {
		return nil, err
	}
	return s.carts.refresh(ctx, cart.ID)
}

// PayURequest signs the hosted-checkout form for a pending PayU order.
func (s *PaymentService) PayURequest(order *models.Order, firstName string) (*models.PaymentRequest, error) {
	if s.payu.Key == "" || s.payu.Salt == "" {
		return nil, ErrPaymentUnavailable
	}
	if order.TxnID == "" {
		return nil, fmt.Errorf("%w: order has no transaction id", ErrValidation)
	}

	params := libs.PaymentParams{
		Key:         s.payu.Key,
		TxnID:       order.TxnID,
		Amount:      order.Total.StringFixed(2),
		ProductInfo: payuProductInfo,
		FirstName:   firstName,
		Email:       order.Email,
		UDF:         [5]string{order.CartID, order.ID},
	}
	hash := libs.GenerateHash(params, s.payu.Salt, s.payu.SaltV2)

	fields := map[string]string{
		"key":         params.Key,
		"txnid":       params.TxnID,
		"amount":      params.Amount,
		"productinfo": params.ProductInfo,
		"firstname":   params.FirstName,
		"email":       params.Email,
		"surl":        s.payu.CallbackURL,
		"furl":        s.payu.CallbackURL,
		"hash":        hash.String(),
	}
	for i, v := range params.UDF {
		fields[fmt.Sprintf("udf%d", i+1)] = v
	}
	if order.ShippingAddress != nil && order.ShippingAddress.Phone != "" {
		fields["phone"] = order.ShippingAddress.Phone
	}
	return &models.PaymentRequest{Action: s.payu.BaseURL, Fields: fields}, nil
}

type CallbackResult struct {
	Order *models.Order
	Paid  bool
}

// verify accepts a response signed with either salt; the v2 salt is only
// tried when configured.
func (s *PaymentService) verify(p libs.CallbackPayload) error {
	err := libs.VerifyCallback(p, s.payu.Salt)
	if err != nil && s.payu.SaltV2 != "" {
		err = libs.VerifyCallback(p, s.payu.SaltV2)
	}
	return err
}

// HandlePayUCallback verifies the gateway response before anything is
// marked paid. Integrity failures move the session to error and leave the
// order untouched.
func (s *PaymentService) HandlePayUCallback(ctx context.Context, p libs.CallbackPayload) (*CallbackResult, error) {
	log := s.logger.With(
		zap.String("txnid", p.TxnID),
		zap.String("status", p.Status),
		zap.String("cart_id", p.UDF[0]),
	)

	if s.payu.Salt == "" {
		log.Error("payu callback received but payu is not configured")
		return nil, ErrPaymentUnavailable
	}
	if err := s.verify(p); err != nil {
		log.Error("payu callback hash mismatch")
		s.failSession(ctx, p.TxnID, log)
		return nil, err
	}

	order, err := s.orders.FindByTxnID(ctx, p.TxnID)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Error("payu callback for unknown transaction")
		return nil, ErrUnknownTransaction
	}
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(p.Status, "success") {
		log.Warn("payu payment not successful", zap.String("order_id", order.ID), zap.String("error", p.Error))
		s.failSession(ctx, p.TxnID, log)
		if order.Status == models.OrderPending {
			reopened, err := s.orders.MarkPaymentFailed(ctx, order.ID)
			if err != nil {
				return nil, fmt.Errorf("mark payment failed: %w", err)
			}
			order.Status = models.OrderPaymentFailed
			if reopened {
				s.carts.Invalidate(ctx, order.CartID)
				log.Info("cart reopened after failed payment", zap.String("order_id", order.ID))
			}
		}
		return &CallbackResult{Order: order}, nil
	}

	if order.Status == models.OrderPaymentFailed {
		log.Error("payu success for an order already marked failed", zap.String("order_id", order.ID),
			zap.String("mihpayid", p.MihpayID))
		return &CallbackResult{Order: order}, nil
	}

	amount, err := decimal.NewFromString(p.Amount)
	if err != nil || !amount.Equal(order.Total) {
		log.Error("payu callback amount mismatch",
			zap.String("order_id", order.ID),
			zap.String("amount", p.Amount),
			zap.String("expected", order.Total.StringFixed(2)),
		)
		s.failSession(ctx, p.TxnID, log)
		return nil, ErrAmountMismatch
	}

	changed, err := s.orders.MarkPaid(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	order.Status = models.OrderPaid
	if changed {
		if session, err := s.payments.FindSessionByTxnID(ctx, p.TxnID); err == nil {
			if err := s.payments.UpdateSessionStatus(ctx, session.ID, models.PaymentSessionAuthorized); err != nil {
				log.Warn("failed to authorize payment session", zap.Error(err))
			}
		}
		log.Info("order paid", zap.String("order_id", order.ID), zap.String("mihpayid", p.MihpayID))
		s.afterPaid(ctx, order)
	}
	return &CallbackResult{Order: order, Paid: true}, nil
}

func (s *PaymentService) failSession(ctx context.Context, txnID string, log *zap.Logger) {
	if txnID == "" {
		return
	}
	session, err := s.payments.FindSessionByTxnID(ctx, txnID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Warn("payment session lookup failed", zap.Error(err))
		}
		return
	}
	if session.Status == models.PaymentSessionAuthorized {
		return
	}
	if err := s.payments.UpdateSessionStatus(ctx, session.ID, models.PaymentSessionError); err != nil {
		log.Warn("failed to mark payment session as error", zap.Error(err))
	}
}

// afterPaid sends the confirmation email and the order.paid event. Both are
// optional and their failures never undo the payment.
func (s *PaymentService) afterPaid(ctx context.Context, order *models.Order) {
	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(order); err != nil {
			s.logger.Warn("order confirmation email failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if s.events != nil {
		if err := s.events.PublishOrderPaid(ctx, libs.NewOrderPaidEvent(order, s.now())); err != nil {
			s.logger.Warn("order.paid publish failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}
