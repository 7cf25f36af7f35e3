// Package checkout drives the storefront checkout steps against a reconciled
// cart and guards the final order submission.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"toy-store/models"
)

type Step string

const (
	StepAddress  Step = "address"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

var Steps = []Step{StepAddress, StepShipping, StepPayment, StepReview}

// ParseStep reads the step query value. Unknown values fall back to address.
func ParseStep(raw string) Step {
	switch s := Step(strings.ToLower(strings.TrimSpace(raw))); s {
	case StepAddress, StepShipping, StepPayment, StepReview:
		return s
	default:
		return StepAddress
	}
}

func (s Step) Query() string {
	return url.Values{"step": {string(s)}}.Encode()
}

func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return 0
}

var (
	ErrCheckoutUnavailable = errors.New("checkout unavailable")
	ErrCartNotFound        = errors.New("cart not found")
	ErrNotLoaded           = errors.New("checkout not loaded")
	ErrSubmissionInFlight  = errors.New("order submission already in flight")
	ErrAlreadyPlaced       = errors.New("order already placed")
)

// ValidationError lists what a step still needs. It is shown inline next to
// the step.
type ValidationError struct {
	Step    Step
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cannot enter %s step: missing %s", e.Step, strings.Join(e.Missing, ", "))
}

// CartSource is satisfied by *cartstore.Store.
type CartSource interface {
	ReloadFromServer(ctx context.Context) error
	Snapshot() *models.Cart
	CartID() string
	ClearCart()
}

type PaymentMethodLister interface {
	ListPaymentMethods(ctx context.Context, regionID string) ([]models.PaymentProvider, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, cartID string) (*models.Order, error)
}

type Options struct {
	// OnEnterReview runs once each time the review step is entered.
	OnEnterReview func()
	Logger        *zap.Logger
}

type Orchestrator struct {
	cart    CartSource
	methods PaymentMethodLister
	placer  OrderPlacer
	logger  *zap.Logger

	onEnterReview func()

	mu             sync.Mutex
	loaded         bool
	current        Step
	paymentMethods []models.PaymentProvider
	order          *models.Order

	submitting atomic.Bool
	placed     atomic.Bool
}

func New(cart CartSource, methods PaymentMethodLister, placer OrderPlacer, opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.OnEnterReview == nil {
		opts.OnEnterReview = func() {}
	}
	return &Orchestrator{
		cart:          cart,
		methods:       methods,
		placer:        placer,
		logger:        opts.Logger,
		onEnterReview: opts.OnEnterReview,
		current:       StepAddress,
	}
}

// Load reconciles the cart and loads payment methods. Checkout does not
// proceed on partial data: any failure is ErrCheckoutUnavailable.
func (o *Orchestrator) Load(ctx context.Context) error {
	o.mu.Lock()
	o.loaded = false
	o.mu.Unlock()

	if o.cart.CartID() == "" {
		return ErrCartNotFound
	}
	if err := o.cart.ReloadFromServer(ctx); err != nil {
		o.logger.Warn("checkout cart load failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCheckoutUnavailable, err)
	}
	cart := o.cart.Snapshot()
	if cart == nil || cart.IsCompleted() {
		return ErrCartNotFound
	}

	methods, err := o.methods.ListPaymentMethods(ctx, cart.RegionID)
	if err != nil {
		o.logger.Warn("checkout payment methods load failed", zap.String("cart_id", cart.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCheckoutUnavailable, err)
	}

	o.mu.Lock()
	o.loaded = true
	o.paymentMethods = methods
	o.mu.Unlock()
	return nil
}

// Open loads checkout and lands on the requested step, or on the furthest
// step before it whose prerequisites are met.
func (o *Orchestrator) Open(ctx context.Context, rawStep string) (Step, error) {
	if err := o.Load(ctx); err != nil {
		return "", err
	}
	requested := ParseStep(rawStep)
	for i := requested.index(); i >= 0; i-- {
		if err := o.GoTo(Steps[i]); err == nil {
			return Steps[i], nil
		}
	}
	return StepAddress, nil
}

// Validate reports what step still needs from the current cart snapshot.
func (o *Orchestrator) Validate(step Step) error {
	cart := o.cart.Snapshot()
	if cart == nil {
		return ErrCartNotFound
	}

	var missing []string
	if step != StepAddress && !cart.ShippingAddress.Complete() {
		missing = append(missing, "shipping_address")
	}
	if step == StepPayment && cart.ShippingMethod == nil {
		missing = append(missing, "shipping_method")
	}
	if step == StepReview && cart.PaymentSession == nil && !cart.PaidByGiftCard() {
		missing = append(missing, "payment_session")
	}
	if len(missing) > 0 {
		return &ValidationError{Step: step, Missing: missing}
	}
	return nil
}

// GoTo moves to step when its prerequisites hold.
func (o *Orchestrator) GoTo(step Step) error {
	o.mu.Lock()
	loaded := o.loaded
	o.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}
	if err := o.Validate(step); err != nil {
		return err
	}

	o.mu.Lock()
	entering := step == StepReview && o.current != StepReview
	o.current = step
	o.mu.Unlock()

	if entering {
		o.onEnterReview()
	}
	return nil
}

func (o *Orchestrator) Current() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

func (o *Orchestrator) PaymentMethods() []models.PaymentProvider {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]models.PaymentProvider(nil), o.paymentMethods...)
}

// PlaceOrder submits the order once. Calls made while a submission is in
// flight return ErrSubmissionInFlight without reaching the placer.
func (o *Orchestrator) PlaceOrder(ctx context.Context) (*models.Order, error) {
	if o.placed.Load() {
		return nil, ErrAlreadyPlaced
	}
	if !o.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer o.submitting.Store(false)

	if o.placed.Load() {
		return nil, ErrAlreadyPlaced
	}
	if err := o.Validate(StepReview); err != nil {
		return nil, err
	}

	cartID := o.cart.CartID()
	order, err := o.placer.PlaceOrder(ctx, cartID)
	if err != nil {
		o.logger.Error("order placement failed", zap.String("cart_id", cartID), zap.Error(err))
		return nil, fmt.Errorf("place order: %w", err)
	}

	o.mu.Lock()
	o.order = order
	o.mu.Unlock()
	o.placed.Store(true)
	o.cart.ClearCart()

	o.logger.Info("order placed", zap.String("cart_id", cartID), zap.String("order_id", order.ID))
	return order, nil
}

func (o *Orchestrator) Order() *models.Order {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.order
}

func (o *Orchestrator) Submitting() bool {
	return o.submitting.Load()
}
