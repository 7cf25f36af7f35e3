package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"toy-store/cache"
	"toy-store/libs"
	"toy-store/models"
	"toy-store/payment"
	"toy-store/repositories"
)

type mockCartRepository struct {
	mu        sync.Mutex
	carts     map[string]*models.Cart
	regions   map[string]*models.Region
	clock     time.Time
	deletions [][]string
	err       error
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: map[string]*models.Cart{},
		regions: map[string]*models.Region{
			"reg_in": {ID: "reg_in", Name: "India", CurrencyCode: "inr"},
		},
		clock: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (m *mockCartRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockCartRepository) put(cart *models.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = m.tick()
	}
	m.carts[cart.ID] = cart.Clone()
}

func (m *mockCartRepository) get(id string) *models.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[id].Clone()
}

func (m *mockCartRepository) Create(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cart.CreatedAt = m.tick()
	cart.UpdatedAt = cart.CreatedAt
	m.carts[cart.ID] = cart.Clone()
	return nil
}

func (m *mockCartRepository) FindByID(_ context.Context, id string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cart.Clone(), nil
}

func (m *mockCartRepository) FindRegion(_ context.Context, id string) (*models.Region, error) {
	if id == "" {
		id = "reg_in"
	}
	region, ok := m.regions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return region, nil
}

func (m *mockCartRepository) UpdateDetails(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.carts[cart.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.CustomerID = cart.CustomerID
	stored.Email = cart.Email
	stored.ShippingAddress = cart.Clone().ShippingAddress
	stored.ShippingMethod = cart.Clone().ShippingMethod
	stored.Discount = cart.Clone().Discount
	stored.UpdatedAt = m.tick()
	cart.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *mockCartRepository) mutate(cartID string, fn func(c *models.Cart)) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return time.Time{}, m.err
	}
	cart, ok := m.carts[cartID]
	if !ok {
		return time.Time{}, repositories.ErrNotFound
	}
	fn(cart)
	cart.UpdatedAt = m.tick()
	return cart.UpdatedAt, nil
}

func (m *mockCartRepository) AddLineItems(_ context.Context, cartID string, items ...models.LineItem) (time.Time, error) {
	return m.mutate(cartID, func(c *models.Cart) {
		c.Items = append(c.Items, models.CloneItems(items)...)
	})
}

func (m *mockCartRepository) SetQuantity(_ context.Context, cartID string, lineIDs []string, quantity int) (time.Time, error) {
	return m.mutate(cartID, func(c *models.Cart) {
		for i := range c.Items {
			for _, id := range lineIDs {
				if c.Items[i].ID == id {
					c.Items[i].Quantity = quantity
				}
			}
		}
	})
}

func (m *mockCartRepository) DeleteLineItems(_ context.Context, cartID string, lineIDs []string) (time.Time, error) {
	m.deletions = append(m.deletions, append([]string(nil), lineIDs...))
	return m.mutate(cartID, func(c *models.Cart) {
		drop := map[string]bool{}
		for _, id := range lineIDs {
			drop[id] = true
		}
		kept := c.Items[:0]
		for _, item := range c.Items {
			if !drop[item.ID] {
				kept = append(kept, item)
			}
		}
		c.Items = kept
	})
}

func (m *mockCartRepository) AddGiftCard(_ context.Context, cartID, code string) (time.Time, error) {
	return m.mutate(cartID, func(c *models.Cart) {
		c.GiftCards = append(c.GiftCards, models.GiftCard{Code: code, Balance: decimal.NewFromInt(500)})
	})
}

type mockVariantRepository struct {
	variants map[string]*models.Variant
}

func (m *mockVariantRepository) ListActive(_ context.Context, page, limit int) ([]models.Variant, int, error) {
	out := []models.Variant{}
	for _, v := range m.variants {
		out = append(out, *v)
	}
	return out, len(out), nil
}

func (m *mockVariantRepository) FindByID(_ context.Context, id string) (*models.Variant, error) {
	v, ok := m.variants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func newMockVariants() *mockVariantRepository {
	return &mockVariantRepository{variants: map[string]*models.Variant{
		"var_robot": {ID: "var_robot", ProductID: "prod_robot", ProductTitle: "Robot", Title: "Red",
			Price: decimal.RequireFromString("10.00"), Stock: 20, IsActive: true},
		"var_blocks": {ID: "var_blocks", ProductID: "prod_blocks", ProductTitle: "Blocks",
			Price: decimal.RequireFromString("5.00"), Stock: 20, IsActive: true},
		"var_gift_wrap": {ID: "var_gift_wrap", ProductID: "prod_gift_wrap", ProductTitle: "Gift wrap",
			Price: decimal.RequireFromString("3.50"), Stock: 1000, IsActive: true},
	}}
}

type mockDiscountRepository struct {
	discounts map[string]*models.Discount
	cards     map[string]*models.GiftCard
}

func (m *mockDiscountRepository) FindDiscount(_ context.Context, code string) (*models.Discount, error) {
	d, ok := m.discounts[strings.ToUpper(code)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return d, nil
}

func (m *mockDiscountRepository) FindGiftCard(_ context.Context, code string) (*models.GiftCard, error) {
	c, ok := m.cards[strings.ToUpper(code)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

// mockPaymentRepository keeps sessions next to the cart repository so a
// pending session shows up on the next cart read.
type mockPaymentRepository struct {
	mu          sync.Mutex
	carts       *mockCartRepository
	providers   []models.PaymentProvider
	discounts   map[string]*models.PaymentProviderDiscount
	sessions    map[string][]models.PaymentSession
	providerErr error
}

func newMockPaymentRepository(carts *mockCartRepository) *mockPaymentRepository {
	return &mockPaymentRepository{
		carts: carts,
		providers: []models.PaymentProvider{
			{ID: payment.DefaultProviderID, Name: "Manual payment"},
			{ID: "pp_payu_payu", Name: "PayU"},
			{ID: "pp_stripe_stripe", Name: "Card"},
		},
		discounts: map[string]*models.PaymentProviderDiscount{},
		sessions:  map[string][]models.PaymentSession{},
	}
}

func (m *mockPaymentRepository) ListProviders(context.Context, string) ([]models.PaymentProvider, error) {
	if m.providerErr != nil {
		return nil, m.providerErr
	}
	return m.providers, nil
}

func (m *mockPaymentRepository) FindProviderDiscount(_ context.Context, providerID string) (*models.PaymentProviderDiscount, error) {
	return m.discounts[providerID], nil
}

func (m *mockPaymentRepository) ReplacePendingSession(_ context.Context, session *models.PaymentSession) error {
	m.mu.Lock()
	m.sessions[session.CartID] = payment.Supersede(m.sessions[session.CartID], *session)
	pending := *payment.Pending(m.sessions[session.CartID])
	m.mu.Unlock()

	_, err := m.carts.mutate(session.CartID, func(c *models.Cart) {
		c.PaymentSession = &pending
	})
	return err
}

func (m *mockPaymentRepository) FindSessionByTxnID(_ context.Context, txnID string) (*models.PaymentSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sessions := range m.sessions {
		for i := range sessions {
			if sessions[i].Data["txnid"] == txnID {
				s := sessions[i]
				return &s, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

// UpdateSessionStatus also drops the session from the cart once it stops
// being pending, matching the cart read that only joins pending sessions.
func (m *mockPaymentRepository) UpdateSessionStatus(_ context.Context, id string, status models.PaymentSessionStatus) error {
	m.mu.Lock()
	cartID := ""
	for cid, sessions := range m.sessions {
		for i := range sessions {
			if sessions[i].ID == id {
				sessions[i].Status = status
				cartID = cid
			}
		}
	}
	m.mu.Unlock()
	if cartID == "" {
		return repositories.ErrNotFound
	}
	if status == models.PaymentSessionPending {
		return nil
	}
	_, err := m.carts.mutate(cartID, func(c *models.Cart) {
		if c.PaymentSession != nil && c.PaymentSession.ID == id {
			c.PaymentSession = nil
		}
	})
	return err
}

func (m *mockPaymentRepository) pending(cartID string) []models.PaymentSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PaymentSession
	for _, s := range m.sessions[cartID] {
		if s.Status == models.PaymentSessionPending {
			out = append(out, s)
		}
	}
	return out
}

func (m *mockPaymentRepository) session(cartID string) models.PaymentSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := m.sessions[cartID]
	return sessions[len(sessions)-1]
}

// mockOrderRepository tracks variant stock the way the orders table does:
// completing takes it, a failed payment gives it back.
type mockOrderRepository struct {
	mu        sync.Mutex
	carts     *mockCartRepository
	orders    map[string]*models.Order
	stock     map[string]int
	nextID    int64
	completes int
	paidCalls int
}

func newMockOrderRepository(carts *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{
		carts:  carts,
		orders: map[string]*models.Order{},
		stock:  map[string]int{"var_robot": 20, "var_blocks": 20, "var_gift_wrap": 1000},
	}
}

func (m *mockOrderRepository) stockOf(variantID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[variantID]
}

func (m *mockOrderRepository) Complete(_ context.Context, cartID string, build repositories.OrderBuilder) (*models.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completes++

	cart := m.carts.get(cartID)
	if cart == nil {
		return nil, false, repositories.ErrNotFound
	}
	if cart.IsCompleted() {
		for _, o := range m.orders {
			if o.CartID == cartID && o.Status != models.OrderPaymentFailed {
				copied := *o
				return &copied, false, nil
			}
		}
	}

	order, err := build(cart)
	if err != nil {
		return nil, false, err
	}
	taken := map[string]int{}
	for _, item := range order.Items {
		taken[item.VariantID] += item.Quantity
		if m.stock[item.VariantID] < taken[item.VariantID] {
			return nil, false, repositories.ErrInsufficientStock
		}
	}
	for id, qty := range taken {
		m.stock[id] -= qty
	}
	m.nextID++
	order.DisplayID = m.nextID
	m.orders[order.ID] = order

	if _, err := m.carts.mutate(cartID, func(c *models.Cart) {
		now := time.Now()
		c.CompletedAt = &now
	}); err != nil {
		return nil, false, err
	}
	copied := *order
	return &copied, true, nil
}

func (m *mockOrderRepository) find(match func(o *models.Order) bool) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if match(o) {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockOrderRepository) FindByCartID(_ context.Context, cartID string) (*models.Order, error) {
	return m.find(func(o *models.Order) bool { return o.CartID == cartID && o.Status != models.OrderPaymentFailed })
}

func (m *mockOrderRepository) FindByTxnID(_ context.Context, txnID string) (*models.Order, error) {
	return m.find(func(o *models.Order) bool { return o.TxnID != "" && o.TxnID == txnID })
}

func (m *mockOrderRepository) MarkPaid(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paidCalls++
	o, ok := m.orders[orderID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if o.Status != models.OrderPending {
		return false, nil
	}
	o.Status = models.OrderPaid
	return true, nil
}

func (m *mockOrderRepository) MarkPaymentFailed(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != models.OrderPending {
		return false, nil
	}
	o.Status = models.OrderPaymentFailed
	for _, item := range o.Items {
		m.stock[item.VariantID] += item.Quantity
	}
	_, err := m.carts.mutate(o.CartID, func(c *models.Cart) {
		c.CompletedAt = nil
	})
	return err == nil, err
}

func (m *mockOrderRepository) ListByCustomer(_ context.Context, customerID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) status(orderID string) models.OrderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[orderID].Status
}

type mockCustomerRepository struct {
	customers map[string]*models.Customer
}

func (m *mockCustomerRepository) Create(_ context.Context, customer *models.Customer) error {
	copied := *customer
	m.customers[strings.ToLower(customer.Email)] = &copied
	return nil
}

func (m *mockCustomerRepository) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	c, ok := m.customers[strings.ToLower(email)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCustomerRepository) FindByID(_ context.Context, id string) (*models.Customer, error) {
	for _, c := range m.customers {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type mockTagInvalidator struct {
	mu    sync.Mutex
	tags  []string
	paths []string
	err   error
}

func (m *mockTagInvalidator) InvalidateTag(_ context.Context, tag string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.tags = append(m.tags, tag)
	return 1, nil
}

func (m *mockTagInvalidator) InvalidatePath(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.paths = append(m.paths, path)
	return nil
}

type mockShippingOptions struct {
	mu      sync.Mutex
	options []models.ShippingOption
	calls   int
}

func (m *mockShippingOptions) ListByRegion(_ context.Context, regionID string) ([]models.ShippingOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var out []models.ShippingOption
	for _, o := range m.options {
		if o.RegionID == regionID {
			out = append(out, o)
		}
	}
	return out, nil
}

type mockMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *mockMailer) SendOrderConfirmation(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, order.ID)
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []libs.OrderPaidEvent
}

func (m *mockPublisher) PublishOrderPaid(_ context.Context, event libs.OrderPaidEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

type fixture struct {
	carts     *mockCartRepository
	variants  *mockVariantRepository
	discounts *mockDiscountRepository
	payments  *mockPaymentRepository
	orders    *mockOrderRepository
	options   *mockShippingOptions
	tags      *mockTagInvalidator
	mailer    *mockMailer
	events    *mockPublisher

	cartSvc     *CartService
	shippingSvc *ShippingService
	paymentSvc  *PaymentService
	checkoutSvc *CheckoutService
}

const (
	testPayUKey  = "K1"
	testPayUSalt = "abc"
)

func newFixture() *fixture {
	f := &fixture{
		carts:    newMockCartRepository(),
		variants: newMockVariants(),
		discounts: &mockDiscountRepository{
			discounts: map[string]*models.Discount{
				"WELCOME10": {Code: "WELCOME10", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(10), Active: true},
				"EXPIRED":   {Code: "EXPIRED", Kind: models.DiscountFixed, Value: decimal.NewFromInt(5), Active: false},
			},
			cards: map[string]*models.GiftCard{
				"GIFT500": {Code: "GIFT500", Balance: decimal.NewFromInt(500)},
			},
		},
		options: &mockShippingOptions{options: []models.ShippingOption{
			{ID: "so_standard", Name: "Standard", RegionID: "reg_in", Amount: decimal.RequireFromString("4.00")},
			{ID: "so_express", Name: "Express", RegionID: "reg_in", Amount: decimal.RequireFromString("9.00")},
		}},
		tags:   &mockTagInvalidator{},
		mailer: &mockMailer{},
		events: &mockPublisher{},
	}
	f.payments = newMockPaymentRepository(f.carts)
	f.orders = newMockOrderRepository(f.carts)

	f.cartSvc = NewCartService(f.carts, f.variants, f.discounts, f.payments, CartServiceConfig{
		GiftWrapVariantID: "var_gift_wrap",
		Cache:             f.tags,
	})
	f.shippingSvc = NewShippingService(f.cartSvc, f.carts, f.options, cache.NewMemoryShippingCache(time.Minute), time.Second, nil)
	f.paymentSvc = NewPaymentService(f.cartSvc, f.payments, f.orders, PaymentServiceConfig{
		PayU: PayUConfig{
			Key:         testPayUKey,
			Salt:        testPayUSalt,
			BaseURL:     "https://test.payu.in/_payment",
			CallbackURL: "https://api.toystore.test/payment/payu/callback",
		},
		Mailer: f.mailer,
		Events: f.events,
	})
	f.checkoutSvc = NewCheckoutService(f.cartSvc, f.paymentSvc, f.orders, nil)
	return f
}

// readyCart seeds a cart with one robot line, an address and a shipping
// method so only the payment step is left.
func (f *fixture) readyCart() *models.Cart {
	cart := &models.Cart{
		ID:           "cart_1",
		RegionID:     "reg_in",
		CurrencyCode: "inr",
		Email:        "a@x.com",
		ShippingAddress: &models.Address{
			FirstName: "A", Address1: "1 Toy Lane", City: "Pune", CountryCode: "in", Phone: "9999999999",
		},
		ShippingMethod: &models.ShippingMethod{OptionID: "so_standard", Name: "Standard", Amount: decimal.RequireFromString("4.00")},
		Items: []models.LineItem{
			{ID: "li_robot", CartID: "cart_1", VariantID: "var_robot", ProductID: "prod_robot", Title: "Robot - Red",
				Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
	f.carts.put(cart)
	return cart
}
