package controllers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"toy-store/models"
	"toy-store/repositories"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

// emptyCartRepository knows no carts.
type emptyCartRepository struct{}

func (emptyCartRepository) Create(context.Context, *models.Cart) error { return nil }
func (emptyCartRepository) FindByID(context.Context, string) (*models.Cart, error) {
	return nil, repositories.ErrNotFound
}
func (emptyCartRepository) FindRegion(context.Context, string) (*models.Region, error) {
	return nil, repositories.ErrNotFound
}
func (emptyCartRepository) UpdateDetails(context.Context, *models.Cart) error { return nil }
func (emptyCartRepository) AddLineItems(context.Context, string, ...models.LineItem) (time.Time, error) {
	return time.Time{}, repositories.ErrNotFound
}
func (emptyCartRepository) SetQuantity(context.Context, string, []string, int) (time.Time, error) {
	return time.Time{}, repositories.ErrNotFound
}
func (emptyCartRepository) DeleteLineItems(context.Context, string, []string) (time.Time, error) {
	return time.Time{}, repositories.ErrNotFound
}
func (emptyCartRepository) AddGiftCard(context.Context, string, string) (time.Time, error) {
	return time.Time{}, repositories.ErrNotFound
}

type fakePaymentRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.PaymentSession
}

func (f *fakePaymentRepository) ListProviders(context.Context, string) ([]models.PaymentProvider, error) {
	return []models.PaymentProvider{{ID: "pp_payu_payu", Name: "PayU"}}, nil
}

func (f *fakePaymentRepository) FindProviderDiscount(context.Context, string) (*models.PaymentProviderDiscount, error) {
	return nil, nil
}

func (f *fakePaymentRepository) ReplacePendingSession(context.Context, *models.PaymentSession) error {
	return nil
}

func (f *fakePaymentRepository) FindSessionByTxnID(_ context.Context, txnID string) (*models.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Data["txnid"] == txnID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakePaymentRepository) UpdateSessionStatus(_ context.Context, id string, status models.PaymentSessionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakePaymentRepository) status(id string) models.PaymentSessionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id].Status
}

type fakeOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	paid   int
}

func (f *fakeOrderRepository) Complete(context.Context, string, repositories.OrderBuilder) (*models.Order, bool, error) {
	return nil, false, repositories.ErrNotFound
}

func (f *fakeOrderRepository) FindByCartID(_ context.Context, cartID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.CartID == cartID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepository) FindByTxnID(_ context.Context, txnID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.TxnID == txnID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepository) MarkPaid(_ context.Context, orderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if o.Status != models.OrderPending {
		return false, nil
	}
	o.Status = models.OrderPaid
	f.paid++
	return true, nil
}

func (f *fakeOrderRepository) MarkPaymentFailed(_ context.Context, orderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.Status != models.OrderPending {
		return false, nil
	}
	o.Status = models.OrderPaymentFailed
	return true, nil
}

func (f *fakeOrderRepository) ListByCustomer(_ context.Context, customerID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepository) status(id string) models.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].Status
}
