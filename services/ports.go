package services

import (
	"context"
	"time"

	"toy-store/libs"
	"toy-store/models"
	"toy-store/repositories"
)

type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	FindByID(ctx context.Context, id string) (*models.Cart, error)
	FindRegion(ctx context.Context, id string) (*models.Region, error)
	UpdateDetails(ctx context.Context, cart *models.Cart) error
	AddLineItems(ctx context.Context, cartID string, items ...models.LineItem) (time.Time, error)
	SetQuantity(ctx context.Context, cartID string, lineIDs []string, quantity int) (time.Time, error)
	DeleteLineItems(ctx context.Context, cartID string, lineIDs []string) (time.Time, error)
	AddGiftCard(ctx context.Context, cartID, code string) (time.Time, error)
}

type VariantRepository interface {
	ListActive(ctx context.Context, page, limit int) ([]models.Variant, int, error)
	FindByID(ctx context.Context, id string) (*models.Variant, error)
}

type DiscountRepository interface {
	FindDiscount(ctx context.Context, code string) (*models.Discount, error)
	FindGiftCard(ctx context.Context, code string) (*models.GiftCard, error)
}

type ShippingOptionRepository interface {
	ListByRegion(ctx context.Context, regionID string) ([]models.ShippingOption, error)
}

type PaymentRepository interface {
	ListProviders(ctx context.Context, regionID string) ([]models.PaymentProvider, error)
	FindProviderDiscount(ctx context.Context, providerID string) (*models.PaymentProviderDiscount, error)
	ReplacePendingSession(ctx context.Context, session *models.PaymentSession) error
	FindSessionByTxnID(ctx context.Context, txnID string) (*models.PaymentSession, error)
	UpdateSessionStatus(ctx context.Context, id string, status models.PaymentSessionStatus) error
}

type OrderRepository interface {
	Complete(ctx context.Context, cartID string, build repositories.OrderBuilder) (*models.Order, bool, error)
	FindByCartID(ctx context.Context, cartID string) (*models.Order, error)
	FindByTxnID(ctx context.Context, txnID string) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID string) (bool, error)
	MarkPaymentFailed(ctx context.Context, orderID string) (bool, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
}

// TagInvalidator drops cached responses by tag or path.
type TagInvalidator interface {
	InvalidateTag(ctx context.Context, tag string) (int, error)
	InvalidatePath(ctx context.Context, path string) error
}

type OrderMailer interface {
	SendOrderConfirmation(order *models.Order) error
}

type EventPublisher interface {
	PublishOrderPaid(ctx context.Context, event libs.OrderPaidEvent) error
}
