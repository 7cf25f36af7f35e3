package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"toy-store/models"
)

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

// touchCart bumps updated_at strictly forward so every mutation yields a new
// cart signature.
const touchCart = `
	UPDATE carts SET updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
	WHERE id = $1
	RETURNING updated_at`

func (r *CartRepository) Create(ctx context.Context, cart *models.Cart) error {
	query := `
		INSERT INTO carts (id, region_id, currency_code, customer_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		cart.ID, cart.RegionID, cart.CurrencyCode, cart.CustomerID, cart.Email,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*models.Cart, error) {
	return loadCart(ctx, r.db, id, false)
}

func (r *CartRepository) FindRegion(ctx context.Context, id string) (*models.Region, error) {
	query := `SELECT id, name, currency_code, tax_rate FROM regions WHERE id = $1`
	args := []any{id}
	if id == "" {
		query = `SELECT id, name, currency_code, tax_rate FROM regions ORDER BY id LIMIT 1`
		args = nil
	}

	var region models.Region
	err := r.db.QueryRow(ctx, query, args...).Scan(&region.ID, &region.Name, &region.CurrencyCode, &region.TaxRate)
	if err != nil {
		return nil, notFound(err)
	}
	return &region, nil
}

// UpdateDetails writes the customer-editable cart fields and returns the new
// updated_at through cart.
func (r *CartRepository) UpdateDetails(ctx context.Context, cart *models.Cart) error {
	address, err := jsonb(cart.ShippingAddress)
	if err != nil {
		return err
	}
	method, err := jsonb(cart.ShippingMethod)
	if err != nil {
		return err
	}
	var discountCode *string
	if cart.Discount != nil {
		discountCode = &cart.Discount.Code
	}

	query := `
		UPDATE carts SET
			customer_id = NULLIF($2, ''),
			email = $3,
			shipping_address = $4,
			shipping_method = $5,
			discount_code = $6,
			updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRow(ctx, query,
		cart.ID, cart.CustomerID, cart.Email, address, method, discountCode,
	).Scan(&cart.UpdatedAt)
	return notFound(err)
}

func (r *CartRepository) AddLineItems(ctx context.Context, cartID string, items ...models.LineItem) (time.Time, error) {
	var updatedAt time.Time
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, item := range items {
			metadata, err := json.Marshal(item.Metadata)
			if err != nil {
				return err
			}
			if item.Metadata == nil {
				metadata = []byte("{}")
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO line_items (id, cart_id, variant_id, product_id, title, quantity, unit_price, metadata, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, clock_timestamp())`,
				item.ID, cartID, item.VariantID, item.ProductID, item.Title, item.Quantity, item.UnitPrice, metadata,
			)
			if err != nil {
				return fmt.Errorf("insert line item: %w", err)
			}
		}
		return notFound(tx.QueryRow(ctx, touchCart, cartID).Scan(&updatedAt))
	})
	return updatedAt, err
}

func (r *CartRepository) SetQuantity(ctx context.Context, cartID string, lineIDs []string, quantity int) (time.Time, error) {
	var updatedAt time.Time
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE line_items SET quantity = $3 WHERE cart_id = $1 AND id = ANY($2)`,
			cartID, lineIDs, quantity)
		if err != nil {
			return err
		}
		return notFound(tx.QueryRow(ctx, touchCart, cartID).Scan(&updatedAt))
	})
	return updatedAt, err
}

func (r *CartRepository) DeleteLineItems(ctx context.Context, cartID string, lineIDs []string) (time.Time, error) {
	var updatedAt time.Time
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM line_items WHERE cart_id = $1 AND id = ANY($2)`, cartID, lineIDs)
		if err != nil {
			return err
		}
		return notFound(tx.QueryRow(ctx, touchCart, cartID).Scan(&updatedAt))
	})
	return updatedAt, err
}

func (r *CartRepository) AddGiftCard(ctx context.Context, cartID, code string) (time.Time, error) {
	var updatedAt time.Time
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO cart_gift_cards (cart_id, code) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			cartID, code)
		if err != nil {
			return err
		}
		return notFound(tx.QueryRow(ctx, touchCart, cartID).Scan(&updatedAt))
	})
	return updatedAt, err
}

// loadCart reads a cart with its lines, discount, gift cards and pending
// payment session. Totals are left for the caller to recalculate.
func loadCart(ctx context.Context, q DBTX, id string, forUpdate bool) (*models.Cart, error) {
	query := `
		SELECT c.id, c.region_id, c.currency_code, COALESCE(c.customer_id, ''), c.email,
		       c.shipping_address, c.shipping_method, c.completed_at, c.created_at, c.updated_at,
		       r.tax_rate, d.code, d.kind, d.value, d.active
		FROM carts c
		JOIN regions r ON r.id = c.region_id
		LEFT JOIN discounts d ON d.code = c.discount_code
		WHERE c.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF c`
	}

	var (
		cart           models.Cart
		address        []byte
		method         []byte
		discountCode   *string
		discountKind   *string
		discountValue  decimal.NullDecimal
		discountActive *bool
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&cart.ID, &cart.RegionID, &cart.CurrencyCode, &cart.CustomerID, &cart.Email,
		&address, &method, &cart.CompletedAt, &cart.CreatedAt, &cart.UpdatedAt,
		&cart.TaxRate, &discountCode, &discountKind, &discountValue, &discountActive,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if cart.ShippingAddress, err = decodeJSONB[models.Address](address); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if cart.ShippingMethod, err = decodeJSONB[models.ShippingMethod](method); err != nil {
		return nil, fmt.Errorf("decode shipping method: %w", err)
	}
	if discountCode != nil && discountKind != nil {
		cart.Discount = &models.Discount{
			Code:   *discountCode,
			Kind:   models.DiscountKind(*discountKind),
			Value:  discountValue.Decimal,
			Active: discountActive != nil && *discountActive,
		}
	}

	if cart.Items, err = loadLineItems(ctx, q, id); err != nil {
		return nil, err
	}
	if cart.GiftCards, err = loadGiftCards(ctx, q, id); err != nil {
		return nil, err
	}
	if cart.PaymentSession, err = findPendingSession(ctx, q, id); err != nil {
		return nil, err
	}
	return &cart, nil
}

func loadLineItems(ctx context.Context, q DBTX, cartID string) ([]models.LineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, cart_id, variant_id, product_id, title, quantity, unit_price, metadata, created_at
		FROM line_items WHERE cart_id = $1 ORDER BY created_at, id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		var metadata []byte
		if err := rows.Scan(&item.ID, &item.CartID, &item.VariantID, &item.ProductID, &item.Title,
			&item.Quantity, &item.UnitPrice, &metadata, &item.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
				return nil, fmt.Errorf("decode line item metadata: %w", err)
			}
		}
		if len(item.Metadata) == 0 {
			item.Metadata = nil
		}
		item.RecalculateTotal()
		items = append(items, item)
	}
	return items, rows.Err()
}

func loadGiftCards(ctx context.Context, q DBTX, cartID string) ([]models.GiftCard, error) {
	rows, err := q.Query(ctx, `
		SELECT g.code, g.balance
		FROM cart_gift_cards cg JOIN gift_cards g ON g.code = cg.code
		WHERE cg.cart_id = $1 AND g.active = true
		ORDER BY g.code`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.GiftCard
	for rows.Next() {
		var gc models.GiftCard
		if err := rows.Scan(&gc.Code, &gc.Balance); err != nil {
			return nil, err
		}
		cards = append(cards, gc)
	}
	return cards, rows.Err()
}
