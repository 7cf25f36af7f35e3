package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"toy-store/models"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// OrderBuilder turns the locked cart into the order to insert.
type OrderBuilder func(cart *models.Cart) (*models.Order, error)

// Complete locks the cart row and turns it into an order. A cart that is
// already completed yields its existing order and created == false.
func (r *OrderRepository) Complete(ctx context.Context, cartID string, build OrderBuilder) (order *models.Order, created bool, err error) {
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		cart, err := loadCart(ctx, tx, cartID, true)
		if err != nil {
			return err
		}
		if cart.IsCompleted() {
			order, err = findOrder(ctx, tx, liveOrderByCart, cartID)
			return err
		}

		order, err = build(cart)
		if err != nil {
			return err
		}

		address, err := jsonb(order.ShippingAddress)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (id, cart_id, customer_id, email, currency_code, total, status,
			                    payment_provider_id, txn_id, shipping_address, created_at, updated_at)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING display_id, created_at, updated_at`,
			order.ID, cartID, order.CustomerID, order.Email, order.CurrencyCode, order.Total,
			string(order.Status), order.PaymentProviderID, order.TxnID, address,
		).Scan(&order.DisplayID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			metadata, err := json.Marshal(item.Metadata)
			if err != nil {
				return err
			}
			if item.Metadata == nil {
				metadata = []byte("{}")
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO order_items (id, order_id, variant_id, product_id, title, quantity, unit_price, total, metadata)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				item.ID, order.ID, item.VariantID, item.ProductID, item.Title, item.Quantity,
				item.UnitPrice, item.Total, metadata,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}

			tag, err := tx.Exec(ctx,
				`UPDATE variants SET stock = stock - $1 WHERE id = $2 AND stock >= $1`,
				item.Quantity, item.VariantID)
			if err != nil {
				return fmt.Errorf("update stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, item.Title)
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE carts SET completed_at = NOW(), updated_at = NOW() WHERE id = $1`, cartID); err != nil {
			return fmt.Errorf("complete cart: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return order, created, nil
}

func (r *OrderRepository) FindByCartID(ctx context.Context, cartID string) (*models.Order, error) {
	return findOrder(ctx, r.db, liveOrderByCart, cartID)
}

func (r *OrderRepository) FindByTxnID(ctx context.Context, txnID string) (*models.Order, error) {
	return findOrder(ctx, r.db, `o.txn_id = $1`, txnID)
}

// MarkPaid only moves a pending order; it reports false otherwise.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = 'paid', updated_at = NOW() WHERE id = $1 AND status = 'pending'`, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkPaymentFailed fails a pending order, gives its stock back and reopens
// the cart it came from. It reports false when the order was not pending.
func (r *OrderRepository) MarkPaymentFailed(ctx context.Context, orderID string) (reopened bool, err error) {
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var cartID string
		err := tx.QueryRow(ctx, `
			UPDATE orders SET status = 'payment_failed', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING cart_id`, orderID).Scan(&cartID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fail order: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE variants v SET stock = v.stock + r.quantity
			FROM (SELECT variant_id, SUM(quantity) AS quantity
			      FROM order_items WHERE order_id = $1 GROUP BY variant_id) r
			WHERE r.variant_id = v.id`, orderID); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE carts SET completed_at = NULL, updated_at = NOW() WHERE id = $1`, cartID); err != nil {
			return fmt.Errorf("reopen cart: %w", err)
		}
		reopened = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return reopened, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, orderSelect+` WHERE o.customer_id = $1 ORDER BY o.created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

const liveOrderByCart = `o.cart_id = $1 AND o.status <> 'payment_failed'`

const orderSelect = `
	SELECT o.id, o.display_id, o.cart_id, COALESCE(o.customer_id, ''), o.email, o.currency_code,
	       o.total, o.status, o.payment_provider_id, o.txn_id, o.shipping_address, o.created_at, o.updated_at
	FROM orders o`

func findOrder(ctx context.Context, q DBTX, where string, arg any) (*models.Order, error) {
	order, err := scanOrder(q.QueryRow(ctx, orderSelect+` WHERE `+where, arg))
	if err != nil {
		return nil, err
	}
	if order.Items, err = loadOrderItems(ctx, q, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var status string
	var address []byte
	err := row.Scan(&o.ID, &o.DisplayID, &o.CartID, &o.CustomerID, &o.Email, &o.CurrencyCode,
		&o.Total, &status, &o.PaymentProviderID, &o.TxnID, &address, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	o.Status = models.OrderStatus(status)
	if o.ShippingAddress, err = decodeJSONB[models.Address](address); err != nil {
		return nil, fmt.Errorf("decode order address: %w", err)
	}
	return &o, nil
}

func loadOrderItems(ctx context.Context, q DBTX, orderID string) ([]models.LineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, variant_id, product_id, title, quantity, unit_price, total, metadata
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		var metadata []byte
		if err := rows.Scan(&item.ID, &item.VariantID, &item.ProductID, &item.Title, &item.Quantity,
			&item.UnitPrice, &item.Total, &metadata); err != nil {
			return nil, err
		}
		if len(metadata) > 2 {
			if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
