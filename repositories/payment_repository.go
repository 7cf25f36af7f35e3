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

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) ListProviders(ctx context.Context, regionID string) ([]models.PaymentProvider, error) {
	query := `
		SELECT p.id, p.name
		FROM payment_providers p
		JOIN region_payment_providers rp ON rp.provider_id = p.id
		WHERE rp.region_id = $1 AND p.is_active = true
		ORDER BY p.id
	`
	rows, err := r.db.Query(ctx, query, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	providers := []models.PaymentProvider{}
	for rows.Next() {
		var p models.PaymentProvider
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// FindProviderDiscount returns nil when the provider has no discount row.
func (r *PaymentRepository) FindProviderDiscount(ctx context.Context, providerID string) (*models.PaymentProviderDiscount, error) {
	query := `SELECT provider_id, percentage, active FROM payment_provider_discounts WHERE provider_id = $1`

	var d models.PaymentProviderDiscount
	err := r.db.QueryRow(ctx, query, providerID).Scan(&d.ProviderID, &d.Percentage, &d.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// ReplacePendingSession drops any pending session of the cart and stores
// session in its place, in one transaction.
func (r *PaymentRepository) ReplacePendingSession(ctx context.Context, session *models.PaymentSession) error {
	data, err := json.Marshal(session.Data)
	if err != nil {
		return err
	}
	if session.Data == nil {
		data = []byte("{}")
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM payment_sessions WHERE cart_id = $1 AND status = 'pending'`, session.CartID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO payment_sessions (id, cart_id, provider_id, status, data, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			session.ID, session.CartID, session.ProviderID, string(session.Status), data,
			session.CreatedAt, session.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert payment session: %w", err)
		}
		_, err = tx.Exec(ctx, touchCart, session.CartID)
		return err
	})
}

func (r *PaymentRepository) FindSessionByTxnID(ctx context.Context, txnID string) (*models.PaymentSession, error) {
	query := `
		SELECT id, cart_id, provider_id, status, data, created_at, updated_at
		FROM payment_sessions WHERE data->>'txnid' = $1
		ORDER BY created_at DESC LIMIT 1
	`
	return scanSession(r.db.QueryRow(ctx, query, txnID))
}

func (r *PaymentRepository) UpdateSessionStatus(ctx context.Context, id string, status models.PaymentSessionStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE payment_sessions SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func findPendingSession(ctx context.Context, q DBTX, cartID string) (*models.PaymentSession, error) {
	query := `
		SELECT id, cart_id, provider_id, status, data, created_at, updated_at
		FROM payment_sessions WHERE cart_id = $1 AND status = 'pending'
	`
	session, err := scanSession(q.QueryRow(ctx, query, cartID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return session, err
}

func scanSession(row pgx.Row) (*models.PaymentSession, error) {
	var s models.PaymentSession
	var status string
	var data []byte
	if err := row.Scan(&s.ID, &s.CartID, &s.ProviderID, &status, &data, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	s.Status = models.PaymentSessionStatus(status)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.Data); err != nil {
			return nil, fmt.Errorf("decode payment session data: %w", err)
		}
	}
	return &s, nil
}
