package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"toy-store/models"
)

type DiscountRepository struct {
	db *pgxpool.Pool
}

func NewDiscountRepository(db *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) FindDiscount(ctx context.Context, code string) (*models.Discount, error) {
	query := `SELECT code, kind, value, active FROM discounts WHERE UPPER(code) = $1`

	var d models.Discount
	var kind string
	err := r.db.QueryRow(ctx, query, strings.ToUpper(code)).Scan(&d.Code, &kind, &d.Value, &d.Active)
	if err != nil {
		return nil, notFound(err)
	}
	d.Kind = models.DiscountKind(kind)
	return &d, nil
}

func (r *DiscountRepository) FindGiftCard(ctx context.Context, code string) (*models.GiftCard, error) {
	query := `SELECT code, balance FROM gift_cards WHERE UPPER(code) = $1 AND active = true`

	var gc models.GiftCard
	err := r.db.QueryRow(ctx, query, strings.ToUpper(code)).Scan(&gc.Code, &gc.Balance)
	if err != nil {
		return nil, notFound(err)
	}
	return &gc, nil
}
