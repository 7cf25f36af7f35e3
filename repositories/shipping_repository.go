package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"toy-store/models"
)

type ShippingRepository struct {
	db *pgxpool.Pool
}

func NewShippingRepository(db *pgxpool.Pool) *ShippingRepository {
	return &ShippingRepository{db: db}
}

func (r *ShippingRepository) ListByRegion(ctx context.Context, regionID string) ([]models.ShippingOption, error) {
	query := `
		SELECT id, name, region_id, amount, free_shipping_threshold
		FROM shipping_options
		WHERE region_id = $1 AND is_active = true
		ORDER BY amount, id
	`
	rows, err := r.db.Query(ctx, query, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.ShippingOption{}
	for rows.Next() {
		var o models.ShippingOption
		var threshold decimal.NullDecimal
		if err := rows.Scan(&o.ID, &o.Name, &o.RegionID, &o.Amount, &threshold); err != nil {
			return nil, err
		}
		if threshold.Valid {
			t := threshold.Decimal
			o.FreeShippingThreshold = &t
		}
		options = append(options, o)
	}
	return options, rows.Err()
}
