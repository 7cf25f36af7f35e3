package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"toy-store/models"
)

type VariantRepository struct {
	db *pgxpool.Pool
}

func NewVariantRepository(db *pgxpool.Pool) *VariantRepository {
	return &VariantRepository{db: db}
}

func (r *VariantRepository) ListActive(ctx context.Context, page, limit int) ([]models.Variant, int, error) {
	offset := (page - 1) * limit

	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM variants v JOIN products p ON p.id = v.product_id
		WHERE v.is_active = true AND p.is_active = true`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT v.id, v.product_id, p.title, v.title, v.price, v.stock, v.is_active, v.created_at
	          FROM variants v JOIN products p ON p.id = v.product_id
	          WHERE v.is_active = true AND p.is_active = true
	          ORDER BY p.title, v.title LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	variants := []models.Variant{}
	for rows.Next() {
		var v models.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.ProductTitle, &v.Title, &v.Price, &v.Stock, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, 0, err
		}
		variants = append(variants, v)
	}
	return variants, total, rows.Err()
}

func (r *VariantRepository) FindByID(ctx context.Context, id string) (*models.Variant, error) {
	query := `SELECT v.id, v.product_id, p.title, v.title, v.price, v.stock, v.is_active, v.created_at
	          FROM variants v JOIN products p ON p.id = v.product_id
	          WHERE v.id = $1`

	var v models.Variant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ProductID, &v.ProductTitle, &v.Title, &v.Price, &v.Stock, &v.IsActive, &v.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}
