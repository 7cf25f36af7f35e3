package services

import (
	"context"
	"errors"
	"math"

	"toy-store/models"
	"toy-store/repositories"
)

type ProductService struct {
	variants          VariantRepository
	giftWrapVariantID string
}

func NewProductService(variants VariantRepository, giftWrapVariantID string) *ProductService {
	return &ProductService{variants: variants, giftWrapVariantID: giftWrapVariantID}
}

// GetAllProducts lists sellable variants. The gift-wrap variant is only
// reachable through a line item, so it is never listed.
func (s *ProductService) GetAllProducts(ctx context.Context, page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	variants, total, err := s.variants.ListActive(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	listed := make([]models.Variant, 0, len(variants))
	for _, v := range variants {
		if v.ID == s.giftWrapVariantID {
			total--
			continue
		}
		listed = append(listed, v)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    listed,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Variant, error) {
	if id == s.giftWrapVariantID {
		return nil, ErrNotFound
	}
	variant, err := s.variants.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return variant, err
}
