package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"toy-store/cache"
	"toy-store/models"
)

type RevalidateService struct {
	tags     TagInvalidator
	shipping cache.ShippingOptionsCache
	logger   *zap.Logger
}

func NewRevalidateService(tags TagInvalidator, shipping cache.ShippingOptionsCache, logger *zap.Logger) *RevalidateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevalidateService{tags: tags, shipping: shipping, logger: logger}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Revalidate drops every cached entry for the given tags and paths. The
// shipping tag also purges the shipping options cache.
func (s *RevalidateService) Revalidate(ctx context.Context, req models.RevalidateRequest) (*models.RevalidateResponse, error) {
	tags := dedupe(req.Tags)
	paths := dedupe(req.Paths)
	if len(tags) == 0 && len(paths) == 0 {
		return nil, fmt.Errorf("%w: provide tags or paths", ErrValidation)
	}

	for _, tag := range tags {
		n, err := s.tags.InvalidateTag(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("invalidate tag %q: %w", tag, err)
		}
		if tag == cache.TagShipping && s.shipping != nil {
			if err := s.shipping.Purge(ctx); err != nil {
				return nil, fmt.Errorf("purge shipping options: %w", err)
			}
		}
		s.logger.Info("revalidated tag", zap.String("tag", tag), zap.Int("entries", n))
	}
	for _, path := range paths {
		if err := s.tags.InvalidatePath(ctx, path); err != nil {
			return nil, fmt.Errorf("invalidate path %q: %w", path, err)
		}
		s.logger.Info("revalidated path", zap.String("path", path))
	}

	return &models.RevalidateResponse{Revalidated: true, Tags: tags, Paths: paths}, nil
}
