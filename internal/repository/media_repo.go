package repository

import (
	"context"

	"agrofund/internal/domain"
)

type MediaRepository interface {
	CreateMedia(ctx context.Context, m *domain.Media) error
	GetMedia(ctx context.Context, id string) (*domain.Media, error)
	// ListMedia returns media for a farm or an asset; at least one id must be set.
	ListMedia(ctx context.Context, farmID, assetID string) ([]*domain.Media, error)
	DeleteMedia(ctx context.Context, id string) error
}
