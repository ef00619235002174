package repository

import (
	"context"

	"agrofund/internal/domain"
)

type FarmsRepository interface {
	CreateFarm(ctx context.Context, f *domain.Farm) error
	GetFarm(ctx context.Context, id string) (*domain.Farm, error)
	UpdateFarm(ctx context.Context, f *domain.Farm) error
	SetFarmVerification(ctx context.Context, id string, verified, certified bool) error
	ListFarms(ctx context.Context, filter FarmsFilter, page, size int) ([]*domain.Farm, int, error)
}

type FarmsFilter struct {
	FarmerID string
	Region   string
	FarmType string
	Verified *bool
}
