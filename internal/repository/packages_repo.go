package repository

import (
	"context"

	"agrofund/internal/domain"
)

type PackagesRepository interface {
	CreatePackage(ctx context.Context, p *domain.Package) error
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
	UpdatePackage(ctx context.Context, p *domain.Package) error
	ListPackages(ctx context.Context, activeOnly bool) ([]*domain.Package, error)
}

// AssetsRepository covers reads and admin phase updates. Assets are only
// inserted by PaymentsRepository.VerifyAndAllocate.
type AssetsRepository interface {
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListAssets(ctx context.Context, filter AssetsFilter) ([]*domain.Asset, error)
	UpdateAssetPhase(ctx context.Context, a *domain.Asset) error
}

type AssetsFilter struct {
	InvestorID string
	FarmIDs    []string
}
