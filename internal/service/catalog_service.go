package service

import (
	"context"
	"fmt"
	"strings"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService covers investment packages and the assets allocated from them.
type CatalogService struct {
	packages  repository.PackagesRepository
	assets    repository.AssetsRepository
	farms     repository.FarmsRepository
	publisher events.Publisher
	now       Clock
	logger    *zap.Logger
}

func NewCatalogService(packages repository.PackagesRepository, assets repository.AssetsRepository, farms repository.FarmsRepository, publisher events.Publisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{packages: packages, assets: assets, farms: farms, publisher: publisher, now: systemClock, logger: logger}
}

func (s *CatalogService) ListPackages(ctx context.Context, activeOnly bool) ([]*domain.Package, error) {
	items, err := s.packages.ListPackages(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return items, nil
}

func (s *CatalogService) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	if id == "" {
		return nil, fmt.Errorf("package id is required")
	}
	return s.packages.GetPackage(ctx, id)
}

type PackageRequest struct {
	Admin          Actor           `json:"-"`
	PackageID      string          `json:"-"`
	Name           string          `json:"name" validate:"required,max=200"`
	Category       string          `json:"category" validate:"required,oneof=livestock crop"`
	Description    string          `json:"description" validate:"max=4000"`
	UnitPrice      decimal.Decimal `json:"unit_price" validate:"gt=0"`
	MinInvestment  decimal.Decimal `json:"min_investment" validate:"gt=0"`
	ROIPercent     decimal.Decimal `json:"roi_percent" validate:"gte=0,lte=100"`
	DurationMonths int             `json:"duration_months" validate:"gte=1,lte=120"`
	IsActive       *bool           `json:"is_active"`
}

func (s *CatalogService) CreatePackage(ctx context.Context, req PackageRequest) (*domain.Package, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p := &domain.Package{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		UnitPrice:      req.UnitPrice,
		MinInvestment:  req.MinInvestment,
		ROIPercent:     req.ROIPercent,
		DurationMonths: req.DurationMonths,
		IsActive:       req.IsActive == nil || *req.IsActive,
	}
	if err := s.packages.CreatePackage(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Package created", zap.String("package_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdatePackage rewrites a package. Category is fixed once created; existing
// investments keep the ROI they were created with.
func (s *CatalogService) UpdatePackage(ctx context.Context, req PackageRequest) (*domain.Package, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	req.Name = strings.TrimSpace(req.Name)
	p, err := s.packages.GetPackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	req.Category = p.Category
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Description = req.Description
	p.UnitPrice = req.UnitPrice
	p.MinInvestment = req.MinInvestment
	p.ROIPercent = req.ROIPercent
	p.DurationMonths = req.DurationMonths
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.packages.UpdatePackage(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) ListAssets(ctx context.Context, investorID string) ([]*domain.Asset, error) {
	if investorID == "" {
		return nil, fmt.Errorf("investor id is required")
	}
	items, err := s.assets.ListAssets(ctx, repository.AssetsFilter{InvestorID: investorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return items, nil
}

// GetAsset returns an asset to its owner or an admin.
func (s *CatalogService) GetAsset(ctx context.Context, actor Actor, id string) (*domain.Asset, error) {
	a, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && a.InvestorID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return a, nil
}

type UpdateAssetPhaseRequest struct {
	Admin   Actor  `json:"-"`
	AssetID string `json:"-" validate:"required"`
	Phase   string `json:"phase" validate:"required"`
	Status  string `json:"status"`
	FarmID  string `json:"farm_id"`
}

// UpdateAssetPhase moves an asset through its category's phases and may
// place it on a farm.
func (s *CatalogService) UpdateAssetPhase(ctx context.Context, req UpdateAssetPhaseRequest) (*domain.Asset, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	a, err := s.assets.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidPhase(a.AssetType, req.Phase) {
		return nil, fmt.Errorf("phase %q is not valid for %s assets", req.Phase, a.AssetType)
	}
	if req.Status != "" {
		if !domain.ValidAssetStatus(req.Status) {
			return nil, fmt.Errorf("unknown asset status %q", req.Status)
		}
		a.Status = req.Status
	}
	if req.FarmID != "" {
		if _, err := s.farms.GetFarm(ctx, req.FarmID); err != nil {
			return nil, err
		}
		a.FarmID = strPtr(req.FarmID)
	}
	a.Phase = req.Phase

	if err := s.assets.UpdateAssetPhase(ctx, a); err != nil {
		return nil, err
	}
	transitioned(ctx, s.publisher, "asset", a.ID, a.Phase, req.Admin, s.now())
	return a, nil
}
