package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agrofund/internal/domain"
	"agrofund/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FarmService manages farms and the media attached to farms and assets.
type FarmService struct {
	farms   repository.FarmsRepository
	farmers repository.FarmersRepository
	assets  repository.AssetsRepository
	media   repository.MediaRepository
	logger  *zap.Logger
}

func NewFarmService(farms repository.FarmsRepository, farmers repository.FarmersRepository, assets repository.AssetsRepository, media repository.MediaRepository, logger *zap.Logger) *FarmService {
	return &FarmService{farms: farms, farmers: farmers, assets: assets, media: media, logger: logger}
}

type FarmRequest struct {
	Actor        Actor           `json:"-"`
	FarmID       string          `json:"-"`
	Name         string          `json:"name" validate:"required,max=200"`
	Description  string          `json:"description" validate:"max=2000"`
	Location     string          `json:"location" validate:"required,max=200"`
	Region       string          `json:"region" validate:"max=100"`
	SizeHectares decimal.Decimal `json:"size_hectares" validate:"gte=0"`
	FarmType     string          `json:"farm_type" validate:"required,oneof=livestock crop mixed"`
	Crops        []string        `json:"crops" validate:"max=50,dive,max=60"`
}

func (r *FarmRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
	r.Region = strings.TrimSpace(r.Region)
	crops := make([]string, 0, len(r.Crops))
	for _, c := range r.Crops {
		if c = strings.TrimSpace(c); c != "" {
			crops = append(crops, c)
		}
	}
	r.Crops = crops
}

// CreateFarm registers a farm owned by the calling farmer.
func (s *FarmService) CreateFarm(ctx context.Context, req FarmRequest) (*domain.Farm, error) {
	req.normalize()
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	farmer, err := s.farmers.GetFarmerByUser(ctx, req.Actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: apply as a farmer before adding farms", domain.ErrForbidden)
		}
		return nil, err
	}

	f := &domain.Farm{
		FarmerID:     farmer.ID,
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		Region:       req.Region,
		SizeHectares: req.SizeHectares,
		FarmType:     req.FarmType,
		Crops:        req.Crops,
	}
	if err := s.farms.CreateFarm(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("Farm created", zap.String("farm_id", f.ID), zap.String("farmer_id", f.FarmerID))
	return f, nil
}

// UpdateFarm rewrites the descriptive fields. Owner or admin only.
func (s *FarmService) UpdateFarm(ctx context.Context, req FarmRequest) (*domain.Farm, error) {
	req.normalize()
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	f, err := s.farms.GetFarm(ctx, req.FarmID)
	if err != nil {
		return nil, err
	}
	if err := s.checkFarmOwner(ctx, req.Actor, f); err != nil {
		return nil, err
	}

	f.Name = req.Name
	f.Description = req.Description
	f.Location = req.Location
	f.Region = req.Region
	f.SizeHectares = req.SizeHectares
	f.FarmType = req.FarmType
	f.Crops = req.Crops
	if err := s.farms.UpdateFarm(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FarmService) GetFarm(ctx context.Context, id string) (*domain.Farm, error) {
	if id == "" {
		return nil, fmt.Errorf("farm id is required")
	}
	return s.farms.GetFarm(ctx, id)
}

type ListFarmsRequest struct {
	FarmerID string
	Region   string
	FarmType string
	Verified *bool
	Page     int
	Size     int
}

func (s *FarmService) ListFarms(ctx context.Context, req ListFarmsRequest) (*Page[*domain.Farm], error) {
	items, total, err := s.farms.ListFarms(ctx, repository.FarmsFilter{
		FarmerID: req.FarmerID,
		Region:   strings.TrimSpace(req.Region),
		FarmType: strings.TrimSpace(req.FarmType),
		Verified: req.Verified,
	}, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return &Page[*domain.Farm]{Items: items, Total: total}, nil
}

type SetFarmVerificationRequest struct {
	Admin       Actor  `json:"-"`
	FarmID      string `json:"-" validate:"required"`
	IsVerified  bool   `json:"is_verified"`
	IsCertified bool   `json:"is_certified"`
}

// SetFarmVerification sets both booleans. A farm cannot be certified without
// being verified.
func (s *FarmService) SetFarmVerification(ctx context.Context, req SetFarmVerificationRequest) (*domain.Farm, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.IsCertified && !req.IsVerified {
		return nil, fmt.Errorf("a farm must be verified before it can be certified")
	}
	if err := s.farms.SetFarmVerification(ctx, req.FarmID, req.IsVerified, req.IsCertified); err != nil {
		return nil, err
	}
	return s.farms.GetFarm(ctx, req.FarmID)
}

// checkFarmOwner passes for admins and for the farmer that owns f.
func (s *FarmService) checkFarmOwner(ctx context.Context, actor Actor, f *domain.Farm) error {
	if actor.IsAdmin() {
		return nil
	}
	farmer, err := s.farmers.GetFarmer(ctx, f.FarmerID)
	if err != nil {
		return err
	}
	if farmer.UserID != actor.ID {
		return domain.ErrForbidden
	}
	return nil
}

type AddMediaRequest struct {
	Actor     Actor  `json:"-"`
	FarmID    string `json:"farm_id" validate:"required_without=AssetID"`
	AssetID   string `json:"asset_id"`
	URL       string `json:"url" validate:"required,url"`
	MediaType string `json:"media_type" validate:"required,oneof=image video"`
	Caption   string `json:"caption" validate:"max=500"`
}

// AddMedia attaches a media URL to a farm or an asset. Farm owners may add to
// their farms and to assets hosted on them; admins may add anywhere.
func (s *FarmService) AddMedia(ctx context.Context, req AddMediaRequest) (*domain.Media, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if req.FarmID != "" {
		f, err := s.farms.GetFarm(ctx, req.FarmID)
		if err != nil {
			return nil, err
		}
		if err := s.checkFarmOwner(ctx, req.Actor, f); err != nil {
			return nil, err
		}
	}
	if req.AssetID != "" {
		a, err := s.assets.GetAsset(ctx, req.AssetID)
		if err != nil {
			return nil, err
		}
		if !req.Actor.IsAdmin() {
			if a.FarmID == nil {
				return nil, domain.ErrForbidden
			}
			f, err := s.farms.GetFarm(ctx, *a.FarmID)
			if err != nil {
				return nil, err
			}
			if err := s.checkFarmOwner(ctx, req.Actor, f); err != nil {
				return nil, err
			}
		}
	}

	m := &domain.Media{
		FarmID:     strPtr(req.FarmID),
		AssetID:    strPtr(req.AssetID),
		URL:        req.URL,
		MediaType:  req.MediaType,
		Caption:    strings.TrimSpace(req.Caption),
		UploadedBy: req.Actor.ID,
	}
	if err := s.media.CreateMedia(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *FarmService) ListMedia(ctx context.Context, farmID, assetID string) ([]*domain.Media, error) {
	if farmID == "" && assetID == "" {
		return nil, fmt.Errorf("farm_id or asset_id is required")
	}
	return s.media.ListMedia(ctx, farmID, assetID)
}

// DeleteMedia is allowed to admins and to the uploader.
func (s *FarmService) DeleteMedia(ctx context.Context, actor Actor, id string) error {
	m, err := s.media.GetMedia(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && m.UploadedBy != actor.ID {
		return domain.ErrForbidden
	}
	return s.media.DeleteMedia(ctx, id)
}
