package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/repository"
	"agrofund/internal/store"

	"go.uber.org/zap"
)

const (
	adminDashboardKey  = "dashboard:admin"
	dashboardKeyPrefix = "dashboard:"
	expiryWindow       = 30 * 24 * time.Hour
)

// DashboardService assembles the investor, farmer and admin dashboards. The
// admin view is cached in the KV store.
type DashboardService struct {
	stats    repository.DashboardRepository
	payments repository.PaymentsRepository
	farmers  repository.FarmersRepository
	farms    repository.FarmsRepository
	assets   repository.AssetsRepository
	kv       store.KV
	ttl      time.Duration
	now      Clock
	logger   *zap.Logger
}

type DashboardDeps struct {
	Stats    repository.DashboardRepository
	Payments repository.PaymentsRepository
	Farmers  repository.FarmersRepository
	Farms    repository.FarmsRepository
	Assets   repository.AssetsRepository
	KV       store.KV
	TTL      time.Duration
}

func NewDashboardService(deps DashboardDeps, logger *zap.Logger) *DashboardService {
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{
		stats:    deps.Stats,
		payments: deps.Payments,
		farmers:  deps.Farmers,
		farms:    deps.Farms,
		assets:   deps.Assets,
		kv:       deps.KV,
		ttl:      ttl,
		now:      systemClock,
		logger:   logger,
	}
}

var _ CacheInvalidator = (*DashboardService)(nil)

type InvestorDashboard struct {
	Stats          *domain.InvestorStats `json:"stats"`
	RecentPayments []*domain.Payment     `json:"recent_payments"`
}

func (s *DashboardService) InvestorDashboard(ctx context.Context, investorID string) (*InvestorDashboard, error) {
	if investorID == "" {
		return nil, fmt.Errorf("investor id is required")
	}
	stats, err := s.stats.InvestorStats(ctx, investorID)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.payments.ListPayments(ctx, repository.PaymentsFilter{InvestorID: investorID}, 1, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	return &InvestorDashboard{Stats: stats, RecentPayments: recent}, nil
}

type FarmerDashboard struct {
	Farmer       *domain.Farmer  `json:"farmer"`
	FarmCount    int             `json:"farm_count"`
	Farms        []*domain.Farm  `json:"farms"`
	HostedAssets []*domain.Asset `json:"hosted_assets"`
}

func (s *DashboardService) FarmerDashboard(ctx context.Context, userID string) (*FarmerDashboard, error) {
	farmer, err := s.farmers.GetFarmerByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	farms, total, err := s.farms.ListFarms(ctx, repository.FarmsFilter{FarmerID: farmer.ID}, 1, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}

	hosted := []*domain.Asset{}
	if len(farms) > 0 {
		ids := make([]string, 0, len(farms))
		for _, f := range farms {
			ids = append(ids, f.ID)
		}
		hosted, err = s.assets.ListAssets(ctx, repository.AssetsFilter{FarmIDs: ids})
		if err != nil {
			return nil, fmt.Errorf("failed to list hosted assets: %w", err)
		}
	}
	return &FarmerDashboard{Farmer: farmer, FarmCount: total, Farms: farms, HostedAssets: hosted}, nil
}

// AdminDashboard serves the cached snapshot, computing and storing it on a miss.
func (s *DashboardService) AdminDashboard(ctx context.Context) (*domain.AdminStats, error) {
	if s.kv != nil {
		var cached domain.AdminStats
		err := store.GetJSON(ctx, s.kv, adminDashboardKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, store.ErrMiss) {
			s.logger.Warn("Admin dashboard cache read failed", zap.Error(err))
		}
	}
	return s.RefreshAdmin(ctx)
}

// RefreshAdmin recomputes the admin snapshot and overwrites the cache.
func (s *DashboardService) RefreshAdmin(ctx context.Context) (*domain.AdminStats, error) {
	now := s.now()
	stats, err := s.stats.AdminStats(ctx, now, now.Add(expiryWindow))
	if err != nil {
		return nil, err
	}
	stats.GeneratedAt = now
	if s.kv != nil {
		if err := store.SetJSON(ctx, s.kv, adminDashboardKey, stats, s.ttl); err != nil {
			s.logger.Warn("Admin dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops every cached dashboard snapshot.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.kv == nil {
		return
	}
	keys, err := s.kv.ScanKeys(ctx, dashboardKeyPrefix+"*")
	if err != nil {
		s.logger.Warn("Dashboard cache scan failed", zap.Error(err))
		return
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		s.logger.Warn("Dashboard cache invalidation failed", zap.Error(err))
	}
}
