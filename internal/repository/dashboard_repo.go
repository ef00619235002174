package repository

import (
	"context"
	"time"

	"agrofund/internal/domain"
)

// DashboardRepository runs the aggregate queries behind the dashboards.
type DashboardRepository interface {
	InvestorStats(ctx context.Context, investorID string) (*domain.InvestorStats, error)
	// AdminStats counts certifications valid at now that expire at or before
	// expiringBefore.
	AdminStats(ctx context.Context, now, expiringBefore time.Time) (*domain.AdminStats, error)
}
