package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrofund/internal/domain"
)

type PostgresDashboardRepository struct {
	db *sql.DB
}

func NewPostgresDashboardRepository(db *sql.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{db: db}
}

var _ DashboardRepository = (*PostgresDashboardRepository)(nil)

func (r *PostgresDashboardRepository) InvestorStats(ctx context.Context, investorID string) (*domain.InvestorStats, error) {
	var s domain.InvestorStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM investments WHERE investor_id = $1 AND status IN ('active', 'completed')), 0),
			COALESCE((SELECT SUM(expected_return) FROM investments WHERE investor_id = $1 AND status IN ('active', 'completed')), 0),
			COALESCE((SELECT SUM(amount) FROM payments WHERE investor_id = $1 AND status = 'pending'), 0),
			COALESCE((SELECT SUM(amount) FROM withdrawal_requests WHERE investor_id = $1 AND status = 'paid'), 0),
			(SELECT COUNT(*) FROM assets WHERE investor_id = $1),
			(SELECT COUNT(*) FROM investments WHERE investor_id = $1 AND status = 'active')
	`, investorID).Scan(&s.TotalInvested, &s.ExpectedReturns, &s.PendingPayments, &s.TotalWithdrawn,
		&s.AssetCount, &s.ActiveInvestments)
	if err != nil {
		return nil, fmt.Errorf("failed to compute investor stats: %w", err)
	}
	return &s, nil
}

func (r *PostgresDashboardRepository) AdminStats(ctx context.Context, now, expiringBefore time.Time) (*domain.AdminStats, error) {
	var s domain.AdminStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM payments WHERE status = 'pending'),
			(SELECT COUNT(*) FROM withdrawal_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM farmers WHERE verification_status IN ('pending', 'partially_verified')),
			(SELECT COUNT(*) FROM farm_visits WHERE status = 'pending'),
			(SELECT COUNT(*) FROM profiles WHERE kyc_status = 'submitted'),
			(SELECT COUNT(*) FROM profiles WHERE role = 'investor'),
			COALESCE((SELECT SUM(amount) FROM investments WHERE status = 'active'), 0),
			(SELECT COUNT(*) FROM farmers WHERE is_certified = TRUE
				AND certification_expires_at > $1 AND certification_expires_at <= $2)
	`, now, expiringBefore).Scan(&s.PendingPayments, &s.PendingWithdrawals, &s.FarmersAwaitingReview,
		&s.PendingVisits, &s.PendingKYC, &s.TotalInvestors, &s.FundsUnderManagement, &s.ExpiringCertifications)
	if err != nil {
		return nil, fmt.Errorf("failed to compute admin stats: %w", err)
	}
	return &s, nil
}
