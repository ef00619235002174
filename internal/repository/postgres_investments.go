package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrofund/internal/domain"
)

const investmentColumns = `id, investor_id, package_id, amount, roi_percent, expected_return,
	status, start_date, end_date, created_at, updated_at`

type PostgresInvestmentsRepository struct {
	db *sql.DB
}

func NewPostgresInvestmentsRepository(db *sql.DB) *PostgresInvestmentsRepository {
	return &PostgresInvestmentsRepository{db: db}
}

var _ InvestmentsRepository = (*PostgresInvestmentsRepository)(nil)

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var inv domain.Investment
	err := row.Scan(&inv.ID, &inv.InvestorID, &inv.PackageID, &inv.Amount, &inv.ROIPercent, &inv.ExpectedReturn,
		&inv.Status, &inv.StartDate, &inv.EndDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresInvestmentsRepository) CreateInvestment(ctx context.Context, inv *domain.Investment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO investments (investor_id, package_id, amount, roi_percent, expected_return, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, inv.InvestorID, inv.PackageID, inv.Amount, inv.ROIPercent, inv.ExpectedReturn, inv.Status).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func (r *PostgresInvestmentsRepository) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	inv, err := scanInvestment(r.db.QueryRowContext(ctx, `SELECT `+investmentColumns+` FROM investments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "investment", id)
	}
	return inv, nil
}

func (r *PostgresInvestmentsRepository) ListInvestments(ctx context.Context, filter InvestmentsFilter, page, size int) ([]*domain.Investment, int, error) {
	var w whereBuilder
	if filter.InvestorID != "" {
		w.add("investor_id = $%d", filter.InvestorID)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM investments `+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count investments: %w", err)
	}

	where := w.clause()
	limit := w.page(page, size)
	rows, err := r.db.QueryContext(ctx, `SELECT `+investmentColumns+` FROM investments `+where+` ORDER BY created_at DESC `+limit, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	items := []*domain.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan investment: %w", err)
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate investments: %w", err)
	}
	return items, total, nil
}

func (r *PostgresInvestmentsRepository) UpdateInvestmentStatus(ctx context.Context, inv *domain.Investment) error {
	return updateInvestmentStatus(ctx, r.db, inv)
}

// execer is shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateInvestmentStatus(ctx context.Context, db execer, inv *domain.Investment) error {
	res, err := db.ExecContext(ctx, `
		UPDATE investments SET status = $2, start_date = $3, end_date = $4, updated_at = NOW()
		WHERE id = $1
	`, inv.ID, inv.Status, inv.StartDate, inv.EndDate)
	if err != nil {
		return fmt.Errorf("failed to update investment status: %w", err)
	}
	return checkAffected(res, "investment", inv.ID)
}
