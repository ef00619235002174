package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrofund/internal/domain"
)

const withdrawalColumns = `id, investor_id, amount, method, account_details, status,
	reference, admin_notes, processed_by, processed_at, created_at`

type PostgresWithdrawalsRepository struct {
	db *sql.DB
}

func NewPostgresWithdrawalsRepository(db *sql.DB) *PostgresWithdrawalsRepository {
	return &PostgresWithdrawalsRepository{db: db}
}

var _ WithdrawalsRepository = (*PostgresWithdrawalsRepository)(nil)

func scanWithdrawal(row rowScanner) (*domain.WithdrawalRequest, error) {
	var w domain.WithdrawalRequest
	err := row.Scan(&w.ID, &w.InvestorID, &w.Amount, &w.Method, &w.AccountDetails, &w.Status,
		&w.Reference, &w.AdminNotes, &w.ProcessedBy, &w.ProcessedAt, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PostgresWithdrawalsRepository) CreateWithdrawal(ctx context.Context, w *domain.WithdrawalRequest) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO withdrawal_requests (investor_id, amount, method, account_details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, w.InvestorID, w.Amount, w.Method, w.AccountDetails, w.Status).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

func (r *PostgresWithdrawalsRepository) GetWithdrawal(ctx context.Context, id string) (*domain.WithdrawalRequest, error) {
	w, err := scanWithdrawal(r.db.QueryRowContext(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "withdrawal request", id)
	}
	return w, nil
}

func (r *PostgresWithdrawalsRepository) ListWithdrawals(ctx context.Context, filter WithdrawalsFilter, page, size int) ([]*domain.WithdrawalRequest, int, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.InvestorID != "" {
		w.add("investor_id = $%d", filter.InvestorID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM withdrawal_requests `+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawal requests: %w", err)
	}

	where := w.clause()
	limit := w.page(page, size)
	rows, err := r.db.QueryContext(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests `+where+` ORDER BY created_at DESC `+limit, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	defer rows.Close()

	items := []*domain.WithdrawalRequest{}
	for rows.Next() {
		item, err := scanWithdrawal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan withdrawal request: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate withdrawal requests: %w", err)
	}
	return items, total, nil
}

func (r *PostgresWithdrawalsRepository) UpdateWithdrawalStatus(ctx context.Context, w *domain.WithdrawalRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE withdrawal_requests SET status = $2, reference = $3, admin_notes = $4, processed_by = $5, processed_at = $6
		WHERE id = $1
	`, w.ID, w.Status, w.Reference, w.AdminNotes, w.ProcessedBy, w.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal request: %w", err)
	}
	return checkAffected(res, "withdrawal request", w.ID)
}
