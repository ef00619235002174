package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrofund/internal/domain"
)

const paymentColumns = `id, investor_id, investment_id, amount, method, reference, proof_url,
	status, admin_notes, reviewed_by, reviewed_at, created_at`

type PostgresPaymentsRepository struct {
	db *sql.DB
}

func NewPostgresPaymentsRepository(db *sql.DB) *PostgresPaymentsRepository {
	return &PostgresPaymentsRepository{db: db}
}

var _ PaymentsRepository = (*PostgresPaymentsRepository)(nil)

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.InvestorID, &p.InvestmentID, &p.Amount, &p.Method, &p.Reference, &p.ProofURL,
		&p.Status, &p.AdminNotes, &p.ReviewedBy, &p.ReviewedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPaymentsRepository) CreatePayment(ctx context.Context, p *domain.Payment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (investor_id, investment_id, amount, method, reference, proof_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, p.InvestorID, p.InvestmentID, p.Amount, p.Method, p.Reference, p.ProofURL, p.Status).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PostgresPaymentsRepository) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	return p, nil
}

func (r *PostgresPaymentsRepository) ListPayments(ctx context.Context, filter PaymentsFilter, page, size int) ([]*domain.Payment, int, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.InvestorID != "" {
		w.add("investor_id = $%d", filter.InvestorID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments `+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	where := w.clause()
	limit := w.page(page, size)
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments `+where+` ORDER BY created_at DESC `+limit, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	items := []*domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return items, total, nil
}

func (r *PostgresPaymentsRepository) UpdatePaymentReview(ctx context.Context, p *domain.Payment) error {
	return updatePaymentReview(ctx, r.db, p)
}

func updatePaymentReview(ctx context.Context, db execer, p *domain.Payment) error {
	res, err := db.ExecContext(ctx, `
		UPDATE payments SET status = $2, reference = $3, admin_notes = $4, reviewed_by = $5, reviewed_at = $6
		WHERE id = $1
	`, p.ID, p.Status, p.Reference, p.AdminNotes, p.ReviewedBy, p.ReviewedAt)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return checkAffected(res, "payment", p.ID)
}

func (r *PostgresPaymentsRepository) VerifyAndAllocate(ctx context.Context, p *domain.Payment, inv *domain.Investment, a *domain.Asset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := updatePaymentReview(ctx, tx, p); err != nil {
		return err
	}
	if err := updateInvestmentStatus(ctx, tx, inv); err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO assets (investor_id, package_id, investment_id, farm_id, tag_id, asset_type, phase, status, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, a.InvestorID, a.PackageID, a.InvestmentID, a.FarmID, a.TagID, a.AssetType, a.Phase, a.Status, a.Amount).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to allocate asset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment verification: %w", err)
	}
	return nil
}
