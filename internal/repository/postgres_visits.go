package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrofund/internal/domain"
)

const visitColumns = `id, investor_id, farm_id, visit_date, visit_time, guests, notes,
	status, admin_notes, reviewed_by, created_at`

type PostgresVisitsRepository struct {
	db *sql.DB
}

func NewPostgresVisitsRepository(db *sql.DB) *PostgresVisitsRepository {
	return &PostgresVisitsRepository{db: db}
}

var _ VisitsRepository = (*PostgresVisitsRepository)(nil)

func scanVisit(row rowScanner) (*domain.FarmVisit, error) {
	var v domain.FarmVisit
	err := row.Scan(&v.ID, &v.InvestorID, &v.FarmID, &v.VisitDate, &v.VisitTime, &v.Guests, &v.Notes,
		&v.Status, &v.AdminNotes, &v.ReviewedBy, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresVisitsRepository) CreateVisit(ctx context.Context, v *domain.FarmVisit) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO farm_visits (investor_id, farm_id, visit_date, visit_time, guests, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, v.InvestorID, v.FarmID, v.VisitDate, v.VisitTime, v.Guests, v.Notes, v.Status).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create farm visit: %w", err)
	}
	return nil
}

func (r *PostgresVisitsRepository) GetVisit(ctx context.Context, id string) (*domain.FarmVisit, error) {
	v, err := scanVisit(r.db.QueryRowContext(ctx, `SELECT `+visitColumns+` FROM farm_visits WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "farm visit", id)
	}
	return v, nil
}

func (r *PostgresVisitsRepository) ListVisits(ctx context.Context, filter VisitsFilter, page, size int) ([]*domain.FarmVisit, int, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.InvestorID != "" {
		w.add("investor_id = $%d", filter.InvestorID)
	}
	if filter.FarmID != "" {
		w.add("farm_id = $%d", filter.FarmID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM farm_visits `+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count farm visits: %w", err)
	}

	where := w.clause()
	limit := w.page(page, size)
	rows, err := r.db.QueryContext(ctx, `SELECT `+visitColumns+` FROM farm_visits `+where+` ORDER BY visit_date ASC, visit_time ASC `+limit, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list farm visits: %w", err)
	}
	defer rows.Close()

	items := []*domain.FarmVisit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan farm visit: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate farm visits: %w", err)
	}
	return items, total, nil
}

func (r *PostgresVisitsRepository) UpdateVisitStatus(ctx context.Context, v *domain.FarmVisit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE farm_visits SET status = $2, admin_notes = $3, reviewed_by = $4
		WHERE id = $1
	`, v.ID, v.Status, v.AdminNotes, v.ReviewedBy)
	if err != nil {
		return fmt.Errorf("failed to update farm visit: %w", err)
	}
	return checkAffected(res, "farm visit", v.ID)
}
