package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrofund/internal/domain"
)

const farmColumns = `id, farmer_id, name, description, location, region, size_hectares,
	farm_type, crops, is_verified, is_certified, created_at, updated_at`

type PostgresFarmsRepository struct {
	db *sql.DB
}

func NewPostgresFarmsRepository(db *sql.DB) *PostgresFarmsRepository {
	return &PostgresFarmsRepository{db: db}
}

var _ FarmsRepository = (*PostgresFarmsRepository)(nil)

func scanFarm(row rowScanner) (*domain.Farm, error) {
	var f domain.Farm
	err := row.Scan(
		&f.ID, &f.FarmerID, &f.Name, &f.Description, &f.Location, &f.Region, &f.SizeHectares,
		&f.FarmType, &f.Crops, &f.IsVerified, &f.IsCertified, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresFarmsRepository) CreateFarm(ctx context.Context, f *domain.Farm) error {
	if f.Crops == nil {
		f.Crops = []string{}
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO farms (farmer_id, name, description, location, region, size_hectares, farm_type, crops)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, f.FarmerID, f.Name, f.Description, f.Location, f.Region, f.SizeHectares, f.FarmType, f.Crops).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}
	return nil
}

func (r *PostgresFarmsRepository) GetFarm(ctx context.Context, id string) (*domain.Farm, error) {
	f, err := scanFarm(r.db.QueryRowContext(ctx, `SELECT `+farmColumns+` FROM farms WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "farm", id)
	}
	return f, nil
}

func (r *PostgresFarmsRepository) UpdateFarm(ctx context.Context, f *domain.Farm) error {
	if f.Crops == nil {
		f.Crops = []string{}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE farms SET
			name = $2, description = $3, location = $4, region = $5,
			size_hectares = $6, farm_type = $7, crops = $8, updated_at = NOW()
		WHERE id = $1
	`, f.ID, f.Name, f.Description, f.Location, f.Region, f.SizeHectares, f.FarmType, f.Crops)
	if err != nil {
		return fmt.Errorf("failed to update farm: %w", err)
	}
	return checkAffected(res, "farm", f.ID)
}

func (r *PostgresFarmsRepository) SetFarmVerification(ctx context.Context, id string, verified, certified bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE farms SET is_verified = $2, is_certified = $3, updated_at = NOW()
		WHERE id = $1
	`, id, verified, certified)
	if err != nil {
		return fmt.Errorf("failed to update farm verification: %w", err)
	}
	return checkAffected(res, "farm", id)
}

func (r *PostgresFarmsRepository) ListFarms(ctx context.Context, filter FarmsFilter, page, size int) ([]*domain.Farm, int, error) {
	var w whereBuilder
	if filter.FarmerID != "" {
		w.add("farmer_id = $%d", filter.FarmerID)
	}
	if filter.Region != "" {
		w.add("region = $%d", filter.Region)
	}
	if filter.FarmType != "" {
		w.add("farm_type = $%d", filter.FarmType)
	}
	if filter.Verified != nil {
		w.add("is_verified = $%d", *filter.Verified)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM farms `+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count farms: %w", err)
	}

	where := w.clause()
	limit := w.page(page, size)
	rows, err := r.db.QueryContext(ctx, `SELECT `+farmColumns+` FROM farms `+where+` ORDER BY name ASC `+limit, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list farms: %w", err)
	}
	defer rows.Close()

	items := []*domain.Farm{}
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan farm: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate farms: %w", err)
	}
	return items, total, nil
}
