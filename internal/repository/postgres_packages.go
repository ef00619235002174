package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrofund/internal/domain"

	"github.com/lib/pq"
)

const packageColumns = `id, name, category, description, unit_price, min_investment,
	roi_percent, duration_months, is_active, created_at, updated_at`

type PostgresPackagesRepository struct {
	db *sql.DB
}

func NewPostgresPackagesRepository(db *sql.DB) *PostgresPackagesRepository {
	return &PostgresPackagesRepository{db: db}
}

var _ PackagesRepository = (*PostgresPackagesRepository)(nil)

func scanPackage(row rowScanner) (*domain.Package, error) {
	var p domain.Package
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.UnitPrice, &p.MinInvestment,
		&p.ROIPercent, &p.DurationMonths, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPackagesRepository) CreatePackage(ctx context.Context, p *domain.Package) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO packages (name, category, description, unit_price, min_investment, roi_percent, duration_months, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Category, p.Description, p.UnitPrice, p.MinInvestment, p.ROIPercent, p.DurationMonths, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (r *PostgresPackagesRepository) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	p, err := scanPackage(r.db.QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "package", id)
	}
	return p, nil
}

func (r *PostgresPackagesRepository) UpdatePackage(ctx context.Context, p *domain.Package) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE packages SET
			name = $2, description = $3, unit_price = $4, min_investment = $5,
			roi_percent = $6, duration_months = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.UnitPrice, p.MinInvestment, p.ROIPercent, p.DurationMonths, p.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	return checkAffected(res, "package", p.ID)
}

func (r *PostgresPackagesRepository) ListPackages(ctx context.Context, activeOnly bool) ([]*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	items := []*domain.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate packages: %w", err)
	}
	return items, nil
}

const assetColumns = `id, investor_id, package_id, investment_id, farm_id, tag_id,
	asset_type, phase, status, amount, created_at, updated_at`

type PostgresAssetsRepository struct {
	db *sql.DB
}

func NewPostgresAssetsRepository(db *sql.DB) *PostgresAssetsRepository {
	return &PostgresAssetsRepository{db: db}
}

var _ AssetsRepository = (*PostgresAssetsRepository)(nil)

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(&a.ID, &a.InvestorID, &a.PackageID, &a.InvestmentID, &a.FarmID, &a.TagID,
		&a.AssetType, &a.Phase, &a.Status, &a.Amount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAssetsRepository) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	a, err := scanAsset(r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "asset", id)
	}
	return a, nil
}

func (r *PostgresAssetsRepository) ListAssets(ctx context.Context, filter AssetsFilter) ([]*domain.Asset, error) {
	var w whereBuilder
	if filter.InvestorID != "" {
		w.add("investor_id = $%d", filter.InvestorID)
	}
	if filter.FarmIDs != nil {
		w.add("farm_id = ANY($%d)", pq.Array(filter.FarmIDs))
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets `+w.clause()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	items := []*domain.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}
	return items, nil
}

func (r *PostgresAssetsRepository) UpdateAssetPhase(ctx context.Context, a *domain.Asset) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE assets SET phase = $2, status = $3, farm_id = $4, updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.Phase, a.Status, a.FarmID)
	if err != nil {
		return fmt.Errorf("failed to update asset phase: %w", err)
	}
	return checkAffected(res, "asset", a.ID)
}
