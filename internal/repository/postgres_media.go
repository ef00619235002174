package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrofund/internal/domain"
)

const mediaColumns = `id, farm_id, asset_id, url, media_type, caption, uploaded_by, created_at`

type PostgresMediaRepository struct {
	db *sql.DB
}

func NewPostgresMediaRepository(db *sql.DB) *PostgresMediaRepository {
	return &PostgresMediaRepository{db: db}
}

var _ MediaRepository = (*PostgresMediaRepository)(nil)

func scanMedia(row rowScanner) (*domain.Media, error) {
	var m domain.Media
	if err := row.Scan(&m.ID, &m.FarmID, &m.AssetID, &m.URL, &m.MediaType, &m.Caption, &m.UploadedBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresMediaRepository) CreateMedia(ctx context.Context, m *domain.Media) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO media (farm_id, asset_id, url, media_type, caption, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, m.FarmID, m.AssetID, m.URL, m.MediaType, m.Caption, m.UploadedBy).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

func (r *PostgresMediaRepository) GetMedia(ctx context.Context, id string) (*domain.Media, error) {
	m, err := scanMedia(r.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "media", id)
	}
	return m, nil
}

func (r *PostgresMediaRepository) ListMedia(ctx context.Context, farmID, assetID string) ([]*domain.Media, error) {
	var w whereBuilder
	if farmID != "" {
		w.add("farm_id = $%d", farmID)
	}
	if assetID != "" {
		w.add("asset_id = $%d", assetID)
	}
	if len(w.conds) == 0 {
		return nil, fmt.Errorf("farm_id or asset_id is required")
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+mediaColumns+` FROM media `+w.clause()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	items := []*domain.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media: %w", err)
	}
	return items, nil
}

func (r *PostgresMediaRepository) DeleteMedia(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return checkAffected(res, "media", id)
}
