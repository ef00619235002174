package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrofund/internal/domain"
)

const farmerColumns = `id, user_id, experience_years, specialization, id_document_url,
	identity_verified, farm_verified, compliance_verified, admin_approved,
	verification_status, verification_notes, is_certified, certification_number,
	certification_issued_at, certification_expires_at, created_at, updated_at`

type PostgresFarmersRepository struct {
	db *sql.DB
}

func NewPostgresFarmersRepository(db *sql.DB) *PostgresFarmersRepository {
	return &PostgresFarmersRepository{db: db}
}

var _ FarmersRepository = (*PostgresFarmersRepository)(nil)

func scanFarmer(row rowScanner) (*domain.Farmer, error) {
	var f domain.Farmer
	err := row.Scan(
		&f.ID, &f.UserID, &f.ExperienceYears, &f.Specialization, &f.IDDocumentURL,
		&f.IdentityVerified, &f.FarmVerified, &f.ComplianceVerified, &f.AdminApproved,
		&f.VerificationStatus, &f.VerificationNotes, &f.IsCertified, &f.CertificationNumber,
		&f.CertificationIssuedAt, &f.CertificationExpiresAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresFarmersRepository) CreateFarmer(ctx context.Context, f *domain.Farmer) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO farmers (user_id, experience_years, specialization, id_document_url, verification_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, f.UserID, f.ExperienceYears, f.Specialization, f.IDDocumentURL, f.VerificationStatus).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("farmer for user %s: %w", f.UserID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create farmer: %w", err)
	}
	return nil
}

func (r *PostgresFarmersRepository) GetFarmer(ctx context.Context, id string) (*domain.Farmer, error) {
	f, err := scanFarmer(r.db.QueryRowContext(ctx, `SELECT `+farmerColumns+` FROM farmers WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "farmer", id)
	}
	return f, nil
}

func (r *PostgresFarmersRepository) GetFarmerByUser(ctx context.Context, userID string) (*domain.Farmer, error) {
	f, err := scanFarmer(r.db.QueryRowContext(ctx, `SELECT `+farmerColumns+` FROM farmers WHERE user_id = $1`, userID))
	if err != nil {
		return nil, notFound(err, "farmer for user", userID)
	}
	return f, nil
}

func (r *PostgresFarmersRepository) UpdateVerification(ctx context.Context, f *domain.Farmer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE farmers SET
			identity_verified = $2, farm_verified = $3, compliance_verified = $4,
			admin_approved = $5, verification_status = $6, verification_notes = $7,
			is_certified = $8, certification_number = $9,
			certification_issued_at = $10, certification_expires_at = $11,
			updated_at = NOW()
		WHERE id = $1
	`, f.ID, f.IdentityVerified, f.FarmVerified, f.ComplianceVerified,
		f.AdminApproved, f.VerificationStatus, f.VerificationNotes,
		f.IsCertified, f.CertificationNumber,
		f.CertificationIssuedAt, f.CertificationExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to update farmer verification: %w", err)
	}
	return checkAffected(res, "farmer", f.ID)
}

func (r *PostgresFarmersRepository) ListFarmers(ctx context.Context, filter FarmersFilter, page, size int) ([]*domain.Farmer, int, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("verification_status = $%d", filter.Status)
	}
	if filter.Certified != nil {
		w.add("is_certified = $%d", *filter.Certified)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM farmers `+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count farmers: %w", err)
	}

	where := w.clause()
	limit := w.page(page, size)
	rows, err := r.db.QueryContext(ctx, `SELECT `+farmerColumns+` FROM farmers `+where+` ORDER BY created_at DESC `+limit, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list farmers: %w", err)
	}
	defer rows.Close()

	items, err := collectFarmers(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresFarmersRepository) ListExpiringCertifications(ctx context.Context, now, before time.Time) ([]*domain.Farmer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+farmerColumns+` FROM farmers
		WHERE is_certified = TRUE AND certification_expires_at > $1 AND certification_expires_at <= $2
		ORDER BY certification_expires_at ASC
	`, now, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring certifications: %w", err)
	}
	defer rows.Close()
	return collectFarmers(rows)
}

func collectFarmers(rows *sql.Rows) ([]*domain.Farmer, error) {
	items := []*domain.Farmer{}
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan farmer: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate farmers: %w", err)
	}
	return items, nil
}
