package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"agrofund/internal/domain"
)

const profileColumns = `id, email, full_name, phone, role, country, address,
	id_type, id_number, kyc_status, kyc_notes, payout_method, bank_name,
	bank_account_name, bank_account_number, momo_provider, momo_number,
	onboarding_completed, created_at, updated_at`

// PostgresProfilesRepository implements ProfilesRepository on lib/pq.
type PostgresProfilesRepository struct {
	db *sql.DB
}

func NewPostgresProfilesRepository(db *sql.DB) *PostgresProfilesRepository {
	return &PostgresProfilesRepository{db: db}
}

var _ ProfilesRepository = (*PostgresProfilesRepository)(nil)

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Role, &p.Country, &p.Address,
		&p.IDType, &p.IDNumber, &p.KYCStatus, &p.KYCNotes, &p.PayoutMethod, &p.BankName,
		&p.BankAccountName, &p.BankAccountNumber, &p.MoMoProvider, &p.MoMoNumber,
		&p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProfilesRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, full_name, phone, role, kyc_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, p.ID, p.Email, p.FullName, p.Phone, p.Role, p.KYCStatus).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("profile %s: %w", p.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *PostgresProfilesRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err, "profile", id)
	}
	return p, nil
}

func (r *PostgresProfilesRepository) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET
			full_name = $2, phone = $3, country = $4, address = $5,
			id_type = $6, id_number = $7, kyc_status = $8, kyc_notes = $9,
			payout_method = $10, bank_name = $11, bank_account_name = $12,
			bank_account_number = $13, momo_provider = $14, momo_number = $15,
			onboarding_completed = $16, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.FullName, p.Phone, p.Country, p.Address,
		p.IDType, p.IDNumber, p.KYCStatus, p.KYCNotes,
		p.PayoutMethod, p.BankName, p.BankAccountName,
		p.BankAccountNumber, p.MoMoProvider, p.MoMoNumber,
		p.OnboardingCompleted)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return checkAffected(res, "profile", p.ID)
}

func (r *PostgresProfilesRepository) ListProfiles(ctx context.Context, filter ProfilesFilter, page, size int) ([]*domain.Profile, int, error) {
	var w whereBuilder
	if filter.Role != "" {
		w.add("role = $%d", filter.Role)
	}
	if filter.KYCStatus != "" {
		w.add("kyc_status = $%d", filter.KYCStatus)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		w.add("(full_name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+s+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles `+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	where := w.clause()
	limit := w.page(page, size)
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles `+where+` ORDER BY created_at DESC `+limit, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	items := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan profile: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return items, total, nil
}
