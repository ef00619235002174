package repository

import (
	"context"

	"agrofund/internal/domain"
)

// ProfilesRepository reads and writes profiles. There is no delete.
type ProfilesRepository interface {
	CreateProfile(ctx context.Context, p *domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	// UpdateProfile writes every mutable column (last write wins).
	UpdateProfile(ctx context.Context, p *domain.Profile) error
	ListProfiles(ctx context.Context, filter ProfilesFilter, page, size int) ([]*domain.Profile, int, error)
}

// ProfilesFilter narrows ListProfiles; empty fields are ignored.
type ProfilesFilter struct {
	Role      string
	KYCStatus string
	Search    string // ILIKE on full_name / email
}
