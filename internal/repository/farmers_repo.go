package repository

import (
	"context"
	"time"

	"agrofund/internal/domain"
)

// FarmersRepository persists farmer applications and their verification state.
type FarmersRepository interface {
	CreateFarmer(ctx context.Context, f *domain.Farmer) error
	GetFarmer(ctx context.Context, id string) (*domain.Farmer, error)
	GetFarmerByUser(ctx context.Context, userID string) (*domain.Farmer, error)
	// UpdateVerification writes the four flags, the derived status, notes and
	// certification columns in a single statement.
	UpdateVerification(ctx context.Context, f *domain.Farmer) error
	ListFarmers(ctx context.Context, filter FarmersFilter, page, size int) ([]*domain.Farmer, int, error)
	// ListExpiringCertifications returns certified farmers whose certificate
	// is still valid at now and expires at or before the given instant.
	ListExpiringCertifications(ctx context.Context, now, before time.Time) ([]*domain.Farmer, error)
}

type FarmersFilter struct {
	Status    string
	Certified *bool
}
