package repository

import (
	"context"

	"agrofund/internal/domain"
)

type VisitsRepository interface {
	CreateVisit(ctx context.Context, v *domain.FarmVisit) error
	GetVisit(ctx context.Context, id string) (*domain.FarmVisit, error)
	ListVisits(ctx context.Context, filter VisitsFilter, page, size int) ([]*domain.FarmVisit, int, error)
	UpdateVisitStatus(ctx context.Context, v *domain.FarmVisit) error
}

type VisitsFilter struct {
	Status     string
	InvestorID string
	FarmID     string
}
