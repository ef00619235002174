package repository

import (
	"context"

	"agrofund/internal/domain"
)

type InvestmentsRepository interface {
	CreateInvestment(ctx context.Context, inv *domain.Investment) error
	GetInvestment(ctx context.Context, id string) (*domain.Investment, error)
	ListInvestments(ctx context.Context, filter InvestmentsFilter, page, size int) ([]*domain.Investment, int, error)
	// UpdateInvestmentStatus writes status, start_date and end_date.
	UpdateInvestmentStatus(ctx context.Context, inv *domain.Investment) error
}

type InvestmentsFilter struct {
	InvestorID string
	Status     string
}
