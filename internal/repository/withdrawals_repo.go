package repository

import (
	"context"

	"agrofund/internal/domain"
)

type WithdrawalsRepository interface {
	CreateWithdrawal(ctx context.Context, w *domain.WithdrawalRequest) error
	GetWithdrawal(ctx context.Context, id string) (*domain.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, filter WithdrawalsFilter, page, size int) ([]*domain.WithdrawalRequest, int, error)
	// UpdateWithdrawalStatus writes status, reference, notes and processor.
	UpdateWithdrawalStatus(ctx context.Context, w *domain.WithdrawalRequest) error
}

type WithdrawalsFilter struct {
	Status     string
	InvestorID string
}
