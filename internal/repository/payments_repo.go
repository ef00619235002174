package repository

import (
	"context"

	"agrofund/internal/domain"
)

type PaymentsRepository interface {
	CreatePayment(ctx context.Context, p *domain.Payment) error
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	ListPayments(ctx context.Context, filter PaymentsFilter, page, size int) ([]*domain.Payment, int, error)
	// UpdatePaymentReview writes status, reference, admin notes and reviewer.
	UpdatePaymentReview(ctx context.Context, p *domain.Payment) error
	// VerifyAndAllocate commits the payment review, the investment activation
	// and the new asset in one transaction. a.ID and timestamps are filled in.
	VerifyAndAllocate(ctx context.Context, p *domain.Payment, inv *domain.Investment, a *domain.Asset) error
}

type PaymentsFilter struct {
	Status     string
	InvestorID string
}
