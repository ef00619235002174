package service

import (
	"context"
	"fmt"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InvestmentService struct {
	investments repository.InvestmentsRepository
	packages    repository.PackagesRepository
	publisher   events.Publisher
	cache       CacheInvalidator
	now         Clock
	logger      *zap.Logger
}

func NewInvestmentService(investments repository.InvestmentsRepository, packages repository.PackagesRepository, publisher events.Publisher, cache CacheInvalidator, logger *zap.Logger) *InvestmentService {
	return &InvestmentService{investments: investments, packages: packages, publisher: publisher, cache: cache, now: systemClock, logger: logger}
}

type CreateInvestmentRequest struct {
	InvestorID string          `json:"-" validate:"required"`
	PackageID  string          `json:"package_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
}

// CreateInvestment opens a pending investment. The package ROI is copied so
// later package edits do not change the promised return.
func (s *InvestmentService) CreateInvestment(ctx context.Context, req CreateInvestmentRequest) (*domain.Investment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	pkg, err := s.packages.GetPackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if err := pkg.AcceptsAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := domain.CheckCents(req.Amount); err != nil {
		return nil, err
	}
	amount := req.Amount

	inv := &domain.Investment{
		InvestorID:     req.InvestorID,
		PackageID:      pkg.ID,
		Amount:         amount,
		ROIPercent:     pkg.ROIPercent,
		ExpectedReturn: domain.ExpectedReturn(amount, pkg.ROIPercent),
		Status:         domain.InvestmentPending,
	}
	if err := s.investments.CreateInvestment(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Investment created",
		zap.String("investment_id", inv.ID),
		zap.String("investor_id", inv.InvestorID),
		zap.String("amount", inv.Amount.StringFixed(2)),
	)
	return inv, nil
}

type ListInvestmentsRequest struct {
	InvestorID string
	Status     string
	Page       int
	Size       int
}

func (s *InvestmentService) ListInvestments(ctx context.Context, req ListInvestmentsRequest) (*Page[*domain.Investment], error) {
	items, total, err := s.investments.ListInvestments(ctx, repository.InvestmentsFilter{
		InvestorID: req.InvestorID,
		Status:     req.Status,
	}, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return &Page[*domain.Investment]{Items: items, Total: total}, nil
}

// GetInvestment returns an investment to its owner or an admin.
func (s *InvestmentService) GetInvestment(ctx context.Context, actor Actor, id string) (*domain.Investment, error) {
	inv, err := s.investments.GetInvestment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && inv.InvestorID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// CancelInvestment withdraws a pending investment (owner or admin).
func (s *InvestmentService) CancelInvestment(ctx context.Context, actor Actor, id string) (*domain.Investment, error) {
	inv, err := s.GetInvestment(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.move(ctx, actor, inv, domain.InvestmentCancelled)
}

// CompleteInvestment closes an active investment at maturity (admin).
func (s *InvestmentService) CompleteInvestment(ctx context.Context, admin Actor, id string) (*domain.Investment, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	inv, err := s.investments.GetInvestment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.move(ctx, admin, inv, domain.InvestmentCompleted)
}

func (s *InvestmentService) move(ctx context.Context, actor Actor, inv *domain.Investment, to string) (*domain.Investment, error) {
	if err := domain.InvestmentWorkflow.Check(inv.Status, to); err != nil {
		return nil, err
	}
	inv.Status = to
	if err := s.investments.UpdateInvestmentStatus(ctx, inv); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	transitioned(ctx, s.publisher, domain.InvestmentWorkflow.Entity(), inv.ID, to, actor, s.now())
	return inv, nil
}
