package service

import (
	"context"
	"fmt"
	"strings"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WithdrawalService struct {
	withdrawals repository.WithdrawalsRepository
	profiles    repository.ProfilesRepository
	publisher   events.Publisher
	cache       CacheInvalidator
	minAmount   decimal.Decimal
	now         Clock
	logger      *zap.Logger
}

func NewWithdrawalService(withdrawals repository.WithdrawalsRepository, profiles repository.ProfilesRepository, publisher events.Publisher, cache CacheInvalidator, minAmount decimal.Decimal, logger *zap.Logger) *WithdrawalService {
	return &WithdrawalService{
		withdrawals: withdrawals,
		profiles:    profiles,
		publisher:   publisher,
		cache:       cache,
		minAmount:   minAmount,
		now:         systemClock,
		logger:      logger,
	}
}

type RequestWithdrawalRequest struct {
	InvestorID string          `json:"-" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Method     string          `json:"method" validate:"required,oneof=bank momo"`
}

// RequestWithdrawal snapshots the investor's payout details onto a new request.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, req RequestWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Amount.LessThan(s.minAmount) {
		return nil, fmt.Errorf("%w: minimum withdrawal is %s", domain.ErrBelowMinimum, s.minAmount.StringFixed(2))
	}
	if err := domain.CheckCents(req.Amount); err != nil {
		return nil, err
	}
	amount := req.Amount
	p, err := s.profiles.GetProfile(ctx, req.InvestorID)
	if err != nil {
		return nil, err
	}
	if !p.HasPayoutDetails(req.Method) {
		return nil, fmt.Errorf("payout details for %s are incomplete; update your profile first", req.Method)
	}

	w := &domain.WithdrawalRequest{
		InvestorID:     req.InvestorID,
		Amount:         amount,
		Method:         req.Method,
		AccountDetails: p.PayoutAccount(req.Method),
		Status:         domain.WithdrawalPending,
	}
	if err := s.withdrawals.CreateWithdrawal(ctx, w); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	s.logger.Info("Withdrawal requested", zap.String("withdrawal_id", w.ID), zap.String("amount", w.Amount.StringFixed(2)))
	return w, nil
}

type ListWithdrawalsRequest struct {
	Status     string
	InvestorID string
	Page       int
	Size       int
}

func (s *WithdrawalService) ListWithdrawals(ctx context.Context, req ListWithdrawalsRequest) (*Page[*domain.WithdrawalRequest], error) {
	items, total, err := s.withdrawals.ListWithdrawals(ctx, repository.WithdrawalsFilter{
		Status:     req.Status,
		InvestorID: req.InvestorID,
	}, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return &Page[*domain.WithdrawalRequest]{Items: items, Total: total}, nil
}

type ProcessWithdrawalRequest struct {
	Admin        Actor  `json:"-"`
	WithdrawalID string `json:"-"`
	Reference    string `json:"reference" validate:"max=120"`
	Notes        string `json:"notes" validate:"max=1000"`
}

func (s *WithdrawalService) Approve(ctx context.Context, req ProcessWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	return s.process(ctx, req, domain.WithdrawalApproved)
}

func (s *WithdrawalService) Reject(ctx context.Context, req ProcessWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	return s.process(ctx, req, domain.WithdrawalRejected)
}

// MarkPaid records the payout reference of an approved request.
func (s *WithdrawalService) MarkPaid(ctx context.Context, req ProcessWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	if strings.TrimSpace(req.Reference) == "" {
		return nil, fmt.Errorf("payout reference is required")
	}
	return s.process(ctx, req, domain.WithdrawalPaid)
}

func (s *WithdrawalService) MarkFailed(ctx context.Context, req ProcessWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	return s.process(ctx, req, domain.WithdrawalFailed)
}

func (s *WithdrawalService) process(ctx context.Context, req ProcessWithdrawalRequest, to string) (*domain.WithdrawalRequest, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	w, err := s.withdrawals.GetWithdrawal(ctx, req.WithdrawalID)
	if err != nil {
		return nil, err
	}
	if err := domain.WithdrawalWorkflow.Check(w.Status, to); err != nil {
		return nil, err
	}

	now := s.now()
	w.Status = to
	if ref := strings.TrimSpace(req.Reference); ref != "" {
		w.Reference = &ref
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		w.AdminNotes = &notes
	}
	w.ProcessedBy = strPtr(req.Admin.ID)
	w.ProcessedAt = timePtr(now)
	if err := s.withdrawals.UpdateWithdrawalStatus(ctx, w); err != nil {
		return nil, err
	}

	transitioned(ctx, s.publisher, domain.WithdrawalWorkflow.Entity(), w.ID, to, req.Admin, now)
	invalidate(ctx, s.cache)
	s.logger.Info("Withdrawal processed", zap.String("withdrawal_id", w.ID), zap.String("status", to), zap.String("admin", req.Admin.ID))
	return w, nil
}
