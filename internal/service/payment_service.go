package service

import (
	"context"
	"fmt"
	"strings"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/notify"
	"agrofund/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService takes investor payment submissions and the admin review.
type PaymentService struct {
	payments    repository.PaymentsRepository
	investments repository.InvestmentsRepository
	packages    repository.PackagesRepository
	profiles    repository.ProfilesRepository
	notifier    notify.Sender
	publisher   events.Publisher
	cache       CacheInvalidator
	now         Clock
	logger      *zap.Logger
}

type PaymentDeps struct {
	Payments    repository.PaymentsRepository
	Investments repository.InvestmentsRepository
	Packages    repository.PackagesRepository
	Profiles    repository.ProfilesRepository
	Notifier    notify.Sender
	Publisher   events.Publisher
	Cache       CacheInvalidator
}

func NewPaymentService(deps PaymentDeps, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		payments:    deps.Payments,
		investments: deps.Investments,
		packages:    deps.Packages,
		profiles:    deps.Profiles,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		cache:       deps.Cache,
		now:         systemClock,
		logger:      logger,
	}
}

type SubmitPaymentRequest struct {
	InvestorID   string          `json:"-" validate:"required"`
	InvestmentID string          `json:"investment_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Method       string          `json:"method" validate:"required,oneof=bank_transfer momo card"`
	Reference    string          `json:"reference" validate:"max=120"`
	ProofURL     string          `json:"proof_url" validate:"omitempty,url"`
}

// SubmitPayment records a payment against the investor's own pending investment.
func (s *PaymentService) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*domain.Payment, error) {
	req.Reference = strings.TrimSpace(req.Reference)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := domain.CheckCents(req.Amount); err != nil {
		return nil, err
	}
	inv, err := s.investments.GetInvestment(ctx, req.InvestmentID)
	if err != nil {
		return nil, err
	}
	if inv.InvestorID != req.InvestorID {
		return nil, domain.ErrForbidden
	}
	if inv.Status != domain.InvestmentPending {
		return nil, fmt.Errorf("%w: investment is %s", domain.ErrInvalidTransition, inv.Status)
	}

	p := &domain.Payment{
		InvestorID:   req.InvestorID,
		InvestmentID: inv.ID,
		Amount:       req.Amount,
		Method:       req.Method,
		Reference:    strPtr(req.Reference),
		ProofURL:     strPtr(req.ProofURL),
		Status:       domain.PaymentPending,
	}
	if err := s.payments.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	s.logger.Info("Payment submitted", zap.String("payment_id", p.ID), zap.String("investment_id", inv.ID))
	return p, nil
}

type ListPaymentsRequest struct {
	Status     string
	InvestorID string
	Page       int
	Size       int
}

func (s *PaymentService) ListPayments(ctx context.Context, req ListPaymentsRequest) (*Page[*domain.Payment], error) {
	items, total, err := s.payments.ListPayments(ctx, repository.PaymentsFilter{
		Status:     req.Status,
		InvestorID: req.InvestorID,
	}, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &Page[*domain.Payment]{Items: items, Total: total}, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, actor Actor, id string) (*domain.Payment, error) {
	p, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && p.InvestorID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

type ReviewPaymentRequest struct {
	Admin     Actor  `json:"-"`
	PaymentID string `json:"-" validate:"required"`
	Reference string `json:"reference" validate:"max=120"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// VerifyPaymentResponse carries the records written by a verification.
type VerifyPaymentResponse struct {
	Payment    *domain.Payment    `json:"payment"`
	Investment *domain.Investment `json:"investment"`
	Asset      *domain.Asset      `json:"asset"`
}

// VerifyPayment approves a pending payment. The payment review, investment
// activation and asset allocation commit together; the investor is notified
// afterwards.
func (s *PaymentService) VerifyPayment(ctx context.Context, req ReviewPaymentRequest) (*VerifyPaymentResponse, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.payments.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if err := domain.PaymentWorkflow.Check(p.Status, domain.PaymentVerified); err != nil {
		return nil, err
	}
	inv, err := s.investments.GetInvestment(ctx, p.InvestmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.InvestmentWorkflow.Check(inv.Status, domain.InvestmentActive); err != nil {
		return nil, err
	}
	pkg, err := s.packages.GetPackage(ctx, inv.PackageID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p.Status = domain.PaymentVerified
	if ref := strings.TrimSpace(req.Reference); ref != "" {
		p.Reference = &ref
	}
	p.AdminNotes = strPtr(strings.TrimSpace(req.Notes))
	p.ReviewedBy = strPtr(req.Admin.ID)
	p.ReviewedAt = timePtr(now)

	inv.Status = domain.InvestmentActive
	inv.StartDate = timePtr(now)
	inv.EndDate = timePtr(now.AddDate(0, pkg.DurationMonths, 0))

	asset := &domain.Asset{
		InvestorID:   inv.InvestorID,
		PackageID:    pkg.ID,
		InvestmentID: inv.ID,
		TagID:        domain.NewTagID(pkg.Category, now),
		AssetType:    pkg.Category,
		Phase:        domain.InitialPhase(pkg.Category),
		Status:       "active",
		Amount:       inv.Amount,
	}
	if err := s.payments.VerifyAndAllocate(ctx, p, inv, asset); err != nil {
		return nil, err
	}

	transitioned(ctx, s.publisher, domain.PaymentWorkflow.Entity(), p.ID, p.Status, req.Admin, now)
	transitioned(ctx, s.publisher, domain.InvestmentWorkflow.Entity(), inv.ID, inv.Status, req.Admin, now)
	invalidate(ctx, s.cache)
	s.logger.Info("Payment verified",
		zap.String("payment_id", p.ID),
		zap.String("investment_id", inv.ID),
		zap.String("tag_id", asset.TagID),
		zap.String("admin", req.Admin.ID),
	)

	details := map[string]any{
		"amount":      p.Amount.StringFixed(2),
		"packageName": pkg.Name,
		"tagId":       asset.TagID,
	}
	if p.Reference != nil {
		details["reference"] = *p.Reference
	}
	notifyUser(ctx, s.notifier, s.profiles, s.logger, p.InvestorID, notify.TypePaymentApproved, details)

	return &VerifyPaymentResponse{Payment: p, Investment: inv, Asset: asset}, nil
}

// RejectPayment closes a pending payment as rejected and tells the investor why.
func (s *PaymentService) RejectPayment(ctx context.Context, req ReviewPaymentRequest) (*domain.Payment, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.payments.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if err := domain.PaymentWorkflow.Check(p.Status, domain.PaymentRejected); err != nil {
		return nil, err
	}

	now := s.now()
	notes := strings.TrimSpace(req.Notes)
	p.Status = domain.PaymentRejected
	p.AdminNotes = strPtr(notes)
	p.ReviewedBy = strPtr(req.Admin.ID)
	p.ReviewedAt = timePtr(now)
	if err := s.payments.UpdatePaymentReview(ctx, p); err != nil {
		return nil, err
	}

	transitioned(ctx, s.publisher, domain.PaymentWorkflow.Entity(), p.ID, p.Status, req.Admin, now)
	invalidate(ctx, s.cache)
	notifyUser(ctx, s.notifier, s.profiles, s.logger, p.InvestorID, notify.TypePaymentRejected, map[string]any{
		"amount": p.Amount.StringFixed(2),
		"reason": notes,
	})
	return p, nil
}
