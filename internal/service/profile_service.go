package service

import (
	"context"
	"fmt"
	"strings"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/repository"

	"go.uber.org/zap"
)

// ProfileService owns signup profiles, onboarding and KYC review.
type ProfileService struct {
	profiles  repository.ProfilesRepository
	publisher events.Publisher
	cache     CacheInvalidator
	now       Clock
	logger    *zap.Logger
}

func NewProfileService(profiles repository.ProfilesRepository, publisher events.Publisher, cache CacheInvalidator, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, publisher: publisher, cache: cache, now: systemClock, logger: logger}
}

type CreateProfileRequest struct {
	UserID   string `json:"-" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"max=200"`
	Phone    string `json:"phone" validate:"max=30"`
	Role     string `json:"role" validate:"required,oneof=investor farmer"`
}

// CreateProfile is called once at signup. Admin is never self-assigned.
func (s *ProfileService) CreateProfile(ctx context.Context, req CreateProfileRequest) (*domain.Profile, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	p := &domain.Profile{
		ID:        req.UserID,
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      req.Role,
		KYCStatus: domain.KYCNotSubmitted,
	}
	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	s.logger.Info("Profile created", zap.String("user_id", p.ID), zap.String("role", p.Role))
	return p, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("profile id is required")
	}
	return s.profiles.GetProfile(ctx, id)
}

// UpdateOnboardingRequest carries personal and payout fields. Nil leaves a field as is.
type UpdateOnboardingRequest struct {
	UserID            string  `json:"-" validate:"required"`
	FullName          *string `json:"full_name" validate:"omitempty,max=200"`
	Phone             *string `json:"phone" validate:"omitempty,max=30"`
	Country           *string `json:"country" validate:"omitempty,max=80"`
	Address           *string `json:"address" validate:"omitempty,max=300"`
	PayoutMethod      *string `json:"payout_method" validate:"omitempty,oneof=bank momo"`
	BankName          *string `json:"bank_name"`
	BankAccountName   *string `json:"bank_account_name"`
	BankAccountNumber *string `json:"bank_account_number"`
	MoMoProvider      *string `json:"momo_provider"`
	MoMoNumber        *string `json:"momo_number"`
}

func (s *ProfileService) UpdateOnboarding(ctx context.Context, req UpdateOnboardingRequest) (*domain.Profile, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.FullName, req.FullName)
	set(&p.Phone, req.Phone)
	set(&p.Country, req.Country)
	set(&p.Address, req.Address)
	set(&p.PayoutMethod, req.PayoutMethod)
	set(&p.BankName, req.BankName)
	set(&p.BankAccountName, req.BankAccountName)
	set(&p.BankAccountNumber, req.BankAccountNumber)
	set(&p.MoMoProvider, req.MoMoProvider)
	set(&p.MoMoNumber, req.MoMoNumber)
	p.OnboardingCompleted = p.OnboardingComplete()

	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type SubmitKYCRequest struct {
	UserID   string `json:"-" validate:"required"`
	IDType   string `json:"id_type" validate:"required,oneof=passport national_id drivers_license voter_id"`
	IDNumber string `json:"id_number" validate:"required,max=60"`
}

func (s *ProfileService) SubmitKYC(ctx context.Context, req SubmitKYCRequest) (*domain.Profile, error) {
	req.IDNumber = strings.TrimSpace(req.IDNumber)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := domain.KYCWorkflow.Check(p.KYCStatus, domain.KYCSubmitted); err != nil {
		return nil, err
	}

	p.IDType = req.IDType
	p.IDNumber = req.IDNumber
	p.KYCStatus = domain.KYCSubmitted
	p.KYCNotes = nil
	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	transitioned(ctx, s.publisher, domain.KYCWorkflow.Entity(), p.ID, p.KYCStatus, Actor{ID: p.ID}, s.now())
	return p, nil
}

type ReviewKYCRequest struct {
	Admin   Actor  `json:"-"`
	UserID  string `json:"-" validate:"required"`
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" validate:"max=1000"`
}

func (s *ProfileService) ReviewKYC(ctx context.Context, req ReviewKYCRequest) (*domain.Profile, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	to := domain.KYCRejected
	if req.Approve {
		to = domain.KYCVerified
	}
	if err := domain.KYCWorkflow.Check(p.KYCStatus, to); err != nil {
		return nil, err
	}
	p.KYCStatus = to
	p.KYCNotes = strPtr(strings.TrimSpace(req.Notes))
	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	transitioned(ctx, s.publisher, domain.KYCWorkflow.Entity(), p.ID, to, req.Admin, s.now())
	s.logger.Info("KYC reviewed", zap.String("user_id", p.ID), zap.String("status", to), zap.String("admin", req.Admin.ID))
	return p, nil
}

type ListProfilesRequest struct {
	Role      string
	KYCStatus string
	Search    string
	Page      int
	Size      int
}

func (s *ProfileService) ListProfiles(ctx context.Context, req ListProfilesRequest) (*Page[*domain.Profile], error) {
	items, total, err := s.profiles.ListProfiles(ctx, repository.ProfilesFilter{
		Role:      strings.TrimSpace(req.Role),
		KYCStatus: strings.TrimSpace(req.KYCStatus),
		Search:    req.Search,
	}, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return &Page[*domain.Profile]{Items: items, Total: total}, nil
}
