package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/repository"

	"go.uber.org/zap"
)

// FarmerService handles farmer applications, the four-flag verification and
// certification.
type FarmerService struct {
	farmers   repository.FarmersRepository
	profiles  repository.ProfilesRepository
	publisher events.Publisher
	cache     CacheInvalidator
	validity  time.Duration
	random    io.Reader
	now       Clock
	logger    *zap.Logger
}

func NewFarmerService(farmers repository.FarmersRepository, profiles repository.ProfilesRepository, publisher events.Publisher, cache CacheInvalidator, validity time.Duration, logger *zap.Logger) *FarmerService {
	if validity <= 0 {
		validity = domain.DefaultCertificationValidity
	}
	return &FarmerService{
		farmers:   farmers,
		profiles:  profiles,
		publisher: publisher,
		cache:     cache,
		validity:  validity,
		now:       systemClock,
		logger:    logger,
	}
}

type ApplyFarmerRequest struct {
	UserID          string `json:"-" validate:"required"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0,lte=80"`
	Specialization  string `json:"specialization" validate:"required,max=120"`
	IDDocumentURL   string `json:"id_document_url" validate:"omitempty,url"`
}

func (s *FarmerService) Apply(ctx context.Context, req ApplyFarmerRequest) (*domain.Farmer, error) {
	req.Specialization = strings.TrimSpace(req.Specialization)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if p.Role != domain.RoleFarmer {
		return nil, fmt.Errorf("%w: only farmer accounts can apply", domain.ErrForbidden)
	}

	f := &domain.Farmer{
		UserID:          req.UserID,
		ExperienceYears: req.ExperienceYears,
		Specialization:  req.Specialization,
		IDDocumentURL:   req.IDDocumentURL,
	}
	f.Recompute()
	if err := s.farmers.CreateFarmer(ctx, f); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	s.logger.Info("Farmer application created", zap.String("farmer_id", f.ID), zap.String("user_id", f.UserID))
	return f, nil
}

func (s *FarmerService) GetFarmer(ctx context.Context, id string) (*domain.Farmer, error) {
	if id == "" {
		return nil, fmt.Errorf("farmer id is required")
	}
	return s.farmers.GetFarmer(ctx, id)
}

func (s *FarmerService) GetFarmerByUser(ctx context.Context, userID string) (*domain.Farmer, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.farmers.GetFarmerByUser(ctx, userID)
}

type ListFarmersRequest struct {
	Status    string
	Certified *bool
	Page      int
	Size      int
}

func (s *FarmerService) ListFarmers(ctx context.Context, req ListFarmersRequest) (*Page[*domain.Farmer], error) {
	items, total, err := s.farmers.ListFarmers(ctx, repository.FarmersFilter{
		Status:    strings.TrimSpace(req.Status),
		Certified: req.Certified,
	}, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	return &Page[*domain.Farmer]{Items: items, Total: total}, nil
}

type SetVerificationFlagRequest struct {
	Admin    Actor  `json:"-"`
	FarmerID string `json:"-" validate:"required"`
	Flag     string `json:"flag" validate:"required"`
	Value    bool   `json:"value"`
}

// SetVerificationFlag toggles one flag and rewrites the derived status.
// Clearing a flag on a certified farmer leaves the certification in place.
func (s *FarmerService) SetVerificationFlag(ctx context.Context, req SetVerificationFlagRequest) (*domain.Farmer, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	f, err := s.farmers.GetFarmer(ctx, req.FarmerID)
	if err != nil {
		return nil, err
	}
	before := f.VerificationStatus
	if err := f.SetFlag(req.Flag, req.Value); err != nil {
		return nil, fmt.Errorf("%w: %q", err, req.Flag)
	}
	if err := s.farmers.UpdateVerification(ctx, f); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)

	if f.VerificationStatus != before {
		transitioned(ctx, s.publisher, "farmer", f.ID, f.VerificationStatus, req.Admin, s.now())
	}
	s.logger.Info("Verification flag updated",
		zap.String("farmer_id", f.ID),
		zap.String("flag", req.Flag),
		zap.Bool("value", req.Value),
		zap.String("status", f.VerificationStatus),
	)
	return f, nil
}

// IssueCertification certifies the farmer for the configured validity window.
func (s *FarmerService) IssueCertification(ctx context.Context, admin Actor, farmerID string) (*domain.Farmer, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if farmerID == "" {
		return nil, fmt.Errorf("farmer id is required")
	}
	f, err := s.farmers.GetFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	number, err := domain.NewCertificationNumber(now, s.random)
	if err != nil {
		return nil, err
	}
	if err := f.Issue(domain.Certification{Number: number, IssuedAt: now, ExpiresAt: now.Add(s.validity)}); err != nil {
		return nil, err
	}
	if err := s.farmers.UpdateVerification(ctx, f); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)

	transitioned(ctx, s.publisher, "farmer", f.ID, "certified", admin, now)
	s.logger.Info("Certification issued",
		zap.String("farmer_id", f.ID),
		zap.String("certification_number", number),
		zap.Time("expires_at", *f.CertificationExpiresAt),
	)
	return f, nil
}

type RejectFarmerRequest struct {
	Admin    Actor  `json:"-"`
	FarmerID string `json:"-" validate:"required"`
	Notes    string `json:"notes" validate:"required,max=1000"`
}

// RejectFarmer clears approval and any certification and stores the notes.
func (s *FarmerService) RejectFarmer(ctx context.Context, req RejectFarmerRequest) (*domain.Farmer, error) {
	if !req.Admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	f, err := s.farmers.GetFarmer(ctx, req.FarmerID)
	if err != nil {
		return nil, err
	}
	f.Reject(req.Notes)
	if err := s.farmers.UpdateVerification(ctx, f); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	transitioned(ctx, s.publisher, "farmer", f.ID, "rejected", req.Admin, s.now())
	return f, nil
}

// ExpiringCertifications lists certified farmers whose certificate ends within the window.
func (s *FarmerService) ExpiringCertifications(ctx context.Context, within time.Duration) ([]*domain.Farmer, error) {
	if within <= 0 {
		return nil, fmt.Errorf("window must be positive")
	}
	now := s.now()
	items, err := s.farmers.ListExpiringCertifications(ctx, now, now.Add(within))
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring certifications: %w", err)
	}
	return items, nil
}
