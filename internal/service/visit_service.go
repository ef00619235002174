package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/notify"
	"agrofund/internal/repository"

	"go.uber.org/zap"
)

const visitDateLayout = "2006-01-02"

type VisitService struct {
	visits    repository.VisitsRepository
	farms     repository.FarmsRepository
	profiles  repository.ProfilesRepository
	notifier  notify.Sender
	publisher events.Publisher
	cache     CacheInvalidator
	now       Clock
	logger    *zap.Logger
}

type VisitDeps struct {
	Visits    repository.VisitsRepository
	Farms     repository.FarmsRepository
	Profiles  repository.ProfilesRepository
	Notifier  notify.Sender
	Publisher events.Publisher
	Cache     CacheInvalidator
}

func NewVisitService(deps VisitDeps, logger *zap.Logger) *VisitService {
	return &VisitService{
		visits:    deps.Visits,
		farms:     deps.Farms,
		profiles:  deps.Profiles,
		notifier:  deps.Notifier,
		publisher: deps.Publisher,
		cache:     deps.Cache,
		now:       systemClock,
		logger:    logger,
	}
}

type BookVisitRequest struct {
	InvestorID string `json:"-" validate:"required"`
	FarmID     string `json:"farm_id" validate:"required"`
	VisitDate  string `json:"visit_date" validate:"required,datetime=2006-01-02"`
	VisitTime  string `json:"visit_time" validate:"required,hhmm"`
	Guests     int    `json:"guests" validate:"gte=1,lte=10"`
	Notes      string `json:"notes" validate:"max=1000"`
}

// BookVisit requests a farm visit on today or a later date.
func (s *VisitService) BookVisit(ctx context.Context, req BookVisitRequest) (*domain.FarmVisit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	date, err := time.Parse(visitDateLayout, req.VisitDate)
	if err != nil {
		return nil, fmt.Errorf("invalid visit_date: %w", err)
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, fmt.Errorf("visit date %s is in the past", req.VisitDate)
	}
	if req.Guests > domain.MaxVisitGuests {
		return nil, fmt.Errorf("at most %d guests per visit", domain.MaxVisitGuests)
	}
	if _, err := s.farms.GetFarm(ctx, req.FarmID); err != nil {
		return nil, err
	}

	v := &domain.FarmVisit{
		InvestorID: req.InvestorID,
		FarmID:     req.FarmID,
		VisitDate:  date,
		VisitTime:  req.VisitTime,
		Guests:     req.Guests,
		Notes:      strPtr(strings.TrimSpace(req.Notes)),
		Status:     domain.VisitPending,
	}
	if err := s.visits.CreateVisit(ctx, v); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	return v, nil
}

type ListVisitsRequest struct {
	Status     string
	InvestorID string
	FarmID     string
	Page       int
	Size       int
}

func (s *VisitService) ListVisits(ctx context.Context, req ListVisitsRequest) (*Page[*domain.FarmVisit], error) {
	items, total, err := s.visits.ListVisits(ctx, repository.VisitsFilter{
		Status:     req.Status,
		InvestorID: req.InvestorID,
		FarmID:     req.FarmID,
	}, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list farm visits: %w", err)
	}
	return &Page[*domain.FarmVisit]{Items: items, Total: total}, nil
}

// ApproveVisit confirms a pending visit and emails the investor.
func (s *VisitService) ApproveVisit(ctx context.Context, admin Actor, id, notes string) (*domain.FarmVisit, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	v, err := s.move(ctx, admin, id, domain.VisitApproved, notes)
	if err != nil {
		return nil, err
	}

	details := map[string]any{
		"visitDate": v.VisitDate.Format(visitDateLayout),
		"visitTime": v.VisitTime,
		"guests":    v.Guests,
	}
	if farm, err := s.farms.GetFarm(ctx, v.FarmID); err == nil {
		details["farmName"] = farm.Name
		details["location"] = farm.Location
	} else {
		s.logger.Warn("Farm lookup for visit notification failed", zap.String("visit_id", v.ID), zap.Error(err))
	}
	notifyUser(ctx, s.notifier, s.profiles, s.logger, v.InvestorID, notify.TypeFarmVisitConfirmed, details)
	return v, nil
}

func (s *VisitService) RejectVisit(ctx context.Context, admin Actor, id, notes string) (*domain.FarmVisit, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.move(ctx, admin, id, domain.VisitRejected, notes)
}

func (s *VisitService) CompleteVisit(ctx context.Context, admin Actor, id string) (*domain.FarmVisit, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.move(ctx, admin, id, domain.VisitCompleted, "")
}

// CancelVisit is open to the booking investor and to admins.
func (s *VisitService) CancelVisit(ctx context.Context, actor Actor, id string) (*domain.FarmVisit, error) {
	if !actor.IsAdmin() {
		v, err := s.visits.GetVisit(ctx, id)
		if err != nil {
			return nil, err
		}
		if v.InvestorID != actor.ID {
			return nil, domain.ErrForbidden
		}
	}
	return s.move(ctx, actor, id, domain.VisitCancelled, "")
}

func (s *VisitService) move(ctx context.Context, actor Actor, id, to, notes string) (*domain.FarmVisit, error) {
	v, err := s.visits.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.VisitWorkflow.Check(v.Status, to); err != nil {
		return nil, err
	}
	v.Status = to
	if n := strings.TrimSpace(notes); n != "" {
		v.AdminNotes = &n
	}
	if actor.IsAdmin() {
		v.ReviewedBy = strPtr(actor.ID)
	}
	if err := s.visits.UpdateVisitStatus(ctx, v); err != nil {
		return nil, err
	}
	transitioned(ctx, s.publisher, domain.VisitWorkflow.Entity(), v.ID, to, actor, s.now())
	invalidate(ctx, s.cache)
	return v, nil
}
