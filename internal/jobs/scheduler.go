// Package jobs runs the periodic maintenance tasks of the API process.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	JobDashboardRefresh = "dashboard_refresh"
	JobCertExpiry       = "certification_expiry"

	// StatusCertificationExpiring is published on farmer events by the sweep.
	StatusCertificationExpiring = "certification_expiring"
)

// DashboardRefresher recomputes the cached admin snapshot.
type DashboardRefresher interface {
	RefreshAdmin(ctx context.Context) (*domain.AdminStats, error)
}

// ExpiringCertifications lists certified farmers whose certificate ends within the window.
type ExpiringCertifications interface {
	ExpiringCertifications(ctx context.Context, within time.Duration) ([]*domain.Farmer, error)
}

type Config struct {
	DashboardRefreshSpec string
	CertExpirySpec       string
	CertExpiryWindow     time.Duration
	Timeout              time.Duration
}

// Scheduler owns a cron instance; jobs run with a per-run timeout and report
// to metrics.
type Scheduler struct {
	cron      *cron.Cron
	cfg       Config
	dashboard DashboardRefresher
	farmers   ExpiringCertifications
	publisher events.Publisher
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
}

func NewScheduler(cfg Config, dashboard DashboardRefresher, farmers ExpiringCertifications, publisher events.Publisher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.CertExpiryWindow <= 0 {
		cfg.CertExpiryWindow = 30 * 24 * time.Hour
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cfg:       cfg,
		dashboard: dashboard,
		farmers:   farmers,
		publisher: publisher,
		logger:    logger,
	}

	if dashboard != nil && cfg.DashboardRefreshSpec != "" {
		if _, err := s.cron.AddFunc(cfg.DashboardRefreshSpec, s.wrap(JobDashboardRefresh, s.RefreshDashboard)); err != nil {
			return nil, fmt.Errorf("invalid dashboard refresh schedule %q: %w", cfg.DashboardRefreshSpec, err)
		}
	}
	if farmers != nil && cfg.CertExpirySpec != "" {
		if _, err := s.cron.AddFunc(cfg.CertExpirySpec, s.wrap(JobCertExpiry, s.SweepExpiringCertifications)); err != nil {
			return nil, fmt.Errorf("invalid certification expiry schedule %q: %w", cfg.CertExpirySpec, err)
		}
	}
	return s, nil
}

// Entries reports how many jobs are scheduled.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("Job scheduler started", zap.Int("jobs", s.Entries()))
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Job scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) wrap(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()

		start := time.Now()
		err := fn(ctx)
		metrics.RecordJobRun(name, time.Since(start), err == nil)
		if err != nil {
			s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	}
}

// RefreshDashboard recomputes the admin dashboard snapshot.
func (s *Scheduler) RefreshDashboard(ctx context.Context) error {
	stats, err := s.dashboard.RefreshAdmin(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("Admin dashboard refreshed",
		zap.Int("pending_payments", stats.PendingPayments),
		zap.Int("pending_withdrawals", stats.PendingWithdrawals),
	)
	return nil
}

// SweepExpiringCertifications reports certificates ending inside the window.
// It never changes farmer state.
func (s *Scheduler) SweepExpiringCertifications(ctx context.Context) error {
	farmers, err := s.farmers.ExpiringCertifications(ctx, s.cfg.CertExpiryWindow)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, f := range farmers {
		fields := []zap.Field{zap.String("farmer_id", f.ID)}
		if f.CertificationNumber != nil {
			fields = append(fields, zap.String("certification_number", *f.CertificationNumber))
		}
		if f.CertificationExpiresAt != nil {
			fields = append(fields, zap.Time("expires_at", *f.CertificationExpiresAt))
		}
		s.logger.Warn("Certification expiring", fields...)
		s.publisher.Publish(ctx, events.Event{
			Entity: "farmer",
			ID:     f.ID,
			Status: StatusCertificationExpiring,
			Actor:  "scheduler",
			At:     now,
		})
	}
	if len(farmers) > 0 {
		s.logger.Info("Certification expiry sweep finished", zap.Int("expiring", len(farmers)))
	}
	return nil
}
