package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDashboard struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeDashboard) RefreshAdmin(context.Context) (*domain.AdminStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AdminStats{PendingPayments: 2}, nil
}

func (f *fakeDashboard) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeFarmers struct {
	window time.Duration
	items  []*domain.Farmer
}

func (f *fakeFarmers) ExpiringCertifications(_ context.Context, within time.Duration) ([]*domain.Farmer, error) {
	f.window = within
	return f.items, nil
}

type capturePublisher struct {
	events []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) { c.events = append(c.events, e) }

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(Config{DashboardRefreshSpec: "every now and then"}, &fakeDashboard{}, nil, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	s, err := NewScheduler(Config{DashboardRefreshSpec: "@every 5m", CertExpirySpec: "0 6 * * *"}, &fakeDashboard{}, &fakeFarmers{}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	s, err = NewScheduler(Config{DashboardRefreshSpec: "@every 5m"}, &fakeDashboard{}, &fakeFarmers{}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())
}

func TestSweepExpiringCertifications(t *testing.T) {
	number := "AGC-XYZ-ABC123"
	expires := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	farmers := &fakeFarmers{items: []*domain.Farmer{{ID: "f1", IsCertified: true, CertificationNumber: &number, CertificationExpiresAt: &expires}}}
	pub := &capturePublisher{}

	s, err := NewScheduler(Config{CertExpiryWindow: 14 * 24 * time.Hour}, nil, farmers, pub, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.SweepExpiringCertifications(context.Background()))

	assert.Equal(t, 14*24*time.Hour, farmers.window)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "farmer", pub.events[0].Entity)
	assert.Equal(t, "f1", pub.events[0].ID)
	assert.Equal(t, StatusCertificationExpiring, pub.events[0].Status)
	assert.True(t, farmers.items[0].IsCertified)
}

func TestRefreshDashboard_Error(t *testing.T) {
	s, err := NewScheduler(Config{}, &fakeDashboard{err: errors.New("db down")}, nil, nil, zap.NewNop())
	require.NoError(t, err)
	assert.EqualError(t, s.RefreshDashboard(context.Background()), "db down")

	// wrapped runs swallow the error after recording it
	s.wrap(JobDashboardRefresh, s.RefreshDashboard)()
}

func TestSchedulerRunsJobs(t *testing.T) {
	dash := &fakeDashboard{}
	s, err := NewScheduler(Config{DashboardRefreshSpec: "@every 1s"}, dash, nil, nil, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	s.Start()
	assert.Eventually(t, func() bool { return dash.count() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}
