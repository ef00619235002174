package service

import (
	"context"
	"sync"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/notify"
)

// recordingSender captures notifications; err makes every send fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (r *recordingSender) Send(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Entity+":"+e.Status)
	}
	return out
}

type countingCache struct{ n int }

func (c *countingCache) Invalidate(context.Context) { c.n++ }

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

var (
	admin    = Actor{ID: "admin-1", Role: domain.RoleAdmin}
	investor = Actor{ID: "inv-user-1", Role: domain.RoleInvestor}
	testNow  = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
)
