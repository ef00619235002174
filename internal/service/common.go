package service

import (
	"context"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/metrics"
	"agrofund/internal/notify"
	"agrofund/internal/repository"

	"go.uber.org/zap"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// Page is the common paged list envelope.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Clock is overridden in tests.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time { return &t }

// transitioned records a committed status change in metrics and on the event bus.
func transitioned(ctx context.Context, pub events.Publisher, entity, id, to string, actor Actor, at time.Time) {
	metrics.RecordTransition(entity, to)
	if pub == nil {
		return
	}
	pub.Publish(ctx, events.Event{Entity: entity, ID: id, Status: to, Actor: actor.ID, At: at})
}

// CacheInvalidator drops cached dashboard snapshots after a state change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

func invalidate(ctx context.Context, c CacheInvalidator) {
	if c != nil {
		c.Invalidate(ctx)
	}
}

// notifyUser looks up the recipient and sends one notification. Failures are
// logged and never returned: the state change has already committed.
func notifyUser(ctx context.Context, sender notify.Sender, profiles repository.ProfilesRepository, logger *zap.Logger, userID, kind string, details map[string]any) {
	if sender == nil {
		return
	}
	p, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		logger.Warn("Notification skipped: recipient lookup failed", zap.String("type", kind), zap.String("user_id", userID), zap.Error(err))
		return
	}
	err = sender.Send(ctx, notify.Notification{
		Type:           kind,
		RecipientEmail: p.Email,
		RecipientName:  p.FullName,
		Details:        details,
	})
	if err != nil {
		logger.Warn("Notification delivery failed", zap.String("type", kind), zap.String("user_id", userID), zap.Error(err))
	}
}
