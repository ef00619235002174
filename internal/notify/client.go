// Package notify sends transactional email requests to the notification function.
package notify

import (
	"context"
	"fmt"
	"time"

	"agrofund/internal/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Notification kinds understood by the notification function.
const (
	TypePaymentApproved    = "payment_approved"
	TypePaymentRejected    = "payment_rejected"
	TypeFarmVisitConfirmed = "farm_visit_confirmed"
)

// Notification is the wire payload of the notification function.
type Notification struct {
	Type           string         `json:"type"`
	RecipientEmail string         `json:"recipientEmail"`
	RecipientName  string         `json:"recipientName"`
	Details        map[string]any `json:"details"`
}

// Sender delivers a notification. Callers treat errors as non-fatal.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type errorBody struct {
	Error string `json:"error"`
}

// Client posts notifications to the function endpoint with a bearer key.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{httpClient: client, logger: logger}
}

var _ Sender = (*Client)(nil)

func (c *Client) Send(ctx context.Context, n Notification) error {
	if n.Type == "" || n.RecipientEmail == "" {
		return fmt.Errorf("notification type and recipient are required")
	}

	var failure errorBody
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(n).
		SetError(&failure).
		Post("/")
	if err != nil {
		metrics.RecordNotification(n.Type, false)
		return fmt.Errorf("failed to call notification function: %w", err)
	}
	if resp.IsError() {
		metrics.RecordNotification(n.Type, false)
		msg := failure.Error
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("notification function error: %s (status: %d)", msg, resp.StatusCode())
	}

	metrics.RecordNotification(n.Type, true)
	c.logger.Info("Notification sent",
		zap.String("type", n.Type),
		zap.String("recipient", n.RecipientEmail),
	)
	return nil
}

// Nop discards notifications. Used when no function URL is configured.
type Nop struct{}

func (Nop) Send(context.Context, Notification) error { return nil }
