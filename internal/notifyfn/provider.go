package notifyfn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Email is the provider request body.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Provider sends one email and returns the provider's raw JSON response.
type Provider interface {
	SendEmail(ctx context.Context, e Email) (json.RawMessage, error)
}

type providerError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// HTTPProvider talks to a Resend-compatible `POST /emails` API.
type HTTPProvider struct {
	httpClient *resty.Client
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPProvider{httpClient: client}
}

var _ Provider = (*HTTPProvider)(nil)

func (p *HTTPProvider) SendEmail(ctx context.Context, e Email) (json.RawMessage, error) {
	var failure providerError
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(e).
		SetError(&failure).
		Post("/emails")
	if err != nil {
		return nil, fmt.Errorf("failed to call email provider: %w", err)
	}
	if resp.IsError() {
		msg := failure.Message
		if msg == "" {
			msg = resp.String()
		}
		return nil, fmt.Errorf("email provider error: %s (status: %d)", msg, resp.StatusCode())
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("email provider returned non-JSON body")
	}
	return json.RawMessage(body), nil
}
