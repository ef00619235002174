package notifyfn

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Handler is the HTTP entry point of the notification function.
type Handler struct {
	provider      Provider
	from          string
	sharedKey     string
	allowedOrigin string
	logger        *zap.Logger
}

func NewHandler(cfg Config, provider Provider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return &Handler{
		provider:      provider,
		from:          cfg.From,
		sharedKey:     cfg.SharedKey,
		allowedOrigin: origin,
		logger:        logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", h.allowedOrigin)
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resp, err := h.handle(r)
	if err != nil {
		h.logger.Error("Notification failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp)
}

func (h *Handler) handle(r *http.Request) (json.RawMessage, error) {
	var p Payload
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.New("invalid JSON payload")
	}
	if strings.TrimSpace(p.RecipientEmail) == "" {
		return nil, errors.New("recipientEmail is required")
	}

	subject, html, err := Render(p)
	if err != nil {
		return nil, err
	}

	resp, err := h.provider.SendEmail(r.Context(), Email{
		From:    h.from,
		To:      []string{p.RecipientEmail},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return nil, err
	}
	h.logger.Info("Email sent", zap.String("type", p.Type), zap.String("recipient", p.RecipientEmail))
	return resp, nil
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.sharedKey == "" {
		return true
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.sharedKey)) == 1
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
