package notifyfn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	sent []Email
	resp json.RawMessage
	err  error
}

func (f *fakeProvider) SendEmail(ctx context.Context, e Email) (json.RawMessage, error) {
	f.sent = append(f.sent, e)
	return f.resp, f.err
}

func newTestHandler(p Provider, sharedKey string) *Handler {
	return NewHandler(Config{From: "AgroFund <noreply@agrofund.app>", SharedKey: sharedKey}, p, zap.NewNop())
}

func TestRender_PaymentApproved(t *testing.T) {
	subject, html, err := Render(Payload{
		Type:          "payment_approved",
		RecipientName: "Kofi",
		Details:       map[string]any{"amount": "GHS 500.00", "packageName": "Broiler Batch", "tagId": "LIV-2026-1A2B3C4D"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Your payment has been approved", subject)
	assert.Contains(t, html, "Hello Kofi")
	assert.Contains(t, html, "Broiler Batch")
	assert.Contains(t, html, "LIV-2026-1A2B3C4D")
	assert.NotContains(t, html, "Reference:")
}

func TestRender_EscapesDetails(t *testing.T) {
	_, html, err := Render(Payload{Type: "payment_rejected", Details: map[string]any{"reason": "<script>x</script>"}})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Hello there")
}

func TestRender_UnknownType(t *testing.T) {
	_, _, err := Render(Payload{Type: "welcome"})
	assert.Error(t, err)
}

func TestHandler_Options(t *testing.T) {
	h := newTestHandler(&fakeProvider{}, "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "content-type")
}

func TestHandler_PostReturnsProviderResponse(t *testing.T) {
	p := &fakeProvider{resp: json.RawMessage(`{"id":"re_123"}`)}
	h := newTestHandler(p, "")

	body := `{"type":"farm_visit_confirmed","recipientEmail":"ama@example.com","recipientName":"Ama","details":{"farmName":"Green Acres","visitDate":"2026-05-02","visitTime":"10:00","guests":3}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"re_123"}`, rec.Body.String())
	require.Len(t, p.sent, 1)
	assert.Equal(t, []string{"ama@example.com"}, p.sent[0].To)
	assert.Equal(t, "Your farm visit is confirmed", p.sent[0].Subject)
	assert.Contains(t, p.sent[0].HTML, "Guests: 3")
}

func TestHandler_ProviderFailureIs500(t *testing.T) {
	h := newTestHandler(&fakeProvider{err: errors.New("email provider error: invalid from")}, "")

	body := `{"type":"payment_rejected","recipientEmail":"ama@example.com","details":{}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"email provider error: invalid from"}`, rec.Body.String())
}

func TestHandler_BadPayloads(t *testing.T) {
	h := newTestHandler(&fakeProvider{}, "")
	for _, body := range []string{`{`, `{"type":"payment_approved"}`, `{"type":"nope","recipientEmail":"a@b.c"}`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, body)

		var out map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.NotEmpty(t, out["error"])
	}
}

func TestHandler_SharedKey(t *testing.T) {
	h := newTestHandler(&fakeProvider{resp: json.RawMessage(`{}`)}, "k1")
	body := `{"type":"payment_rejected","recipientEmail":"ama@example.com"}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer k1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&fakeProvider{}, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTPProvider_SendEmail(t *testing.T) {
	var got Email
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_1"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "re_key", 5*time.Second)
	resp, err := p.SendEmail(context.Background(), Email{From: "a@b.c", To: []string{"d@e.f"}, Subject: "s", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"re_1"}`, string(resp))
	assert.Equal(t, []string{"d@e.f"}, got.To)
}

func TestHTTPProvider_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"Invalid from field"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL, "", 5*time.Second).SendEmail(context.Background(), Email{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid from field")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER_URL", "")
	t.Setenv("NOTIFY_ADDR", ":9000")
	cfg := LoadConfig()
	assert.Equal(t, "https://api.resend.com", cfg.ProviderURL)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
}
