package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agrofund/internal/domain"
	"agrofund/internal/events"
	"agrofund/internal/notify"
	"agrofund/internal/repository/repotest"
	"agrofund/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret"

type testEnv struct {
	repo   *repotest.Memory
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repotest.New()
	logger := zap.NewNop()
	pub := events.NopPublisher{}
	notifier := notify.Nop{}

	dashboard := service.NewDashboardService(service.DashboardDeps{
		Stats:    repo,
		Payments: repo,
		Farmers:  repo,
		Farms:    repo,
		Assets:   repo,
	}, logger)
	svc := Services{
		Profiles:    service.NewProfileService(repo, pub, dashboard, logger),
		Farmers:     service.NewFarmerService(repo, repo, pub, dashboard, 0, logger),
		Farms:       service.NewFarmService(repo, repo, repo, repo, logger),
		Catalog:     service.NewCatalogService(repo, repo, repo, pub, logger),
		Investments: service.NewInvestmentService(repo, repo, pub, dashboard, logger),
		Payments: service.NewPaymentService(service.PaymentDeps{
			Payments:    repo,
			Investments: repo,
			Packages:    repo,
			Profiles:    repo,
			Notifier:    notifier,
			Publisher:   pub,
			Cache:       dashboard,
		}, logger),
		Withdrawals: service.NewWithdrawalService(repo, repo, pub, dashboard, decimal.NewFromInt(10), logger),
		Visits: service.NewVisitService(service.VisitDeps{
			Visits:    repo,
			Farms:     repo,
			Profiles:  repo,
			Notifier:  notifier,
			Publisher: pub,
			Cache:     dashboard,
		}, logger),
		Dashboard: dashboard,
		Export:    service.NewExportService(repo, repo, repo),
	}
	auth := NewAuthenticator(testSecret, repo, logger)
	return &testEnv{repo: repo, router: NewRouter(NewHandler(svc, logger), auth)}
}

func (e *testEnv) addProfile(t *testing.T, id, role string) {
	t.Helper()
	require.NoError(t, e.repo.CreateProfile(context.Background(), &domain.Profile{
		ID:       id,
		Email:    id + "@example.com",
		FullName: "User " + id,
		Role:     role,
	}))
}

func (e *testEnv) addPackage(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.repo.CreatePackage(context.Background(), &domain.Package{
		ID:             id,
		Name:           "Goat Starter",
		Category:       domain.CategoryLivestock,
		UnitPrice:      decimal.NewFromInt(100),
		MinInvestment:  decimal.NewFromInt(100),
		ROIPercent:     decimal.NewFromInt(20),
		DurationMonths: 6,
		IsActive:       true,
	}))
}

func signToken(t *testing.T, sub string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := Claims{
		Email: sub + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

// envelope is Result with the payload left raw for per-test decoding.
type envelope struct {
	Code    int             `json:"code"`
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeResult(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Result, out))
}
