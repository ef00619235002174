package service

import (
	"context"
	"testing"

	"agrofund/internal/domain"
	"agrofund/internal/repository/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWithdrawalFixture(t *testing.T) (*WithdrawalService, *recordingPublisher) {
	t.Helper()
	repo := repotest.New()
	require.NoError(t, repo.CreateProfile(context.Background(), &domain.Profile{
		ID:           investor.ID,
		Email:        "ama@example.com",
		Role:         domain.RoleInvestor,
		PayoutMethod: domain.PayoutMoMo,
		MoMoProvider: "MTN",
		MoMoNumber:   "0244000000",
	}))
	pub := &recordingPublisher{}
	svc := NewWithdrawalService(repo, repo, pub, &countingCache{}, decimal.NewFromInt(10), zap.NewNop())
	svc.now = fixedClock(testNow)
	return svc, pub
}

func TestRequestWithdrawal(t *testing.T) {
	svc, _ := newWithdrawalFixture(t)

	w, err := svc.RequestWithdrawal(context.Background(), RequestWithdrawalRequest{
		InvestorID: investor.ID,
		Amount:     decimal.RequireFromString("25.45"),
		Method:     domain.PayoutMoMo,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalPending, w.Status)
	assert.Equal(t, "25.45", w.Amount.StringFixed(2))
	assert.Equal(t, "MTN / 0244000000", w.AccountDetails)
}

func TestRequestWithdrawal_Rules(t *testing.T) {
	svc, _ := newWithdrawalFixture(t)
	ctx := context.Background()

	_, err := svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.NewFromInt(5), Method: domain.PayoutMoMo})
	assert.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.RequireFromString("9.995"), Method: domain.PayoutMoMo})
	assert.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.RequireFromString("25.456"), Method: domain.PayoutMoMo})
	assert.ErrorIs(t, err, domain.ErrAmountPrecision)

	w, err := svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.NewFromInt(10), Method: domain.PayoutMoMo})
	require.NoError(t, err)
	assert.Equal(t, "10.00", w.Amount.StringFixed(2))

	_, err = svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.NewFromInt(50), Method: domain.PayoutBank})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payout details for bank are incomplete")

	_, err = svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.NewFromInt(50), Method: "paypal"})
	require.Error(t, err)
	assert.Equal(t, "field 'method' failed 'oneof=bank momo'", err.Error())
}

func TestWithdrawalLifecycle(t *testing.T) {
	svc, pub := newWithdrawalFixture(t)
	ctx := context.Background()

	w, err := svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.NewFromInt(40), Method: domain.PayoutMoMo})
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, ProcessWithdrawalRequest{Admin: admin, WithdrawalID: w.ID, Reference: "TX-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.Approve(ctx, ProcessWithdrawalRequest{Admin: investor, WithdrawalID: w.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.Approve(ctx, ProcessWithdrawalRequest{Admin: admin, WithdrawalID: w.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalApproved, got.Status)

	_, err = svc.MarkPaid(ctx, ProcessWithdrawalRequest{Admin: admin, WithdrawalID: w.ID})
	assert.EqualError(t, err, "payout reference is required")

	got, err = svc.MarkPaid(ctx, ProcessWithdrawalRequest{Admin: admin, WithdrawalID: w.ID, Reference: "TX-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalPaid, got.Status)
	assert.Equal(t, "TX-1", *got.Reference)
	assert.Equal(t, admin.ID, *got.ProcessedBy)
	assert.Equal(t, testNow, *got.ProcessedAt)

	_, err = svc.MarkFailed(ctx, ProcessWithdrawalRequest{Admin: admin, WithdrawalID: w.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, []string{"withdrawal:approved", "withdrawal:paid"}, pub.statuses())
}

func TestRejectWithdrawal(t *testing.T) {
	svc, _ := newWithdrawalFixture(t)
	ctx := context.Background()

	w, err := svc.RequestWithdrawal(ctx, RequestWithdrawalRequest{InvestorID: investor.ID, Amount: decimal.NewFromInt(40), Method: domain.PayoutMoMo})
	require.NoError(t, err)

	got, err := svc.Reject(ctx, ProcessWithdrawalRequest{Admin: admin, WithdrawalID: w.ID, Notes: "account mismatch"})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalRejected, got.Status)
	assert.Equal(t, "account mismatch", *got.AdminNotes)

	page, err := svc.ListWithdrawals(ctx, ListWithdrawalsRequest{Status: domain.WithdrawalRejected})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}
