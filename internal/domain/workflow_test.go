package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentWorkflow(t *testing.T) {
	assert.True(t, PaymentWorkflow.Allows(PaymentPending, PaymentVerified))
	assert.True(t, PaymentWorkflow.Allows(PaymentPending, PaymentRejected))

	for _, from := range []string{PaymentVerified, PaymentRejected} {
		assert.True(t, PaymentWorkflow.Terminal(from))
		for _, to := range []string{PaymentPending, PaymentVerified, PaymentRejected} {
			assert.ErrorIs(t, PaymentWorkflow.Check(from, to), ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestWithdrawalWorkflow(t *testing.T) {
	assert.NoError(t, WithdrawalWorkflow.Check(WithdrawalPending, WithdrawalApproved))
	assert.NoError(t, WithdrawalWorkflow.Check(WithdrawalApproved, WithdrawalPaid))
	assert.NoError(t, WithdrawalWorkflow.Check(WithdrawalApproved, WithdrawalFailed))
	assert.Error(t, WithdrawalWorkflow.Check(WithdrawalPending, WithdrawalPaid))
	assert.Error(t, WithdrawalWorkflow.Check(WithdrawalRejected, WithdrawalApproved))
	assert.True(t, WithdrawalWorkflow.Terminal(WithdrawalPaid))
	assert.True(t, WithdrawalWorkflow.Terminal(WithdrawalFailed))

	assert.Contains(t, WithdrawalWorkflow.Check(WithdrawalPaid, WithdrawalFailed).Error(), "already paid")
	assert.Contains(t, WithdrawalWorkflow.Check(WithdrawalPending, WithdrawalPaid).Error(), "pending -> paid")
}

func TestVisitWorkflow(t *testing.T) {
	assert.True(t, VisitWorkflow.Allows(VisitPending, VisitCancelled))
	assert.True(t, VisitWorkflow.Allows(VisitApproved, VisitCompleted))
	assert.False(t, VisitWorkflow.Allows(VisitRejected, VisitApproved))
	assert.False(t, VisitWorkflow.Allows(VisitPending, VisitCompleted))
}

func TestKYCWorkflow_Resubmit(t *testing.T) {
	assert.True(t, KYCWorkflow.Allows(KYCRejected, KYCSubmitted))
	assert.False(t, KYCWorkflow.Allows(KYCVerified, KYCSubmitted))
	assert.False(t, KYCWorkflow.Allows(KYCNotSubmitted, KYCVerified))
}

func TestPackage_AcceptsAmount(t *testing.T) {
	p := &Package{IsActive: true, MinInvestment: decimal.RequireFromString("500")}

	assert.NoError(t, p.AcceptsAmount(decimal.RequireFromString("500")))
	assert.NoError(t, p.AcceptsAmount(decimal.RequireFromString("1200.50")))
	assert.ErrorIs(t, p.AcceptsAmount(decimal.RequireFromString("499.99")), ErrBelowMinimum)

	p.IsActive = false
	assert.ErrorIs(t, p.AcceptsAmount(decimal.RequireFromString("1000")), ErrInactivePackage)
}

func TestCheckCents(t *testing.T) {
	assert.NoError(t, CheckCents(decimal.RequireFromString("200")))
	assert.NoError(t, CheckCents(decimal.RequireFromString("200.10")))
	assert.ErrorIs(t, CheckCents(decimal.RequireFromString("199.995")), ErrAmountPrecision)
}

func TestExpectedReturn(t *testing.T) {
	got := ExpectedReturn(decimal.RequireFromString("2500"), decimal.RequireFromString("18.5"))
	assert.Equal(t, "462.50", got.StringFixed(2))
}

func TestNewTagIDAndPhases(t *testing.T) {
	assert.Regexp(t, `^LIV-\d{4}-[0-9A-F]{8}$`, NewTagID(CategoryLivestock, timeNow()))
	assert.Regexp(t, `^CRP-\d{4}-[0-9A-F]{8}$`, NewTagID(CategoryCrop, timeNow()))
	assert.Equal(t, "acquired", InitialPhase(CategoryLivestock))
	assert.Equal(t, "planted", InitialPhase(CategoryCrop))
	assert.True(t, ValidPhase(CategoryCrop, "harvest"))
	assert.False(t, ValidPhase(CategoryLivestock, "harvest"))
	assert.True(t, ValidAssetStatus("matured"))
	assert.False(t, ValidAssetStatus("missing"))
}
