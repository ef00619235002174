package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timeNow() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

func TestProfile_OnboardingComplete(t *testing.T) {
	p := &Profile{FullName: "Ama Mensah", Phone: "+233200000000", Country: "GH", PayoutMethod: PayoutMoMo}
	assert.False(t, p.OnboardingComplete())

	p.MoMoProvider = "MTN"
	p.MoMoNumber = "0240000000"
	assert.True(t, p.OnboardingComplete())
	assert.Equal(t, "MTN / 0240000000", p.PayoutAccount(PayoutMoMo))

	assert.False(t, p.HasPayoutDetails(PayoutBank))
	p.BankName, p.BankAccountName, p.BankAccountNumber = "GCB", "Ama Mensah", "1234567890"
	assert.True(t, p.HasPayoutDetails(PayoutBank))

	p.Country = ""
	assert.False(t, p.OnboardingComplete())
}
