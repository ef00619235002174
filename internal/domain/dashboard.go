package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestorStats are the headline totals on the investor dashboard.
type InvestorStats struct {
	TotalInvested     decimal.Decimal `json:"total_invested"`
	ExpectedReturns   decimal.Decimal `json:"expected_returns"`
	PendingPayments   decimal.Decimal `json:"pending_payments"`
	TotalWithdrawn    decimal.Decimal `json:"total_withdrawn"`
	AssetCount        int             `json:"asset_count"`
	ActiveInvestments int             `json:"active_investments"`
}

// AdminStats is the review queue summary. It is cached as JSON.
type AdminStats struct {
	PendingPayments        int             `json:"pending_payments"`
	PendingWithdrawals     int             `json:"pending_withdrawals"`
	FarmersAwaitingReview  int             `json:"farmers_awaiting_review"`
	PendingVisits          int             `json:"pending_visits"`
	PendingKYC             int             `json:"pending_kyc"`
	TotalInvestors         int             `json:"total_investors"`
	FundsUnderManagement   decimal.Decimal `json:"funds_under_management"`
	ExpiringCertifications int             `json:"expiring_certifications"`
	GeneratedAt            time.Time       `json:"generated_at"`
}
