package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Investment status values
const (
	InvestmentPending   = "pending"
	InvestmentActive    = "active"
	InvestmentCancelled = "cancelled"
	InvestmentCompleted = "completed"
)

// InvestmentWorkflow: pending -> active (payment verified) | cancelled; active -> completed.
var InvestmentWorkflow = Workflow{
	entity: "investment",
	next: map[string][]string{
		InvestmentPending: {InvestmentActive, InvestmentCancelled},
		InvestmentActive:  {InvestmentCompleted},
	},
}

// Investment maps the investments table. ROI is snapshotted from the package.
type Investment struct {
	ID             string          `db:"id" json:"id"`
	InvestorID     string          `db:"investor_id" json:"investor_id"`
	PackageID      string          `db:"package_id" json:"package_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	ROIPercent     decimal.Decimal `db:"roi_percent" json:"roi_percent"`
	ExpectedReturn decimal.Decimal `db:"expected_return" json:"expected_return"`
	Status         string          `db:"status" json:"status"`
	StartDate      *time.Time      `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time      `db:"end_date" json:"end_date,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// CheckCents rejects money amounts finer than one cent.
func CheckCents(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: got %s", ErrAmountPrecision, amount.String())
	}
	return nil
}

// ExpectedReturn is amount * roi / 100, rounded to cents.
func ExpectedReturn(amount, roiPercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(roiPercent).Div(decimal.NewFromInt(100)).Round(2)
}
