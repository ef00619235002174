package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal status values
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
	WithdrawalPaid     = "paid"
	WithdrawalFailed   = "failed"
)

// WithdrawalWorkflow: pending -> approved | rejected; approved -> paid | failed.
var WithdrawalWorkflow = Workflow{
	entity: "withdrawal",
	next: map[string][]string{
		WithdrawalPending:  {WithdrawalApproved, WithdrawalRejected},
		WithdrawalApproved: {WithdrawalPaid, WithdrawalFailed},
	},
}

// WithdrawalRequest maps the withdrawal_requests table.
type WithdrawalRequest struct {
	ID             string          `db:"id" json:"id"`
	InvestorID     string          `db:"investor_id" json:"investor_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Method         string          `db:"method" json:"method"`
	AccountDetails string          `db:"account_details" json:"account_details"`
	Status         string          `db:"status" json:"status"`
	Reference      *string         `db:"reference" json:"reference,omitempty"`
	AdminNotes     *string         `db:"admin_notes" json:"admin_notes,omitempty"`
	ProcessedBy    *string         `db:"processed_by" json:"processed_by,omitempty"`
	ProcessedAt    *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
