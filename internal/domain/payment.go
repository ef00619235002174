package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// Payment methods
const (
	MethodBankTransfer = "bank_transfer"
	MethodMoMo         = "momo"
	MethodCard         = "card"
)

// PaymentWorkflow: pending -> verified | rejected; both terminal.
var PaymentWorkflow = Workflow{
	entity: "payment",
	next: map[string][]string{
		PaymentPending: {PaymentVerified, PaymentRejected},
	},
}

// Payment maps the payments table.
type Payment struct {
	ID           string          `db:"id" json:"id"`
	InvestorID   string          `db:"investor_id" json:"investor_id"`
	InvestmentID string          `db:"investment_id" json:"investment_id"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Method       string          `db:"method" json:"method"`
	Reference    *string         `db:"reference" json:"reference,omitempty"`
	ProofURL     *string         `db:"proof_url" json:"proof_url,omitempty"`
	Status       string          `db:"status" json:"status"`
	AdminNotes   *string         `db:"admin_notes" json:"admin_notes,omitempty"`
	ReviewedBy   *string         `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time      `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
