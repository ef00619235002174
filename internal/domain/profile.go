package domain

import "time"

// Role values stored on profiles.role
const (
	RoleInvestor = "investor"
	RoleFarmer   = "farmer"
	RoleAdmin    = "admin"
)

// KYC status values
const (
	KYCNotSubmitted = "not_submitted"
	KYCSubmitted    = "submitted"
	KYCVerified     = "verified"
	KYCRejected     = "rejected"
)

// Payout methods
const (
	PayoutBank = "bank"
	PayoutMoMo = "momo"
)

// Profile maps the profiles table; one row per auth user, never deleted.
type Profile struct {
	ID                  string    `db:"id" json:"id"`
	Email               string    `db:"email" json:"email"`
	FullName            string    `db:"full_name" json:"full_name"`
	Phone               string    `db:"phone" json:"phone"`
	Role                string    `db:"role" json:"role"`
	Country             string    `db:"country" json:"country"`
	Address             string    `db:"address" json:"address"`
	IDType              string    `db:"id_type" json:"id_type"`
	IDNumber            string    `db:"id_number" json:"id_number"`
	KYCStatus           string    `db:"kyc_status" json:"kyc_status"`
	KYCNotes            *string   `db:"kyc_notes" json:"kyc_notes,omitempty"`
	PayoutMethod        string    `db:"payout_method" json:"payout_method"`
	BankName            string    `db:"bank_name" json:"bank_name"`
	BankAccountName     string    `db:"bank_account_name" json:"bank_account_name"`
	BankAccountNumber   string    `db:"bank_account_number" json:"bank_account_number"`
	MoMoProvider        string    `db:"momo_provider" json:"momo_provider"`
	MoMoNumber          string    `db:"momo_number" json:"momo_number"`
	OnboardingCompleted bool      `db:"onboarding_completed" json:"onboarding_completed"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// HasPayoutDetails reports whether the given method has every field a payout needs.
func (p *Profile) HasPayoutDetails(method string) bool {
	switch method {
	case PayoutBank:
		return p.BankName != "" && p.BankAccountName != "" && p.BankAccountNumber != ""
	case PayoutMoMo:
		return p.MoMoProvider != "" && p.MoMoNumber != ""
	}
	return false
}

// PayoutAccount renders the account line copied onto withdrawal requests.
func (p *Profile) PayoutAccount(method string) string {
	switch method {
	case PayoutBank:
		return p.BankName + " / " + p.BankAccountName + " / " + p.BankAccountNumber
	case PayoutMoMo:
		return p.MoMoProvider + " / " + p.MoMoNumber
	}
	return ""
}

// OnboardingComplete is recomputed on every onboarding write.
func (p *Profile) OnboardingComplete() bool {
	if p.FullName == "" || p.Phone == "" || p.Country == "" {
		return false
	}
	return p.HasPayoutDetails(p.PayoutMethod)
}

// KYCWorkflow: not_submitted -> submitted -> verified | rejected; rejected may resubmit.
var KYCWorkflow = Workflow{
	entity: "kyc",
	next: map[string][]string{
		KYCNotSubmitted: {KYCSubmitted},
		KYCSubmitted:    {KYCVerified, KYCRejected},
		KYCRejected:     {KYCSubmitted},
	},
}
