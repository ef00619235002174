package domain

import "time"

// Verification flag names accepted by the admin flag endpoint.
const (
	FlagIdentityVerified   = "identity_verified"
	FlagFarmVerified       = "farm_verified"
	FlagComplianceVerified = "compliance_verified"
	FlagAdminApproved      = "admin_approved"
)

// VerificationFlags lists the four flags in review order.
var VerificationFlags = []string{
	FlagIdentityVerified,
	FlagFarmVerified,
	FlagComplianceVerified,
	FlagAdminApproved,
}

// verification_status values
const (
	VerificationPending = "pending"
	VerificationPartial = "partially_verified"
	VerificationFull    = "fully_verified"
)

// Farmer maps the farmers table.
type Farmer struct {
	ID                     string     `db:"id" json:"id"`
	UserID                 string     `db:"user_id" json:"user_id"`
	ExperienceYears        int        `db:"experience_years" json:"experience_years"`
	Specialization         string     `db:"specialization" json:"specialization"`
	IDDocumentURL          string     `db:"id_document_url" json:"id_document_url"`
	IdentityVerified       bool       `db:"identity_verified" json:"identity_verified"`
	FarmVerified           bool       `db:"farm_verified" json:"farm_verified"`
	ComplianceVerified     bool       `db:"compliance_verified" json:"compliance_verified"`
	AdminApproved          bool       `db:"admin_approved" json:"admin_approved"`
	VerificationStatus     string     `db:"verification_status" json:"verification_status"`
	VerificationNotes      *string    `db:"verification_notes" json:"verification_notes,omitempty"`
	IsCertified            bool       `db:"is_certified" json:"is_certified"`
	CertificationNumber    *string    `db:"certification_number" json:"certification_number,omitempty"`
	CertificationIssuedAt  *time.Time `db:"certification_issued_at" json:"certification_issued_at,omitempty"`
	CertificationExpiresAt *time.Time `db:"certification_expires_at" json:"certification_expires_at,omitempty"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// ComputeVerificationStatus derives verification_status from the four flags.
// All four set is the only way to reach fully_verified.
func ComputeVerificationStatus(identity, farm, compliance, approved bool) string {
	n := 0
	for _, v := range []bool{identity, farm, compliance, approved} {
		if v {
			n++
		}
	}
	switch {
	case n == 4:
		return VerificationFull
	case n > 0:
		return VerificationPartial
	default:
		return VerificationPending
	}
}

// Recompute refreshes VerificationStatus from the flags.
func (f *Farmer) Recompute() {
	f.VerificationStatus = ComputeVerificationStatus(f.IdentityVerified, f.FarmVerified, f.ComplianceVerified, f.AdminApproved)
}

// SetFlag sets one named flag. Unknown names return ErrInvalidFlag.
func (f *Farmer) SetFlag(name string, value bool) error {
	switch name {
	case FlagIdentityVerified:
		f.IdentityVerified = value
	case FlagFarmVerified:
		f.FarmVerified = value
	case FlagComplianceVerified:
		f.ComplianceVerified = value
	case FlagAdminApproved:
		f.AdminApproved = value
	default:
		return ErrInvalidFlag
	}
	f.Recompute()
	return nil
}
