package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// DefaultCertificationValidity is the 365-day certification window.
const DefaultCertificationValidity = 365 * 24 * time.Hour

const certAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCertificationNumber returns AGC-<unix millis, base36>-<6 random chars>.
// There is no collision check; the unique index on farmers.certification_number
// rejects the improbable duplicate.
func NewCertificationNumber(now time.Time, random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}
	var sb strings.Builder
	max := big.NewInt(int64(len(certAlphabet)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(random, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate certification suffix: %w", err)
		}
		sb.WriteByte(certAlphabet[n.Int64()])
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "AGC-" + stamp + "-" + sb.String(), nil
}

// Certification is the set of fields written on issuance.
type Certification struct {
	Number    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issue marks the farmer certified. All four flags are set so that
// verification_status lands on fully_verified.
func (f *Farmer) Issue(c Certification) error {
	if f.IsCertified {
		return ErrAlreadyCertified
	}
	f.IdentityVerified = true
	f.FarmVerified = true
	f.ComplianceVerified = true
	f.AdminApproved = true
	f.Recompute()
	f.IsCertified = true
	number := c.Number
	issued := c.IssuedAt
	expires := c.ExpiresAt
	f.CertificationNumber = &number
	f.CertificationIssuedAt = &issued
	f.CertificationExpiresAt = &expires
	return nil
}

// Reject is the manual rejection path; it is the only way certification is revoked.
func (f *Farmer) Reject(notes string) {
	f.AdminApproved = false
	f.IsCertified = false
	f.CertificationNumber = nil
	f.CertificationIssuedAt = nil
	f.CertificationExpiresAt = nil
	f.Recompute()
	if notes != "" {
		n := notes
		f.VerificationNotes = &n
	}
}
