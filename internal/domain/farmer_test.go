package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeVerificationStatus_AllCombinations(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		identity := mask&1 != 0
		farm := mask&2 != 0
		compliance := mask&4 != 0
		approved := mask&8 != 0

		got := ComputeVerificationStatus(identity, farm, compliance, approved)

		allTrue := identity && farm && compliance && approved
		assert.Equal(t, allTrue, got == VerificationFull, "mask %04b -> %s", mask, got)
		if mask == 0 {
			assert.Equal(t, VerificationPending, got)
		} else if !allTrue {
			assert.Equal(t, VerificationPartial, got, "mask %04b", mask)
		}
	}
}

func TestFarmer_SetFlag(t *testing.T) {
	f := &Farmer{VerificationStatus: VerificationPending}

	require.NoError(t, f.SetFlag(FlagIdentityVerified, true))
	assert.Equal(t, VerificationPartial, f.VerificationStatus)

	for _, name := range VerificationFlags {
		require.NoError(t, f.SetFlag(name, true))
	}
	assert.Equal(t, VerificationFull, f.VerificationStatus)

	require.NoError(t, f.SetFlag(FlagComplianceVerified, false))
	assert.Equal(t, VerificationPartial, f.VerificationStatus)

	err := f.SetFlag("soil_verified", true)
	assert.True(t, errors.Is(err, ErrInvalidFlag))
}

func TestFarmer_IssueAndReject(t *testing.T) {
	f := &Farmer{IdentityVerified: true}
	f.Recompute()

	cert := Certification{Number: "AGC-TEST-ABC123"}
	require.NoError(t, f.Issue(cert))
	assert.True(t, f.IsCertified)
	assert.Equal(t, VerificationFull, f.VerificationStatus)
	require.NotNil(t, f.CertificationNumber)
	assert.Equal(t, "AGC-TEST-ABC123", *f.CertificationNumber)

	assert.ErrorIs(t, f.Issue(cert), ErrAlreadyCertified)

	f.Reject("documents expired")
	assert.False(t, f.IsCertified)
	assert.False(t, f.AdminApproved)
	assert.Nil(t, f.CertificationNumber)
	assert.Equal(t, VerificationPartial, f.VerificationStatus)
	require.NotNil(t, f.VerificationNotes)
	assert.Equal(t, "documents expired", *f.VerificationNotes)
}
