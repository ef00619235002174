package service

import (
	"context"
	"testing"

	"agrofund/internal/domain"
	"agrofund/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sp(s string) *string { return &s }

func TestCreateProfile(t *testing.T) {
	repo := repotest.New()
	svc := NewProfileService(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, CreateProfileRequest{UserID: "u1", Email: " Ama@Example.com ", Role: domain.RoleInvestor})
	require.NoError(t, err)
	assert.Equal(t, "ama@example.com", p.Email)
	assert.Equal(t, domain.KYCNotSubmitted, p.KYCStatus)

	_, err = svc.CreateProfile(ctx, CreateProfileRequest{UserID: "u1", Email: "ama@example.com", Role: domain.RoleInvestor})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.CreateProfile(ctx, CreateProfileRequest{UserID: "u2", Email: "boss@example.com", Role: domain.RoleAdmin})
	assert.EqualError(t, err, "field 'role' failed 'oneof=investor farmer'")
}

func TestUpdateOnboarding_CompletesWithPayoutDetails(t *testing.T) {
	repo := repotest.New()
	svc := NewProfileService(repo, nil, nil, zap.NewNop())
	ctx := context.Background()
	_, err := svc.CreateProfile(ctx, CreateProfileRequest{UserID: "u1", Email: "ama@example.com", FullName: "Ama", Role: domain.RoleInvestor})
	require.NoError(t, err)

	p, err := svc.UpdateOnboarding(ctx, UpdateOnboardingRequest{UserID: "u1", Phone: sp("0244"), Country: sp("Ghana"), PayoutMethod: sp(domain.PayoutBank), BankName: sp("GCB")})
	require.NoError(t, err)
	assert.False(t, p.OnboardingCompleted)

	p, err = svc.UpdateOnboarding(ctx, UpdateOnboardingRequest{UserID: "u1", BankAccountName: sp("Ama Mensah"), BankAccountNumber: sp(" 123456 ")})
	require.NoError(t, err)
	assert.True(t, p.OnboardingCompleted)
	assert.Equal(t, "123456", p.BankAccountNumber)
	assert.Equal(t, "Ama", p.FullName)
}

func TestKYCReview(t *testing.T) {
	repo := repotest.New()
	pub := &recordingPublisher{}
	cache := &countingCache{}
	svc := NewProfileService(repo, pub, cache, zap.NewNop())
	svc.now = fixedClock(testNow)
	ctx := context.Background()
	_, err := svc.CreateProfile(ctx, CreateProfileRequest{UserID: "u1", Email: "ama@example.com", Role: domain.RoleInvestor})
	require.NoError(t, err)

	_, err = svc.ReviewKYC(ctx, ReviewKYCRequest{Admin: admin, UserID: "u1", Approve: true})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.SubmitKYC(ctx, SubmitKYCRequest{UserID: "u1", IDType: "library_card", IDNumber: "1"})
	assert.EqualError(t, err, "field 'id_type' failed 'oneof=passport national_id drivers_license voter_id'")

	p, err := svc.SubmitKYC(ctx, SubmitKYCRequest{UserID: "u1", IDType: "passport", IDNumber: "G123"})
	require.NoError(t, err)
	assert.Equal(t, domain.KYCSubmitted, p.KYCStatus)

	_, err = svc.ReviewKYC(ctx, ReviewKYCRequest{Admin: investor, UserID: "u1", Approve: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	p, err = svc.ReviewKYC(ctx, ReviewKYCRequest{Admin: admin, UserID: "u1", Approve: false, Notes: "blurry scan"})
	require.NoError(t, err)
	assert.Equal(t, domain.KYCRejected, p.KYCStatus)
	assert.Equal(t, "blurry scan", *p.KYCNotes)

	p, err = svc.SubmitKYC(ctx, SubmitKYCRequest{UserID: "u1", IDType: "passport", IDNumber: "G124"})
	require.NoError(t, err)
	assert.Nil(t, p.KYCNotes)

	p, err = svc.ReviewKYC(ctx, ReviewKYCRequest{Admin: admin, UserID: "u1", Approve: true})
	require.NoError(t, err)
	assert.Equal(t, domain.KYCVerified, p.KYCStatus)

	assert.Equal(t, []string{"kyc:submitted", "kyc:rejected", "kyc:submitted", "kyc:verified"}, pub.statuses())
	assert.Equal(t, 5, cache.n, "signup plus four successful KYC writes")
}
