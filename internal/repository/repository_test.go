package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"agrofund/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

var profileRowColumns = []string{
	"id", "email", "full_name", "phone", "role", "country", "address",
	"id_type", "id_number", "kyc_status", "kyc_notes", "payout_method", "bank_name",
	"bank_account_name", "bank_account_number", "momo_provider", "momo_number",
	"onboarding_completed", "created_at", "updated_at",
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.clause())

	w.add("status = $%d", "pending")
	w.add("(full_name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%ama%")
	assert.Equal(t, "WHERE status = $1 AND (full_name ILIKE $2 OR email ILIKE $2)", w.clause())

	limit := w.page(3, 10)
	assert.Equal(t, "LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{"pending", "%ama%", 10, 20}, w.args)
}

func TestNormalizePage(t *testing.T) {
	p, s := normalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, 20, s)

	_, s = normalizePage(2, 1000)
	assert.Equal(t, 200, s)
}

func TestCreateProfile_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresProfilesRepository(db)

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("u-1", "ama@example.com", "Ama Owusu", "+233200000000", domain.RoleInvestor, domain.KYCNotSubmitted).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateProfile(context.Background(), &domain.Profile{
		ID: "u-1", Email: "ama@example.com", FullName: "Ama Owusu", Phone: "+233200000000",
		Role: domain.RoleInvestor, KYCStatus: domain.KYCNotSubmitted,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresProfilesRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(profileRowColumns))

	_, err := repo.GetProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProfiles_WithFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresProfilesRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM profiles WHERE role = \$1 AND kyc_status = \$2`).
		WithArgs(domain.RoleInvestor, domain.KYCSubmitted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE role = \$1 AND kyc_status = \$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(domain.RoleInvestor, domain.KYCSubmitted, 20, 0).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			"u-1", "ama@example.com", "Ama Owusu", "+233200000000", "investor", "GH", "Accra",
			"passport", "G123", "submitted", nil, "momo", "",
			"", "", "MTN", "0240000000",
			true, now, now,
		))

	items, total, err := repo.ListProfiles(context.Background(), ProfilesFilter{Role: domain.RoleInvestor, KYCStatus: domain.KYCSubmitted}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "MTN", items[0].MoMoProvider)
	assert.Nil(t, items[0].KYCNotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVerification_NoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresFarmersRepository(db)

	f := &domain.Farmer{ID: "f-1", IdentityVerified: true}
	f.Recompute()

	mock.ExpectExec(`UPDATE farmers SET`).
		WithArgs("f-1", true, false, false, false, domain.VerificationPartial, nil, false, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateVerification(context.Background(), f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpiringCertifications(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresFarmersRepository(db)

	now := time.Now()
	expires := now.Add(10 * 24 * time.Hour)
	cols := []string{
		"id", "user_id", "experience_years", "specialization", "id_document_url",
		"identity_verified", "farm_verified", "compliance_verified", "admin_approved",
		"verification_status", "verification_notes", "is_certified", "certification_number",
		"certification_issued_at", "certification_expires_at", "created_at", "updated_at",
	}
	mock.ExpectQuery(`WHERE is_certified = TRUE AND certification_expires_at > \$1 AND certification_expires_at <= \$2`).
		WithArgs(now, now.Add(30*24*time.Hour)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"f-1", "u-2", 6, "poultry", "https://files/id.png",
			true, true, true, true,
			"fully_verified", nil, true, "AGC-LZ1X2Y3-AB12CD",
			now.Add(-355*24*time.Hour), expires, now, now,
		))

	items, err := repo.ListExpiringCertifications(context.Background(), now, now.Add(30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].CertificationNumber)
	assert.Equal(t, "AGC-LZ1X2Y3-AB12CD", *items[0].CertificationNumber)
	assert.True(t, items[0].CertificationExpiresAt.Equal(expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFarm_ScansCropsAndSize(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresFarmsRepository(db)

	now := time.Now()
	cols := []string{"id", "farmer_id", "name", "description", "location", "region", "size_hectares",
		"farm_type", "crops", "is_verified", "is_certified", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM farms WHERE id = \$1`).
		WithArgs("farm-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"farm-1", "f-1", "Green Acres", "", "Tamale", "Northern", "12.50",
			"mixed", "{maize,soybean}", true, false, now, now,
		))

	farm, err := repo.GetFarm(context.Background(), "farm-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"maize", "soybean"}, []string(farm.Crops))
	assert.Equal(t, "12.5", farm.SizeHectares.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMedia_RequiresTarget(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresMediaRepository(db)

	_, err := repo.ListMedia(context.Background(), "", "")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAssets_ByFarmIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresAssetsRepository(db)

	cols := []string{"id", "investor_id", "package_id", "investment_id", "farm_id", "tag_id",
		"asset_type", "phase", "status", "amount", "created_at", "updated_at"}
	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM assets WHERE farm_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"a-1", "u-1", "p-1", "i-1", "farm-1", "LIV-2026-1A2B3C4D",
			"livestock", "rearing", "active", "500.00", now, now,
		))

	items, err := repo.ListAssets(context.Background(), AssetsFilter{FarmIDs: []string{"farm-1"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].FarmID)
	assert.Equal(t, "farm-1", *items[0].FarmID)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func verificationFixture(now time.Time) (*domain.Payment, *domain.Investment, *domain.Asset) {
	admin := "admin-1"
	end := now.AddDate(0, 6, 0)
	p := &domain.Payment{ID: "pay-1", Status: domain.PaymentVerified, ReviewedBy: &admin, ReviewedAt: &now}
	inv := &domain.Investment{ID: "inv-1", Status: domain.InvestmentActive, StartDate: &now, EndDate: &end}
	a := &domain.Asset{
		InvestorID: "u-1", PackageID: "pkg-1", InvestmentID: "inv-1", TagID: "LIV-2026-1A2B3C4D",
		AssetType: domain.CategoryLivestock, Phase: "acquired", Status: "active", Amount: decimal.NewFromInt(500),
	}
	return p, inv, a
}

func TestVerifyAndAllocate_Commits(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresPaymentsRepository(db)

	now := time.Now()
	p, inv, a := verificationFixture(now)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments SET status = \$2`).
		WithArgs("pay-1", domain.PaymentVerified, nil, nil, "admin-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE investments SET status = \$2`).
		WithArgs("inv-1", domain.InvestmentActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO assets`).
		WithArgs("u-1", "pkg-1", "inv-1", nil, "LIV-2026-1A2B3C4D", "livestock", "acquired", "active", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("asset-1", now, now))
	mock.ExpectCommit()

	err := repo.VerifyAndAllocate(context.Background(), p, inv, a)
	require.NoError(t, err)
	assert.Equal(t, "asset-1", a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyAndAllocate_RollsBackOnAssetFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresPaymentsRepository(db)

	p, inv, a := verificationFixture(time.Now())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments SET status = \$2`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE investments SET status = \$2`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO assets`).WillReturnError(errors.New("duplicate tag"))
	mock.ExpectRollback()

	err := repo.VerifyAndAllocate(context.Background(), p, inv, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to allocate asset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyAndAllocate_MissingPayment(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresPaymentsRepository(db)

	p, inv, a := verificationFixture(time.Now())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments SET status = \$2`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.VerifyAndAllocate(context.Background(), p, inv, a)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithdrawals_Pagination(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresWithdrawalsRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM withdrawal_requests WHERE status = \$1`).
		WithArgs(domain.WithdrawalPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(`FROM withdrawal_requests WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(domain.WithdrawalPending, 20, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.ListWithdrawals(context.Background(), WithdrawalsFilter{Status: domain.WithdrawalPending}, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, 45, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVisit_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresVisitsRepository(db)

	mock.ExpectQuery(`FROM farm_visits WHERE id = \$1`).
		WithArgs("v-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetVisit(context.Background(), "v-404")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvestorStats(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresDashboardRepository(db)

	mock.ExpectQuery(`SELECT`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f"}).
			AddRow("2500.00", "462.50", "0", "100.00", 3, 2))

	s, err := repo.InvestorStats(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "2500", s.TotalInvested.String())
	assert.Equal(t, "462.5", s.ExpectedReturns.String())
	assert.True(t, s.PendingPayments.IsZero())
	assert.Equal(t, 3, s.AssetCount)
	assert.Equal(t, 2, s.ActiveInvestments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminStats(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresDashboardRepository(db)

	now := time.Now()
	mock.ExpectQuery(`certification_expires_at > \$1 AND certification_expires_at <= \$2`).
		WithArgs(now, now.Add(30*24*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f", "g", "h"}).
			AddRow(4, 1, 2, 0, 3, 40, "125000.00", 1))

	s, err := repo.AdminStats(context.Background(), now, now.Add(30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, s.PendingPayments)
	assert.Equal(t, 2, s.FarmersAwaitingReview)
	assert.Equal(t, 40, s.TotalInvestors)
	assert.Equal(t, "125000", s.FundsUnderManagement.String())
	assert.Equal(t, 1, s.ExpiringCertifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}
