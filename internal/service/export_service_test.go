package service

import (
	"bytes"
	"context"
	"testing"

	"agrofund/internal/domain"
	"agrofund/internal/repository/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExportPayments(t *testing.T) {
	repo := repotest.New()
	ctx := context.Background()
	ref := "MOMO-77"
	require.NoError(t, repo.CreatePayment(ctx, &domain.Payment{
		InvestorID:   investor.ID,
		InvestmentID: "inv-1",
		Amount:       decimal.RequireFromString("250.50"),
		Method:       domain.MethodMoMo,
		Reference:    &ref,
		Status:       domain.PaymentPending,
		CreatedAt:    testNow,
	}))
	require.NoError(t, repo.CreatePayment(ctx, &domain.Payment{InvestorID: investor.ID, Status: domain.PaymentVerified}))

	svc := NewExportService(repo, repo, repo)
	data, err := svc.ExportPayments(ctx, domain.PaymentPending)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Payments"}, f.GetSheetList())

	rows, err := f.GetRows("Payments")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Payment ID", rows[0][0])
	assert.Equal(t, "Created At", rows[0][10])
	assert.Equal(t, investor.ID, rows[1][1])
	assert.Equal(t, "250.5", rows[1][3])
	assert.Equal(t, "MOMO-77", rows[1][5])
	assert.Equal(t, "2026-03-15 10:00:00", rows[1][10])

	styleID, err := f.GetCellStyle("Payments", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestExportFarmers(t *testing.T) {
	repo := repotest.New()
	ctx := context.Background()
	require.NoError(t, repo.CreateFarmer(ctx, &domain.Farmer{UserID: "u1", Specialization: "poultry", IdentityVerified: true, VerificationStatus: domain.VerificationPartial}))

	data, err := NewExportService(repo, repo, repo).ExportFarmers(ctx, "")
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows("Farmers")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "poultry", rows[1][2])
	assert.Equal(t, "Yes", rows[1][4])
	assert.Equal(t, "No", rows[1][5])
	assert.Equal(t, domain.VerificationPartial, rows[1][8])
}

func TestExportWithdrawals_Empty(t *testing.T) {
	repo := repotest.New()
	data, err := NewExportService(repo, repo, repo).ExportWithdrawals(context.Background(), "")
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows("Withdrawals")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Account Details", rows[0][4])
}
