package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"agrofund/internal/repository"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of the admin exports.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const exportPageSize = 200

type exportColumn struct {
	header string
	width  float64
}

// ExportService renders admin spreadsheets of payments, withdrawals and farmers.
type ExportService struct {
	payments    repository.PaymentsRepository
	withdrawals repository.WithdrawalsRepository
	farmers     repository.FarmersRepository
}

func NewExportService(payments repository.PaymentsRepository, withdrawals repository.WithdrawalsRepository, farmers repository.FarmersRepository) *ExportService {
	return &ExportService{payments: payments, withdrawals: withdrawals, farmers: farmers}
}

var paymentExportColumns = []exportColumn{
	{"Payment ID", 38}, {"Investor ID", 38}, {"Investment ID", 38}, {"Amount", 14},
	{"Method", 15}, {"Reference", 22}, {"Status", 12}, {"Admin Notes", 30},
	{"Reviewed By", 38}, {"Reviewed At", 20}, {"Created At", 20},
}

func (s *ExportService) ExportPayments(ctx context.Context, status string) ([]byte, error) {
	var rows [][]any
	for page := 1; ; page++ {
		items, total, err := s.payments.ListPayments(ctx, repository.PaymentsFilter{Status: status}, page, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load payments: %w", err)
		}
		for _, p := range items {
			rows = append(rows, []any{
				p.ID, p.InvestorID, p.InvestmentID, p.Amount.InexactFloat64(),
				p.Method, deref(p.Reference), p.Status, deref(p.AdminNotes),
				deref(p.ReviewedBy), formatTime(p.ReviewedAt), formatTime(&p.CreatedAt),
			})
		}
		if page*exportPageSize >= total || len(items) == 0 {
			break
		}
	}
	return generateSheet("Payments", paymentExportColumns, rows)
}

var withdrawalExportColumns = []exportColumn{
	{"Withdrawal ID", 38}, {"Investor ID", 38}, {"Amount", 14}, {"Method", 10},
	{"Account Details", 40}, {"Status", 12}, {"Reference", 22}, {"Admin Notes", 30},
	{"Processed By", 38}, {"Processed At", 20}, {"Created At", 20},
}

func (s *ExportService) ExportWithdrawals(ctx context.Context, status string) ([]byte, error) {
	var rows [][]any
	for page := 1; ; page++ {
		items, total, err := s.withdrawals.ListWithdrawals(ctx, repository.WithdrawalsFilter{Status: status}, page, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load withdrawal requests: %w", err)
		}
		for _, w := range items {
			rows = append(rows, []any{
				w.ID, w.InvestorID, w.Amount.InexactFloat64(), w.Method,
				w.AccountDetails, w.Status, deref(w.Reference), deref(w.AdminNotes),
				deref(w.ProcessedBy), formatTime(w.ProcessedAt), formatTime(&w.CreatedAt),
			})
		}
		if page*exportPageSize >= total || len(items) == 0 {
			break
		}
	}
	return generateSheet("Withdrawals", withdrawalExportColumns, rows)
}

var farmerExportColumns = []exportColumn{
	{"Farmer ID", 38}, {"User ID", 38}, {"Specialization", 20}, {"Experience (years)", 12},
	{"Identity Verified", 10}, {"Farm Verified", 10}, {"Compliance Verified", 10}, {"Admin Approved", 10},
	{"Verification Status", 20}, {"Certified", 10}, {"Certification Number", 24},
	{"Issued At", 20}, {"Expires At", 20},
}

func (s *ExportService) ExportFarmers(ctx context.Context, status string) ([]byte, error) {
	var rows [][]any
	for page := 1; ; page++ {
		items, total, err := s.farmers.ListFarmers(ctx, repository.FarmersFilter{Status: status}, page, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load farmers: %w", err)
		}
		for _, f := range items {
			rows = append(rows, []any{
				f.ID, f.UserID, f.Specialization, f.ExperienceYears,
				yesNo(f.IdentityVerified), yesNo(f.FarmVerified), yesNo(f.ComplianceVerified), yesNo(f.AdminApproved),
				f.VerificationStatus, yesNo(f.IsCertified), deref(f.CertificationNumber),
				formatTime(f.CertificationIssuedAt), formatTime(f.CertificationExpiresAt),
			})
		}
		if page*exportPageSize >= total || len(items) == 0 {
			break
		}
	}
	return generateSheet("Farmers", farmerExportColumns, rows)
}

func generateSheet(sheetName string, columns []exportColumn, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, c := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, c.header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, c.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
