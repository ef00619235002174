package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agrofund/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminExport streams a status-filtered workbook. The dataset is the
// {dataset} path parameter: payments, withdrawals or farmers.
func (h *Handler) AdminExport(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")
	var gen func(ctx context.Context, status string) ([]byte, error)
	switch dataset {
	case "payments":
		gen = h.svc.Export.ExportPayments
	case "withdrawals":
		gen = h.svc.Export.ExportWithdrawals
	case "farmers":
		gen = h.svc.Export.ExportFarmers
	default:
		writeJSON(w, http.StatusNotFound, Fail("unknown export"))
		return
	}

	data, err := gen(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logger.Error("AdminExport failed", zap.String("dataset", dataset), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to generate export: %v", err)))
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", dataset, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", service.XLSXContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
