package httpapi

import (
	"net/http"

	"agrofund/internal/service"

	"github.com/go-chi/chi/v5"
)

// notesPayload is the optional body of admin review actions.
type notesPayload struct {
	Notes string `json:"notes"`
}

func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard.AdminDashboard(r.Context())
	if err != nil {
		writeError(w, h.logger, "AdminDashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

func (h *Handler) AdminListProfiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Profiles.ListProfiles(r.Context(), service.ListProfilesRequest{
		Role:      q.Get("role"),
		KYCStatus: q.Get("kyc_status"),
		Search:    q.Get("search"),
		Page:      parseInt(q.Get("page"), 1),
		Size:      parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "AdminListProfiles", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *Handler) AdminReviewKYC(w http.ResponseWriter, r *http.Request) {
	var req service.ReviewKYCRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.UserID = chi.URLParam(r, "id")
	p, err := h.svc.Profiles.ReviewKYC(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminReviewKYC", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) AdminListFarmers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Farmers.ListFarmers(r.Context(), service.ListFarmersRequest{
		Status:    q.Get("status"),
		Certified: parseBool(q.Get("certified")),
		Page:      parseInt(q.Get("page"), 1),
		Size:      parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "AdminListFarmers", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *Handler) AdminGetFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Farmers.GetFarmer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "AdminGetFarmer", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

// AdminSetFarmerFlag sets one of the four verification flags and returns
// the farmer with the recomputed verification status.
func (h *Handler) AdminSetFarmerFlag(w http.ResponseWriter, r *http.Request) {
	var req service.SetVerificationFlagRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.FarmerID = chi.URLParam(r, "id")
	f, err := h.svc.Farmers.SetVerificationFlag(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminSetFarmerFlag", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) AdminCertifyFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Farmers.IssueCertification(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "AdminCertifyFarmer", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) AdminRejectFarmer(w http.ResponseWriter, r *http.Request) {
	var req service.RejectFarmerRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.FarmerID = chi.URLParam(r, "id")
	f, err := h.svc.Farmers.RejectFarmer(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminRejectFarmer", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) AdminSetFarmVerification(w http.ResponseWriter, r *http.Request) {
	var req service.SetFarmVerificationRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.FarmID = chi.URLParam(r, "id")
	f, err := h.svc.Farms.SetFarmVerification(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminSetFarmVerification", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) AdminListPackages(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Catalog.ListPackages(r.Context(), false)
	if err != nil {
		writeError(w, h.logger, "AdminListPackages", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *Handler) AdminCreatePackage(w http.ResponseWriter, r *http.Request) {
	var req service.PackageRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	p, err := h.svc.Catalog.CreatePackage(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminCreatePackage", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) AdminUpdatePackage(w http.ResponseWriter, r *http.Request) {
	var req service.PackageRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.PackageID = chi.URLParam(r, "id")
	p, err := h.svc.Catalog.UpdatePackage(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminUpdatePackage", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) AdminUpdateAssetPhase(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateAssetPhaseRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.AssetID = chi.URLParam(r, "id")
	a, err := h.svc.Catalog.UpdateAssetPhase(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminUpdateAssetPhase", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

func (h *Handler) AdminListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Payments.ListPayments(r.Context(), service.ListPaymentsRequest{
		Status:     q.Get("status"),
		InvestorID: q.Get("investor_id"),
		Page:       parseInt(q.Get("page"), 1),
		Size:       parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "AdminListPayments", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

// AdminVerifyPayment approves a pending payment. The response carries the
// allocated asset when the investment had none yet.
func (h *Handler) AdminVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req service.ReviewPaymentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.PaymentID = chi.URLParam(r, "id")
	resp, err := h.svc.Payments.VerifyPayment(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminVerifyPayment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *Handler) AdminRejectPayment(w http.ResponseWriter, r *http.Request) {
	var req service.ReviewPaymentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.PaymentID = chi.URLParam(r, "id")
	p, err := h.svc.Payments.RejectPayment(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AdminRejectPayment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) AdminListWithdrawals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Withdrawals.ListWithdrawals(r.Context(), service.ListWithdrawalsRequest{
		Status:     q.Get("status"),
		InvestorID: q.Get("investor_id"),
		Page:       parseInt(q.Get("page"), 1),
		Size:       parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "AdminListWithdrawals", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

// AdminProcessWithdrawal handles approve, reject, paid and failed. The
// action is the last path segment.
func (h *Handler) AdminProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req service.ProcessWithdrawalRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Admin = actorFrom(r)
	req.WithdrawalID = chi.URLParam(r, "id")

	ctx := r.Context()
	var (
		out any
		err error
	)
	switch chi.URLParam(r, "action") {
	case "approve":
		out, err = h.svc.Withdrawals.Approve(ctx, req)
	case "reject":
		out, err = h.svc.Withdrawals.Reject(ctx, req)
	case "paid":
		out, err = h.svc.Withdrawals.MarkPaid(ctx, req)
	case "failed":
		out, err = h.svc.Withdrawals.MarkFailed(ctx, req)
	default:
		writeJSON(w, http.StatusNotFound, Fail("unknown action"))
		return
	}
	if err != nil {
		writeError(w, h.logger, "AdminProcessWithdrawal", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

func (h *Handler) AdminListVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Visits.ListVisits(r.Context(), service.ListVisitsRequest{
		Status:     q.Get("status"),
		InvestorID: q.Get("investor_id"),
		FarmID:     q.Get("farm_id"),
		Page:       parseInt(q.Get("page"), 1),
		Size:       parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "AdminListVisits", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

// AdminProcessVisit handles approve, reject, complete and cancel.
func (h *Handler) AdminProcessVisit(w http.ResponseWriter, r *http.Request) {
	var p notesPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	admin := actorFrom(r)
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	var (
		out any
		err error
	)
	switch chi.URLParam(r, "action") {
	case "approve":
		out, err = h.svc.Visits.ApproveVisit(ctx, admin, id, p.Notes)
	case "reject":
		out, err = h.svc.Visits.RejectVisit(ctx, admin, id, p.Notes)
	case "complete":
		out, err = h.svc.Visits.CompleteVisit(ctx, admin, id)
	case "cancel":
		out, err = h.svc.Visits.CancelVisit(ctx, admin, id)
	default:
		writeJSON(w, http.StatusNotFound, Fail("unknown action"))
		return
	}
	if err != nil {
		writeError(w, h.logger, "AdminProcessVisit", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

func (h *Handler) AdminCompleteInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Investments.CompleteInvestment(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "AdminCompleteInvestment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(inv))
}
