package httpapi

import (
	"net/http"

	"agrofund/internal/service"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateInvestmentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.InvestorID = actorFrom(r).ID
	inv, err := h.svc.Investments.CreateInvestment(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "CreateInvestment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(inv))
}

func (h *Handler) ListMyInvestments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Investments.ListInvestments(r.Context(), service.ListInvestmentsRequest{
		InvestorID: actorFrom(r).ID,
		Status:     q.Get("status"),
		Page:       parseInt(q.Get("page"), 1),
		Size:       parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "ListMyInvestments", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Investments.GetInvestment(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "GetInvestment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(inv))
}

func (h *Handler) CancelInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Investments.CancelInvestment(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "CancelInvestment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(inv))
}

func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitPaymentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.InvestorID = actorFrom(r).ID
	p, err := h.svc.Payments.SubmitPayment(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "SubmitPayment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) ListMyPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Payments.ListPayments(r.Context(), service.ListPaymentsRequest{
		InvestorID: actorFrom(r).ID,
		Status:     q.Get("status"),
		Page:       parseInt(q.Get("page"), 1),
		Size:       parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "ListMyPayments", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Payments.GetPayment(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "GetPayment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) ListMyAssets(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Catalog.ListAssets(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeError(w, h.logger, "ListMyAssets", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Catalog.GetAsset(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "GetAsset", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

func (h *Handler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req service.RequestWithdrawalRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.InvestorID = actorFrom(r).ID
	wr, err := h.svc.Withdrawals.RequestWithdrawal(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "RequestWithdrawal", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(wr))
}

func (h *Handler) ListMyWithdrawals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Withdrawals.ListWithdrawals(r.Context(), service.ListWithdrawalsRequest{
		InvestorID: actorFrom(r).ID,
		Status:     q.Get("status"),
		Page:       parseInt(q.Get("page"), 1),
		Size:       parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "ListMyWithdrawals", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *Handler) BookVisit(w http.ResponseWriter, r *http.Request) {
	var req service.BookVisitRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.InvestorID = actorFrom(r).ID
	v, err := h.svc.Visits.BookVisit(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "BookVisit", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

func (h *Handler) ListMyVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Visits.ListVisits(r.Context(), service.ListVisitsRequest{
		InvestorID: actorFrom(r).ID,
		Status:     q.Get("status"),
		Page:       parseInt(q.Get("page"), 1),
		Size:       parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "ListMyVisits", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *Handler) CancelMyVisit(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Visits.CancelVisit(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "CancelMyVisit", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

func (h *Handler) InvestorDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard.InvestorDashboard(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeError(w, h.logger, "InvestorDashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}
