package httpapi

import (
	"net/http"

	"agrofund/internal/service"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ApplyFarmer(w http.ResponseWriter, r *http.Request) {
	var req service.ApplyFarmerRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.UserID = actorFrom(r).ID
	f, err := h.svc.Farmers.Apply(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "ApplyFarmer", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) GetMyFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Farmers.GetFarmerByUser(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeError(w, h.logger, "GetMyFarmer", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) CreateFarm(w http.ResponseWriter, r *http.Request) {
	var req service.FarmRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Actor = actorFrom(r)
	f, err := h.svc.Farms.CreateFarm(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "CreateFarm", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) UpdateFarm(w http.ResponseWriter, r *http.Request) {
	var req service.FarmRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Actor = actorFrom(r)
	req.FarmID = chi.URLParam(r, "id")
	f, err := h.svc.Farms.UpdateFarm(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "UpdateFarm", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) AddMedia(w http.ResponseWriter, r *http.Request) {
	var req service.AddMediaRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.Actor = actorFrom(r)
	m, err := h.svc.Farms.AddMedia(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AddMedia", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(m))
}

// DeleteMedia removes a media item. The service lets the uploader or an admin through.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Farms.DeleteMedia(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "DeleteMedia", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *Handler) FarmerDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard.FarmerDashboard(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeError(w, h.logger, "FarmerDashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}
