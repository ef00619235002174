package httpapi

import (
	"net/http"

	"agrofund/internal/service"

	"github.com/go-chi/chi/v5"
)

// ListPackages lists packages open for investment.
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Catalog.ListPackages(r.Context(), true)
	if err != nil {
		writeError(w, h.logger, "ListPackages", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *Handler) GetPackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Catalog.GetPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "GetPackage", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) ListFarms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Farms.ListFarms(r.Context(), service.ListFarmsRequest{
		FarmerID: q.Get("farmer_id"),
		Region:   q.Get("region"),
		FarmType: q.Get("farm_type"),
		Verified: parseBool(q.Get("verified")),
		Page:     parseInt(q.Get("page"), 1),
		Size:     parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, h.logger, "ListFarms", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *Handler) GetFarm(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Farms.GetFarm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "GetFarm", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *Handler) ListFarmMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Farms.ListMedia(r.Context(), chi.URLParam(r, "id"), "")
	if err != nil {
		writeError(w, h.logger, "ListFarmMedia", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}
