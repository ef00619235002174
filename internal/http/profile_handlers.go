package httpapi

import (
	"net/http"

	"agrofund/internal/service"
)

// CreateProfile is the signup step after the auth provider issued a token.
// The token subject becomes the profile id.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	var req service.CreateProfileRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.UserID = id.UserID
	if req.Email == "" {
		req.Email = id.Email
	}
	p, err := h.svc.Profiles.CreateProfile(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "CreateProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profiles.GetProfile(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeError(w, h.logger, "GetMyProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateOnboardingRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.UserID = actorFrom(r).ID
	p, err := h.svc.Profiles.UpdateOnboarding(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "UpdateMyProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitKYCRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	req.UserID = actorFrom(r).ID
	p, err := h.svc.Profiles.SubmitKYC(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "SubmitKYC", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}
