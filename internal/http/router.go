package httpapi

import (
	"net/http"

	"agrofund/internal/domain"
	"agrofund/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the public, investor, farmer and admin surfaces.
func NewRouter(h *Handler, auth *Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/packages", h.ListPackages)
		r.Get("/packages/{id}", h.GetPackage)
		r.Get("/farms", h.ListFarms)
		r.Get("/farms/{id}", h.GetFarm)
		r.Get("/farms/{id}/media", h.ListFarmMedia)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/profiles", h.CreateProfile)

			r.Group(func(r chi.Router) {
				r.Use(RequireProfile)
				r.Get("/profiles/me", h.GetMyProfile)
				r.Put("/profiles/me", h.UpdateMyProfile)
				r.Post("/profiles/me/kyc", h.SubmitKYC)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(domain.RoleInvestor))
					r.Post("/investments", h.CreateInvestment)
					r.Get("/investments", h.ListMyInvestments)
					r.Get("/investments/{id}", h.GetInvestment)
					r.Post("/investments/{id}/cancel", h.CancelInvestment)
					r.Post("/payments", h.SubmitPayment)
					r.Get("/payments", h.ListMyPayments)
					r.Get("/payments/{id}", h.GetPayment)
					r.Get("/assets", h.ListMyAssets)
					r.Get("/assets/{id}", h.GetAsset)
					r.Post("/withdrawals", h.RequestWithdrawal)
					r.Get("/withdrawals", h.ListMyWithdrawals)
					r.Post("/visits", h.BookVisit)
					r.Get("/visits", h.ListMyVisits)
					r.Post("/visits/{id}/cancel", h.CancelMyVisit)
					r.Get("/dashboard/investor", h.InvestorDashboard)
				})

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(domain.RoleFarmer))
					r.Post("/farmers/apply", h.ApplyFarmer)
					r.Get("/farmers/me", h.GetMyFarmer)
					r.Post("/farms", h.CreateFarm)
					r.Put("/farms/{id}", h.UpdateFarm)
					r.Post("/media", h.AddMedia)
					r.Delete("/media/{id}", h.DeleteMedia)
					r.Get("/dashboard/farmer", h.FarmerDashboard)
				})
			})
		})
	})

	r.Route("/admin/api/v1", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(RequireRole(domain.RoleAdmin))

		r.Get("/dashboard", h.AdminDashboard)
		r.Get("/profiles", h.AdminListProfiles)
		r.Post("/profiles/{id}/kyc", h.AdminReviewKYC)

		r.Get("/farmers", h.AdminListFarmers)
		r.Get("/farmers/{id}", h.AdminGetFarmer)
		r.Post("/farmers/{id}/flags", h.AdminSetFarmerFlag)
		r.Post("/farmers/{id}/certify", h.AdminCertifyFarmer)
		r.Post("/farmers/{id}/reject", h.AdminRejectFarmer)
		r.Post("/farms/{id}/verification", h.AdminSetFarmVerification)

		r.Get("/packages", h.AdminListPackages)
		r.Post("/packages", h.AdminCreatePackage)
		r.Put("/packages/{id}", h.AdminUpdatePackage)
		r.Post("/assets/{id}/phase", h.AdminUpdateAssetPhase)

		r.Get("/payments", h.AdminListPayments)
		r.Post("/payments/{id}/verify", h.AdminVerifyPayment)
		r.Post("/payments/{id}/reject", h.AdminRejectPayment)

		r.Get("/withdrawals", h.AdminListWithdrawals)
		r.Post("/withdrawals/{id}/{action}", h.AdminProcessWithdrawal)

		r.Get("/visits", h.AdminListVisits)
		r.Post("/visits/{id}/{action}", h.AdminProcessVisit)

		r.Post("/investments/{id}/complete", h.AdminCompleteInvestment)
		r.Delete("/media/{id}", h.DeleteMedia)

		r.Get("/export/{dataset}", h.AdminExport)
	})

	return r
}
