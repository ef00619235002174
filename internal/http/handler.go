package httpapi

import (
	"agrofund/internal/service"

	"go.uber.org/zap"
)

// Services are the application services behind the routes.
type Services struct {
	Profiles    *service.ProfileService
	Farmers     *service.FarmerService
	Farms       *service.FarmService
	Catalog     *service.CatalogService
	Investments *service.InvestmentService
	Payments    *service.PaymentService
	Withdrawals *service.WithdrawalService
	Visits      *service.VisitService
	Dashboard   *service.DashboardService
	Export      *service.ExportService
}

// Handler implements every route; handlers are grouped by audience across files.
type Handler struct {
	svc    Services
	logger *zap.Logger
}

func NewHandler(svc Services, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}
