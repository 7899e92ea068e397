package handlers

import (
	"context"
	"net/http"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/services/reports"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// ReportService defines the report operations the handler needs
type ReportService interface {
	Sales(ctx context.Context, status models.PaymentStatus) (*reports.SalesReport, error)
	SellerSales(ctx context.Context, sellerEmail string, status models.PaymentStatus) (*reports.SalesReport, error)
}

// ReportHandler serves sales report data
type ReportHandler struct {
	reports ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// HandleSalesReport handles GET /sales-report with optional ?status=
func (h *ReportHandler) HandleSalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Sales(r.Context(), models.PaymentStatus(r.URL.Query().Get("status")))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, report))
}

// HandleSellerSalesReport handles GET /seller/sales-report/{email}
func (h *ReportHandler) HandleSellerSalesReport(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r, h.logger)
	if !ok {
		return
	}
	report, err := h.reports.SellerSales(r.Context(), email, models.PaymentStatus(r.URL.Query().Get("status")))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, report))
}
