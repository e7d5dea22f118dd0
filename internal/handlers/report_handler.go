package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/internal/services"
)

// ReportHandler handles the administrative sales reports
type ReportHandler struct {
	reports *services.SalesReportService
	logger  *logrus.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *services.SalesReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// SalesReportResponse is the body of the sales report
type SalesReportResponse struct {
	Start  string                       `json:"start"`
	End    string                       `json:"end"`
	Routes map[string]models.RouteSales `json:"routes"`
}

// GetSalesByRoute handles GET /api/v1/reports/sales?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) GetSalesByRoute(c *gin.Context) {
	start, err := time.Parse(time.DateOnly, c.Query("start"))
	if err != nil {
		badRequest(c, "start must be a date in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse(time.DateOnly, c.Query("end"))
	if err != nil {
		badRequest(c, "end must be a date in YYYY-MM-DD format")
		return
	}

	sales, err := h.reports.SalesByRoute(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SalesReportResponse{
		Start:  start.Format(time.DateOnly),
		End:    end.Format(time.DateOnly),
		Routes: sales,
	})
}

// GetTicketStatusCounts handles GET /api/v1/reports/ticket-status
func (h *ReportHandler) GetTicketStatusCounts(c *gin.Context) {
	counts, err := h.reports.TicketCountsByStatus(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts})
}
