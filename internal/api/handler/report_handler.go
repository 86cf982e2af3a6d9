package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/core/ports"
)

// ReportHandler serves the back-office dashboard aggregates.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Summary handles GET /api/reports/summary.
//
// @Summary      Cross-resource status summary
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	report, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, report)
}
