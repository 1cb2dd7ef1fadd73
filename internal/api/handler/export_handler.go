package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-system/internal/service"
	"library-system/pkg/response"
)

// ExportHandler serves the report endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportActiveLoans streams all open loans as an .xlsx file (admin).
// GET /api/v1/loans/export
func (h *ExportHandler) ExportActiveLoans(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportActiveLoans(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoLoans) {
			response.NotFound(c, response.CodeNotFound, "no active loans to export")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
