package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/internal/application/service"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/response"
)

// HistoryHandler serves the signed-in view of every device's bills.
type HistoryHandler struct {
	billService   *service.BillService
	exportService *service.ExportService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(billService *service.BillService, exportService *service.ExportService) *HistoryHandler {
	return &HistoryHandler{
		billService:   billService,
		exportService: exportService,
	}
}

// List handles listing all bills in the selected window
func (h *HistoryHandler) List(c *gin.Context) {
	sel, ok := parseSelection(c, h.billService.Location())
	if !ok {
		return
	}

	bills, err := h.billService.ListAllBills(c.Request.Context(), sel)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, bills)
}

// Export handles downloading the selected window as a workbook
func (h *HistoryHandler) Export(c *gin.Context) {
	sel, ok := parseSelection(c, h.billService.Location())
	if !ok {
		return
	}

	data, name, err := h.exportService.ExportHistory(c.Request.Context(), sel)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(200, service.XLSXContentType, data)
}
