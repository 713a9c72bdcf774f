package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/internal/application/service"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/response"
)

// ReceiptHandler serves the three renderings of a stored bill.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	printerService *service.PrinterService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, printerService *service.PrinterService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		printerService: printerService,
	}
}

// Summary returns the on-screen confirmation of a bill.
func (h *ReceiptHandler) Summary(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "bill")
	if !ok {
		return
	}

	summary, err := h.receiptService.Summary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, summary)
}

// Print returns the printable HTML page of a bill.
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "bill")
	if !ok {
		return
	}

	page, err := h.receiptService.PrintHTML(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// DownloadPDF renders the bill's PDF and returns it as an attachment.
func (h *ReceiptHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "bill")
	if !ok {
		return
	}

	data, bill, err := h.receiptService.PDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.FileName(bill)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Regenerate renders and uploads the PDF again and returns the bill.
func (h *ReceiptHandler) Regenerate(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "bill")
	if !ok {
		return
	}

	result, err := h.receiptService.Regenerate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"bill":     result.Bill,
		"uploaded": result.Uploaded,
	})
}

// Thermal sends the receipt to the shop printer.
func (h *ReceiptHandler) Thermal(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "bill")
	if !ok {
		return
	}

	if _, err := h.printerService.PrintReceipt(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Receipt sent to printer")
}
