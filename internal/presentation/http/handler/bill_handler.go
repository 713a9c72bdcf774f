package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/internal/application/service"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
)

// ReceiptStatusHeader is set on a created bill whose receipt step failed.
const ReceiptStatusHeader = "X-Receipt-Status"

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create handles confirming a cart into a bill
// @Summary Create bill
// @Tags bills
// @Accept json
// @Produce json
// @Param request body request.CreateBillRequest true "Bill"
// @Success 201 {object} entity.Bill
// @Failure 400 {object} response.ErrorResponse
// @Router /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.DeviceID == "" || len(req.Items) == 0 {
		response.BadRequest(c, "Device ID and items are required")
		return
	}

	items, err := req.LineItems()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.billService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		DeviceID:     req.DeviceID,
		CustomerName: req.CustomerName,
		Items:        items,
		TotalPrice:   req.TotalPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.ReceiptErr != nil {
		c.Header(ReceiptStatusHeader, string(apperror.GetAppError(result.ReceiptErr).Kind))
	}
	response.Created(c, result.Bill)
}

// ListByDevice handles listing the bills of one device, newest first
// @Summary List device bills
// @Tags bills
// @Produce json
// @Param deviceId path string true "Device ID"
// @Param range query string false "all, today, week, month or custom"
// @Success 200 {array} entity.Bill
// @Router /bills/{deviceId} [get]
func (h *BillHandler) ListByDevice(c *gin.Context) {
	sel, ok := parseSelection(c, h.billService.Location())
	if !ok {
		return
	}

	bills, err := h.billService.ListDeviceBills(c.Request.Context(), c.Param("deviceId"), sel)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, bills)
}
