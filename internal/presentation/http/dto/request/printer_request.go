package request

// PrintReceiptRequest is the request body for printing a receipt.
type PrintReceiptRequest struct {
	BillID string `json:"bill_id" binding:"required,uuid"`
}
