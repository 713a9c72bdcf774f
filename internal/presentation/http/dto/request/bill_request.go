package request

import (
	"fmt"

	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// BillItemRequest is one submitted line. Older clients send the unit price
// as "price".
type BillItemRequest struct {
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Price       *decimal.Decimal `json:"price"`
}

// CreateBillRequest represents a bill creation request
type CreateBillRequest struct {
	DeviceID     string            `json:"device_id"`
	CustomerName string            `json:"customer_name"`
	Items        []BillItemRequest `json:"items"`
	TotalPrice   decimal.Decimal   `json:"total_price"`
}

// LineItems converts the submitted lines. Subtotals are left to the server.
func (r *CreateBillRequest) LineItems() ([]entity.LineItem, error) {
	items := make([]entity.LineItem, len(r.Items))
	var fieldErrors []apperror.FieldError
	for i, it := range r.Items {
		price := it.UnitPrice
		if price == nil {
			price = it.Price
		}
		if price == nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].unit_price", i),
				Message: "Unit price is required",
			})
			continue
		}
		items[i] = entity.LineItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   *price,
		}
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	return items, nil
}

// HistoryQuery represents bill history filter parameters
type HistoryQuery struct {
	Range string `form:"range"`
	Start string `form:"start"`
	End   string `form:"end"`
}
