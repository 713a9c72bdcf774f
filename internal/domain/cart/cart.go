// Package cart holds the in-progress bill a cashier is building. A cart is
// memory only and belongs to a single caller; it is not safe for concurrent use.
package cart

import (
	"fmt"
	"strings"

	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Cart is an ordered list of line items plus an optional customer name.
type Cart struct {
	items        []entity.LineItem
	customerName string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromItems rebuilds a cart from already-submitted line items, validating and
// recomputing each subtotal.
func FromItems(items []entity.LineItem) (*Cart, error) {
	c := New()
	for i, item := range items {
		if err := c.Add(item.ProductName, item.Quantity, item.UnitPrice); err != nil {
			appErr := apperror.GetAppError(err)
			for j := range appErr.Errors {
				appErr.Errors[j].Field = fmt.Sprintf("items[%d].%s", i, appErr.Errors[j].Field)
			}
			return nil, appErr
		}
	}
	return c, nil
}

// Add appends a new line item. The product name is trimmed.
func (c *Cart) Add(productName string, quantity int, unitPrice decimal.Decimal) error {
	item, err := newItem(productName, quantity, unitPrice)
	if err != nil {
		return err
	}
	c.items = append(c.items, item)
	return nil
}

// Update replaces the item at index, keeping its position.
func (c *Cart) Update(index int, productName string, quantity int, unitPrice decimal.Decimal) error {
	if index < 0 || index >= len(c.items) {
		return apperror.NewIndexOutOfRangeError(index, len(c.items))
	}
	item, err := newItem(productName, quantity, unitPrice)
	if err != nil {
		return err
	}
	c.items[index] = item
	return nil
}

// Remove deletes the item at index; later items shift down by one.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.items) {
		return apperror.NewIndexOutOfRangeError(index, len(c.items))
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// Items returns a copy of the current line items.
func (c *Cart) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	return len(c.items)
}

// SetCustomerName stores the customer name used by Confirm when none is given.
func (c *Cart) SetCustomerName(name string) {
	c.customerName = name
}

// Total is the exact sum of all subtotals.
func (c *Cart) Total() decimal.Decimal {
	return entity.SumSubtotals(c.items)
}

// Confirm freezes the cart into a BillRequest. It does not modify the cart;
// the caller clears it after the bill is persisted. A blank customer name
// falls back to the cart's own name and then to the walk-in label.
func (c *Cart) Confirm(customerName, deviceID string) (*entity.BillRequest, error) {
	if len(c.items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	name := strings.TrimSpace(customerName)
	if name == "" {
		name = strings.TrimSpace(c.customerName)
	}
	if name == "" {
		name = entity.WalkInCustomer
	}

	return &entity.BillRequest{
		DeviceID:     deviceID,
		CustomerName: name,
		Items:        c.Items(),
		TotalPrice:   c.Total(),
	}, nil
}

// Clear empties the cart and forgets the customer name.
func (c *Cart) Clear() {
	c.items = nil
	c.customerName = ""
}

func newItem(productName string, quantity int, unitPrice decimal.Decimal) (entity.LineItem, error) {
	name := strings.TrimSpace(productName)

	var fieldErrors []apperror.FieldError
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "product_name", Message: "Product name is required"})
	}
	if quantity <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "Quantity must be greater than zero"})
	}
	if unitPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "Unit price cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return entity.LineItem{}, apperror.NewValidationError(fieldErrors)
	}

	return entity.NewLineItem(name, quantity, unitPrice), nil
}
