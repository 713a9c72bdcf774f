package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WalkInCustomer is the label used when a bill is confirmed without a name.
const WalkInCustomer = "Walk-in Customer"

// BillRequest is a frozen cart waiting to be persisted.
type BillRequest struct {
	DeviceID     string          `json:"device_id"`
	CustomerName string          `json:"customer_name"`
	Items        []LineItem      `json:"items"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// Bill is a completed sale. Items and TotalPrice never change after creation;
// PDFURL is the only field that may be attached later.
type Bill struct {
	ID           uuid.UUID                     `gorm:"type:uuid;primary_key" json:"id"`
	BillNo       int64                         `gorm:"autoIncrement;uniqueIndex;not null" json:"bill_no"`
	DeviceID     string                        `gorm:"size:100;not null;index" json:"device_id"`
	CustomerName string                        `gorm:"size:255" json:"customer_name"`
	Items        datatypes.JSONSlice[LineItem] `gorm:"type:jsonb;not null" json:"items"`
	TotalPrice   decimal.Decimal               `gorm:"type:numeric;not null" json:"total_price"`
	CreatedAt    time.Time                     `gorm:"index" json:"created_at"`
	PDFURL       *string                       `gorm:"type:text" json:"pdf_url"`
}

// NewBillFromRequest copies a request into an unsaved bill. The gateway
// assigns ID, BillNo and CreatedAt.
func NewBillFromRequest(req *BillRequest) *Bill {
	items := make([]LineItem, len(req.Items))
	copy(items, req.Items)
	return &Bill{
		DeviceID:     req.DeviceID,
		CustomerName: req.CustomerName,
		Items:        items,
		TotalPrice:   req.TotalPrice,
	}
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// HasPDF reports whether a rendered artifact has been attached.
func (b *Bill) HasPDF() bool {
	return b.PDFURL != nil && *b.PDFURL != ""
}
