package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/sangkips/pos-billing-api/pkg/logger"
	"github.com/sangkips/pos-billing-api/pkg/printer"
	"github.com/sangkips/pos-billing-api/pkg/receipt"
	"github.com/shopspring/decimal"
)

// PrinterService sends receipts to the thermal printer.
type PrinterService struct {
	printer   printer.Printer
	receipts  *ReceiptService
	charWidth int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, receipts *ReceiptService, charWidth int) *PrinterService {
	return &PrinterService{
		printer:   p,
		receipts:  receipts,
		charWidth: charWidth,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       kind,
	}
}

// TestPrint sends a sample receipt to the printer.
// The document is returned so the caller can show it when no printer is attached.
func (s *PrinterService) TestPrint(ctx context.Context) (*receipt.Document, error) {
	sample := &entity.Bill{
		BillNo:       0,
		CustomerName: "Printer Test",
		Items: []entity.LineItem{
			entity.NewLineItem("Test Item 1", 1, decimal.NewFromInt(10)),
			entity.NewLineItem("Test Item 2", 2, decimal.NewFromInt(5)),
		},
		TotalPrice: decimal.NewFromInt(20),
		CreatedAt:  time.Now(),
	}
	doc := s.receipts.BuildDocument(sample)
	return doc, s.send(ctx, doc)
}

// PrintReceipt prints the receipt of a stored bill.
func (s *PrinterService) PrintReceipt(ctx context.Context, billID uuid.UUID) (*receipt.Document, error) {
	doc, err := s.receipts.Document(ctx, billID)
	if err != nil {
		return nil, err
	}
	return doc, s.send(ctx, doc)
}

func (s *PrinterService) send(ctx context.Context, doc *receipt.Document) error {
	data := printer.FormatReceipt(doc, s.charWidth)
	if err := s.printer.Print(ctx, data); err != nil {
		logger.LogError("service", "PrintReceipt", "thermal print", doc.BillNo, err)
		return &apperror.AppError{
			Code:    apperror.ErrPrinter.Code,
			Kind:    apperror.KindPrinterUnavailable,
			Message: "Failed to print receipt",
			Err:     err,
		}
	}
	return nil
}
