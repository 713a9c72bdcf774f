package service

import (
	"context"
	"fmt"

	"github.com/sangkips/pos-billing-api/internal/domain/history"
	"github.com/sangkips/pos-billing-api/pkg/receipt"
	"github.com/xuri/excelize/v2"
)

const (
	billsSheet = "Bills"
	itemsSheet = "Items"

	// XLSXContentType is the media type of exported workbooks.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportService writes bill history to a spreadsheet.
type ExportService struct {
	bills *BillService
}

// NewExportService creates a new export service.
func NewExportService(bills *BillService) *ExportService {
	return &ExportService{bills: bills}
}

// ExportHistory builds a workbook with one row per bill and one row per
// line item for the selected window. Bills stay newest first.
func (s *ExportService) ExportHistory(ctx context.Context, sel history.Selection) ([]byte, string, error) {
	bills, err := s.bills.ListAllBills(ctx, sel)
	if err != nil {
		return nil, "", err
	}
	loc := s.bills.Location()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", billsSheet); err != nil {
		return nil, "", err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, "", err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", err
	}

	billHeadings := []any{"Bill No", "Date", "Time", "Customer", "Device", "Items", "Total"}
	itemHeadings := []any{"Bill No", "#", "Product", "Quantity", "Unit Price", "Subtotal"}
	if err := writeRow(f, billsSheet, 1, billHeadings); err != nil {
		return nil, "", err
	}
	if err := writeRow(f, itemsSheet, 1, itemHeadings); err != nil {
		return nil, "", err
	}

	billRow, itemRow := 2, 2
	for _, b := range bills {
		created := b.CreatedAt.In(loc)
		err := writeRow(f, billsSheet, billRow, []any{
			b.BillNo,
			created.Format("02/01/2006"),
			created.Format("15:04"),
			receipt.CustomerLabel(b.CustomerName),
			b.DeviceID,
			len(b.Items),
			b.TotalPrice.InexactFloat64(),
		})
		if err != nil {
			return nil, "", err
		}
		billRow++

		for i, item := range b.Items {
			err := writeRow(f, itemsSheet, itemRow, []any{
				b.BillNo,
				i + 1,
				item.ProductName,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				item.Subtotal.InexactFloat64(),
			})
			if err != nil {
				return nil, "", err
			}
			itemRow++
		}
	}

	totalRow := 0
	if len(bills) > 0 {
		totalRow = billRow
	}
	if err := formatSheets(f, header, totalRow); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("bills_%s_%s.xlsx", sel.Range, s.bills.now().In(loc).Format("20060102"))
	return buf.Bytes(), name, nil
}

// formatSheets styles the heading rows, sizes the columns and, when totalRow
// is set, appends a SUM of the bill totals above it.
func formatSheets(f *excelize.File, header, totalRow int) error {
	if err := f.SetCellStyle(billsSheet, "A1", "G1", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(itemsSheet, "A1", "F1", header); err != nil {
		return err
	}

	if totalRow > 0 {
		labelCell := fmt.Sprintf("F%d", totalRow)
		totalCell := fmt.Sprintf("G%d", totalRow)
		if err := f.SetCellValue(billsSheet, labelCell, "Total"); err != nil {
			return err
		}
		if err := f.SetCellFormula(billsSheet, totalCell, fmt.Sprintf("SUM(G2:G%d)", totalRow-1)); err != nil {
			return err
		}
		if err := f.SetCellStyle(billsSheet, labelCell, totalCell, header); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(billsSheet, "A", "G", 16); err != nil {
		return err
	}
	return f.SetColWidth(itemsSheet, "C", "C", 30)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
