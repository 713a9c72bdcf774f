package printer

import (
	"github.com/sangkips/pos-billing-api/pkg/receipt"
)

// FormatReceipt converts a receipt document into ESC/POS bytes.
func FormatReceipt(doc *receipt.Document, charWidth int) []byte {
	t := NewTicket(charWidth)

	// Header
	t.SetAlign(AlignCenter).
		SetBold(true).
		SetFontSize(FontDouble).
		Text(doc.Header.ShopName).
		SetFontSize(FontNormal).
		SetBold(false)

	for _, s := range []string{doc.Header.Tagline, doc.Header.Address, doc.Header.Phone} {
		if s != "" {
			t.Text(s)
		}
	}

	t.SetAlign(AlignLeft).
		Separator('-')

	t.TextF("Bill No: #%d", doc.BillNo).
		KeyValue("Date:", doc.Date).
		KeyValue("Customer:", doc.Customer).
		Separator('-')

	for _, row := range doc.Rows {
		t.ItemLine(row.Quantity, row.Name, row.Subtotal)
		if row.Quantity > 1 {
			t.TextF("  @ %s each", row.UnitPrice)
		}
	}

	t.Separator('-').
		SetBold(true).
		KeyValue("TOTAL:", doc.Money(doc.Total)).
		SetBold(false).
		Separator('-')

	t.SetAlign(AlignCenter).SetBold(true)
	for _, line := range doc.Disclaimer {
		t.Text(line)
	}
	t.SetBold(false).
		LineFeed().
		QRCode(doc.Payment.URI(), 6)

	for _, line := range doc.Footer {
		t.Text(line)
	}
	t.SetAlign(AlignLeft).
		FeedLines(3).
		PartialCut()

	return t.Bytes()
}
