package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// DefaultPageWidthMM is the width of the printed receipt page.
const DefaultPageWidthMM = 148.0

// Renderer turns a Document into PDF bytes.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
}

// Output is a rendered PDF and which path produced it.
type Output struct {
	Data []byte
	// Fallback is true when the primary path failed and the text layout was used.
	Fallback bool
	// PrimaryErr is the primary failure, if any.
	PrimaryErr error
}

// Generator renders PDFs with a primary layout and falls back to a second
// one when the first fails.
type Generator struct {
	Primary  Renderer
	Fallback Renderer
}

// NewGenerator wires the raster layout in front of the text layout.
func NewGenerator(primary, fallback Renderer) *Generator {
	return &Generator{Primary: primary, Fallback: fallback}
}

// Render always attempts the fallback after a primary failure and only
// errors when both paths fail.
func (g *Generator) Render(doc *Document) (*Output, error) {
	var primaryErr error
	if g.Primary != nil {
		data, err := g.Primary.Render(doc)
		if err == nil {
			return &Output{Data: data}, nil
		}
		primaryErr = err
	} else {
		primaryErr = errors.New("receipt: no primary renderer")
	}

	if g.Fallback == nil {
		return nil, primaryErr
	}
	data, err := g.Fallback.Render(doc)
	if err != nil {
		return nil, errors.Join(primaryErr, err)
	}
	return &Output{Data: data, Fallback: true, PrimaryErr: primaryErr}, nil
}

// TextLayout draws the receipt as plain text at fixed positions on an A4 page.
type TextLayout struct {
	// Fonts defaults to Go Regular alone. Only the first font is embedded.
	Fonts *FontSet
}

const textFont = "receipt"

// Render implements Renderer.
func (l TextLayout) Render(doc *Document) ([]byte, error) {
	fonts, err := fontsOrDefault(l.Fonts)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetTitle(doc.Title(), false)
	pdf.AddUTF8FontFromBytes(textFont, "", fonts.Primary())
	pdf.AddPage()

	y := 0.0
	newline := func(step float64) {
		y += step
		if y > 275 {
			pdf.AddPage()
			y = 20
		}
	}
	wrap := func(s string, width float64) []string {
		return wrapText(s, width, pdf.GetStringWidth)
	}
	centered := func(s string) {
		for _, t := range wrap(s, 170) {
			pdf.Text(105-pdf.GetStringWidth(t)/2, y, t)
			newline(7)
		}
	}

	pdf.SetFont(textFont, "", 18)
	y = 20
	centered(doc.Header.ShopName)
	pdf.SetFont(textFont, "", 12)
	y = max(y, 30)
	centered(doc.Header.Tagline)

	pdf.SetFont(textFont, "", 10)
	y = max(y, 50)
	pdf.Text(20, y, "Bill No: #"+strconv.FormatInt(doc.BillNo, 10))
	newline(10)
	pdf.Text(20, y, "Date: "+doc.Date)
	newline(10)
	for _, t := range wrap("Customer: "+doc.Customer, 170) {
		pdf.Text(20, y, t)
		newline(6)
	}

	newline(14)
	pdf.Text(20, y, "Items:")
	pdf.Line(20, y+5, 190, y+5)
	newline(15)
	pdf.Text(25, y, "Item")
	pdf.Text(100, y, "Qty")
	pdf.Text(130, y, "Price")
	pdf.Text(160, y, "Subtotal")
	pdf.Line(20, y+5, 190, y+5)
	newline(15)

	for _, row := range doc.Rows {
		names := wrap(row.Name, 72)
		pdf.Text(25, y, names[0])
		pdf.Text(100, y, strconv.Itoa(row.Quantity))
		pdf.Text(130, y, doc.Money(row.UnitPrice))
		pdf.Text(160, y, doc.Money(row.Subtotal))
		for _, more := range names[1:] {
			newline(6)
			pdf.Text(25, y, more)
		}
		newline(15)
	}

	pdf.Line(20, y-10, 190, y-10)
	pdf.SetFont(textFont, "", 12)
	pdf.Text(20, y, "Total:")
	pdf.Text(160, y, doc.Money(doc.Total))

	pdf.SetFont(textFont, "", 10)
	newline(20)
	for _, line := range doc.Disclaimer {
		centered(line)
	}
	for _, line := range doc.Footer {
		centered(line)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: text layout: %w", err)
	}
	return buf.Bytes(), nil
}
