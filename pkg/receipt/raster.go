package receipt

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// 148mm at 96 DPI.
	rasterWidthPx = 560
	marginPx      = 16
	contentWidth  = rasterWidthPx - 2*marginPx
	fontSizePx    = 15
	lineHeight    = 22
	qrSizePx      = 220

	// Item table columns. Numeric columns are right aligned on their edge.
	indexX      = marginPx
	nameX       = marginPx + 32
	amountRight = rasterWidthPx - marginPx
	priceRight  = amountRight - 120
	qtyRight    = priceRight - 110
	nameWidth   = qtyRight - 48 - nameX
)

// ImageRasterizer draws the receipt into a bitmap and embeds it in a PDF
// whose page is exactly as tall as the image.
type ImageRasterizer struct {
	// SettleDelay is waited out before capture. It is not cancellable.
	SettleDelay time.Duration
	WidthMM     float64
	// Fonts defaults to Go Regular alone.
	Fonts *FontSet
}

// NewImageRasterizer returns a rasterizer producing pages widthMM wide.
func NewImageRasterizer(settleDelay time.Duration, widthMM float64) *ImageRasterizer {
	if widthMM <= 0 {
		widthMM = DefaultPageWidthMM
	}
	return &ImageRasterizer{SettleDelay: settleDelay, WidthMM: widthMM}
}

// Render implements Renderer.
func (r *ImageRasterizer) Render(doc *Document) ([]byte, error) {
	if r.SettleDelay > 0 {
		time.Sleep(r.SettleDelay)
	}

	img, err := r.Image(doc)
	if err != nil {
		return nil, err
	}

	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("receipt: encode raster: %w", err)
	}

	bounds := img.Bounds()
	widthMM := r.WidthMM
	heightMM := float64(bounds.Dy()) * widthMM / float64(bounds.Dx())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: widthMM, Ht: heightMM},
	})
	pdf.SetCompression(false)
	pdf.SetTitle(doc.Title(), false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("receipt", opts, &png)
	pdf.ImageOptions("receipt", 0, 0, widthMM, heightMM, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("receipt: raster pdf: %w", err)
	}
	return out.Bytes(), nil
}

// Image draws the receipt layout at full raster width.
func (r *ImageRasterizer) Image(doc *Document) (image.Image, error) {
	qr, err := QRCodeImage(doc.Payment.URI(), qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("receipt: qr code: %w", err)
	}

	fonts, err := fontsOrDefault(r.Fonts)
	if err != nil {
		return nil, err
	}
	face, err := fonts.Face(fontSizePx)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	measure := faceMeasure(face)

	body, footer := layoutLines(doc, measure)
	height := marginPx*2 + lineHeight*(len(body)+len(footer)+1) + qrSizePx

	canvas := imaging.New(rasterWidthPx, height, color.White)
	d := &font.Drawer{Dst: canvas, Src: image.Black, Face: face}

	y := marginPx
	for _, l := range body {
		y += lineHeight
		drawLine(d, l, y, measure)
	}

	qrTop := y + lineHeight/2
	canvas = imaging.Overlay(canvas, qr, image.Pt((rasterWidthPx-qrSizePx)/2, qrTop), 1.0)
	d.Dst = canvas

	y = qrTop + qrSizePx
	for _, l := range footer {
		y += lineHeight
		drawLine(d, l, y, measure)
	}
	return canvas, nil
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

// cell is a run of text anchored at x: its left edge, its right edge, or
// ignored when centered.
type cell struct {
	text  string
	x     int
	align alignment
}

type line struct {
	cells []cell
	rule  bool
}

func faceMeasure(face font.Face) func(string) float64 {
	return func(s string) float64 {
		return float64(font.MeasureString(face, s).Ceil())
	}
}

// layoutLines places the receipt text above and below the QR code. Long
// text wraps onto extra lines; nothing is truncated.
func layoutLines(doc *Document, measure func(string) float64) (body, footer []line) {
	wrap := func(s string, width int) []string {
		return wrapText(s, float64(width), measure)
	}
	center := func(dst *[]line, s string) {
		if s == "" {
			return
		}
		for _, t := range wrap(s, contentWidth) {
			*dst = append(*dst, line{cells: []cell{{text: t, align: alignCenter}}})
		}
	}
	left := func(s string) {
		for _, t := range wrap(s, contentWidth) {
			body = append(body, line{cells: []cell{{text: t, x: marginPx}}})
		}
	}
	rule := func() {
		body = append(body, line{rule: true})
	}

	center(&body, doc.Header.ShopName)
	center(&body, doc.Header.Tagline)
	center(&body, doc.Header.Address)
	center(&body, doc.Header.Phone)
	rule()
	left("Bill No: #" + strconv.FormatInt(doc.BillNo, 10))
	left("Date: " + doc.Date)
	left("Customer: " + doc.Customer)
	rule()

	body = append(body, line{cells: []cell{
		{text: "#", x: indexX},
		{text: "Item", x: nameX},
		{text: "Qty", x: qtyRight, align: alignRight},
		{text: "Price", x: priceRight, align: alignRight},
		{text: "Amount", x: amountRight, align: alignRight},
	}})
	rule()
	for _, row := range doc.Rows {
		names := wrap(row.Name, nameWidth)
		body = append(body, line{cells: []cell{
			{text: strconv.Itoa(row.Index), x: indexX},
			{text: names[0], x: nameX},
			{text: strconv.Itoa(row.Quantity), x: qtyRight, align: alignRight},
			{text: doc.Money(row.UnitPrice), x: priceRight, align: alignRight},
			{text: doc.Money(row.Subtotal), x: amountRight, align: alignRight},
		}})
		for _, more := range names[1:] {
			body = append(body, line{cells: []cell{{text: more, x: nameX}}})
		}
	}
	rule()
	body = append(body, line{cells: []cell{
		{text: "Total: " + doc.Money(doc.Total), x: amountRight, align: alignRight},
	}})
	rule()
	for _, d := range doc.Disclaimer {
		center(&body, d)
	}

	for _, f := range doc.Footer {
		center(&footer, f)
	}
	return body, footer
}

func drawLine(d *font.Drawer, l line, baseline int, measure func(string) float64) {
	if l.rule {
		y := baseline - lineHeight/3
		for x := marginPx; x < rasterWidthPx-marginPx; x++ {
			d.Dst.Set(x, y, color.Black)
		}
		return
	}
	for _, c := range l.cells {
		x := c.x
		switch c.align {
		case alignRight:
			x -= int(measure(c.text))
		case alignCenter:
			x = (rasterWidthPx - int(measure(c.text))) / 2
		}
		d.Dot = fixed.P(x, baseline)
		d.DrawString(c.text)
	}
}
