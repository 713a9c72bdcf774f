package receipt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
)

var printTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Receipt Print - {{.Doc.Title}}</title>
  <style>
    @page { size: {{.WidthMM}}mm auto; margin: 0; }
    @media print {
      .print-controls { display: none !important; }
    }
    body {
      width: {{.WidthMM}}mm;
      margin: 0 auto;
      padding: 2mm;
      font-family: Arial, sans-serif;
      font-size: 14px;
      line-height: 1.4;
      background: white;
      color: black;
    }
    .print-controls { position: fixed; top: 10px; right: 10px; }
    .print-controls button { padding: 10px 20px; border: none; border-radius: 5px; cursor: pointer; }
    .receipt-container { width: {{.WidthMM}}mm; max-width: {{.WidthMM}}mm; margin: 0 auto; }
    h1 { font-size: 18px; margin: 3mm 0; text-align: center; }
    p { margin: 2mm 0; text-align: center; }
    table { border-collapse: collapse; width: 100%; font-size: 13px; }
    th, td { border: 1px solid black; padding: 2px; text-align: left; }
    th { font-size: 14px; background-color: #f3f4f6; }
    td.num { text-align: right; }
    .total { font-weight: bold; text-align: right; }
    .disclaimer p { font-weight: bold; margin: 0; }
    img.qr { width: 40mm; height: 40mm; }
  </style>
</head>
<body>
  <div class="print-controls">
    <button onclick="window.print()">Print Receipt</button>
    <button onclick="window.close()">Cancel</button>
  </div>
  <div class="receipt-container">
    <h1>{{.Doc.Header.ShopName}}</h1>
    {{- with .Doc.Header.Tagline}}
    <p>{{.}}</p>
    {{- end}}
    {{- with .Doc.Header.Address}}
    <p>{{.}}</p>
    {{- end}}
    {{- with .Doc.Header.Phone}}
    <p>{{.}}</p>
    {{- end}}
    <p>Bill No: #{{.Doc.BillNo}}</p>
    <p>Date: {{.Doc.Date}}</p>
    <p>Customer: {{.Doc.Customer}}</p>
    <table>
      <thead>
        <tr><th>#</th><th>Item</th><th>Qty</th><th>Price</th><th>Subtotal</th></tr>
      </thead>
      <tbody>
        {{- range .Doc.Rows}}
        <tr><td>{{.Index}}</td><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{$.Doc.Money .UnitPrice}}</td><td class="num">{{$.Doc.Money .Subtotal}}</td></tr>
        {{- end}}
      </tbody>
    </table>
    <p class="total">Total: {{.Doc.Money .Doc.Total}}</p>
    {{- if .Doc.Disclaimer}}
    <div class="disclaimer">
      {{- range .Doc.Disclaimer}}
      <p>{{.}}</p>
      {{- end}}
    </div>
    {{- end}}
    <p><img class="qr" alt="Scan to pay" src="{{.QR}}"></p>
    {{- range .Doc.Footer}}
    <p>{{.}}</p>
    {{- end}}
  </div>
</body>
</html>
`))

// HTMLRenderer produces the self-contained print page.
type HTMLRenderer struct {
	WidthMM float64
	QRSize  int
}

// NewHTMLRenderer returns a renderer for pages widthMM wide.
func NewHTMLRenderer(widthMM float64) *HTMLRenderer {
	if widthMM <= 0 {
		widthMM = DefaultPageWidthMM
	}
	return &HTMLRenderer{WidthMM: widthMM, QRSize: DefaultQRSize}
}

// Render executes the print template. The QR code is inlined as a data URI
// so the page has no external references.
func (r *HTMLRenderer) Render(doc *Document) ([]byte, error) {
	png, err := QRCodePNG(doc.Payment.URI(), r.QRSize)
	if err != nil {
		return nil, fmt.Errorf("receipt: qr code: %w", err)
	}

	var buf bytes.Buffer
	err = printTemplate.Execute(&buf, struct {
		Doc     *Document
		WidthMM string
		QR      template.URL
	}{
		Doc:     doc,
		WidthMM: trimFloat(r.WidthMM),
		QR:      template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	})
	if err != nil {
		return nil, fmt.Errorf("receipt: print template: %w", err)
	}
	return buf.Bytes(), nil
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
