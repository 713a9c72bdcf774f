package receipt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf16"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// pdfText is s as the UTF-8 font layout writes it into a content stream.
func pdfText(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func sampleDocument() *Document {
	return &Document{
		Header:   Header{ShopName: "Kiran Beauty Shop", Tagline: "--- Shine with Elegance ---"},
		BillNo:   42,
		Date:     "13/03/2024",
		Customer: "Asha",
		Rows: []Row{
			{Index: 1, Name: "Soap", Quantity: 2, UnitPrice: "10.50", Subtotal: "21.00"},
			{Index: 2, Name: "Comb", Quantity: 3, UnitPrice: "0.10", Subtotal: "0.30"},
		},
		Total:      "21.30",
		Symbol:     "Rs.",
		Disclaimer: []string{"Fixed Rate", "No Return", "No Replacement"},
		Footer:     []string{"Thank you for shopping with us", "Visit Again"},
		Payment: Payment{
			PayeeID:   "q458853545@ybl",
			PayeeName: "Kiran Beauty Shop",
			Amount:    "21.30",
			Currency:  "INR",
		},
	}
}

func TestPaymentURI(t *testing.T) {
	got := sampleDocument().Payment.URI()
	expected := "upi://pay?pa=q458853545@ybl&pn=Kiran%20Beauty%20Shop&am=21.30&cu=INR"
	if got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}

func TestPaymentURI_EscapesReservedCharacters(t *testing.T) {
	p := Payment{PayeeID: "shop@upi", PayeeName: "A&B Store", Amount: "1.00", Currency: "INR"}
	if got := p.URI(); !strings.Contains(got, "pn=A%26B%20Store&") {
		t.Fatalf("payee name not escaped: %s", got)
	}
}

func TestSummary(t *testing.T) {
	s := sampleDocument().Summary()
	if s.BillNo != 42 || s.Customer != "Asha" || s.Total != "21.30" {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestCustomerLabel(t *testing.T) {
	if CustomerLabel("  ") != NoCustomer {
		t.Fatalf("blank name should use placeholder")
	}
	if CustomerLabel("Meena") != "Meena" {
		t.Fatalf("name should pass through")
	}
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("upi://pay?pa=x@y", 0)
	if err != nil {
		t.Fatalf("QRCodePNG error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}
}

func TestHTMLRenderer(t *testing.T) {
	doc := sampleDocument()
	out, err := NewHTMLRenderer(0).Render(doc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"Kiran Beauty Shop",
		"Bill No: #42",
		"Date: 13/03/2024",
		"Customer: Asha",
		"Rs. 21.00",
		"Total: Rs. 21.30",
		"Fixed Rate",
		"No Return",
		"No Replacement",
		"Visit Again",
		"width: 148mm",
		"data:image/png;base64,",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("print page missing %q", want)
		}
	}
}

func TestHTMLRenderer_EscapesNames(t *testing.T) {
	doc := sampleDocument()
	doc.Customer = "<script>alert(1)</script>"
	out, err := NewHTMLRenderer(148).Render(doc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(string(out), "<script>alert(1)</script>") {
		t.Fatalf("customer name was not escaped")
	}
}

func TestTextLayout(t *testing.T) {
	out, err := TextLayout{}.Render(sampleDocument())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	for _, want := range []string{"Bill No: #42", "Customer: Asha", "Rs. 10.50", "Rs. 21.30", "No Replacement"} {
		if !bytes.Contains(out, pdfText(want)) {
			t.Errorf("text layout missing %q", want)
		}
	}
}

func TestTextLayout_KeepsLongAndNonLatinNames(t *testing.T) {
	doc := sampleDocument()
	doc.Customer = "Ирина Петрова"
	doc.Rows[0].Name = "Lakme Absolute Perfect Radiance Skin Lightening Day Creme SPF 30 Extra Long Pack"
	out, err := TextLayout{}.Render(doc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.Contains(out, pdfText("Customer: Ирина Петрова")) {
		t.Errorf("text layout missing customer")
	}
	for _, word := range strings.Fields(doc.Rows[0].Name) {
		if !bytes.Contains(out, pdfText(word)) {
			t.Errorf("text layout missing %q", word)
		}
	}
}

func TestImageRasterizer(t *testing.T) {
	r := NewImageRasterizer(0, 0)
	img, err := r.Image(sampleDocument())
	if err != nil {
		t.Fatalf("Image error: %v", err)
	}
	if img.Bounds().Dx() != rasterWidthPx {
		t.Fatalf("expected width %d, got %d", rasterWidthPx, img.Bounds().Dx())
	}

	out, err := r.Render(sampleDocument())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) || !bytes.Contains(out, []byte("Bill #42")) {
		t.Fatalf("raster pdf missing header or title")
	}
}

func TestImageRasterizer_NonLatinCustomer(t *testing.T) {
	doc := sampleDocument()
	doc.Customer = "Ирина Петрова"
	if _, err := NewImageRasterizer(0, 0).Render(doc); err != nil {
		t.Fatalf("Render error: %v", err)
	}
}

func defaultMeasure(t *testing.T) func(string) float64 {
	t.Helper()
	fonts, err := NewFontSet()
	if err != nil {
		t.Fatalf("NewFontSet error: %v", err)
	}
	face, err := fonts.Face(fontSizePx)
	if err != nil {
		t.Fatalf("Face error: %v", err)
	}
	t.Cleanup(func() { face.Close() })
	return faceMeasure(face)
}

// cellsAt returns the text of every left-aligned cell anchored at x, in order.
func cellsAt(lines []line, x int) []string {
	var out []string
	for _, l := range lines {
		for _, c := range l.cells {
			if c.x == x && c.align == alignLeft {
				out = append(out, c.text)
			}
		}
	}
	return out
}

// customerLines returns the customer text, which runs from its label up to
// the next rule.
func customerLines(lines []line) []string {
	var out []string
	for _, l := range lines {
		if l.rule && len(out) > 0 {
			break
		}
		for _, c := range l.cells {
			if strings.HasPrefix(c.text, "Customer: ") || len(out) > 0 {
				out = append(out, c.text)
			}
		}
	}
	return out
}

func TestLayoutLines_KeepsFullText(t *testing.T) {
	measure := defaultMeasure(t)
	longName := "Lakme Absolute Perfect Radiance Skin Lightening Day Creme SPF 30 Extra Long Pack"
	cases := []struct {
		name     string
		customer string
		item     string
	}{
		{"salon customer", "Priyanka Deshmukh-Kulkarni Salon", "Lakme Absolute Lipstick"},
		{"wrapped item name", "Asha", longName},
		{"wrapped customer", strings.Repeat("Priyanka Deshmukh-Kulkarni ", 4) + "Salon", "Soap"},
		{"unbroken long word", "Asha", strings.Repeat("x", 80)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := sampleDocument()
			doc.Customer = tc.customer
			doc.Rows = doc.Rows[:1]
			doc.Rows[0].Name = tc.item

			body, _ := layoutLines(doc, measure)
			customer := customerLines(body)
			if strings.Join(customer, " ") != "Customer: "+tc.customer {
				t.Fatalf("customer line lost text: %q", customer)
			}
			for _, text := range customer {
				if measure(text) > contentWidth {
					t.Fatalf("customer line %q wider than page", text)
				}
			}

			names := cellsAt(body, nameX)[1:] // skip the "Item" heading
			if strings.Join(names, " ") != tc.item && strings.Join(names, "") != tc.item {
				t.Fatalf("item name lost text: %q", names)
			}
			for _, text := range names {
				if measure(text) > nameWidth {
					t.Fatalf("item line %q wider than its column", text)
				}
			}
		})
	}
}

func TestLayoutLines_AmountsCarrySymbol(t *testing.T) {
	body, _ := layoutLines(sampleDocument(), defaultMeasure(t))
	var texts []string
	for _, l := range body {
		for _, c := range l.cells {
			texts = append(texts, c.text)
		}
	}
	all := strings.Join(texts, "|")
	for _, want := range []string{"|Rs. 10.50|Rs. 21.00|", "|Rs. 0.10|Rs. 0.30|", "Total: Rs. 21.30"} {
		if !strings.Contains(all, want) {
			t.Errorf("raster layout missing %q in %s", want, all)
		}
	}
}

func TestFontSet(t *testing.T) {
	fonts, err := NewFontSet("")
	if err != nil {
		t.Fatalf("NewFontSet error: %v", err)
	}
	for _, r := range "AzИжΩé" {
		if !fonts.Covers(r) {
			t.Errorf("built-in font should cover %q", r)
		}
	}
	if _, err := NewFontSet("testdata/missing.ttf"); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}

func TestChainFace_FallsBackPerGlyph(t *testing.T) {
	goFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	goFace, err := opentype.NewFace(goFont, &opentype.FaceOptions{Size: fontSizePx, DPI: 72})
	if err != nil {
		t.Fatalf("NewFace error: %v", err)
	}
	chain := chainFace{basicfont.Face7x13, goFace}

	if chain.pick('A') != font.Face(basicfont.Face7x13) {
		t.Fatalf("latin glyph should come from the first face")
	}
	if chain.pick('Ж') != goFace {
		t.Fatalf("cyrillic glyph should fall back to the second face")
	}
	if _, ok := chain.GlyphAdvance('Ж'); !ok {
		t.Fatalf("chain should report the fallback glyph")
	}
}

func TestWrapText(t *testing.T) {
	// one unit per rune
	measure := func(s string) float64 { return float64(len([]rune(s))) }
	cases := []struct {
		name     string
		in       string
		width    float64
		expected []string
	}{
		{"fits", "Rose Water", 10, []string{"Rose Water"}},
		{"breaks between words", "Lakme Absolute Lipstick", 14, []string{"Lakme Absolute", "Lipstick"}},
		{"splits long word", "Conditioner", 4, []string{"Cond", "itio", "ner"}},
		{"non-latin runes", "काजल पेंसिल", 4, []string{"काजल", "पें", "सिल"}},
		{"empty", "  ", 5, []string{""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := wrapText(tc.in, tc.width, measure)
			if strings.Join(got, "\n") != strings.Join(tc.expected, "\n") {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

type stubRenderer struct {
	data []byte
	err  error
}

func (s stubRenderer) Render(*Document) ([]byte, error) {
	return s.data, s.err
}

func TestGenerator_PrimarySucceeds(t *testing.T) {
	g := NewGenerator(stubRenderer{data: []byte("raster")}, stubRenderer{data: []byte("text")})
	out, err := g.Render(sampleDocument())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if out.Fallback || string(out.Data) != "raster" {
		t.Fatalf("expected primary output, got %+v", out)
	}
}

func TestGenerator_FallsBackOnPrimaryFailure(t *testing.T) {
	rasterErr := errors.New("raster failed")
	g := NewGenerator(stubRenderer{err: rasterErr}, TextLayout{})
	out, err := g.Render(sampleDocument())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !out.Fallback || !errors.Is(out.PrimaryErr, rasterErr) {
		t.Fatalf("expected fallback output, got %+v", out)
	}
	if !bytes.Contains(out.Data, pdfText("Bill No: #42")) {
		t.Fatalf("fallback pdf missing bill number")
	}
}

func TestGenerator_BothFail(t *testing.T) {
	first := errors.New("raster failed")
	second := errors.New("text failed")
	g := NewGenerator(stubRenderer{err: first}, stubRenderer{err: second})
	_, err := g.Render(sampleDocument())
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both errors, got %v", err)
	}
}
