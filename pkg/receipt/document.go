// Package receipt turns one bill into its printable forms: a short screen
// summary, an HTML print page, a PDF and the payment QR code. Every form is
// rendered from the same Document so they cannot disagree.
package receipt

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NoCustomer is shown when a bill carries no customer name.
const NoCustomer = "No Customer Name"

// Header is the shop block printed at the top.
type Header struct {
	ShopName string `json:"shop_name"`
	Tagline  string `json:"tagline,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Row is one numbered line of the item table. Money is preformatted.
type Row struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// Payment describes the UPI payment link encoded in the QR code.
type Payment struct {
	PayeeID   string `json:"payee_id"`
	PayeeName string `json:"payee_name"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// URI builds the upi://pay link.
func (p Payment) URI() string {
	return "upi://pay?pa=" + escape(p.PayeeID) +
		"&pn=" + escape(p.PayeeName) +
		"&am=" + escape(p.Amount) +
		"&cu=" + escape(p.Currency)
}

// escape percent-encodes a query value using %20 for spaces and keeping '@'
// readable, the form UPI apps expect.
func escape(s string) string {
	s = url.QueryEscape(s)
	s = strings.ReplaceAll(s, "+", "%20")
	return strings.ReplaceAll(s, "%40", "@")
}

// Document is the canonical, render-ready view of a bill.
type Document struct {
	Header     Header   `json:"header"`
	BillNo     int64    `json:"bill_no"`
	Date       string   `json:"date"`
	Customer   string   `json:"customer"`
	Rows       []Row    `json:"rows"`
	Total      string   `json:"total"`
	Symbol     string   `json:"symbol"`
	Disclaimer []string `json:"disclaimer,omitempty"`
	Footer     []string `json:"footer,omitempty"`
	Payment    Payment  `json:"payment"`
}

// Summary is the on-screen confirmation of a bill.
type Summary struct {
	BillNo   int64  `json:"bill_no"`
	Customer string `json:"customer"`
	Total    string `json:"total"`
}

// Summary reduces the document to what the screen shows.
func (d *Document) Summary() Summary {
	return Summary{
		BillNo:   d.BillNo,
		Customer: d.Customer,
		Total:    d.Total,
	}
}

// Title is used for PDF metadata and file names.
func (d *Document) Title() string {
	return "Bill #" + strconv.FormatInt(d.BillNo, 10)
}

// Amount renders a money value with exactly two decimals.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Money prefixes an already formatted amount with the currency symbol.
func (d *Document) Money(amount string) string {
	if d.Symbol == "" {
		return amount
	}
	return d.Symbol + " " + amount
}

// CustomerLabel returns name or the placeholder for a blank name.
func CustomerLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return NoCustomer
	}
	return name
}
