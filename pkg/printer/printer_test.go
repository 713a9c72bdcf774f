package printer

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/sangkips/pos-billing-api/pkg/receipt"
)

func TestTicket_KeyValueAlignsToWidth(t *testing.T) {
	tk := NewTicket(20)
	tk.KeyValue("TOTAL:", "21.30")
	out := tk.Bytes()[2:] // skip ESC @
	line := strings.TrimSuffix(string(out), "\n")
	if len(line) != 20 || !strings.HasPrefix(line, "TOTAL:") || !strings.HasSuffix(line, "21.30") {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestTicket_ItemLineTruncatesName(t *testing.T) {
	tk := NewTicket(20)
	tk.ItemLine(2, "Extra long product name", "10.00")
	line := strings.TrimSuffix(string(tk.Bytes()[2:]), "\n")
	if len(line) != 20 || !strings.HasPrefix(line, "2x Extra") || !strings.HasSuffix(line, " 10.00") {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestTicket_QRCodeLength(t *testing.T) {
	content := "upi://pay?pa=x@y&am=1.00"
	out := NewTicket(32).QRCode(content, 6).Bytes()
	n := len(content) + 3
	store := []byte{GS, '(', 'k', byte(n % 256), byte(n / 256), 49, 80, 48}
	if !bytes.Contains(out, append(store, content...)) {
		t.Fatalf("store command missing or wrong length")
	}
}

func TestFormatReceipt(t *testing.T) {
	doc := &receipt.Document{
		Header:     receipt.Header{ShopName: "Kiran Beauty Shop"},
		BillNo:     7,
		Date:       "13/03/2024",
		Customer:   "Asha",
		Rows:       []receipt.Row{{Index: 1, Name: "Soap", Quantity: 2, UnitPrice: "10.00", Subtotal: "20.00"}},
		Total:      "20.00",
		Symbol:     "Rs.",
		Disclaimer: []string{"No Return"},
		Footer:     []string{"Visit Again"},
		Payment:    receipt.Payment{PayeeID: "a@b", PayeeName: "Shop", Amount: "20.00", Currency: "INR"},
	}
	out := FormatReceipt(doc, 32)
	for _, want := range []string{"Bill No: #7", "Customer:", "2x Soap", "Rs. 20.00", "No Return", "am=20.00", "Visit Again"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("ticket missing %q", want)
		}
	}
	if !bytes.HasSuffix(out, []byte{GS, 'V', 0x01}) {
		t.Fatalf("ticket should end with a cut")
	}
}

func TestNewPrinterFromConfig(t *testing.T) {
	cases := []struct {
		kind    string
		usb     string
		addr    string
		want    string
		wantErr bool
	}{
		{"", "", "", "none", false},
		{"none", "", "", "none", false},
		{"usb", "/dev/usb/lp0", "", "usb", false},
		{"usb", "", "", "", true},
		{"network", "", "10.0.0.5:9100", "network", false},
		{"network", "", "", "", true},
		{"bluetooth", "", "", "", true},
	}
	for _, tc := range cases {
		p, err := NewPrinterFromConfig(tc.kind, tc.usb, tc.addr)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.kind)
			}
			continue
		}
		if err != nil || p.Kind() != tc.want {
			t.Fatalf("%q: got %v, %v", tc.kind, p, err)
		}
	}
}

func TestNetworkPrinter_WritesBytes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		received <- buf.Bytes()
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	if err := p.Print(context.Background(), []byte("hello")); err != nil {
		t.Fatalf("Print error: %v", err)
	}
	if got := <-received; string(got) != "hello" {
		t.Fatalf("printer received %q", got)
	}
}
