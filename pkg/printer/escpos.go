package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// Ticket builds an ESC/POS byte stream for thermal printers.
type Ticket struct {
	buf   bytes.Buffer
	width int // print width in characters (32 for 58mm, 48 for 80mm)
}

// NewTicket creates a new ESC/POS ticket with the given character width.
func NewTicket(charWidth int) *Ticket {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Ticket{width: charWidth}
	d.Init()
	return d
}

// Width returns the line width in characters.
func (d *Ticket) Width() int {
	return d.width
}

// Init sends the ESC @ (initialize printer) command.
func (d *Ticket) Init() *Ticket {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// LineFeed sends a line feed.
func (d *Ticket) LineFeed() *Ticket {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Ticket) FeedLines(n int) *Ticket {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Ticket) SetAlign(align int) *Ticket {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Ticket) SetBold(on bool) *Ticket {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Ticket) SetFontSize(size byte) *Ticket {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Ticket) Text(s string) *Ticket {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Ticket) TextF(format string, args ...any) *Ticket {
	d.buf.WriteString(fmt.Sprintf(format, args...))
	d.buf.WriteByte(LF)
	return d
}

// Separator prints a full-width separator line (e.g. "--------------------------------").
func (d *Ticket) Separator(char byte) *Ticket {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Total:                 Rs. 21.30"
func (d *Ticket) KeyValue(key, value string) *Ticket {
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(value)
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints "qty x name" with the amount right-aligned, cutting the
// name short when the line would overflow.
// Example: "2x Soap                   21.00"
func (d *Ticket) ItemLine(qty int, name, amount string) *Ticket {
	prefix := fmt.Sprintf("%dx ", qty)
	room := d.width - len(prefix) - len(amount) - 1
	if room < 1 {
		room = 1
	}
	if r := []rune(name); len(r) > room {
		name = string(r[:room])
	}
	return d.KeyValue(prefix+name, amount)
}

// QRCode prints content as a native ESC/POS QR symbol (GS ( k, model 2).
// moduleSize is the dot size of one module, 1 to 16.
func (d *Ticket) QRCode(content string, moduleSize byte) *Ticket {
	if moduleSize < 1 || moduleSize > 16 {
		moduleSize = 6
	}
	// select model 2
	d.buf.Write([]byte{GS, '(', 'k', 4, 0, 49, 65, 50, 0})
	// module size
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 67, moduleSize})
	// error correction level M
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 69, 49})

	n := len(content) + 3
	d.buf.Write([]byte{GS, '(', 'k', byte(n % 256), byte(n / 256), 49, 80, 48})
	d.buf.WriteString(content)

	// print the stored symbol
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, 49, 81, 48})
	d.buf.WriteByte(LF)
	return d
}

// Cut sends the paper cut command (full cut).
func (d *Ticket) Cut() *Ticket {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Ticket) PartialCut() *Ticket {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Ticket) Bytes() []byte {
	return d.buf.Bytes()
}
