package receipt

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the QR edge length in pixels.
const DefaultQRSize = 256

// QRCodePNG encodes content as a PNG QR code of size x size pixels.
func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// QRCodeImage is QRCodePNG without the PNG encoding step.
func QRCodeImage(content string, size int) (image.Image, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return q.Image(size), nil
}
