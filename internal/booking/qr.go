package booking

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of rendered ticket codes.
const DefaultQRSize = 256

// ErrEmptyCode is returned when asked to render a QR code without payload.
var ErrEmptyCode = errors.New("empty ticket code")

// QRCodePNG renders the ticket code as a PNG image.  The payload is the
// plain code string; it is neither signed nor given an expiry.
func QRCodePNG(code string, size int) ([]byte, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(code, qrcode.Medium, size)
}
