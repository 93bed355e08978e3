package pass

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// EncodePNG renders the token value as a QR code image.
func EncodePNG(tok Token, size int) ([]byte, error) {
	if tok.Value == "" {
		return nil, ErrMissingMemberID
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(tok.Value, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode pass qr: %w", err)
	}
	return png, nil
}
