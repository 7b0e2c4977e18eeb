package qrimage

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DefaultSize is the rendered image edge length in pixels
const DefaultSize = 512

// Render encodes data as a QR code and returns it as a PNG image
func Render(data string, size int) ([]byte, error) {
	if data == "" {
		return nil, fmt.Errorf("cannot render empty payload")
	}
	if size <= 0 {
		size = DefaultSize
	}

	code, err := qr.Encode(data, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}
