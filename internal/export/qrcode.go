package export

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrImageSize is the edge length in pixels of the generated QR PNG.
const qrImageSize = 360

// EncodeQR renders the given text (typically a URL) as a PNG QR code with
// low error correction, black on white. The content is opaque to this
// package — it has no relation to the record model.
func EncodeQR(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("export.EncodeQR: content is empty")
	}
	png, err := qrcode.Encode(content, qrcode.Low, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("export.EncodeQR: %w", err)
	}
	return png, nil
}
