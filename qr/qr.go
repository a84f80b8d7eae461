// Package qr encodes shipment contents into QR code PNG images.
package qr

import (
	"errors"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

var ErrEmptyContent = errors.New("qr: content is empty")

// Encode returns a size x size PNG image of content encoded with medium error recovery.
func Encode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// WriteFile encodes content and writes the PNG image to filename.
func WriteFile(content string, size int, filename string) error {
	png, err := Encode(content, size)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, png, 0o644)
}
