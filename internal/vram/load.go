package vram

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// LoadDump reads a raw dump file. The bytes are returned as-is; sizing and
// decoding are Decode's concern.
func LoadDump(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vram dump: %w", err)
	}
	return data, nil
}

// LoadReference loads a golden reference image into a PixelBuffer. Alpha is
// dropped; only the RGB channels take part in comparison. A file the image
// library cannot parse is surfaced with the library's message; no alternate
// format is guessed.
func LoadReference(path string) (*PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reference %s: %w", path, err)
	}

	return FromImage(img), nil
}
