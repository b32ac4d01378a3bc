package report

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/gift"

	"github.com/superpsx/vramdiff/internal/diff"
	"github.com/superpsx/vramdiff/internal/vram"
)

// Classification palette. Black means match.
var (
	colorMissing   = color.NRGBA{R: 255, A: 255}
	colorExtra     = color.NRGBA{B: 255, A: 255}
	colorDivergent = color.NRGBA{R: 255, G: 255, A: 255}
)

// ClassificationImage renders a diff map with one color per category:
// red for missing, blue for extra, yellow for color-divergent, black for
// matching pixels.
func ClassificationImage(m *diff.Map) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			var c color.NRGBA
			switch m.At(x, y) {
			case diff.Missing:
				c = colorMissing
			case diff.Extra:
				c = colorExtra
			case diff.ColorDivergent:
				c = colorDivergent
			default:
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// DefaultAmplification is the gain applied to absolute differences in the
// amplified diff image. Faint systematic errors of a few counts per channel
// become clearly visible at this gain.
const DefaultAmplification = 8

// AmplifiedImage renders clip(|actual-expected| * k, 0, 255) per channel.
// Operands must share dimensions; pass the full-precision buffers, not the
// quantized ones, so sub-quantum errors stay visible.
func AmplifiedImage(expected, actual *vram.PixelBuffer, k float32) (*image.NRGBA, error) {
	if expected.Width != actual.Width || expected.Height != actual.Height {
		return nil, fmt.Errorf("operand dimensions differ: %dx%d vs %dx%d",
			expected.Width, expected.Height, actual.Width, actual.Height)
	}
	if k <= 0 {
		k = DefaultAmplification
	}

	absDiff := image.NewNRGBA(image.Rect(0, 0, expected.Width, expected.Height))
	for y := 0; y < expected.Height; y++ {
		for x := 0; x < expected.Width; x++ {
			er, eg, eb := expected.At(x, y)
			ar, ag, ab := actual.At(x, y)
			i := absDiff.PixOffset(x, y)
			absDiff.Pix[i+0] = absU8(ar, er)
			absDiff.Pix[i+1] = absU8(ag, eg)
			absDiff.Pix[i+2] = absU8(ab, eb)
			absDiff.Pix[i+3] = 255
		}
	}

	g := gift.New(gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
		return clamp1(r0 * k), clamp1(g0 * k), clamp1(b0 * k), a0
	}))
	out := image.NewNRGBA(g.Bounds(absDiff.Bounds()))
	g.Draw(out, absDiff)
	return out, nil
}

func absU8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp1(v float32) float32 {
	if v > 1 {
		return 1
	}
	return v
}

// SavePNG writes img to path, creating parent directories as needed.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
