package vram

import (
	"fmt"
	"log/slog"

	"github.com/nfnt/resize"
)

// DefaultPrecisionBits is the GPU's native color depth per channel. The
// framebuffer stores 5 bits per channel, so 8-bit operands are projected
// down before any comparison; comparing at 8 bits manufactures false
// positives out of quantization noise that is invisible on real hardware.
const DefaultPrecisionBits = 5

// Quantize projects every channel of buf down to bits of precision with an
// arithmetic right shift of 8-bits. The transform is deterministic and
// lossy, never rounded. The mask plane, if present, is shared with the
// input since quantization does not touch it.
func Quantize(buf *PixelBuffer, bits int) (*PixelBuffer, error) {
	if bits < 1 || bits > 8 {
		return nil, fmt.Errorf("precision must be 1..8 bits, got %d", bits)
	}

	out := NewPixelBuffer(buf.Width, buf.Height)
	out.Mask = buf.Mask
	shift := uint(8 - bits)
	for i, v := range buf.Pix {
		out.Pix[i] = v >> shift
	}
	return out, nil
}

// AdaptReference makes a reference buffer comparable against a width x
// height dump region. A reference that already matches is returned
// unchanged. Otherwise the reference is resized with nearest-neighbor
// resampling and the accommodation is logged: this path exists only for
// golden images captured at a different resolution and is a correctness
// compromise, so its engagement is always visible. The returned bool
// reports whether the resize happened.
func AdaptReference(ref *PixelBuffer, width, height int) (*PixelBuffer, bool) {
	if ref.Width == width && ref.Height == height {
		return ref, false
	}

	mismatch := &DimensionMismatchError{
		GotWidth:   ref.Width,
		GotHeight:  ref.Height,
		WantWidth:  width,
		WantHeight: height,
	}
	slog.Warn("Resizing reference to dump dimensions", "detail", mismatch.Error())

	resized := resize.Resize(uint(width), uint(height), ref.Image(), resize.NearestNeighbor)
	return FromImage(resized), true
}
