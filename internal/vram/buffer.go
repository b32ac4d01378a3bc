package vram

import (
	"fmt"
	"image"
	"image/color"
)

// Fixed VRAM canvas used by every dump the GPU produces.
const (
	CanvasWidth  = 1024
	CanvasHeight = 512
)

// Display area the golden reference screenshots cover: the visible region
// at the top-left of the canvas.
const (
	DisplayWidth  = 320
	DisplayHeight = 224
)

// PixelBuffer is a rectangular grid of 8-bit RGB pixels, row-major with the
// origin at the top-left. Mask is an optional per-pixel plane holding the
// 16-bit word's high bit (0 or 1); it is nil unless the decoder was asked to
// keep it. Buffers are created once and treated as immutable afterwards.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // 3 bytes per pixel: R, G, B
	Mask   []uint8 // 1 byte per pixel, nil when absent
}

// NewPixelBuffer allocates a zeroed (all-black) buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// PixOffset returns the index of the first channel of (x, y) in Pix.
func (b *PixelBuffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * 3
}

// At returns the RGB channels at (x, y).
func (b *PixelBuffer) At(x, y int) (r, g, bl uint8) {
	i := b.PixOffset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// SetRGB sets the RGB channels at (x, y).
func (b *PixelBuffer) SetRGB(x, y int, r, g, bl uint8) {
	i := b.PixOffset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
}

// MaskAt returns the mask plane value at (x, y), or 0 when no mask plane is
// present.
func (b *PixelBuffer) MaskAt(x, y int) uint8 {
	if b.Mask == nil {
		return 0
	}
	return b.Mask[y*b.Width+x]
}

// Crop returns a new buffer containing the given rectangle. The rectangle is
// clipped to the buffer bounds; an empty intersection is an error since a
// zero-size comparison region is never intentional.
func (b *PixelBuffer) Crop(r image.Rectangle) (*PixelBuffer, error) {
	r = r.Intersect(image.Rect(0, 0, b.Width, b.Height))
	if r.Empty() {
		return nil, fmt.Errorf("crop region is empty after clipping to %dx%d", b.Width, b.Height)
	}

	out := NewPixelBuffer(r.Dx(), r.Dy())
	if b.Mask != nil {
		out.Mask = make([]uint8, r.Dx()*r.Dy())
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := b.PixOffset(r.Min.X, y)
		dst := out.PixOffset(0, y-r.Min.Y)
		copy(out.Pix[dst:dst+r.Dx()*3], b.Pix[src:src+r.Dx()*3])
		if b.Mask != nil {
			copy(out.Mask[(y-r.Min.Y)*r.Dx():], b.Mask[y*b.Width+r.Min.X:y*b.Width+r.Max.X])
		}
	}
	return out, nil
}

// Image converts the buffer to an NRGBA image with full alpha.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			src := b.PixOffset(x, y)
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = b.Pix[src+0]
			img.Pix[dst+1] = b.Pix[src+1]
			img.Pix[dst+2] = b.Pix[src+2]
			img.Pix[dst+3] = 255
		}
	}
	return img
}

// FromImage converts any image to a PixelBuffer, ignoring alpha. Channels
// are read un-premultiplied so a semi-transparent reference pixel keeps its
// stored RGB instead of loading darkened. Bounds not anchored at the origin
// are translated.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())

	if src, ok := img.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := src.PixOffset(x, y)
				buf.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, src.Pix[i], src.Pix[i+1], src.Pix[i+2])
			}
		}
		return buf
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, c.R, c.G, c.B)
		}
	}
	return buf
}
