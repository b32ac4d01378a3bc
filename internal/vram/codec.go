package vram

import (
	"encoding/binary"
	"fmt"
)

// PixelFormat identifies the byte layout of a raw VRAM dump.
type PixelFormat int

const (
	// FormatAuto selects the format by matching the dump's byte length
	// against the candidate encodings.
	FormatAuto PixelFormat = iota

	// Format16bpp is the current dump layout: one little-endian 16-bit word
	// per pixel, 5 bits per channel plus a mask bit in bit 15.
	Format16bpp

	// Format32bpp is the legacy dump layout: 4 bytes per pixel, plain RGBA.
	Format32bpp
)

func (f PixelFormat) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case Format16bpp:
		return "16bpp"
	case Format32bpp:
		return "32bpp"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// BytesPerPixel returns the storage size of one pixel, or 0 for FormatAuto.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case Format16bpp:
		return 2
	case Format32bpp:
		return 4
	}
	return 0
}

// ParseFormat maps the CLI/API spelling of a format to its value.
func ParseFormat(s string) (PixelFormat, error) {
	switch s {
	case "", "auto":
		return FormatAuto, nil
	case "16bpp", "16":
		return Format16bpp, nil
	case "32bpp", "32":
		return Format32bpp, nil
	}
	return FormatAuto, fmt.Errorf("unknown pixel format %q", s)
}

// ChannelOrder selects how the three color channels are laid out inside a
// pixel word. Some dump sources historically swapped red and blue; decoding
// with the wrong order is a regression the tool must be able to surface, so
// the order is explicit rather than auto-detected.
type ChannelOrder int

const (
	OrderRGB ChannelOrder = iota
	OrderBGR
)

func (o ChannelOrder) String() string {
	if o == OrderBGR {
		return "bgr"
	}
	return "rgb"
}

// DecodeOptions configures dump decoding. The zero value decodes
// little-endian RGB with automatic format selection and no mask plane.
type DecodeOptions struct {
	Format       PixelFormat
	ByteOrder    binary.ByteOrder // nil means little-endian
	ChannelOrder ChannelOrder
	KeepMask     bool
}

func (o DecodeOptions) byteOrder() binary.ByteOrder {
	if o.ByteOrder == nil {
		return binary.LittleEndian
	}
	return o.ByteOrder
}

// Decode turns a raw dump into a PixelBuffer for a width x height canvas.
//
// With FormatAuto the candidate sizes are tried 32-bit first: legacy dumps
// were 32-bit and current dumps are 16-bit, and for any sane canvas the two
// sizes cannot collide. A length matching neither candidate yields a
// *FormatMismatchError; an explicitly selected format whose size does not
// match yields the same error with that single candidate.
func Decode(data []byte, width, height int, opts DecodeOptions) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", width, height)
	}

	format := opts.Format
	if format == FormatAuto {
		switch len(data) {
		case width * height * 4:
			format = Format32bpp
		case width * height * 2:
			format = Format16bpp
		default:
			return nil, &FormatMismatchError{
				ActualSize: len(data),
				Width:      width,
				Height:     height,
				Candidates: []CandidateSize{
					{Format: Format32bpp, Size: width * height * 4},
					{Format: Format16bpp, Size: width * height * 2},
				},
			}
		}
	} else if len(data) != width*height*format.BytesPerPixel() {
		return nil, &FormatMismatchError{
			ActualSize: len(data),
			Width:      width,
			Height:     height,
			Candidates: []CandidateSize{
				{Format: format, Size: width * height * format.BytesPerPixel()},
			},
		}
	}

	switch format {
	case Format16bpp:
		return decode16(data, width, height, opts), nil
	case Format32bpp:
		return decode32(data, width, height, opts), nil
	}
	panic("unreachable")
}

// decode16 unpacks 5:5:5 words. Each 5-bit channel is expanded to 8 bits by
// a plain left shift of 3. The low 3 bits of the result are always zero;
// this matches the truncation model of the native framebuffer and must not
// be replaced with bit replication, which would leak into the low bits and
// distort precision-normalized comparisons against native output.
func decode16(data []byte, width, height int, opts DecodeOptions) *PixelBuffer {
	buf := NewPixelBuffer(width, height)
	if opts.KeepMask {
		buf.Mask = make([]uint8, width*height)
	}
	order := opts.byteOrder()

	for i := 0; i < width*height; i++ {
		word := order.Uint16(data[i*2:])
		c0 := uint8(word&0x1f) << 3
		c1 := uint8((word>>5)&0x1f) << 3
		c2 := uint8((word>>10)&0x1f) << 3

		o := i * 3
		if opts.ChannelOrder == OrderBGR {
			buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2] = c2, c1, c0
		} else {
			buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2] = c0, c1, c2
		}
		if opts.KeepMask {
			buf.Mask[i] = uint8(word >> 15)
		}
	}
	return buf
}

// decode32 unpacks the legacy 4-byte RGBA layout. The alpha byte is dropped,
// or folded into the mask plane (any non-zero alpha counts as set) when the
// caller asked for it.
func decode32(data []byte, width, height int, opts DecodeOptions) *PixelBuffer {
	buf := NewPixelBuffer(width, height)
	if opts.KeepMask {
		buf.Mask = make([]uint8, width*height)
	}

	for i := 0; i < width*height; i++ {
		c0 := data[i*4]
		c1 := data[i*4+1]
		c2 := data[i*4+2]

		o := i * 3
		if opts.ChannelOrder == OrderBGR {
			buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2] = c2, c1, c0
		} else {
			buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2] = c0, c1, c2
		}
		if opts.KeepMask && data[i*4+3] != 0 {
			buf.Mask[i] = 1
		}
	}
	return buf
}
