package diff

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/superpsx/vramdiff/internal/vram"
)

// Config drives one comparison invocation. The zero value compares a full
// 1024x512 auto-detected dump against its reference at the GPU's native
// 5-bit precision with exact matching.
type Config struct {
	// Canvas dimensions of the dump. Zero means the standard VRAM canvas.
	Width  int
	Height int

	Decode vram.DecodeOptions

	// PrecisionBits both operands are quantized to before classification.
	// Zero means vram.DefaultPrecisionBits.
	PrecisionBits int

	Tolerance uint8

	// Crop restricts the comparison to a visible sub-region of the canvas,
	// e.g. the 320x224 display area the reference screenshots cover. Nil
	// compares the whole canvas.
	Crop *image.Rectangle

	// Regions to break the summary down by, already in crop-local
	// coordinates. Optional.
	Regions []Rect

	// EstimateShape additionally runs the advisory shape heuristic over the
	// decoded dump region.
	EstimateShape bool

	// SampleStep for the shape heuristic. Zero means 10.
	SampleStep int
}

// Result is the complete outcome of one comparison. It is constructed once
// and not mutated; callers hand it to the report package or the store.
type Result struct {
	DumpPath string `json:"dumpPath"`
	RefPath  string `json:"refPath"`

	PrecisionBits int  `json:"precisionBits"`
	Resized       bool `json:"resized"`

	Overall Summary        `json:"overall"`
	Regions []Summary      `json:"regions,omitempty"`
	Shape   *ShapeEstimate `json:"shape,omitempty"`

	// Decoded is the dump region at full 8-bit expansion, Reference the
	// (possibly resized) golden image. Expected and Actual are the
	// precision-normalized operands the Map was computed from.
	Decoded   *vram.PixelBuffer `json:"-"`
	Reference *vram.PixelBuffer `json:"-"`
	Expected  *vram.PixelBuffer `json:"-"`
	Actual    *vram.PixelBuffer `json:"-"`
	Map       *Map              `json:"-"`
}

// Compare runs the full pipeline for one dump/reference pair: load, decode,
// crop, adapt, quantize, classify, aggregate. Every original analysis
// script was a hand-rolled variant of this call.
//
// Errors abort the comparison with enough context to reproduce; no default
// data is ever substituted. A nil error means the Result is complete.
func Compare(dumpPath, refPath string, cfg Config) (*Result, error) {
	width, height := cfg.Width, cfg.Height
	if width == 0 {
		width = vram.CanvasWidth
	}
	if height == 0 {
		height = vram.CanvasHeight
	}
	bits := cfg.PrecisionBits
	if bits == 0 {
		bits = vram.DefaultPrecisionBits
	}

	data, err := vram.LoadDump(dumpPath)
	if err != nil {
		return nil, err
	}

	decoded, err := vram.Decode(data, width, height, cfg.Decode)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", dumpPath, err)
	}

	if cfg.Crop != nil {
		decoded, err = decoded.Crop(*cfg.Crop)
		if err != nil {
			return nil, fmt.Errorf("crop %s: %w", dumpPath, err)
		}
	}

	ref, err := vram.LoadReference(refPath)
	if err != nil {
		return nil, err
	}
	ref, resized := vram.AdaptReference(ref, decoded.Width, decoded.Height)

	expected, err := vram.Quantize(ref, bits)
	if err != nil {
		return nil, err
	}
	actual, err := vram.Quantize(decoded, bits)
	if err != nil {
		return nil, err
	}

	m, err := Classify(expected, actual, Options{Tolerance: cfg.Tolerance})
	if err != nil {
		return nil, err
	}

	res := &Result{
		DumpPath:      dumpPath,
		RefPath:       refPath,
		PrecisionBits: bits,
		Resized:       resized,
		Overall:       m.WholeImage(),
		Decoded:       decoded,
		Reference:     ref,
		Expected:      expected,
		Actual:        actual,
		Map:           m,
	}
	if len(cfg.Regions) > 0 {
		res.Regions = m.Summarize(cfg.Regions)
	}
	if cfg.EstimateShape {
		step := cfg.SampleStep
		if step == 0 {
			step = 10
		}
		est := EstimateShape(decoded, step)
		res.Shape = &est
	}

	slog.Info("Comparison complete",
		"dump", dumpPath,
		"diff", res.Overall.DiffCount(),
		"total", res.Overall.Total,
		"match_pct", res.Overall.MatchPercent)

	return res, nil
}
