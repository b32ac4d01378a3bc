// Package diff classifies per-pixel divergence between a decoded VRAM dump
// and a golden reference, both already projected to the same precision, and
// aggregates the result over regions of interest.
package diff

import (
	"fmt"

	"github.com/superpsx/vramdiff/internal/vram"
)

// Category is the per-pixel diff classification. The taxonomy is
// intentionally coarse: it separates "nothing was drawn" from "something
// wrong was drawn" from "right thing, wrong shade", which point at different
// root causes (geometry or clipping bugs versus blending or color bugs).
type Category uint8

const (
	Match Category = iota
	// Missing: expected non-black, actual exactly black.
	Missing
	// Extra: expected exactly black, actual non-black.
	Extra
	// ColorDivergent: both non-black and differ.
	ColorDivergent
)

func (c Category) String() string {
	switch c {
	case Match:
		return "match"
	case Missing:
		return "missing"
	case Extra:
		return "extra"
	case ColorDivergent:
		return "color"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Delta is the signed per-channel difference actual - expected. It is
// recorded for every non-Match pixel so downstream analysis can tell a
// systematic blending error (constant offset) from random noise.
type Delta struct {
	R int16
	G int16
	B int16
}

// Map is a per-pixel classification over the compared area. It is derived
// data: recomputed from its inputs, never mutated in place.
type Map struct {
	Width  int
	Height int
	Cat    []Category
	Deltas []Delta
}

// At returns the classification at (x, y).
func (m *Map) At(x, y int) Category {
	return m.Cat[y*m.Width+x]
}

// DeltaAt returns the recorded channel delta at (x, y). It is the zero
// Delta for Match pixels.
func (m *Map) DeltaAt(x, y int) Delta {
	return m.Deltas[y*m.Width+x]
}

// Options configures classification. Tolerance is the per-channel slack
// allowed before a pixel stops counting as a Match; it defaults to zero
// (exact match) and callers that want variance must ask for it explicitly.
type Options struct {
	Tolerance uint8
}

// Classify compares two equal-sized, equal-precision buffers and produces a
// Map. Operand size mismatches are a caller bug, not an accommodation case
// (resizing references is vram.AdaptReference's job before quantization).
//
// Black means all channels exactly zero; tolerance widens Match but never
// moves the black boundary, so Missing and Extra stay mutually exclusive.
func Classify(expected, actual *vram.PixelBuffer, opts Options) (*Map, error) {
	if expected.Width != actual.Width || expected.Height != actual.Height {
		return nil, fmt.Errorf("operand dimensions differ: expected %dx%d, actual %dx%d",
			expected.Width, expected.Height, actual.Width, actual.Height)
	}

	m := &Map{
		Width:  expected.Width,
		Height: expected.Height,
		Cat:    make([]Category, expected.Width*expected.Height),
		Deltas: make([]Delta, expected.Width*expected.Height),
	}

	tol := int(opts.Tolerance)
	for i := 0; i < len(m.Cat); i++ {
		o := i * 3
		er, eg, eb := int(expected.Pix[o]), int(expected.Pix[o+1]), int(expected.Pix[o+2])
		ar, ag, ab := int(actual.Pix[o]), int(actual.Pix[o+1]), int(actual.Pix[o+2])

		if abs(ar-er) <= tol && abs(ag-eg) <= tol && abs(ab-eb) <= tol {
			continue // Match, zero delta
		}

		expectedBlack := er == 0 && eg == 0 && eb == 0
		actualBlack := ar == 0 && ag == 0 && ab == 0

		switch {
		case !expectedBlack && actualBlack:
			m.Cat[i] = Missing
		case expectedBlack && !actualBlack:
			m.Cat[i] = Extra
		default:
			m.Cat[i] = ColorDivergent
		}
		m.Deltas[i] = Delta{R: int16(ar - er), G: int16(ag - eg), B: int16(ab - eb)}
	}

	return m, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
