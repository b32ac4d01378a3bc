package diff

import (
	"fmt"
	"image"
)

// Summary holds aggregate counts over an area of a Map.
type Summary struct {
	Name           string  `json:"name,omitempty"`
	Total          int     `json:"total"`
	Missing        int     `json:"missing"`
	Extra          int     `json:"extra"`
	ColorDivergent int     `json:"colorDivergent"`
	MatchPercent   float64 `json:"matchPercent"`
}

// DiffCount returns the number of non-Match pixels.
func (s Summary) DiffCount() int {
	return s.Missing + s.Extra + s.ColorDivergent
}

// Rect is a named, axis-aligned region with exclusive max bounds. Regions
// are declared by the caller; nothing discovers them automatically.
type Rect struct {
	Name   string `json:"name"`
	Bounds image.Rectangle
}

// WholeImage summarizes the entire map.
func (m *Map) WholeImage() Summary {
	return m.summarize("", image.Rect(0, 0, m.Width, m.Height))
}

// Summarize computes per-region summaries. Regions are clipped to the map;
// a region that clips to nothing yields a zero-Total summary with a 100%
// match, which keeps per-sub-test tables stable when a grid overhangs the
// compared area.
func (m *Map) Summarize(regions []Rect) []Summary {
	out := make([]Summary, 0, len(regions))
	for _, r := range regions {
		out = append(out, m.summarize(r.Name, r.Bounds))
	}
	return out
}

func (m *Map) summarize(name string, bounds image.Rectangle) Summary {
	bounds = bounds.Intersect(image.Rect(0, 0, m.Width, m.Height))

	s := Summary{Name: name, MatchPercent: 100}
	if bounds.Empty() {
		return s
	}

	s.Total = bounds.Dx() * bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			switch m.Cat[y*m.Width+x] {
			case Missing:
				s.Missing++
			case Extra:
				s.Extra++
			case ColorDivergent:
				s.ColorDivergent++
			}
		}
	}
	s.MatchPercent = 100 * (1 - float64(s.DiffCount())/float64(s.Total))
	return s
}

// Grid expands a regular grid of cells into named rects, for test patterns
// that tile many small independent sub-tests on one canvas. Cells are named
// r<row>c<col>, prefixed when a prefix is given, and inset by margin on
// every side. A margin that leaves no interior would canonicalize into a
// nonsense cell, so it is rejected instead.
func Grid(prefix string, origin image.Point, cellW, cellH, cols, rows, margin int) ([]Rect, error) {
	if margin < 0 {
		return nil, fmt.Errorf("grid margin must not be negative, got %d", margin)
	}
	if 2*margin >= cellW || 2*margin >= cellH {
		return nil, fmt.Errorf("grid margin %d leaves no interior in a %dx%d cell", margin, cellW, cellH)
	}

	rects := make([]Rect, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			name := fmt.Sprintf("r%dc%d", row, col)
			if prefix != "" {
				name = prefix + "/" + name
			}
			x0 := origin.X + col*cellW + margin
			y0 := origin.Y + row*cellH + margin
			rects = append(rects, Rect{
				Name:   name,
				Bounds: image.Rect(x0, y0, x0+cellW-2*margin, y0+cellH-2*margin),
			})
		}
	}
	return rects, nil
}
