package diff

import (
	"fmt"
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/superpsx/vramdiff/internal/vram"
)

// Shape is the advisory classification of the dominant drawn figure.
type Shape int

const (
	ShapeAmbiguous Shape = iota
	ShapeRectangle
	ShapeTriangle
	ShapeNotEnoughPixels
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "RECTANGLE"
	case ShapeTriangle:
		return "TRIANGLE"
	case ShapeNotEnoughPixels:
		return "NOT_ENOUGH_PIXELS"
	}
	return "AMBIGUOUS"
}

// ShapeEstimate is the output of the shape heuristic. It is a hint for
// eyeballing test output, never a correctness oracle: the heuristic assumes
// exactly one dominant saturated figure on a uniform background and is not
// reliable with multiple or overlapping shapes. Callers must keep it out of
// any pass/fail decision.
type ShapeEstimate struct {
	Shape     Shape           `json:"shape"`
	BBox      image.Rectangle `json:"bbox"`
	FillRatio float64         `json:"fillRatio"`
	Samples   int             `json:"samples"`
}

func (e ShapeEstimate) String() string {
	if e.Shape == ShapeNotEnoughPixels {
		return e.Shape.String()
	}
	return fmt.Sprintf("%s (bbox %dx%d at %d,%d, fill %.2f)",
		e.Shape, e.BBox.Dx(), e.BBox.Dy(), e.BBox.Min.X, e.BBox.Min.Y, e.FillRatio)
}

// Thresholds for counting a sampled pixel as part of the drawn figure.
// Saturation rejects grays and the white clear color, value rejects black
// background.
const (
	activeSaturation = 0.4
	activeValue      = 0.25
	minActiveSamples = 100
)

// EstimateShape samples buf every step pixels, collects active
// (saturated-color) coordinates, trims the outer 5% of x- and y-order
// outliers to resist stray noise pixels, and classifies the trimmed
// bounding box by fill ratio: above 0.8 reads as a filled rectangle, the
// 0.3..0.7 band as a triangle, anything else as ambiguous.
func EstimateShape(buf *vram.PixelBuffer, step int) ShapeEstimate {
	if step < 1 {
		step = 1
	}

	var xs, ys []int
	for y := 0; y < buf.Height; y += step {
		for x := 0; x < buf.Width; x += step {
			r, g, b := buf.At(x, y)
			c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
			if _, s, v := c.Hsv(); s >= activeSaturation && v >= activeValue {
				xs = append(xs, x)
				ys = append(ys, y)
			}
		}
	}

	if len(xs) <= minActiveSamples {
		return ShapeEstimate{Shape: ShapeNotEnoughPixels, Samples: len(xs)}
	}

	active := len(xs)
	sortedX := append([]int(nil), xs...)
	sortedY := append([]int(nil), ys...)
	sort.Ints(sortedX)
	sort.Ints(sortedY)

	// Crude Winsorization: drop the outer 5% at each end of both orders.
	trim := active * 5 / 100
	if trim > 0 {
		sortedX = sortedX[trim : len(sortedX)-trim]
		sortedY = sortedY[trim : len(sortedY)-trim]
	}

	bbox := image.Rect(sortedX[0], sortedY[0], sortedX[len(sortedX)-1]+1, sortedY[len(sortedY)-1]+1)

	// Count the untrimmed samples that landed inside the trimmed box.
	inBox := 0
	for i := range xs {
		if xs[i] >= bbox.Min.X && xs[i] < bbox.Max.X && ys[i] >= bbox.Min.Y && ys[i] < bbox.Max.Y {
			inBox++
		}
	}

	// Each sample stands in for a step x step block of pixels.
	fill := float64(inBox*step*step) / float64(bbox.Dx()*bbox.Dy())

	est := ShapeEstimate{BBox: bbox, FillRatio: fill, Samples: active}
	switch {
	case fill > 0.8:
		est.Shape = ShapeRectangle
	case fill > 0.3 && fill < 0.7:
		est.Shape = ShapeTriangle
	default:
		est.Shape = ShapeAmbiguous
	}
	return est
}
