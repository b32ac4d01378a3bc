package vram

import (
	"fmt"
	"strings"
)

// CandidateSize pairs a pixel format with the byte size a dump in that format
// would have for a given canvas.
type CandidateSize struct {
	Format PixelFormat
	Size   int
}

// FormatMismatchError is returned when a dump's byte length matches none of
// the candidate encodings for the declared canvas. It always carries every
// size that was considered so the caller can see how far off the dump is;
// the decoder never falls back to a default format for ill-sized input.
type FormatMismatchError struct {
	ActualSize int
	Width      int
	Height     int
	Candidates []CandidateSize
}

func (e *FormatMismatchError) Error() string {
	var expected []string
	for _, c := range e.Candidates {
		expected = append(expected, fmt.Sprintf("%d (%s)", c.Size, c.Format))
	}
	return fmt.Sprintf("vram dump is %d bytes, expected %s for a %dx%d canvas",
		e.ActualSize, strings.Join(expected, " or "), e.Width, e.Height)
}

// DimensionMismatchError reports a reference image whose dimensions differ
// from the decoded dump region. It is recoverable through AdaptReference.
type DimensionMismatchError struct {
	GotWidth   int
	GotHeight  int
	WantWidth  int
	WantHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("reference is %dx%d, dump region is %dx%d",
		e.GotWidth, e.GotHeight, e.WantWidth, e.WantHeight)
}
