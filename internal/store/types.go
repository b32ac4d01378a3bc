package store

import (
	"time"

	"github.com/superpsx/vramdiff/internal/diff"
)

// CompareConfig echoes the configuration a comparison ran with. It is
// persisted alongside the result so a stored comparison can be reproduced.
type CompareConfig struct {
	DumpPath      string `json:"dumpPath"`
	RefPath       string `json:"refPath"`
	Format        string `json:"format,omitempty"`        // auto, 16bpp, 32bpp
	ChannelOrder  string `json:"channelOrder,omitempty"`  // rgb, bgr
	PrecisionBits int    `json:"precisionBits,omitempty"` // 0 = native default
	Tolerance     uint8  `json:"tolerance,omitempty"`
	CropVisible   bool   `json:"cropVisible,omitempty"` // restrict to the display area
	Shape         bool   `json:"shape,omitempty"`       // run the advisory shape heuristic
}

// Record is a persisted comparison result. The pixel buffers themselves are
// not serialized; the rendered artifacts (decoded.png, diff.png,
// amplified.png, report.txt) live next to result.json in the result
// directory.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Config CompareConfig `json:"config"`

	PrecisionBits int  `json:"precisionBits"`
	Resized       bool `json:"resized"`

	Overall diff.Summary        `json:"overall"`
	Regions []diff.Summary      `json:"regions,omitempty"`
	Shape   *diff.ShapeEstimate `json:"shape,omitempty"`
}

// ToInfo extracts listing metadata from a record.
func (r *Record) ToInfo() ResultInfo {
	return ResultInfo{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		DumpPath:     r.Config.DumpPath,
		RefPath:      r.Config.RefPath,
		MatchPercent: r.Overall.MatchPercent,
		DiffCount:    r.Overall.DiffCount(),
	}
}

// ResultInfo is the lightweight listing view of a stored result.
type ResultInfo struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	DumpPath     string    `json:"dumpPath"`
	RefPath      string    `json:"refPath"`
	MatchPercent float64   `json:"matchPercent"`
	DiffCount    int       `json:"diffCount"`
}

// NewRecord builds a Record from a completed comparison.
func NewRecord(id string, cfg CompareConfig, res *diff.Result) *Record {
	return &Record{
		ID:            id,
		CreatedAt:     time.Now().UTC(),
		Config:        cfg,
		PrecisionBits: res.PrecisionBits,
		Resized:       res.Resized,
		Overall:       res.Overall,
		Regions:       res.Regions,
		Shape:         res.Shape,
	}
}
