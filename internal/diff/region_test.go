package diff

import (
	"image"
	"testing"

	"github.com/superpsx/vramdiff/internal/vram"
)

func TestSummarizeRegions(t *testing.T) {
	expected := vram.NewPixelBuffer(8, 8)
	actual := vram.NewPixelBuffer(8, 8)
	// One missing pixel in the left half, one extra in the right half.
	expected.SetRGB(1, 1, 31, 0, 0)
	actual.SetRGB(6, 6, 0, 31, 0)

	m, err := Classify(expected, actual, Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	sums := m.Summarize([]Rect{
		{Name: "left", Bounds: image.Rect(0, 0, 4, 8)},
		{Name: "right", Bounds: image.Rect(4, 0, 8, 8)},
	})

	if sums[0].Name != "left" || sums[0].Missing != 1 || sums[0].Extra != 0 {
		t.Errorf("left = %+v", sums[0])
	}
	if sums[1].Name != "right" || sums[1].Extra != 1 || sums[1].Missing != 0 {
		t.Errorf("right = %+v", sums[1])
	}
	if sums[0].Total != 32 || sums[1].Total != 32 {
		t.Errorf("totals = %d, %d, want 32, 32", sums[0].Total, sums[1].Total)
	}
	wantPct := 100 * (1 - 1.0/32.0)
	if sums[0].MatchPercent != wantPct {
		t.Errorf("left match percent = %v, want %v", sums[0].MatchPercent, wantPct)
	}
}

func TestSummarizeClipsToMap(t *testing.T) {
	m, err := Classify(vram.NewPixelBuffer(4, 4), vram.NewPixelBuffer(4, 4), Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	sums := m.Summarize([]Rect{
		{Name: "overhang", Bounds: image.Rect(2, 2, 10, 10)},
		{Name: "outside", Bounds: image.Rect(20, 20, 30, 30)},
	})
	if sums[0].Total != 4 {
		t.Errorf("clipped total = %d, want 4", sums[0].Total)
	}
	if sums[1].Total != 0 || sums[1].MatchPercent != 100 {
		t.Errorf("fully outside region = %+v, want empty at 100%%", sums[1])
	}
}

func TestGrid(t *testing.T) {
	rects, err := Grid("g0", image.Point{X: 0, Y: 64}, 20, 20, 16, 2, 1)
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if len(rects) != 32 {
		t.Fatalf("got %d cells, want 32", len(rects))
	}
	if rects[0].Name != "g0/r0c0" {
		t.Errorf("first cell name = %q", rects[0].Name)
	}
	if rects[17].Name != "g0/r1c1" {
		t.Errorf("cell 17 name = %q", rects[17].Name)
	}

	// Second row, second column: origin + cell pitch + margin inset.
	want := image.Rect(21, 85, 39, 103)
	if rects[17].Bounds != want {
		t.Errorf("cell 17 bounds = %v, want %v", rects[17].Bounds, want)
	}
}

func TestGridNoPrefix(t *testing.T) {
	rects, err := Grid("", image.Point{}, 10, 10, 2, 1, 0)
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if rects[1].Name != "r0c1" {
		t.Errorf("cell name = %q, want r0c1", rects[1].Name)
	}
	if rects[1].Bounds != image.Rect(10, 0, 20, 10) {
		t.Errorf("cell bounds = %v", rects[1].Bounds)
	}
}

func TestGridRejectsOversizedMargin(t *testing.T) {
	// A margin of half the pitch or more leaves no cell interior.
	if _, err := Grid("", image.Point{}, 10, 10, 2, 2, 5); err == nil {
		t.Error("margin consuming the whole cell should fail")
	}
	if _, err := Grid("", image.Point{}, 10, 20, 2, 2, 5); err == nil {
		t.Error("margin consuming the cell width should fail")
	}
	if _, err := Grid("", image.Point{}, 10, 10, 2, 2, -1); err == nil {
		t.Error("negative margin should fail")
	}
}
