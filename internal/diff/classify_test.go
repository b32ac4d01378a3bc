package diff

import (
	"testing"

	"github.com/superpsx/vramdiff/internal/vram"
)

// blackCanvas returns a w x h all-black 5-bit buffer.
func blackCanvas(w, h int) *vram.PixelBuffer {
	return vram.NewPixelBuffer(w, h)
}

func TestClassifyIdentity(t *testing.T) {
	buf := blackCanvas(4, 4)
	buf.SetRGB(1, 1, 31, 0, 0)
	buf.SetRGB(3, 2, 10, 20, 30)

	m, err := Classify(buf, buf, Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	s := m.WholeImage()
	if s.DiffCount() != 0 {
		t.Errorf("identity comparison produced %d diffs", s.DiffCount())
	}
	if s.MatchPercent != 100.0 {
		t.Errorf("match percent = %v, want exactly 100.0", s.MatchPercent)
	}
}

func TestClassifyScenarioSingleRedPixelMatch(t *testing.T) {
	// Single red pixel on an otherwise-black 4x4 canvas, actual identical.
	expected := blackCanvas(4, 4)
	expected.SetRGB(1, 1, 31, 0, 0)
	actual := blackCanvas(4, 4)
	actual.SetRGB(1, 1, 31, 0, 0)

	m, err := Classify(expected, actual, Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if s := m.WholeImage(); s.DiffCount() != 0 || s.MatchPercent != 100.0 {
		t.Errorf("got %d diffs, %.2f%%, want 0 diffs at 100%%", s.DiffCount(), s.MatchPercent)
	}
}

func TestClassifyScenarioMissing(t *testing.T) {
	expected := blackCanvas(4, 4)
	expected.SetRGB(1, 1, 31, 0, 0)
	actual := blackCanvas(4, 4)

	m, err := Classify(expected, actual, Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	s := m.WholeImage()
	if s.Missing != 1 || s.Extra != 0 || s.ColorDivergent != 0 {
		t.Errorf("counts = miss:%d extra:%d color:%d, want 1/0/0", s.Missing, s.Extra, s.ColorDivergent)
	}
	if s.MatchPercent != 93.75 {
		t.Errorf("match percent = %v, want 93.75", s.MatchPercent)
	}
	if m.At(1, 1) != Missing {
		t.Errorf("pixel category = %v, want missing", m.At(1, 1))
	}
	if d := m.DeltaAt(1, 1); d.R != -31 || d.G != 0 || d.B != 0 {
		t.Errorf("delta = %+v, want (-31,0,0)", d)
	}
}

func TestClassifyScenarioExtra(t *testing.T) {
	expected := blackCanvas(4, 4)
	expected.SetRGB(1, 1, 31, 0, 0)
	actual := blackCanvas(4, 4)
	actual.SetRGB(1, 1, 31, 0, 0)
	actual.SetRGB(2, 1, 31, 0, 0)

	m, err := Classify(expected, actual, Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	s := m.WholeImage()
	if s.Extra != 1 || s.Missing != 0 || s.ColorDivergent != 0 {
		t.Errorf("counts = miss:%d extra:%d color:%d, want 0/1/0", s.Missing, s.Extra, s.ColorDivergent)
	}
	if s.MatchPercent != 93.75 {
		t.Errorf("match percent = %v, want 93.75", s.MatchPercent)
	}
	if m.At(2, 1) != Extra {
		t.Errorf("pixel category = %v, want extra", m.At(2, 1))
	}
}

func TestClassifyScenarioColorDivergent(t *testing.T) {
	expected := blackCanvas(1, 1)
	expected.SetRGB(0, 0, 31, 0, 0)
	actual := blackCanvas(1, 1)
	actual.SetRGB(0, 0, 31, 31, 0)

	m, err := Classify(expected, actual, Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if m.At(0, 0) != ColorDivergent {
		t.Fatalf("pixel category = %v, want color", m.At(0, 0))
	}
	if d := m.DeltaAt(0, 0); d.R != 0 || d.G != 31 || d.B != 0 {
		t.Errorf("delta = %+v, want (0,+31,0)", d)
	}
}

func TestClassifyExhaustive(t *testing.T) {
	// Exactly one category applies to every pixel pair and missing/extra
	// are mutually exclusive by construction. Sweep all 5-bit gray pairs.
	for e := 0; e < 32; e++ {
		for a := 0; a < 32; a++ {
			expected := blackCanvas(1, 1)
			expected.SetRGB(0, 0, uint8(e), uint8(e), uint8(e))
			actual := blackCanvas(1, 1)
			actual.SetRGB(0, 0, uint8(a), uint8(a), uint8(a))

			m, err := Classify(expected, actual, Options{})
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}

			got := m.At(0, 0)
			var want Category
			switch {
			case e == a:
				want = Match
			case e != 0 && a == 0:
				want = Missing
			case e == 0 && a != 0:
				want = Extra
			default:
				want = ColorDivergent
			}
			if got != want {
				t.Fatalf("expected=%d actual=%d: category %v, want %v", e, a, got, want)
			}
		}
	}
}

func TestClassifyTolerance(t *testing.T) {
	expected := blackCanvas(1, 1)
	expected.SetRGB(0, 0, 10, 10, 10)
	actual := blackCanvas(1, 1)
	actual.SetRGB(0, 0, 12, 9, 10)

	m, err := Classify(expected, actual, Options{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if m.At(0, 0) != ColorDivergent {
		t.Errorf("exact comparison should flag the pixel, got %v", m.At(0, 0))
	}

	m, err = Classify(expected, actual, Options{Tolerance: 2})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if m.At(0, 0) != Match {
		t.Errorf("tolerance 2 should absorb the difference, got %v", m.At(0, 0))
	}
}

func TestClassifyDimensionMismatch(t *testing.T) {
	if _, err := Classify(blackCanvas(2, 2), blackCanvas(3, 2), Options{}); err == nil {
		t.Error("mismatched operand sizes must be rejected")
	}
}
