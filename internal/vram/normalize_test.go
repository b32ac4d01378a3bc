package vram

import (
	"image"
	"image/color"
	"testing"
)

func TestQuantize(t *testing.T) {
	buf := NewPixelBuffer(2, 1)
	buf.SetRGB(0, 0, 255, 128, 7)
	buf.SetRGB(1, 0, 8, 0, 248)

	q, err := Quantize(buf, 5)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}

	if r, g, b := q.At(0, 0); r != 31 || g != 16 || b != 0 {
		t.Errorf("pixel 0 = (%d,%d,%d), want (31,16,0)", r, g, b)
	}
	if r, g, b := q.At(1, 0); r != 1 || g != 0 || b != 31 {
		t.Errorf("pixel 1 = (%d,%d,%d), want (1,0,31)", r, g, b)
	}

	// Source is untouched.
	if r, _, _ := buf.At(0, 0); r != 255 {
		t.Error("Quantize mutated its input")
	}
}

func TestQuantizeInvalidBits(t *testing.T) {
	buf := NewPixelBuffer(1, 1)
	for _, bits := range []int{0, 9, -1} {
		if _, err := Quantize(buf, bits); err == nil {
			t.Errorf("Quantize(%d bits) should fail", bits)
		}
	}
}

func TestAdaptReferencePassThrough(t *testing.T) {
	ref := NewPixelBuffer(4, 4)
	out, resized := AdaptReference(ref, 4, 4)
	if resized {
		t.Error("matching dimensions must not trigger a resize")
	}
	if out != ref {
		t.Error("matching reference should be returned unchanged")
	}
}

func TestAdaptReferenceResize(t *testing.T) {
	// A solid-color reference survives nearest-neighbor resizing exactly.
	ref := NewPixelBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			ref.SetRGB(x, y, 200, 100, 50)
		}
	}

	out, resized := AdaptReference(ref, 4, 4)
	if !resized {
		t.Fatal("size mismatch must report the accommodation")
	}
	if out.Width != 4 || out.Height != 4 {
		t.Fatalf("resized to %dx%d, want 4x4", out.Width, out.Height)
	}
	if r, g, b := out.At(2, 2); r != 200 || g != 100 || b != 50 {
		t.Errorf("resized pixel = (%d,%d,%d)", r, g, b)
	}
}

func TestCrop(t *testing.T) {
	buf := NewPixelBuffer(4, 4)
	buf.SetRGB(2, 1, 9, 9, 9)

	crop, err := buf.Crop(image.Rect(1, 1, 3, 3))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if crop.Width != 2 || crop.Height != 2 {
		t.Fatalf("crop is %dx%d, want 2x2", crop.Width, crop.Height)
	}
	if r, _, _ := crop.At(1, 0); r != 9 {
		t.Errorf("crop did not preserve pixel content")
	}

	if _, err := buf.Crop(image.Rect(10, 10, 20, 20)); err == nil {
		t.Error("fully out-of-bounds crop should fail")
	}
}

func TestFromImageIgnoresAlpha(t *testing.T) {
	// A semi-transparent reference pixel must keep its stored RGB; reading
	// premultiplied channels would halve it.
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 248, A: 128})

	buf := FromImage(img)
	if r, g, b := buf.At(0, 0); r != 248 || g != 0 || b != 0 {
		t.Errorf("NRGBA pixel = (%d,%d,%d), want (248,0,0)", r, g, b)
	}

	// Same through the generic conversion path.
	img64 := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	img64.SetNRGBA64(0, 0, color.NRGBA64{R: 0xf8f8, A: 0x8080})

	buf = FromImage(img64)
	if r, g, b := buf.At(0, 0); r != 248 || g != 0 || b != 0 {
		t.Errorf("NRGBA64 pixel = (%d,%d,%d), want (248,0,0)", r, g, b)
	}
}

func TestImageRoundTrip(t *testing.T) {
	buf := NewPixelBuffer(3, 2)
	buf.SetRGB(1, 1, 12, 34, 56)

	back := FromImage(buf.Image())
	if back.Width != 3 || back.Height != 2 {
		t.Fatalf("round trip changed dimensions to %dx%d", back.Width, back.Height)
	}
	if r, g, b := back.At(1, 1); r != 12 || g != 34 || b != 56 {
		t.Errorf("round trip pixel = (%d,%d,%d)", r, g, b)
	}
}
