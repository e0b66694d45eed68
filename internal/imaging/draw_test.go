package imaging

import (
	"image"
	"image/color"
	"testing"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

func checkPixels(t *testing.T, img *image.NRGBA, want color.NRGBA, pts ...image.Point) {
	t.Helper()
	for _, p := range pts {
		if got := img.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("pixel %v: got %v, want %v", p, got, want)
		}
	}
}

func TestClone(t *testing.T) {
	src := createInMemoryImage(5, 5, white)
	dst := Clone(src)
	dst.Set(2, 2, red)

	if src.NRGBAAt(2, 2) != white {
		t.Error("Clone shares pixels with its source")
	}
}

func TestFillRect_Clipped(t *testing.T) {
	img := createInMemoryImage(10, 10, white)
	FillRect(img, image.Rect(-5, -5, 3, 3), red)

	checkPixels(t, img, red, image.Pt(0, 0), image.Pt(2, 2))
	checkPixels(t, img, white, image.Pt(3, 3), image.Pt(9, 9))

	// Entirely outside: no panic, no change.
	FillRect(img, image.Rect(20, 20, 30, 30), red)
}

func TestStrokeRect(t *testing.T) {
	img := createInMemoryImage(20, 20, white)
	StrokeRect(img, image.Rect(2, 2, 12, 12), 3, red)

	checkPixels(t, img, red,
		image.Pt(2, 2), image.Pt(4, 4), image.Pt(11, 11), image.Pt(7, 2), image.Pt(2, 7), image.Pt(11, 7))
	checkPixels(t, img, white,
		image.Pt(1, 1), image.Pt(5, 5), image.Pt(8, 8), image.Pt(12, 12), image.Pt(12, 7))
}

func TestStrokeRect_SmallBoxIsFilled(t *testing.T) {
	img := createInMemoryImage(10, 10, white)
	StrokeRect(img, image.Rect(2, 2, 6, 6), 3, red)
	checkPixels(t, img, red, image.Pt(2, 2), image.Pt(3, 3), image.Pt(5, 5))
}

func TestSegment_Horizontal(t *testing.T) {
	img := createInMemoryImage(40, 20, white)
	Segment(img, image.Pt(10, 10), image.Pt(20, 10), 3, blue)

	checkPixels(t, img, blue,
		image.Pt(10, 9), image.Pt(10, 10), image.Pt(10, 11), image.Pt(15, 10), image.Pt(20, 10))
	checkPixels(t, img, white,
		image.Pt(9, 10), image.Pt(21, 10), image.Pt(15, 8), image.Pt(15, 12))
}

func TestSegment_VerticalReversed(t *testing.T) {
	img := createInMemoryImage(20, 20, white)
	Segment(img, image.Pt(10, 10), image.Pt(10, 0), 3, blue)

	checkPixels(t, img, blue, image.Pt(9, 0), image.Pt(10, 5), image.Pt(11, 10))
	checkPixels(t, img, white, image.Pt(8, 5), image.Pt(12, 5), image.Pt(10, 11))
}

func TestSegment_ClippedAtEdge(t *testing.T) {
	img := createInMemoryImage(20, 20, white)
	Segment(img, image.Pt(10, 10), image.Pt(60, 10), 3, blue)
	checkPixels(t, img, blue, image.Pt(19, 10))
}

func TestArrowHead(t *testing.T) {
	img := createInMemoryImage(20, 20, white)
	ArrowHead(img, image.Pt(10, 10), 1, 0, 3, blue)

	checkPixels(t, img, blue, image.Pt(10, 10), image.Pt(8, 10), image.Pt(7, 7), image.Pt(7, 13))
	checkPixels(t, img, white, image.Pt(11, 10), image.Pt(10, 9), image.Pt(6, 10))
}

func TestArrowHead_ZeroSize(t *testing.T) {
	img := createInMemoryImage(5, 5, white)
	ArrowHead(img, image.Pt(2, 2), 0, 1, 0, blue)
	checkPixels(t, img, white, image.Pt(2, 2))
}

func TestTextSize(t *testing.T) {
	w, h := TextSize("chair")
	if w != 35 {
		t.Errorf("width: got %d, want 35", w)
	}
	if h != 13 {
		t.Errorf("height: got %d, want 13", h)
	}
}

func TestDrawText(t *testing.T) {
	tests := []struct {
		name string
		at   image.Point
	}{
		{"inside", image.Pt(5, 5)},
		{"above top edge", image.Pt(5, -10)},
		{"past right edge", image.Pt(95, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(100, 40, white)
			DrawText(img, tt.at, "chair", red)

			inked := 0
			b := img.Bounds()
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if img.NRGBAAt(x, y) != white {
						inked++
					}
				}
			}
			if inked == 0 {
				t.Error("no text pixels drawn")
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct{ val, min, max, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{5, 3, 1, 3},
	}
	for _, tt := range tests {
		if got := clampInt(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clampInt(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
