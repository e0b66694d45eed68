package annotate

import (
	"image"
	"image/color"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/imaging"
	"github.com/ironsheep/layout-advisor/internal/suggest"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

func whiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, white)
		}
	}
	return img
}

func det(label string, box detection.Box) detection.Detection {
	return detection.Detection{Label: label, Box: box, Center: box.Center()}
}

// chair box (100,100)-(140,180), center (120,140)
var chair = det("chair", detection.Box{X1: 100, Y1: 100, X2: 140, Y2: 180})

func noHeads() *Annotator {
	return New(Style{ArrowHeadSize: -1})
}

func expect(t *testing.T, img *image.NRGBA, want color.NRGBA, pts ...image.Point) {
	t.Helper()
	for _, p := range pts {
		if got := img.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("pixel %v: got %v, want %v", p, got, want)
		}
	}
}

func TestAnnotate_Boxes(t *testing.T) {
	out := noHeads().Annotate(whiteImage(300, 300), detection.Set{chair}, nil)

	expect(t, out, red, image.Pt(100, 100), image.Pt(102, 150), image.Pt(139, 179), image.Pt(120, 100))
	expect(t, out, white, image.Pt(120, 140), image.Pt(99, 150), image.Pt(140, 150))
}

func TestAnnotate_TwoAxesDrawTwoSegments(t *testing.T) {
	s := suggest.Suggestion{Label: "chair", Axes: []suggest.Axis{suggest.Right, suggest.Up}}
	out := noHeads().Annotate(whiteImage(300, 300), detection.Set{chair}, []suggest.Suggestion{s})

	// Horizontal segment (120,140)-(170,140), vertical (120,140)-(120,90).
	expect(t, out, blue,
		image.Pt(120, 140), image.Pt(145, 140), image.Pt(170, 140), image.Pt(145, 139), image.Pt(145, 141),
		image.Pt(120, 115), image.Pt(120, 90), image.Pt(119, 115), image.Pt(121, 115))
	expect(t, out, white,
		image.Pt(171, 140), image.Pt(120, 89), image.Pt(145, 115), image.Pt(160, 120), image.Pt(145, 137))
}

func TestAnnotate_OneAxis(t *testing.T) {
	s := suggest.Suggestion{Label: "chair", Axes: []suggest.Axis{suggest.Left}}
	out := noHeads().Annotate(whiteImage(300, 300), detection.Set{chair}, []suggest.Suggestion{s})

	expect(t, out, blue, image.Pt(70, 140), image.Pt(95, 140))
	expect(t, out, white, image.Pt(69, 140), image.Pt(120, 115), image.Pt(120, 165), image.Pt(130, 140))
}

func TestAnnotate_ArrowHeads(t *testing.T) {
	s := suggest.Suggestion{Label: "chair", Axes: []suggest.Axis{suggest.Down}}
	out := New(Style{}).Annotate(whiteImage(300, 300), detection.Set{chair}, []suggest.Suggestion{s})

	// Head at (120,190) pointing down, widening upward.
	expect(t, out, blue, image.Pt(120, 190), image.Pt(116, 186), image.Pt(124, 186))
	expect(t, out, white, image.Pt(120, 191))
}

func TestAnnotate_LabelEqualityOnly(t *testing.T) {
	lamp := det("table lamp", detection.Box{X1: 100, Y1: 100, X2: 140, Y2: 180})
	s := suggest.Suggestion{Label: "lamp", Axes: []suggest.Axis{suggest.Right}}

	out := noHeads().Annotate(whiteImage(300, 300), detection.Set{lamp}, []suggest.Suggestion{s})
	expect(t, out, white, image.Pt(160, 140), image.Pt(130, 140))
}

func TestAnnotate_UnmatchedSuggestionIgnored(t *testing.T) {
	s := suggest.Suggestion{Label: "bed", Axes: []suggest.Axis{suggest.Right}}
	out := noHeads().Annotate(whiteImage(300, 300), detection.Set{chair}, []suggest.Suggestion{s})
	expect(t, out, white, image.Pt(160, 140))
}

func TestAnnotate_DoesNotModifyInput(t *testing.T) {
	src := whiteImage(300, 300)
	s := suggest.Suggestion{Label: "chair", Axes: []suggest.Axis{suggest.Right}}
	out := New(Style{}).Annotate(src, detection.Set{chair}, []suggest.Suggestion{s})

	if out == src {
		t.Fatal("Annotate returned its input")
	}
	expect(t, src, white, image.Pt(100, 100), image.Pt(145, 140))
	if out.Bounds() != src.Bounds() {
		t.Errorf("bounds: got %v, want %v", out.Bounds(), src.Bounds())
	}
}

func TestAnnotate_NearEdge(t *testing.T) {
	corner := det("chair", detection.Box{X1: 0, Y1: 0, X2: 20, Y2: 20})
	s := suggest.Suggestion{Label: "chair", Axes: []suggest.Axis{suggest.Left, suggest.Up}}

	// Segments leave the canvas; drawing must clip, not panic.
	out := New(Style{}).Annotate(whiteImage(40, 40), detection.Set{corner}, []suggest.Suggestion{s})
	expect(t, out, blue, image.Pt(0, 10), image.Pt(10, 0))
}

func TestSegments(t *testing.T) {
	a := New(Style{})
	s := suggest.Suggestion{Label: "x", Axes: []suggest.Axis{suggest.Right, suggest.Down}}
	got := a.Segments(detection.Point{X: 10, Y: 10}, s)
	want := [][2]image.Point{
		{image.Pt(10, 10), image.Pt(60, 10)},
		{image.Pt(10, 10), image.Pt(10, 60)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := a.Segments(detection.Point{}, suggest.Suggestion{}); len(got) != 0 {
		t.Errorf("no axes: got %v", got)
	}
}

func TestStyleDefaults(t *testing.T) {
	st := New(Style{}).Style()
	if st.StrokeWidth != DefaultStrokeWidth || st.SegmentLength != DefaultSegmentLength || st.ArrowHeadSize != DefaultArrowHeadSize {
		t.Errorf("sizes: got %+v", st)
	}
	if st.BoxColor != color.Color(red) || st.ArrowColor != color.Color(blue) || st.TextColor != color.Color(red) {
		t.Errorf("colors: got %v %v %v", st.BoxColor, st.ArrowColor, st.TextColor)
	}
}

func TestStyleFromHex(t *testing.T) {
	st, err := StyleFromHex("#00FF00", "")
	if err != nil {
		t.Fatalf("StyleFromHex failed: %v", err)
	}
	if st.BoxColor != color.Color(color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("box color: got %v", st.BoxColor)
	}
	if st.ArrowColor != nil {
		t.Errorf("arrow color should keep the default, got %v", st.ArrowColor)
	}

	if _, err := StyleFromHex("nope", ""); err == nil {
		t.Error("expected error for bad box color")
	}
	if _, err := StyleFromHex("", "#12"); err == nil {
		t.Error("expected error for bad arrow color")
	}
}

func TestAnnotateToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggested_layout.png")
	s := suggest.Suggestion{Label: "chair", Axes: []suggest.Axis{suggest.Right}}

	out, err := New(Style{}).AnnotateToFile(path, whiteImage(300, 300), detection.Set{chair}, []suggest.Suggestion{s})
	if err != nil {
		t.Fatalf("AnnotateToFile failed: %v", err)
	}

	saved, _, err := imaging.Load(path, imaging.DecodeOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	r, g, b, _ := saved.At(145, 140).RGBA()
	if r != 0 || g != 0 || b>>8 != 255 {
		t.Errorf("saved pixel: got (%d,%d,%d), want blue", r>>8, g>>8, b>>8)
	}
	if out.NRGBAAt(145, 140) != blue {
		t.Error("returned image differs from saved one")
	}
}
