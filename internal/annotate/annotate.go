// Package annotate draws detections and move suggestions onto the room image.
//
// Each detection gets a box outline and its label. Each suggestion whose
// label equals a detection's label gets one fixed-length segment per axis,
// starting at that detection's center: a two-axis suggestion draws two
// segments, not a diagonal. Labels are compared for equality, never by
// substring, so "lamp" does not match a "table lamp" detection.
package annotate

import (
	"image"
	"image/color"

	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/imaging"
	"github.com/ironsheep/layout-advisor/internal/suggest"
)

// Default style values.
const (
	DefaultBoxColor      = "#FF0000"
	DefaultArrowColor    = "#0000FF"
	DefaultStrokeWidth   = 3
	DefaultSegmentLength = 50
	DefaultArrowHeadSize = 6
	DefaultLabelOffset   = 10
)

// Style configures colors and sizes. Zero values fall back to the defaults.
type Style struct {
	BoxColor      color.Color
	ArrowColor    color.Color
	TextColor     color.Color
	StrokeWidth   int
	SegmentLength int

	// ArrowHeadSize of -1 disables arrow heads.
	ArrowHeadSize int
}

func (s Style) withDefaults() Style {
	if s.BoxColor == nil {
		s.BoxColor = imaging.MustParseHexColor(DefaultBoxColor)
	}
	if s.ArrowColor == nil {
		s.ArrowColor = imaging.MustParseHexColor(DefaultArrowColor)
	}
	if s.TextColor == nil {
		s.TextColor = s.BoxColor
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = DefaultStrokeWidth
	}
	if s.SegmentLength <= 0 {
		s.SegmentLength = DefaultSegmentLength
	}
	if s.ArrowHeadSize == 0 {
		s.ArrowHeadSize = DefaultArrowHeadSize
	}
	return s
}

// StyleFromHex builds a Style from hex color strings; empty strings keep
// the defaults.
func StyleFromHex(boxHex, arrowHex string) (Style, error) {
	var s Style
	if boxHex != "" {
		c, err := imaging.ParseHexColor(boxHex)
		if err != nil {
			return Style{}, err
		}
		s.BoxColor = c
	}
	if arrowHex != "" {
		c, err := imaging.ParseHexColor(arrowHex)
		if err != nil {
			return Style{}, err
		}
		s.ArrowColor = c
	}
	return s, nil
}

// Annotator renders annotations. It is stateless apart from its style and
// safe for concurrent use.
type Annotator struct {
	style Style
}

// New creates an Annotator with style s.
func New(s Style) *Annotator {
	return &Annotator{style: s.withDefaults()}
}

// Style returns the effective style.
func (a *Annotator) Style() Style {
	return a.style
}

// Annotate returns a copy of img with boxes, labels and suggestion segments
// drawn on it. img is not modified; the result has the same size with its
// origin at (0,0), which is how decoded images are laid out.
func (a *Annotator) Annotate(img image.Image, dets detection.Set, suggestions []suggest.Suggestion) *image.NRGBA {
	canvas := imaging.Clone(img)

	byLabel := make(map[string]suggest.Suggestion, len(suggestions))
	for _, s := range suggestions {
		byLabel[s.Label] = s
	}

	for _, d := range dets {
		a.drawDetection(canvas, d)
	}
	// Segments go on top of every box.
	for _, d := range dets {
		s, ok := byLabel[d.Label]
		if !ok {
			continue
		}
		a.drawSuggestion(canvas, d.Center, s)
	}

	return canvas
}

// AnnotateToFile annotates img and writes the result to path, JPEG or PNG
// by extension.
func (a *Annotator) AnnotateToFile(path string, img image.Image, dets detection.Set, suggestions []suggest.Suggestion) (*image.NRGBA, error) {
	out := a.Annotate(img, dets, suggestions)
	if err := imaging.Save(path, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Annotator) drawDetection(canvas *image.NRGBA, d detection.Detection) {
	imaging.StrokeRect(canvas, d.Box.Rect(), a.style.StrokeWidth, a.style.BoxColor)

	pt := image.Pt(d.Box.X1, d.Box.Y1-DefaultLabelOffset)
	imaging.DrawText(canvas, pt, d.Label, a.style.TextColor)
}

// Segments returns the segments drawn for suggestion s from center, as
// (start, end) pairs, one per axis in axis order.
func (a *Annotator) Segments(center detection.Point, s suggest.Suggestion) [][2]image.Point {
	origin := image.Pt(center.X, center.Y)
	n := a.style.SegmentLength
	segments := make([][2]image.Point, 0, len(s.Axes))
	for _, ax := range s.Axes {
		var end image.Point
		switch ax {
		case suggest.Right:
			end = origin.Add(image.Pt(n, 0))
		case suggest.Left:
			end = origin.Add(image.Pt(-n, 0))
		case suggest.Down:
			end = origin.Add(image.Pt(0, n))
		case suggest.Up:
			end = origin.Add(image.Pt(0, -n))
		default:
			continue
		}
		segments = append(segments, [2]image.Point{origin, end})
	}
	return segments
}

func (a *Annotator) drawSuggestion(canvas *image.NRGBA, center detection.Point, s suggest.Suggestion) {
	for _, seg := range a.Segments(center, s) {
		from, to := seg[0], seg[1]
		imaging.Segment(canvas, from, to, a.style.StrokeWidth, a.style.ArrowColor)
		if a.style.ArrowHeadSize > 0 {
			imaging.ArrowHead(canvas, to, sign(to.X-from.X), sign(to.Y-from.Y), a.style.ArrowHeadSize, a.style.ArrowColor)
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
