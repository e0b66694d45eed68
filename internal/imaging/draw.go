package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Clone copies img onto a new NRGBA canvas with its origin at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// FillRect fills r (clipped to the canvas) with c.
func FillRect(dst *image.NRGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// StrokeRect draws the outline of r with the given stroke width. The stroke
// grows inward from the rectangle edges, so the box never covers pixels
// outside r.
func StrokeRect(dst *image.NRGBA, r image.Rectangle, width int, c color.Color) {
	r = r.Canon()
	if width < 1 {
		width = 1
	}
	if 2*width >= r.Dx() || 2*width >= r.Dy() {
		FillRect(dst, r, c)
		return
	}
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c) // top
	FillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c) // bottom
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), c)
	FillRect(dst, image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), c)
}

// Segment draws an axis-aligned line of the given width from `from` to
// `to`. The line is centered on the axis it runs along and covers both end
// points. Diagonal segments are not supported; the vertical component of a
// diagonal request is ignored.
func Segment(dst *image.NRGBA, from, to image.Point, width int, c color.Color) {
	if width < 1 {
		width = 1
	}
	lo := width / 2
	hi := width - lo

	if from.Y == to.Y || from.X != to.X {
		x1, x2 := order(from.X, to.X)
		FillRect(dst, image.Rect(x1, from.Y-lo, x2+1, from.Y+hi), c)
		return
	}
	y1, y2 := order(from.Y, to.Y)
	FillRect(dst, image.Rect(from.X-lo, y1, from.X+hi, y2+1), c)
}

// ArrowHead draws a filled triangular head of the given size at tip,
// pointing in direction (dx, dy), where exactly one of dx, dy is non-zero.
func ArrowHead(dst *image.NRGBA, tip image.Point, dx, dy, size int, c color.Color) {
	if size < 1 {
		return
	}
	for i := 0; i <= size; i++ {
		// row i is i pixels back from the tip and 2i+1 pixels wide
		switch {
		case dx > 0:
			FillRect(dst, image.Rect(tip.X-i, tip.Y-i, tip.X-i+1, tip.Y+i+1), c)
		case dx < 0:
			FillRect(dst, image.Rect(tip.X+i, tip.Y-i, tip.X+i+1, tip.Y+i+1), c)
		case dy > 0:
			FillRect(dst, image.Rect(tip.X-i, tip.Y-i, tip.X+i+1, tip.Y-i+1), c)
		case dy < 0:
			FillRect(dst, image.Rect(tip.X-i, tip.Y+i, tip.X+i+1, tip.Y+i+1), c)
		}
	}
}

// TextSize returns the pixel width and height of text in the label face.
func TextSize(text string) (int, int) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	return w, face.Metrics().Height.Ceil()
}

// DrawText draws text with its top-left corner at pt, clamped so the whole
// label stays inside the canvas when it fits.
func DrawText(dst *image.NRGBA, pt image.Point, text string, c color.Color) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	w, h := TextSize(text)
	b := dst.Bounds()
	pt.X = clampInt(pt.X, b.Min.X, b.Max.X-w)
	pt.Y = clampInt(pt.Y, b.Min.Y, b.Max.Y-h)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// clampInt constrains val to [min, max]; min wins when the range is empty.
func clampInt(val, min, max int) int {
	if val > max {
		val = max
	}
	if val < min {
		val = min
	}
	return val
}
