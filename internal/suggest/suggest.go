// Package suggest compares furniture positions between a room image and a
// reference image and turns the differences into move suggestions.
//
// Objects are matched by canonical label only. If a label occurs more than
// once in one image, the last detection in detector order is the one
// compared; the others are ignored. Labels present in only one image never
// produce a suggestion.
//
// For each matched label the engine takes dx and dy as reference center
// minus room center. An axis registers only when its magnitude exceeds the
// threshold (30px by default), which absorbs bounding-box jitter. All
// arithmetic is integer, so the output is fully deterministic.
package suggest

import (
	"fmt"
	"strings"

	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/vocab"
)

// DefaultThreshold is the deadband in pixels on each axis.
const DefaultThreshold = 30

// Axis is a direction on one image axis.
type Axis string

const (
	Left  Axis = "left"
	Right Axis = "right"
	Up    Axis = "up"
	Down  Axis = "down"
)

// Horizontal reports whether a is left or right.
func (a Axis) Horizontal() bool {
	return a == Left || a == Right
}

// Suggestion is one directional recommendation for a label.
type Suggestion struct {
	Label string `json:"label"`

	// Axes holds at most one horizontal and one vertical direction,
	// horizontal first.
	Axes []Axis `json:"axes"`

	// Delta is reference center minus room center, in room pixels.
	Delta detection.Point `json:"delta"`
}

// Has reports whether s includes axis a.
func (s Suggestion) Has(a Axis) bool {
	for _, ax := range s.Axes {
		if ax == a {
			return true
		}
	}
	return false
}

// Result is the engine output. Messages holds one line per suggestion, or
// only the affirmation when Suggestions is empty.
type Result struct {
	Suggestions []Suggestion `json:"suggestions"`
	Messages    []string     `json:"messages"`
}

// Options configures an Engine.
type Options struct {
	// Threshold is the deadband in pixels. Non-positive means DefaultThreshold.
	Threshold int
}

// Engine generates suggestions. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	vocab     *vocab.Vocabulary
	threshold int
}

// NewEngine creates an Engine. A nil vocabulary means vocab.Default().
func NewEngine(v *vocab.Vocabulary, opts Options) *Engine {
	if v == nil {
		v = vocab.Default()
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{vocab: v, threshold: threshold}
}

// Threshold returns the deadband in pixels.
func (e *Engine) Threshold() int {
	return e.threshold
}

// Generate compares room against reference.
//
// Suggestions are ordered by the first appearance of their label in the
// reference set. Empty or disjoint inputs yield the affirmation message and
// no suggestions.
func (e *Engine) Generate(room, reference detection.Set) Result {
	roomCenters, _ := e.centers(room)
	refCenters, refOrder := e.centers(reference)

	suggestions := make([]Suggestion, 0, len(refOrder))
	for _, label := range refOrder {
		roomCenter, ok := roomCenters[label]
		if !ok {
			continue
		}
		refCenter := refCenters[label]

		delta := detection.Point{
			X: refCenter.X - roomCenter.X,
			Y: refCenter.Y - roomCenter.Y,
		}
		axes := e.axes(delta)
		if len(axes) == 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Label: label,
			Axes:  axes,
			Delta: delta,
		})
	}

	return Result{
		Suggestions: suggestions,
		Messages:    e.Messages(suggestions),
	}
}

// Messages renders suggestions as display strings, or returns the single
// affirmation when there are none.
func (e *Engine) Messages(suggestions []Suggestion) []string {
	if len(suggestions) == 0 {
		return []string{e.vocab.Affirmation()}
	}
	messages := make([]string, len(suggestions))
	for i, s := range suggestions {
		messages[i] = e.Format(s)
	}
	return messages
}

// Format renders one suggestion, e.g.
// "🪑 chair: Adjust right and up for better placement".
func (e *Engine) Format(s Suggestion) string {
	words := make([]string, len(s.Axes))
	for i, a := range s.Axes {
		words[i] = string(a)
	}
	return fmt.Sprintf("%s %s: %s %s for better placement",
		e.vocab.Icon(s.Label), s.Label, e.vocab.Verb(s.Label), strings.Join(words, " and "))
}

// centers maps each label to the center of its last detection and records
// the order in which labels first appear.
func (e *Engine) centers(set detection.Set) (map[string]detection.Point, []string) {
	centers := make(map[string]detection.Point, len(set))
	order := make([]string, 0, len(set))
	for _, d := range set {
		label := d.Label
		if canon, ok := e.vocab.Canonical(label); ok {
			label = canon
		}
		if _, seen := centers[label]; !seen {
			order = append(order, label)
		}
		centers[label] = d.Center
	}
	return centers, order
}

func (e *Engine) axes(delta detection.Point) []Axis {
	axes := make([]Axis, 0, 2)
	if abs(delta.X) > e.threshold {
		if delta.X > 0 {
			axes = append(axes, Right)
		} else {
			axes = append(axes, Left)
		}
	}
	if abs(delta.Y) > e.threshold {
		if delta.Y > 0 {
			axes = append(axes, Down)
		} else {
			axes = append(axes, Up)
		}
	}
	return axes
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
