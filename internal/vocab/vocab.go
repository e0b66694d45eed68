// Package vocab holds the furniture vocabulary shared by detection,
// suggestion and annotation: which detector classes count as furniture,
// which names alias to the same category, and how each category is phrased
// in a suggestion.
//
// A Vocabulary is immutable once built. Several can coexist in one process,
// e.g. the default table for production and a reduced table in tests.
package vocab

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	// DefaultVerb is used for categories without a verb of their own.
	DefaultVerb = "Move"

	// DefaultIcon is used for categories without an icon of their own.
	DefaultIcon = "➡️"

	// DefaultAffirmation is returned when no furniture needs to move.
	DefaultAffirmation = "✅ Your furniture layout is already optimal!"
)

// Category is one furniture category.
type Category struct {
	// ClassID is the detector class identifier (COCO index for YOLO models).
	// Negative values mean the category is only matched by name.
	ClassID int `json:"class_id"`

	// Label is the canonical name used everywhere downstream.
	Label string `json:"label"`

	// Aliases are other names for the same category, e.g. "sofa" for "couch".
	Aliases []string `json:"aliases,omitempty"`

	// Verb and Icon phrase the suggestion; empty means the vocabulary default.
	Verb string `json:"verb,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// File is the JSON representation of a vocabulary.
type File struct {
	DefaultVerb string     `json:"default_verb,omitempty"`
	DefaultIcon string     `json:"default_icon,omitempty"`
	Affirmation string     `json:"affirmation,omitempty"`
	Categories  []Category `json:"categories"`
}

// Vocabulary is an immutable furniture vocabulary.
type Vocabulary struct {
	categories  []Category
	byClass     map[int]string
	byName      map[string]string
	verbs       map[string]string
	icons       map[string]string
	defaultVerb string
	defaultIcon string
	affirmation string
}

// Default returns the baseline vocabulary: COCO classes 56-62 with their
// verbs and icons.
func Default() *Vocabulary {
	v, err := New(File{
		Categories: []Category{
			{ClassID: 56, Label: "chair", Verb: "Adjust", Icon: "🪑"},
			{ClassID: 57, Label: "couch", Aliases: []string{"sofa"}, Verb: "Shift", Icon: "🛋️"},
			{ClassID: 58, Label: "potted plant", Aliases: []string{"houseplant"}, Verb: "Move", Icon: "🌼"},
			{ClassID: 59, Label: "bed", Verb: "Reposition", Icon: "🛏️"},
			{ClassID: 60, Label: "table", Aliases: []string{"center table", "dining table", "coffee table"}, Verb: "Reposition", Icon: "🧺"},
			{ClassID: 61, Label: "lamp", Aliases: []string{"table lamp"}, Verb: "Adjust", Icon: "💡"},
			{ClassID: 62, Label: "carpet", Aliases: []string{"rug"}, Verb: "Reposition", Icon: "🧶"},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("vocab: invalid default vocabulary: %v", err))
	}
	return v
}

// New validates f and builds a Vocabulary from it.
func New(f File) (*Vocabulary, error) {
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("vocabulary has no categories")
	}

	v := &Vocabulary{
		categories:  make([]Category, 0, len(f.Categories)),
		byClass:     make(map[int]string),
		byName:      make(map[string]string),
		verbs:       make(map[string]string),
		icons:       make(map[string]string),
		defaultVerb: orDefault(f.DefaultVerb, DefaultVerb),
		defaultIcon: orDefault(f.DefaultIcon, DefaultIcon),
		affirmation: orDefault(f.Affirmation, DefaultAffirmation),
	}

	for i, c := range f.Categories {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			return nil, fmt.Errorf("category %d: empty label", i)
		}
		if c.ClassID >= 0 {
			if prev, ok := v.byClass[c.ClassID]; ok {
				return nil, fmt.Errorf("category %q: class id %d already used by %q", label, c.ClassID, prev)
			}
			v.byClass[c.ClassID] = label
		}

		names := append([]string{label}, c.Aliases...)
		for _, name := range names {
			key := normalize(name)
			if key == "" {
				return nil, fmt.Errorf("category %q: empty alias", label)
			}
			if prev, ok := v.byName[key]; ok {
				return nil, fmt.Errorf("name %q maps to both %q and %q", name, prev, label)
			}
			v.byName[key] = label
		}
		if c.Verb != "" {
			v.verbs[label] = c.Verb
		}
		if c.Icon != "" {
			v.icons[label] = c.Icon
		}

		cp := c
		cp.Label = label
		cp.Aliases = append([]string(nil), c.Aliases...)
		v.categories = append(v.categories, cp)
	}

	return v, nil
}

// Parse reads a JSON vocabulary.
func Parse(r io.Reader) (*Vocabulary, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	return New(f)
}

// Load reads a JSON vocabulary from path.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// LabelForClass returns the canonical label of a whitelisted class id.
func (v *Vocabulary) LabelForClass(id int) (string, bool) {
	label, ok := v.byClass[id]
	return label, ok
}

// Canonical resolves a label or alias, case-insensitively, to its canonical
// label.
func (v *Vocabulary) Canonical(name string) (string, bool) {
	label, ok := v.byName[normalize(name)]
	return label, ok
}

// Verb returns the suggestion verb for a label, or the default verb.
func (v *Vocabulary) Verb(label string) string {
	if canon, ok := v.Canonical(label); ok {
		label = canon
	}
	if verb, ok := v.verbs[label]; ok {
		return verb
	}
	return v.defaultVerb
}

// Icon returns the icon for a label, or the default icon.
func (v *Vocabulary) Icon(label string) string {
	if canon, ok := v.Canonical(label); ok {
		label = canon
	}
	if icon, ok := v.icons[label]; ok {
		return icon
	}
	return v.defaultIcon
}

// Affirmation is the message used when nothing needs to move.
func (v *Vocabulary) Affirmation() string {
	return v.affirmation
}

// Labels returns the canonical labels in declaration order.
func (v *Vocabulary) Labels() []string {
	labels := make([]string, len(v.categories))
	for i, c := range v.categories {
		labels[i] = c.Label
	}
	return labels
}

// File returns a copy of the vocabulary in its JSON form.
func (v *Vocabulary) File() File {
	cats := make([]Category, len(v.categories))
	for i, c := range v.categories {
		cats[i] = c
		cats[i].Aliases = append([]string(nil), c.Aliases...)
	}
	return File{
		DefaultVerb: v.defaultVerb,
		DefaultIcon: v.defaultIcon,
		Affirmation: v.affirmation,
		Categories:  cats,
	}
}

// ClassIDs returns the whitelisted class ids in ascending order.
func (v *Vocabulary) ClassIDs() []int {
	ids := make([]int, 0, len(v.byClass))
	for id := range v.byClass {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
