package modulecontent

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Shape classifies raw content bytes.
type Shape int

const (
	// ShapeUnknown matches nothing we recognize; treated as empty content.
	ShapeUnknown Shape = iota
	// ShapeStructured is the current two-section document (or its snapshot
	// envelope, which carries the same section keys).
	ShapeStructured
	// ShapeLegacySlides is the pre-section flat slide array.
	ShapeLegacySlides
)

// EncodeSnapshot wraps the document in the versioned envelope and serializes
// it. The envelope denormalizes record fields so the document survives a
// cleared relational copy.
func EncodeSnapshot(m *Module, doc *ContentDocument) ([]byte, error) {
	if doc == nil {
		doc = NewContentDocument()
	}
	snap := Snapshot{
		Version:      SnapshotVersion,
		ModuleID:     m.ID,
		Title:        m.Title,
		Slug:         m.Slug,
		Kind:         m.Kind,
		PassMarks:    m.PassMarks,
		TotalMarks:   m.TotalMarks,
		Training:     doc.Training,
		Assessment:   doc.Assessment,
		Translations: doc.Translations,
		SavedAt:      time.Now().UTC(),
	}
	if snap.Training == nil {
		snap.Training = []Slide{}
	}
	if snap.Assessment == nil {
		snap.Assessment = []Slide{}
	}
	return json.Marshal(snap)
}

// DecodeSnapshot parses a snapshot envelope. Structural anomalies fall back
// to shape detection instead of failing: a bare structured document decodes
// as a version-0 envelope, a legacy slide array decodes with the array
// placed by MigrateLegacy using the envelope's recorded kind (absent for
// legacy data, so training).
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	switch DetectShape(data) {
	case ShapeStructured:
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, ErrMalformedContent
		}
		if snap.Training == nil {
			snap.Training = []Slide{}
		}
		if snap.Assessment == nil {
			snap.Assessment = []Slide{}
		}
		return &snap, nil
	case ShapeLegacySlides:
		var slides []Slide
		if err := json.Unmarshal(data, &slides); err != nil {
			return nil, ErrMalformedContent
		}
		doc := MigrateLegacy(slides, false)
		return &Snapshot{
			Training:   doc.Training,
			Assessment: doc.Assessment,
		}, nil
	default:
		return nil, ErrMalformedContent
	}
}

// DetectShape inspects raw content bytes. A top-level array is the legacy
// flat slide shape; an object carrying either section key (or a version tag)
// is structured; anything else is unknown.
func DetectShape(raw []byte) Shape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ShapeUnknown
	}
	switch trimmed[0] {
	case '[':
		var slides []Slide
		if err := json.Unmarshal(trimmed, &slides); err != nil {
			return ShapeUnknown
		}
		return ShapeLegacySlides
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return ShapeUnknown
		}
		if _, ok := probe["training"]; ok {
			return ShapeStructured
		}
		if _, ok := probe["assessment"]; ok {
			return ShapeStructured
		}
		if _, ok := probe["version"]; ok {
			return ShapeStructured
		}
		return ShapeUnknown
	default:
		return ShapeUnknown
	}
}

// DecodeDocument parses raw content of either recognized shape into a
// structured document. wasTest routes a legacy flat array into the
// assessment section. Unrecognized content returns ErrMalformedContent; the
// recovery chain treats that as an empty step, never as a failure.
func DecodeDocument(data []byte, wasTest bool) (*ContentDocument, error) {
	switch DetectShape(data) {
	case ShapeStructured:
		snap, err := DecodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		return snap.Document(), nil
	case ShapeLegacySlides:
		var slides []Slide
		if err := json.Unmarshal(data, &slides); err != nil {
			return nil, ErrMalformedContent
		}
		return MigrateLegacy(slides, wasTest), nil
	default:
		return nil, ErrMalformedContent
	}
}

// MigrateLegacy places a flat slide array into a structured document. A
// module was historically exclusively training or exclusively assessment,
// so the whole array lands in exactly one section and the other stays empty.
func MigrateLegacy(slides []Slide, wasTest bool) *ContentDocument {
	if slides == nil {
		slides = []Slide{}
	}
	doc := NewContentDocument()
	if wasTest {
		doc.Assessment = slides
	} else {
		doc.Training = slides
	}
	return doc
}

// Styling applied to elements synthesized from legacy export text. Exports
// carry no element metadata, so the first paragraph is promoted to a title
// and everything fades in staggered by position.
const (
	synthTitleSize    = 32
	synthBodySize     = 18
	synthAnimation    = "fade-in"
	synthStaggerDelay = 300
)

// SynthesizeElements converts a legacy export slide's plain text into text
// elements, one per paragraph (blank-line separated). The first paragraph is
// emphasized as a title; the rest are body text.
func SynthesizeElements(slide Slide) []Element {
	paragraphs := strings.Split(slide.LegacyText, "\n\n")
	elements := make([]Element, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		idx := len(elements)
		style := &ElementStyle{
			Size: synthBodySize,
			Animation: &Animation{
				Name:    synthAnimation,
				DelayMS: idx * synthStaggerDelay,
			},
		}
		if idx == 0 {
			style.Size = synthTitleSize
			style.Bold = true
		}
		elements = append(elements, Element{
			ID:    uuid.New().String(),
			Kind:  ElementKindText,
			Text:  p,
			Style: style,
		})
	}
	return elements
}
