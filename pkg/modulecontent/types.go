package modulecontent

import (
	"encoding/json"
	"time"
)

// ModuleKind is the domain type for what a module teaches.
type ModuleKind string

// Module kind constants (typed).
const (
	ModuleKindTraining ModuleKind = "training"
	ModuleKindTest     ModuleKind = "test"
	ModuleKindCombined ModuleKind = "combined"
)

// IsTest reports whether the module historically carried assessment-only
// content. Used when deciding which section a legacy flat slide array
// belongs to.
func (k ModuleKind) IsTest() bool {
	return k == ModuleKindTest
}

// Module is the relational record for one training module.
//
// ID is assigned by the repository at insertion and is immutable afterwards.
// Content holds the raw persisted document; it may be empty, stale, or in the
// pre-section legacy shape, which is why readers go through the recovery
// chain instead of trusting it. FileSource points at the last snapshot the
// save path managed to write, and is allowed to lag behind.
type Module struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug,omitempty"`
	Kind           ModuleKind      `json:"kind"`
	Published      bool            `json:"published"`
	PassMarks      int             `json:"pass_marks"`
	TotalMarks     int             `json:"total_marks"`
	LinkedModuleID *int64          `json:"linked_module_id,omitempty"`
	Content        json.RawMessage `json:"content,omitempty"`
	FileSource     string          `json:"file_source,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ContentDocument is the in-memory structured content for one module: the
// training section, the assessment section, and per-language translations.
//
// A document is "structured" once both section slices are non-nil (they may
// be empty). Anything else is a legacy shape and must be migrated on read;
// the save path never writes the legacy shape back.
type ContentDocument struct {
	Training     []Slide        `json:"training"`
	Assessment   []Slide        `json:"assessment"`
	Translations TranslationSet `json:"translations,omitempty"`
}

// NewContentDocument returns an empty structured document.
func NewContentDocument() *ContentDocument {
	return &ContentDocument{
		Training:   []Slide{},
		Assessment: []Slide{},
	}
}

// IsStructured reports whether both sections exist.
func (d *ContentDocument) IsStructured() bool {
	return d != nil && d.Training != nil && d.Assessment != nil
}

// TranslationSet maps language code -> slide ID -> translated fields.
// Slide IDs are the join key; they must survive edits unchanged.
type TranslationSet map[string]map[string]SlideTranslation

// SlideTranslation carries the translated fields for one slide. Elements is
// keyed by element ID, the merge key when folding translated text back onto
// the base structure.
type SlideTranslation struct {
	Title     string            `json:"title,omitempty"`
	Narration string            `json:"narration,omitempty"`
	Elements  map[string]string `json:"elements,omitempty"`
}

// Slide is one ordered page of a section.
//
// LegacyText is only populated on slides decoded from the old flat-text
// export format; SynthesizeElements turns it into real elements during
// recovery.
type Slide struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	Narration  string    `json:"narration,omitempty"`
	Elements   []Element `json:"elements"`
	LegacyText string    `json:"content,omitempty"`
}

// ElementKind discriminates slide elements.
type ElementKind string

// Element kind constants (typed).
const (
	ElementKindText  ElementKind = "text"
	ElementKindImage ElementKind = "image"
	ElementKindQuiz  ElementKind = "quiz"
)

// Element is one piece of slide content. The ID is stable across edits and
// is the join key for translations. Marks is the per-question value for quiz
// elements; save recomputes the module total from these.
type Element struct {
	ID       string        `json:"id"`
	Kind     ElementKind   `json:"kind"`
	Text     string        `json:"text,omitempty"`
	ImageKey string        `json:"image_key,omitempty"`
	Marks    int           `json:"marks,omitempty"`
	Style    *ElementStyle `json:"style,omitempty"`
	Options  []QuizOption  `json:"options,omitempty"`
}

// ElementStyle carries display attributes for text and image elements.
type ElementStyle struct {
	Size      int        `json:"size,omitempty"`
	Color     string     `json:"color,omitempty"`
	Align     string     `json:"align,omitempty"`
	Bold      bool       `json:"bold,omitempty"`
	Animation *Animation `json:"animation,omitempty"`
}

// Animation describes an entrance animation for an element.
type Animation struct {
	Name    string `json:"name"`
	DelayMS int    `json:"delay_ms,omitempty"`
}

// QuizOption is one answer choice on a quiz element.
type QuizOption struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Snapshot is the canonical object-storage envelope for a module's content.
// It denormalizes enough of the record that the document can be rebuilt even
// when the relational copy has been cleared. The save orchestrator is its
// sole writer; recovery only reads it.
type Snapshot struct {
	Version      int            `json:"version"`
	ModuleID     int64          `json:"module_id"`
	Title        string         `json:"title,omitempty"`
	Slug         string         `json:"slug,omitempty"`
	Kind         ModuleKind     `json:"kind,omitempty"`
	PassMarks    int            `json:"pass_marks,omitempty"`
	TotalMarks   int            `json:"total_marks,omitempty"`
	Training     []Slide        `json:"training"`
	Assessment   []Slide        `json:"assessment"`
	Translations TranslationSet `json:"translations,omitempty"`
	SavedAt      time.Time      `json:"saved_at"`
}

// SnapshotVersion is the envelope version written by the current codec.
// Older documents without a version tag are handled by shape detection.
const SnapshotVersion = 2

// Document returns the content document carried by the snapshot.
func (s *Snapshot) Document() *ContentDocument {
	doc := &ContentDocument{
		Training:     s.Training,
		Assessment:   s.Assessment,
		Translations: s.Translations,
	}
	if doc.Training == nil {
		doc.Training = []Slide{}
	}
	if doc.Assessment == nil {
		doc.Assessment = []Slide{}
	}
	return doc
}

// Notification is a fire-and-forget domain event emitted on publish.
type Notification struct {
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	TargetRole string `json:"target_role,omitempty"`
	Link       string `json:"link,omitempty"`
}
