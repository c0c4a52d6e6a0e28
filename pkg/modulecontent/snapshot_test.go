package modulecontent_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainware/module-content/pkg/modulecontent"
)

func sampleDocument() *modulecontent.ContentDocument {
	return &modulecontent.ContentDocument{
		Training: []modulecontent.Slide{
			{
				ID:        "slide-t1",
				Title:     "Welcome",
				Narration: "Welcome to the course.",
				Elements: []modulecontent.Element{
					{
						ID:   "el-1",
						Kind: modulecontent.ElementKindText,
						Text: "Hello",
						Style: &modulecontent.ElementStyle{
							Size: 24,
							Bold: true,
							Animation: &modulecontent.Animation{
								Name:    "fade-in",
								DelayMS: 0,
							},
						},
					},
					{
						ID:       "el-2",
						Kind:     modulecontent.ElementKindImage,
						ImageKey: "7/training/image/intro.png",
					},
				},
			},
		},
		Assessment: []modulecontent.Slide{
			{
				ID:    "slide-a1",
				Title: "Question 1",
				Elements: []modulecontent.Element{
					{
						ID:    "el-q1",
						Kind:  modulecontent.ElementKindQuiz,
						Text:  "What color is the sky?",
						Marks: 5,
						Options: []modulecontent.QuizOption{
							{ID: "opt-1", Text: "Blue", Correct: true},
							{ID: "opt-2", Text: "Green"},
						},
					},
				},
			},
		},
		Translations: modulecontent.TranslationSet{
			"es": {
				"slide-t1": {
					Title:     "Bienvenido",
					Narration: "Bienvenido al curso.",
					Elements:  map[string]string{"el-1": "Hola"},
				},
			},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := &modulecontent.Module{
		ID:         7,
		Title:      "Fire Safety",
		Slug:       "fire-safety",
		Kind:       modulecontent.ModuleKindCombined,
		PassMarks:  3,
		TotalMarks: 5,
	}
	doc := sampleDocument()

	data, err := modulecontent.EncodeSnapshot(m, doc)
	require.NoError(t, err)

	snap, err := modulecontent.DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, modulecontent.SnapshotVersion, snap.Version)
	assert.Equal(t, int64(7), snap.ModuleID)
	assert.Equal(t, "Fire Safety", snap.Title)
	assert.Equal(t, modulecontent.ModuleKindCombined, snap.Kind)
	assert.Equal(t, 5, snap.TotalMarks)
	assert.False(t, snap.SavedAt.IsZero())

	require.Equal(t, doc, snap.Document())
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want modulecontent.Shape
	}{
		{
			name: "structured document",
			raw:  `{"training":[],"assessment":[]}`,
			want: modulecontent.ShapeStructured,
		},
		{
			name: "structured with one section key",
			raw:  `{"assessment":[{"id":"s1","elements":[]}]}`,
			want: modulecontent.ShapeStructured,
		},
		{
			name: "versioned envelope",
			raw:  `{"version":2,"module_id":3}`,
			want: modulecontent.ShapeStructured,
		},
		{
			name: "legacy flat slide array",
			raw:  `[{"id":"s1","title":"Old","elements":[]}]`,
			want: modulecontent.ShapeLegacySlides,
		},
		{
			name: "empty input",
			raw:  ``,
			want: modulecontent.ShapeUnknown,
		},
		{
			name: "object with no recognized keys",
			raw:  `{"foo":"bar"}`,
			want: modulecontent.ShapeUnknown,
		},
		{
			name: "not json at all",
			raw:  `hello world`,
			want: modulecontent.ShapeUnknown,
		},
		{
			name: "truncated json",
			raw:  `{"training": [`,
			want: modulecontent.ShapeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modulecontent.DetectShape([]byte(tt.raw)))
		})
	}
}

func TestMigrateLegacy(t *testing.T) {
	slides := []modulecontent.Slide{
		{ID: "s1", Title: "One"},
		{ID: "s2", Title: "Two"},
	}

	t.Run("training module keeps slides in training", func(t *testing.T) {
		doc := modulecontent.MigrateLegacy(slides, false)
		assert.Equal(t, slides, doc.Training)
		assert.Empty(t, doc.Assessment)
		assert.NotNil(t, doc.Assessment)
	})

	t.Run("test module keeps slides in assessment", func(t *testing.T) {
		doc := modulecontent.MigrateLegacy(slides, true)
		assert.Equal(t, slides, doc.Assessment)
		assert.Empty(t, doc.Training)
		assert.NotNil(t, doc.Training)
	})

	t.Run("never splits across sections", func(t *testing.T) {
		for _, wasTest := range []bool{true, false} {
			doc := modulecontent.MigrateLegacy(slides, wasTest)
			assert.Equal(t, len(slides), len(doc.Training)+len(doc.Assessment))
		}
	})

	t.Run("nil slides become empty section", func(t *testing.T) {
		doc := modulecontent.MigrateLegacy(nil, false)
		assert.NotNil(t, doc.Training)
		assert.Empty(t, doc.Training)
	})
}

func TestDecodeDocument(t *testing.T) {
	t.Run("legacy array routed by module kind", func(t *testing.T) {
		raw := `[{"id":"s1","title":"Old quiz","elements":[]}]`

		doc, err := modulecontent.DecodeDocument([]byte(raw), true)
		require.NoError(t, err)
		assert.Len(t, doc.Assessment, 1)
		assert.Empty(t, doc.Training)

		doc, err = modulecontent.DecodeDocument([]byte(raw), false)
		require.NoError(t, err)
		assert.Len(t, doc.Training, 1)
		assert.Empty(t, doc.Assessment)
	})

	t.Run("structured document passes through", func(t *testing.T) {
		original := sampleDocument()
		raw, err := json.Marshal(original)
		require.NoError(t, err)

		doc, err := modulecontent.DecodeDocument(raw, false)
		require.NoError(t, err)
		assert.Equal(t, original, doc)
	})

	t.Run("malformed content is reported, not panicked", func(t *testing.T) {
		_, err := modulecontent.DecodeDocument([]byte(`{"nope":true}`), false)
		assert.ErrorIs(t, err, modulecontent.ErrMalformedContent)
	})
}

func TestSynthesizeElements(t *testing.T) {
	t.Run("three paragraphs produce three text elements", func(t *testing.T) {
		slide := modulecontent.Slide{
			ID:         "s1",
			LegacyText: "Heading text\n\nBody line one.\n\nBody line two.",
		}

		elements := modulecontent.SynthesizeElements(slide)
		require.Len(t, elements, 3)

		assert.Equal(t, "Heading text", elements[0].Text)
		assert.Equal(t, modulecontent.ElementKindText, elements[0].Kind)
		require.NotNil(t, elements[0].Style)
		assert.True(t, elements[0].Style.Bold)
		assert.Greater(t, elements[0].Style.Size, elements[1].Style.Size)

		assert.Equal(t, "Body line one.", elements[1].Text)
		assert.False(t, elements[1].Style.Bold)

		for i, el := range elements {
			require.NotNil(t, el.Style.Animation)
			assert.Equal(t, "fade-in", el.Style.Animation.Name)
			assert.Equal(t, i*300, el.Style.Animation.DelayMS)
			assert.NotEmpty(t, el.ID)
		}
	})

	t.Run("blank paragraphs are skipped", func(t *testing.T) {
		slide := modulecontent.Slide{LegacyText: "First\n\n\n\n  \n\nSecond"}
		elements := modulecontent.SynthesizeElements(slide)
		require.Len(t, elements, 2)
		assert.Equal(t, "First", elements[0].Text)
		assert.Equal(t, "Second", elements[1].Text)
	})

	t.Run("empty text yields no elements", func(t *testing.T) {
		assert.Empty(t, modulecontent.SynthesizeElements(modulecontent.Slide{}))
	})
}
