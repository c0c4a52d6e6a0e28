package modulecontent_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainware/module-content/pkg/modulecontent"
	repomemory "github.com/trainware/module-content/pkg/modulecontent/repo/memory"
	memorystorage "github.com/trainware/module-content/pkg/modulecontent/storage/memory"
)

type captureNotifier struct {
	notifications []modulecontent.Notification
}

func (n *captureNotifier) Notify(ctx context.Context, notif modulecontent.Notification) error {
	n.notifications = append(n.notifications, notif)
	return nil
}

type testEnv struct {
	repo     *repomemory.Repository
	store    *memorystorage.Backend
	notifier *captureNotifier
	svc      modulecontent.Service
}

func setupTestService(t *testing.T, opts ...modulecontent.Option) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:     repomemory.New(),
		store:    memorystorage.New(),
		notifier: &captureNotifier{},
	}

	options := append([]modulecontent.Option{
		modulecontent.WithRepository(env.repo),
		modulecontent.WithBlobStore(env.store),
		modulecontent.WithNotifier(env.notifier),
	}, opts...)

	svc, err := modulecontent.New(options...)
	require.NoError(t, err)
	env.svc = svc
	return env
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []modulecontent.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []modulecontent.Option{},
			expectError: true,
		},
		{
			name: "repository alone should fail",
			options: []modulecontent.Option{
				modulecontent.WithRepository(repomemory.New()),
			},
			expectError: true,
		},
		{
			name: "repository and blob store should succeed",
			options: []modulecontent.Option{
				modulecontent.WithRepository(repomemory.New()),
				modulecontent.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := modulecontent.New(tt.options...)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func quizDocument(marks ...int) *modulecontent.ContentDocument {
	doc := modulecontent.NewContentDocument()
	slide := modulecontent.Slide{ID: "q-slide"}
	for i, m := range marks {
		slide.Elements = append(slide.Elements, modulecontent.Element{
			ID:    "q-" + string(rune('a'+i)),
			Kind:  modulecontent.ElementKindQuiz,
			Text:  "Question",
			Marks: m,
			Options: []modulecontent.QuizOption{
				{ID: "o1", Text: "Yes", Correct: true},
				{ID: "o2", Text: "No"},
			},
		})
	}
	doc.Assessment = []modulecontent.Slide{slide}
	return doc
}

func TestSaveModuleRecomputesTotalMarks(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	m, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		Title:      "Quiz Module",
		Kind:       modulecontent.ModuleKindTest,
		PassMarks:  5,
		TotalMarks: 999, // display cache, must be ignored
		Document:   quizDocument(2, 3, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, m.TotalMarks)

	stored, err := env.repo.GetModule(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.TotalMarks)
}

func TestSaveModuleWritesSnapshot(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	m, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		Title:    "Snapshot Module",
		Kind:     modulecontent.ModuleKindTraining,
		Document: sampleDocument(),
	})
	require.NoError(t, err)

	key := modulecontent.SnapshotKey(m.ID)
	assert.Equal(t, key, m.FileSource)

	data, err := env.store.Get(ctx, key)
	require.NoError(t, err)

	snap, err := modulecontent.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, m.ID, snap.ModuleID)
	assert.Equal(t, "Snapshot Module", snap.Title)
	assert.Len(t, snap.Training, 1)

	stored, err := env.repo.GetModule(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, key, stored.FileSource)
}

func TestSaveModuleSnapshotFailureIsNonFatal(t *testing.T) {
	env := setupTestService(t)
	// Swap in a service whose store refuses writes.
	svc, err := modulecontent.New(
		modulecontent.WithRepository(env.repo),
		modulecontent.WithBlobStore(putRefusingStore{env.store}),
	)
	require.NoError(t, err)

	m, err := svc.SaveModule(context.Background(), modulecontent.SaveModuleRequest{
		Title:    "Unlucky Module",
		Kind:     modulecontent.ModuleKindTraining,
		Document: sampleDocument(),
	})
	require.NoError(t, err)
	assert.Empty(t, m.FileSource)

	stored, err := env.repo.GetModule(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unlucky Module", stored.Title)
}

type putRefusingStore struct {
	*memorystorage.Backend
}

func (s putRefusingStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return &modulecontent.StorageError{Backend: "memory", Key: key, Op: "put", Err: assert.AnError}
}

func TestSaveModuleRelocatesProvisionalAssets(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	// The editor guessed module id 41 and uploaded against it, but the
	// insert will assign 57.
	env.repo.SetNextID(57)
	require.NoError(t, env.store.Put(ctx,
		"41/training/image/a.png", []byte("img"), "image/png"))

	m, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		ProvisionalID: 41,
		Title:         "Relocated Module",
		Kind:          modulecontent.ModuleKindTraining,
		Document:      sampleDocument(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(57), m.ID)

	data, err := env.store.Get(ctx, "57/training/image/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)

	_, err = env.store.Get(ctx, "41/training/image/a.png")
	assert.ErrorIs(t, err, modulecontent.ErrObjectNotFound)
}

func TestSaveModuleSkipsRelocationWhenIDsMatch(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	env.repo.SetNextID(41)
	require.NoError(t, env.store.Put(ctx,
		"41/training/image/a.png", []byte("img"), "image/png"))

	m, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		ProvisionalID: 41,
		Title:         "Lucky Guess",
		Kind:          modulecontent.ModuleKindTraining,
		Document:      sampleDocument(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(41), m.ID)

	_, err = env.store.Get(ctx, "41/training/image/a.png")
	assert.NoError(t, err)
}

func TestSaveModuleUpdateExisting(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	created, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		Title:    "First Title",
		Kind:     modulecontent.ModuleKindTraining,
		Document: sampleDocument(),
	})
	require.NoError(t, err)

	updated, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		ModuleID:  &created.ID,
		Title:     "Second Title",
		Kind:      modulecontent.ModuleKindCombined,
		PassMarks: 4,
		Document:  quizDocument(7),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Second Title", updated.Title)
	assert.Equal(t, 7, updated.TotalMarks)

	stored, err := env.repo.GetModule(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second Title", stored.Title)
}

func TestSaveModuleUpdateMissingFails(t *testing.T) {
	env := setupTestService(t)
	missing := int64(404)

	_, err := env.svc.SaveModule(context.Background(), modulecontent.SaveModuleRequest{
		ModuleID: &missing,
		Title:    "Ghost",
		Kind:     modulecontent.ModuleKindTraining,
	})
	assert.ErrorIs(t, err, modulecontent.ErrModuleNotFound)
}

func TestSaveModulePublishNotifies(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	m, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		Title:    "Published Module",
		Kind:     modulecontent.ModuleKindTraining,
		Document: sampleDocument(),
		Publish:  true,
	})
	require.NoError(t, err)
	assert.True(t, m.Published)

	require.Len(t, env.notifier.notifications, 1)
	n := env.notifier.notifications[0]
	assert.Equal(t, "module_published", n.Kind)
	assert.Equal(t, "Published Module", n.Title)
}

func TestSaveModuleWithoutPublishDoesNotNotify(t *testing.T) {
	env := setupTestService(t)

	_, err := env.svc.SaveModule(context.Background(), modulecontent.SaveModuleRequest{
		Title:    "Draft Module",
		Kind:     modulecontent.ModuleKindTraining,
		Document: sampleDocument(),
	})
	require.NoError(t, err)
	assert.Empty(t, env.notifier.notifications)
}

func TestSaveModuleAssignsStableIdentifiers(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()

	doc := modulecontent.NewContentDocument()
	doc.Training = []modulecontent.Slide{
		{Title: "No IDs yet", Elements: []modulecontent.Element{
			{Kind: modulecontent.ElementKindText, Text: "hello"},
		}},
	}

	m, err := env.svc.SaveModule(ctx, modulecontent.SaveModuleRequest{
		Title:    "ID Module",
		Kind:     modulecontent.ModuleKindTraining,
		Document: doc,
	})
	require.NoError(t, err)

	var stored modulecontent.ContentDocument
	require.NoError(t, json.Unmarshal(m.Content, &stored))
	require.Len(t, stored.Training, 1)
	assert.NotEmpty(t, stored.Training[0].ID)
	require.Len(t, stored.Training[0].Elements, 1)
	assert.NotEmpty(t, stored.Training[0].Elements[0].ID)
}

func TestComputeTotalMarks(t *testing.T) {
	assert.Equal(t, 0, modulecontent.ComputeTotalMarks(nil))
	assert.Equal(t, 0, modulecontent.ComputeTotalMarks(modulecontent.NewContentDocument()))
	assert.Equal(t, 10, modulecontent.ComputeTotalMarks(quizDocument(2, 3, 5)))

	// Marks on training quizzes do not count toward the assessment total.
	doc := quizDocument(4)
	doc.Training = doc.Assessment
	doc.Assessment = []modulecontent.Slide{}
	assert.Equal(t, 0, modulecontent.ComputeTotalMarks(doc))
}
