package modulecontent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const defaultFetchTimeout = 3 * time.Second

// service implements the Service interface
type service struct {
	repository  Repository
	store       BlobStore
	fetcher     Fetcher
	notifier    Notifier
	relocator   *Relocator
	logger      *slog.Logger
	fetchTime   time.Duration
	concurrency int
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the module record repository.
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object storage gateway.
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithFetcher sets the public-read fetcher used by the recovery chain.
// When unset, recovery reads through the blob store gateway instead.
func WithFetcher(f Fetcher) Option {
	return func(s *service) {
		s.fetcher = f
	}
}

// WithNotifier sets the publish notification sink.
func WithNotifier(n Notifier) Option {
	return func(s *service) {
		s.notifier = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *service) {
		s.logger = l
	}
}

// WithFetchTimeout bounds each recovery-chain fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *service) {
		s.fetchTime = d
	}
}

// WithRelocationConcurrency bounds the relocation copy/delete fan-out.
func WithRelocationConcurrency(n int) Option {
	return func(s *service) {
		s.concurrency = n
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		fetchTime: defaultFetchTimeout,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.store == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.fetcher == nil {
		s.fetcher = StoreFetcher{Store: s.store}
	}
	if s.notifier == nil {
		s.notifier = NoopNotifier{}
	}
	s.relocator = NewRelocator(s.store, s.logger, s.concurrency)

	return s, nil
}

// SaveModule persists the edited document to both stores. The relational
// write is authoritative for the operation's outcome; snapshot and
// relocation failures are logged and absorbed so the next recovery attempt
// falls further down the chain instead of the operator losing the save.
func (s *service) SaveModule(ctx context.Context, req SaveModuleRequest) (*Module, error) {
	doc := req.Document
	if doc == nil {
		doc = NewContentDocument()
	}
	normalizeDocument(doc)

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &ModuleError{Op: "save", Err: err}
	}

	now := time.Now().UTC()
	total := ComputeTotalMarks(doc)

	var m *Module
	created := false
	if req.ModuleID == nil {
		m = &Module{
			Title:          req.Title,
			Slug:           req.Slug,
			Kind:           req.Kind,
			Published:      req.Publish,
			PassMarks:      req.PassMarks,
			TotalMarks:     total,
			LinkedModuleID: req.LinkedModuleID,
			Content:        raw,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repository.CreateModule(ctx, m); err != nil {
			return nil, &ModuleError{Op: "create", Err: err}
		}
		created = true
	} else {
		m, err = s.repository.GetModule(ctx, *req.ModuleID)
		if err != nil {
			return nil, &ModuleError{ModuleID: *req.ModuleID, Op: "save", Err: err}
		}
		m.Title = req.Title
		m.Slug = req.Slug
		m.Kind = req.Kind
		m.PassMarks = req.PassMarks
		m.TotalMarks = total
		m.LinkedModuleID = req.LinkedModuleID
		m.Content = raw
		m.Published = m.Published || req.Publish
		m.UpdatedAt = now
		if err := s.repository.UpdateModule(ctx, m); err != nil {
			return nil, &ModuleError{ModuleID: m.ID, Op: "update", Err: err}
		}
	}

	if created && req.ProvisionalID != 0 && req.ProvisionalID != m.ID {
		if ok := s.relocator.RenamePrefix(ctx, ModulePrefix(req.ProvisionalID), ModulePrefix(m.ID)); !ok {
			s.logger.Warn("asset relocation incomplete, save continues",
				"provisional_id", req.ProvisionalID, "module_id", m.ID)
		}
	}

	s.writeSnapshot(ctx, m, doc)

	if req.Publish {
		s.notifyPublished(ctx, m)
	}

	return m, nil
}

// writeSnapshot encodes and puts the canonical snapshot, then moves the
// record's file_source pointer. Every failure here is non-fatal: the record
// is allowed to carry a missing or stale pointer.
func (s *service) writeSnapshot(ctx context.Context, m *Module, doc *ContentDocument) {
	key := SnapshotKey(m.ID)

	data, err := EncodeSnapshot(m, doc)
	if err != nil {
		s.logger.Error("snapshot encode failed", "module_id", m.ID, "err", err)
		return
	}
	if err := s.store.Put(ctx, key, data, "application/json"); err != nil {
		s.logger.Error("snapshot write failed", "module_id", m.ID, "key", key, "err", err)
		return
	}

	if m.FileSource != key {
		m.FileSource = key
		if err := s.repository.UpdateModule(ctx, m); err != nil {
			s.logger.Error("file_source update failed", "module_id", m.ID, "key", key, "err", err)
		}
	}
}

func (s *service) notifyPublished(ctx context.Context, m *Module) {
	n := Notification{
		Kind:    "module_published",
		Title:   m.Title,
		Message: fmt.Sprintf("Module %q is now available", m.Title),
		Link:    fmt.Sprintf("/modules/%d", m.ID),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("publish notification failed", "module_id", m.ID, "err", err)
	}
}

// ComputeTotalMarks sums the per-question mark values across the assessment
// section's quiz elements. The caller-supplied total is never trusted.
func ComputeTotalMarks(doc *ContentDocument) int {
	if doc == nil {
		return 0
	}
	total := 0
	for _, slide := range doc.Assessment {
		for _, el := range slide.Elements {
			if el.Kind == ElementKindQuiz {
				total += el.Marks
			}
		}
	}
	return total
}

// normalizeDocument ensures the document is structured and every slide,
// element and option carries a stable identifier. Identifiers are assigned
// once and then survive edits: translations key off them.
func normalizeDocument(doc *ContentDocument) {
	if doc.Training == nil {
		doc.Training = []Slide{}
	}
	if doc.Assessment == nil {
		doc.Assessment = []Slide{}
	}
	normalizeSlides(doc.Training)
	normalizeSlides(doc.Assessment)
}

func normalizeSlides(slides []Slide) {
	for i := range slides {
		if slides[i].ID == "" {
			slides[i].ID = uuid.New().String()
		}
		for j := range slides[i].Elements {
			el := &slides[i].Elements[j]
			if el.ID == "" {
				el.ID = uuid.New().String()
			}
			for k := range el.Options {
				if el.Options[k].ID == "" {
					el.Options[k].ID = uuid.New().String()
				}
			}
		}
	}
}
