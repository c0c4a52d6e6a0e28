package modulecontent

import (
	"context"
	"encoding/json"
)

// LoadModule reconstructs a module's content through the ordered fallback
// chain: relational record, linked module, canonical snapshot, legacy
// export. Each step fills only what the previous steps left empty, every
// storage failure inside the chain counts as "this step found nothing", and
// the result may still have empty sections — the editing surface re-authors
// rather than erroring.
func (s *service) LoadModule(ctx context.Context, id int64) (*Module, error) {
	return s.loadModule(ctx, id, 0)
}

// linked-module recursion is bounded to one level so a module can never be
// its own transitive link.
const maxLinkDepth = 1

func (s *service) loadModule(ctx context.Context, id int64, depth int) (*Module, error) {
	m, err := s.repository.GetModule(ctx, id)
	if err != nil {
		return nil, &ModuleError{ModuleID: id, Op: "load", Err: err}
	}

	// Step 1: whatever the relational copy holds, legacy-migrated if needed.
	doc := s.recordDocument(m)

	if len(doc.Training) > 0 && len(doc.Assessment) > 0 {
		return s.withDocument(m, doc), nil
	}

	// Step 2: borrow the paired module's assessment body.
	if len(doc.Assessment) == 0 && m.LinkedModuleID != nil && depth < maxLinkDepth && *m.LinkedModuleID != id {
		s.borrowFromLinked(ctx, m, doc, depth)
	}

	// Step 3: the canonical snapshot.
	if len(doc.Assessment) == 0 || len(doc.Training) == 0 {
		s.adoptSnapshot(ctx, m, doc)
	}

	// Step 4: legacy flat-text exports and their language siblings.
	if len(doc.Assessment) == 0 {
		s.recoverLegacyExport(ctx, m, doc)
	}

	return s.withDocument(m, doc), nil
}

// recordDocument decodes the record's content field, tolerating empty,
// malformed, and legacy-shaped data.
func (s *service) recordDocument(m *Module) *ContentDocument {
	if len(m.Content) == 0 {
		return NewContentDocument()
	}
	doc, err := DecodeDocument(m.Content, m.Kind.IsTest())
	if err != nil {
		s.logger.Debug("record content unusable, falling back", "module_id", m.ID, "err", err)
		return NewContentDocument()
	}
	return doc
}

func (s *service) borrowFromLinked(ctx context.Context, m *Module, doc *ContentDocument, depth int) {
	linked, err := s.loadModule(ctx, *m.LinkedModuleID, depth+1)
	if err != nil {
		s.logger.Debug("linked module unavailable", "module_id", m.ID, "linked_id", *m.LinkedModuleID, "err", err)
		return
	}

	var ldoc ContentDocument
	if err := json.Unmarshal(linked.Content, &ldoc); err != nil {
		s.logger.Debug("linked module content unusable", "module_id", m.ID, "linked_id", *m.LinkedModuleID, "err", err)
		return
	}
	if len(ldoc.Assessment) > 0 {
		doc.Assessment = ldoc.Assessment
	}
	if m.PassMarks == 0 {
		m.PassMarks = linked.PassMarks
	}
	if m.TotalMarks == 0 {
		m.TotalMarks = linked.TotalMarks
	}
}

func (s *service) adoptSnapshot(ctx context.Context, m *Module, doc *ContentDocument) {
	raw, err := s.fetch(ctx, SnapshotKey(m.ID))
	if err != nil {
		s.logger.Debug("snapshot unavailable", "module_id", m.ID, "err", err)
		return
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		s.logger.Debug("snapshot undecodable", "module_id", m.ID, "err", err)
		return
	}

	sdoc := snap.Document()
	if len(doc.Assessment) == 0 && len(sdoc.Assessment) > 0 {
		doc.Assessment = sdoc.Assessment
	}
	if len(doc.Training) == 0 && len(sdoc.Training) > 0 {
		doc.Training = sdoc.Training
	}
	doc.Translations = MergeTranslations(doc.Translations, sdoc.Translations)
}

// legacyExport is the shape of the old per-language flat-text export.
type legacyExport struct {
	Slides []Slide `json:"slides"`
}

type legacyLanguages struct {
	Translations TranslationSet `json:"translations"`
}

func (s *service) recoverLegacyExport(ctx context.Context, m *Module, doc *ContentDocument) {
	found := false
	for _, key := range LegacyExportKeys(m.ID, m.Title) {
		raw, err := s.fetch(ctx, key)
		if err != nil {
			continue
		}
		var export legacyExport
		if err := json.Unmarshal(raw, &export); err != nil || len(export.Slides) == 0 {
			s.logger.Debug("legacy export unusable", "module_id", m.ID, "key", key)
			continue
		}

		slides := make([]Slide, 0, len(export.Slides))
		for _, slide := range export.Slides {
			slide.Elements = SynthesizeElements(slide)
			slide.LegacyText = ""
			slides = append(slides, slide)
		}
		doc.Assessment = slides
		found = true
		break
	}
	if !found {
		return
	}

	for _, key := range LegacyLanguageKeys(m.ID, m.Title) {
		raw, err := s.fetch(ctx, key)
		if err != nil {
			continue
		}
		var langs legacyLanguages
		if err := json.Unmarshal(raw, &langs); err != nil || langs.Translations == nil {
			// Oldest exports store the map at the top level.
			var bare TranslationSet
			if err := json.Unmarshal(raw, &bare); err != nil || bare == nil {
				continue
			}
			langs.Translations = bare
		}
		doc.Translations = MergeTranslations(doc.Translations, langs.Translations)
		break
	}
}

// fetch wraps a recovery read with the per-attempt timeout so a dead storage
// endpoint cannot stall the chain.
func (s *service) fetch(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTime)
	defer cancel()
	return s.fetcher.Fetch(ctx, key)
}

func (s *service) withDocument(m *Module, doc *ContentDocument) *Module {
	raw, err := json.Marshal(doc)
	if err != nil {
		raw = nil
	}
	m.Content = raw
	return m
}

// MergeTranslations folds recovered translations into the accumulated set.
// Precedence is first-found: entries already present win per field, so a
// source earlier in the fallback chain is never overwritten by a later one.
func MergeTranslations(into, from TranslationSet) TranslationSet {
	if len(from) == 0 {
		return into
	}
	if into == nil {
		into = TranslationSet{}
	}
	for lang, slides := range from {
		if into[lang] == nil {
			into[lang] = map[string]SlideTranslation{}
		}
		for slideID, tr := range slides {
			existing, ok := into[lang][slideID]
			if !ok {
				into[lang][slideID] = tr
				continue
			}
			if existing.Title == "" {
				existing.Title = tr.Title
			}
			if existing.Narration == "" {
				existing.Narration = tr.Narration
			}
			for elID, text := range tr.Elements {
				if existing.Elements == nil {
					existing.Elements = map[string]string{}
				}
				if _, ok := existing.Elements[elID]; !ok {
					existing.Elements[elID] = text
				}
			}
			into[lang][slideID] = existing
		}
	}
	return into
}
