package modulecontent

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
)

const archiveContentName = "content.json"

// ImportArchive creates a new module from a zip archive holding a content
// document in the snapshot shape. The embedded module identifier is
// discarded (the repository assigns a fresh one) and the module starts
// unpublished regardless of what the archive claims.
func (s *service) ImportArchive(ctx context.Context, archive []byte) (*Module, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, &ModuleError{Op: "import", Err: err}
	}

	data, err := readArchiveDocument(reader)
	if err != nil {
		return nil, &ModuleError{Op: "import", Err: err}
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, &ModuleError{Op: "import", Err: err}
	}

	kind := snap.Kind
	if kind == "" {
		kind = ModuleKindTraining
	}

	return s.SaveModule(ctx, SaveModuleRequest{
		Title:     snap.Title,
		Slug:      snap.Slug,
		Kind:      kind,
		PassMarks: snap.PassMarks,
		Document:  snap.Document(),
	})
}

// ExportArchive loads the module through the recovery chain and zips its
// canonical snapshot, so exports round-trip through the same codec imports
// read with.
func (s *service) ExportArchive(ctx context.Context, id int64) ([]byte, error) {
	m, err := s.LoadModule(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(m.Content, m.Kind.IsTest())
	if err != nil {
		doc = NewContentDocument()
	}

	data, err := EncodeSnapshot(m, doc)
	if err != nil {
		return nil, &ModuleError{ModuleID: id, Op: "export", Err: err}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(archiveContentName)
	if err != nil {
		return nil, &ModuleError{ModuleID: id, Op: "export", Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return nil, &ModuleError{ModuleID: id, Op: "export", Err: err}
	}
	if err := zw.Close(); err != nil {
		return nil, &ModuleError{ModuleID: id, Op: "export", Err: err}
	}
	return buf.Bytes(), nil
}

func readArchiveDocument(reader *zip.Reader) ([]byte, error) {
	var fallback *zip.File
	for _, f := range reader.File {
		if f.Name == archiveContentName {
			return readZipFile(f)
		}
		if fallback == nil && strings.HasSuffix(f.Name, ".json") {
			fallback = f
		}
	}
	if fallback != nil {
		return readZipFile(fallback)
	}
	return nil, ErrEmptyArchive
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
