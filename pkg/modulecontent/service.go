package modulecontent

import "context"

// Service is the module content persistence and recovery engine.
type Service interface {
	// SaveModule persists an edited document to the relational record and
	// the canonical snapshot, relocating provisionally-uploaded assets when
	// the real identifier differs from the one used during authoring.
	SaveModule(ctx context.Context, req SaveModuleRequest) (*Module, error)

	// LoadModule returns the module with its content reconstructed through
	// the ordered fallback chain. Missing content is never an error; only a
	// missing module record is.
	LoadModule(ctx context.Context, id int64) (*Module, error)

	// ImportArchive creates a new, unpublished module from a zip archive
	// containing a content document in the snapshot shape.
	ImportArchive(ctx context.Context, archive []byte) (*Module, error)

	// ExportArchive produces the inverse zip for a module.
	ExportArchive(ctx context.Context, id int64) ([]byte, error)
}
