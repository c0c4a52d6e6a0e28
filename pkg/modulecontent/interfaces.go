package modulecontent

import (
	"context"
)

// BlobStore is the thin contract over object-storage primitives. Every call
// is idempotent from the caller's perspective: a retried Put or Delete with
// the same key has no additional effect. Failures surface as *StorageError;
// callers decide whether a failure is fatal or just ends a fallback step.
type BlobStore interface {
	// Put writes data at key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get reads the object at key. Returns ErrObjectNotFound (wrapped) when
	// the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// ListPage returns one page of keys under prefix plus the continuation
	// token for the next page ("" when exhausted).
	ListPage(ctx context.Context, prefix, token string) (keys []string, next string, err error)

	// Copy duplicates the object at srcKey to dstKey.
	Copy(ctx context.Context, srcKey, dstKey string) error

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}

// ListAll follows continuation tokens until the listing under prefix is
// exhausted.
func ListAll(ctx context.Context, store BlobStore, prefix string) ([]string, error) {
	var all []string
	token := ""
	for {
		keys, next, err := store.ListPage(ctx, prefix, token)
		if err != nil {
			return nil, err
		}
		all = append(all, keys...)
		if next == "" {
			return all, nil
		}
		token = next
	}
}

// Repository defines the interface for module record persistence. The engine
// only needs point lookups and simple updates; joins and transactions stay
// with the host application.
type Repository interface {
	// CreateModule inserts the record and assigns Module.ID.
	CreateModule(ctx context.Context, module *Module) error

	// GetModule returns the record or ErrModuleNotFound (wrapped).
	GetModule(ctx context.Context, id int64) (*Module, error)

	// UpdateModule writes the mutable fields of an existing record.
	UpdateModule(ctx context.Context, module *Module) error
}

// Fetcher reads recovery sources over the public read path. Recovery fetches
// snapshots and legacy exports through plain HTTP against the bucket's
// public base URL rather than the authenticated gateway, since those reads
// are best-effort and may target historical content.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Notifier delivers fire-and-forget domain notifications. A failed
// notification never fails the operation that emitted it.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
