package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/trainware/module-content/pkg/modulecontent"
)

const defaultPageSize = 1000

// Backend is an in-memory implementation of the modulecontent.BlobStore
// interface, used by tests and development servers.
type Backend struct {
	mu          sync.RWMutex
	objects     map[string][]byte
	contentType map[string]string
	pageSize    int
}

// Option configures the in-memory backend.
type Option func(*Backend)

// WithPageSize sets the listing page size. Tests use small pages to exercise
// continuation-token handling.
func WithPageSize(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.pageSize = n
		}
	}
}

// New creates a new in-memory storage backend
func New(opts ...Option) *Backend {
	b := &Backend{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
		pageSize:    defaultPageSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Put writes data at key.
func (b *Backend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.objects[key] = stored
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.contentType[key] = contentType
	return nil
}

// Get reads the object at key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, &modulecontent.StorageError{Backend: "memory", Key: key, Op: "get", Err: modulecontent.ErrObjectNotFound}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ListPage returns one page of keys under prefix in lexical order. The
// continuation token is the last key of the previous page, so the listing
// resumes after it even when keys from earlier pages have been deleted in
// the meantime. This mirrors ListObjectsV2 token semantics.
func (b *Backend) ListPage(ctx context.Context, prefix, token string) ([]string, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if token != "" {
		start = sort.SearchStrings(keys, token)
		if start < len(keys) && keys[start] == token {
			start++
		}
	}
	if start >= len(keys) {
		return nil, "", nil
	}

	end := start + b.pageSize
	next := ""
	if end < len(keys) {
		next = keys[end-1]
	} else {
		end = len(keys)
	}
	return keys[start:end], next, nil
}

// Copy duplicates the object at srcKey to dstKey.
func (b *Backend) Copy(ctx context.Context, srcKey, dstKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, exists := b.objects[srcKey]
	if !exists {
		return &modulecontent.StorageError{Backend: "memory", Key: srcKey, Op: "copy", Err: modulecontent.ErrObjectNotFound}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	b.objects[dstKey] = stored
	b.contentType[dstKey] = b.contentType[srcKey]
	return nil
}

// Delete removes the object at key. Deleting an absent key is a no-op so
// retried deletes stay idempotent.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)
	delete(b.contentType, key)
	return nil
}
