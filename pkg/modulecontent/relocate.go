package modulecontent

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultRelocateConcurrency = 8

// Relocator moves every object under one key prefix to another. It exists
// for exactly one situation: assets were uploaded against a provisional
// module identifier before the real one was assigned, and the two differ.
//
// The rename is not atomic. Each key is copied before its original is
// deleted, so a crash mid-run leaves the key under both prefixes rather
// than under neither; every failure is logged with the key so a partial run
// is detectable from the logs.
type Relocator struct {
	store       BlobStore
	logger      *slog.Logger
	concurrency int
}

// NewRelocator creates a relocator over the given store.
func NewRelocator(store BlobStore, logger *slog.Logger, concurrency int) *Relocator {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultRelocateConcurrency
	}
	return &Relocator{store: store, logger: logger, concurrency: concurrency}
}

// RenamePrefix lists oldPrefix page by page and moves each key to the same
// relative path under newPrefix. Copies and deletes within a page run
// concurrently up to the configured bound, but a key is never deleted before
// its own copy completed. Returns false on any failure; callers must not
// fail the surrounding save because of it, the canonical snapshot write is
// the recovery path.
func (r *Relocator) RenamePrefix(ctx context.Context, oldPrefix, newPrefix string) bool {
	ok := true
	token := ""
	for {
		keys, next, err := r.store.ListPage(ctx, oldPrefix, token)
		if err != nil {
			r.logger.Error("relocation listing failed",
				"old_prefix", oldPrefix, "new_prefix", newPrefix, "err", err)
			return false
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.concurrency)
		for _, key := range keys {
			key := key
			g.Go(func() error {
				dst := newPrefix + strings.TrimPrefix(key, oldPrefix)
				if err := r.store.Copy(gctx, key, dst); err != nil {
					r.logger.Error("relocation copy failed", "key", key, "dst", dst, "err", err)
					return err
				}
				if err := r.store.Delete(gctx, key); err != nil {
					// The key now exists under both prefixes; log it so the
					// duplicate can be cleaned up later.
					r.logger.Error("relocation delete failed after copy", "key", key, "dst", dst, "err", err)
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			ok = false
		}

		if next == "" {
			break
		}
		token = next
	}
	return ok
}
