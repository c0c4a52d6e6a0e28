package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainware/module-content/pkg/modulecontent"
)

func TestPutGet(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "7/content.json", []byte("data"), "application/json"))

	got, err := b.Get(ctx, "7/content.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	_, err = b.Get(ctx, "7/missing.json")
	assert.ErrorIs(t, err, modulecontent.ErrObjectNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "k", []byte("abc"), ""))

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'x'

	again, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestListPagePagination(t *testing.T) {
	b := New(WithPageSize(2))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Put(ctx, fmt.Sprintf("41/file_%d", i), []byte("x"), ""))
	}
	require.NoError(t, b.Put(ctx, "42/other", []byte("x"), ""))

	var all []string
	token := ""
	pages := 0
	for {
		keys, next, err := b.ListPage(ctx, "41/", token)
		require.NoError(t, err)
		all = append(all, keys...)
		pages++
		if next == "" {
			break
		}
		token = next
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, all, 5)
	assert.NotContains(t, all, "42/other")
}

func TestListPageTokenSurvivesDeletion(t *testing.T) {
	// Callers delete the keys of a page before fetching the next one, so the
	// token must not shift with the shrinking key set.
	b := New(WithPageSize(3))
	ctx := context.Background()

	const n = 10
	for i := 0; i < n; i++ {
		require.NoError(t, b.Put(ctx, fmt.Sprintf("41/img_%02d", i), []byte("x"), ""))
	}

	seen := 0
	token := ""
	for {
		keys, next, err := b.ListPage(ctx, "41/", token)
		require.NoError(t, err)
		for _, key := range keys {
			require.NoError(t, b.Delete(ctx, key))
			seen++
		}
		if next == "" {
			break
		}
		token = next
	}

	assert.Equal(t, n, seen)

	remaining, _, err := b.ListPage(ctx, "41/", "")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestListPageUnknownTokenResumesAfterIt(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "41/a", []byte("x"), ""))
	require.NoError(t, b.Put(ctx, "41/c", []byte("x"), ""))

	// "41/b" was deleted after serving as a token; listing resumes at the
	// first key after it.
	keys, next, err := b.ListPage(ctx, "41/", "41/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"41/c"}, keys)
	assert.Empty(t, next)
}

func TestCopy(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "src", []byte("payload"), "text/plain"))
	require.NoError(t, b.Copy(ctx, "src", "dst"))

	got, err := b.Get(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	// Source is untouched by a copy.
	_, err = b.Get(ctx, "src")
	assert.NoError(t, err)

	err = b.Copy(ctx, "missing", "anywhere")
	assert.ErrorIs(t, err, modulecontent.ErrObjectNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "k", []byte("x"), ""))
	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "k"))

	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, modulecontent.ErrObjectNotFound)
}
