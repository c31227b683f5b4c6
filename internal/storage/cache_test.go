package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_Roundtrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Lookup(ctx, "src/main.ts")
	require.NoError(t, err)
	assert.False(t, ok)

	entry := &Entry{
		Source:  "src/main.ts",
		Hash:    Fingerprint([]byte("interface A {}"), "opts"),
		Output:  "src/main-joi.ts",
		Exports: []string{"A"},
	}
	require.NoError(t, c.Save(ctx, entry))

	got, ok, err := c.Lookup(ctx, "src/main.ts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Hash, got.Hash)
	assert.Equal(t, entry.Output, got.Output)
	assert.Equal(t, []string{"A"}, got.Exports)
}

func TestCache_Upsert(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	first := &Entry{Source: "a.ts", Hash: "h1", Output: "a-joi.ts", Exports: []string{"X"}}
	require.NoError(t, c.Save(ctx, first))

	second := &Entry{Source: "a.ts", Hash: "h2", Output: "a-joi.ts", Exports: []string{"X", "Y"}}
	require.NoError(t, c.Save(ctx, second))

	got, ok, err := c.Lookup(ctx, "a.ts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h2", got.Hash)
	assert.Equal(t, []string{"X", "Y"}, got.Exports)
}

func TestFingerprint(t *testing.T) {
	source := []byte("interface A { x: number; }")

	assert.Equal(t, Fingerprint(source, "k"), Fingerprint(source, "k"))
	assert.NotEqual(t, Fingerprint(source, "k"), Fingerprint(source, "other"),
		"changing options must invalidate the fingerprint")
	assert.NotEqual(t, Fingerprint(source, "k"), Fingerprint([]byte("interface B {}"), "k"))
	assert.Len(t, Fingerprint(source, "k"), 64)
}
