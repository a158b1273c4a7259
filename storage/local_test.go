package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	docID := uuid.New()

	path, err := store.Upload(ctx, docID, "response-letter.pdf", strings.NewReader("letter body"))
	require.NoError(t, err)
	assert.Contains(t, path, docID.String())

	reader, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "letter body", string(data))
}

func TestLocalStorageDownloadMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "ab/nope_missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLocalStorageDeleteIsIdempotent(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	path, err := store.Upload(ctx, uuid.New(), "a.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))
	// Deleting a path that no longer exists is not an error
	require.NoError(t, store.Delete(ctx, path))
}

func TestDocumentStoragePathShardsAndSanitizes(t *testing.T) {
	docID := uuid.MustParse("3f1c7a52-0000-4000-8000-000000000000")

	path := documentStoragePath(docID, "my letter.PDF")
	assert.True(t, strings.HasPrefix(path, "3f/"), "path %q", path)
	assert.Contains(t, path, docID.String())
	assert.NotContains(t, path, " ")
	assert.True(t, strings.HasSuffix(path, ".PDF"), "path %q", path)
}
