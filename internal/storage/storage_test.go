package storage

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore() (*DiskStore, afero.Fs) {
	fs := afero.NewBasePathFs(afero.NewMemMapFs(), "/public")
	return NewDiskStoreFs(fs, zap.NewNop()), fs
}

func TestStoreWritesUnderNamespace(t *testing.T) {
	store, fs := newTestStore()
	content := []byte("fake image bytes")

	ref, err := store.Store(context.Background(), ProductNamespace, &Upload{
		Filename: "Tent.PNG",
		Size:     int64(len(content)),
		Content:  bytes.NewReader(content),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "products/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	stored, err := afero.ReadFile(fs, ref)
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestStoreGeneratesDistinctReferences(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	first, err := store.Store(ctx, ProductNamespace, &Upload{Filename: "a.jpg", Content: bytes.NewReader([]byte("a"))})
	require.NoError(t, err)
	second, err := store.Store(ctx, ProductNamespace, &Upload{Filename: "a.jpg", Content: bytes.NewReader([]byte("b"))})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDeleteRemovesFile(t *testing.T) {
	store, fs := newTestStore()
	ctx := context.Background()

	ref, err := store.Store(ctx, ProductNamespace, &Upload{Filename: "a.jpg", Content: bytes.NewReader([]byte("a"))})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	exists, err := afero.Exists(fs, ref)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestDeleteRejectsEscapingReferences(t *testing.T) {
	store, _ := newTestStore()

	for _, ref := range []string{"", "../etc/passwd", "products/../../secret", "/abs/path"} {
		err := store.Delete(context.Background(), ref)
		assert.True(t, errors.Is(err, ErrInvalidReference), "ref %q", ref)
	}
}

func TestHandlerServesStoredMedia(t *testing.T) {
	store, _ := newTestStore()
	ref, err := store.Store(context.Background(), ProductNamespace, &Upload{Filename: "a.txt", Content: bytes.NewReader([]byte("hello"))})
	require.NoError(t, err)

	handler := http.StripPrefix("/storage", store.Handler())

	req := httptest.NewRequest(http.MethodGet, "/storage/"+ref, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/storage/products/missing.png", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	store, _ := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Store(ctx, ProductNamespace, &Upload{Filename: "a.png", Content: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, context.Canceled)
}
