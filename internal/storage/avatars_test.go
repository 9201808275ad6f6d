package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal PNG and JPEG magic bytes for sniffing.
var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
)

func TestUploadReturnsPublicURL(t *testing.T) {
	var gotPath, gotUpsert, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewAvatarStore(srv.URL, "test-key", "avatars")
	url, err := store.Upload(context.Background(), "7-1700000000.png", "image/png", pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/avatars/7-1700000000.png", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/avatars/7-1700000000.png", url)
}

func TestUploadStorageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store := NewAvatarStore(srv.URL, "", "avatars")
	_, err := store.Upload(context.Background(), "7-1.png", "image/png", pngHeader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "avatar upload failed")
}

func TestSniffImage(t *testing.T) {
	ct, ext, ok := SniffImage(pngHeader)
	assert.True(t, ok)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, "png", ext)

	ct, ext, ok = SniffImage(jpegHeader)
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, "jpg", ext)

	_, _, ok = SniffImage([]byte("GIF89a not allowed"))
	assert.False(t, ok)
}
