// Package storage talks to the external object-storage collaborator that
// holds avatar images. Only the resulting public URL is persisted; the blob
// itself never touches the database.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

// MaxAvatarSize is the upload size ceiling (2MB).
const MaxAvatarSize = 2 * 1024 * 1024

// AvatarStore uploads avatar blobs to a Supabase-style storage API and
// returns publicly resolvable URLs.
type AvatarStore struct {
	client *resty.Client
	bucket string
}

// NewAvatarStore builds a store for the given storage endpoint and bucket.
// apiKey may be empty for unauthenticated local storage emulators.
func NewAvatarStore(baseURL, apiKey, bucket string) *AvatarStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &AvatarStore{client: client, bucket: bucket}
}

// Upload stores the blob under key with upsert semantics and returns the
// public URL. Any storage-side failure is wrapped as a generic upload error;
// callers must not persist anything when an error is returned.
func (s *AvatarStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		Post(fmt.Sprintf("/storage/v1/object/%s/%s", s.bucket, key))
	if err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("avatar upload failed: storage returned %d", resp.StatusCode())
	}
	return s.PublicURL(key), nil
}

// PublicURL returns the publicly resolvable URL for an object key.
func (s *AvatarStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.client.BaseURL, s.bucket, key)
}

// SniffImage detects the image type of the blob. Only png and jpeg avatars
// are accepted; ok is false for anything else.
func SniffImage(data []byte) (contentType, ext string, ok bool) {
	mt := mimetype.Detect(data)
	switch mt.String() {
	case "image/png":
		return "image/png", "png", true
	case "image/jpeg":
		return "image/jpeg", "jpg", true
	default:
		return mt.String(), "", false
	}
}
