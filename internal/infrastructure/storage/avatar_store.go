package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const avatarCacheControl = "public, max-age=86400"

// AvatarStore uploads avatars to a GCS bucket under avatars/<userID>/.
type AvatarStore struct {
	client *gcs.Client
	bucket string
}

func NewAvatarStore(client *gcs.Client, bucket string) *AvatarStore {
	return &AvatarStore{client: client, bucket: bucket}
}

// UploadAvatar writes r to a fresh object and returns its public URL. Old
// avatars are left in place.
func (s *AvatarStore) UploadAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	object := AvatarObjectPath(userID, filename, uuid.NewString())
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = avatarCacheControl
	w.Metadata = map[string]string{"user_id": userID}
	w.ChunkSize = 0 // single request; avatars are capped at 5MB upstream
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("uploading %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("uploading %s: %w", object, err)
	}
	return ObjectURL(s.bucket, object), nil
}

// AvatarObjectPath keeps only the file extension of the uploaded name.
func AvatarObjectPath(userID, filename, id string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("avatars", userID, id+ext)
}

// ObjectURL is the public address of an object in a publicly readable bucket.
func ObjectURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + path.Join(bucket, object)
}
