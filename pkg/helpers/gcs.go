package helpers

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient opens a Cloud Storage client from a service account file, or
// from Application Default Credentials when credsPath is empty.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}
	return client, nil
}
