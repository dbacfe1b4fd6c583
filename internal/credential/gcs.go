package credential

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

var _ Store = (*GCSStore)(nil)

// GCSStore keeps the credential in a Cloud Storage object so several hosts can
// share one authorization.
type GCSStore struct {
	client *storage.Client
	bucket string
	object string
}

func NewGCSStore(ctx context.Context, bucket, object string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: bucket,
		object: object,
	}, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) Load(ctx context.Context) (*Credential, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open credential object: %w", err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential object: %w", err)
	}
	return Unmarshal(data)
}

func (s *GCSStore) Save(ctx context.Context, c *Credential) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	w := s.client.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write credential object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write credential object: %w", err)
	}
	return nil
}

func (s *GCSStore) Location() string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, s.object)
}
