package app

import (
	"context"

	"autotube/internal/credential"
	"autotube/internal/metadata"
	"autotube/internal/uploader"
)

// CredentialSource yields a usable credential or nil.
type CredentialSource interface {
	Acquire(ctx context.Context) *credential.Credential
}

type MetadataSource interface {
	Generate(ctx context.Context, videoID string) (*metadata.Metadata, error)
}

// UploaderFactory binds an uploader to an acquired credential.
type UploaderFactory func(ctx context.Context, cred *credential.Credential) (uploader.Uploader, error)

type Service struct {
	credentials   CredentialSource
	metadata      MetadataSource
	newUploader   UploaderFactory
	categoryID    string
	privacyStatus string
}

type ServiceOptions struct {
	Credentials   CredentialSource
	Metadata      MetadataSource
	NewUploader   UploaderFactory
	CategoryID    string
	PrivacyStatus string
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		credentials:   opts.Credentials,
		metadata:      opts.Metadata,
		newUploader:   opts.NewUploader,
		categoryID:    opts.CategoryID,
		privacyStatus: opts.PrivacyStatus,
	}
}

func (s *Service) CategoryID() string {
	return s.categoryID
}

func (s *Service) PrivacyStatus() string {
	return s.privacyStatus
}
