package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"autotube/internal/credential"
	"autotube/internal/llm"
	"autotube/internal/metadata"
	"autotube/internal/uploader"
	"autotube/pkg/config"
	"autotube/pkg/prompts"

	"golang.org/x/oauth2"
)

// Credentials bundles the credential manager with the OAuth client it was
// built from. Close releases the backing store.
type Credentials struct {
	Manager *credential.Manager
	OAuth   *oauth2.Config
	close   func() error
}

func (c *Credentials) Close() error {
	if c == nil || c.close == nil {
		return nil
	}
	return c.close()
}

type BuildResult struct {
	Service     *Service
	Credentials *Credentials
}

func (r *BuildResult) Close() error {
	return r.Credentials.Close()
}

func BuildCredentials(ctx context.Context, cfg *config.Config, flowOpts ...credential.FlowOption) (*Credentials, error) {
	oauthCfg, err := credential.OAuthConfig(
		cfg.YouTubeClientSecretFile,
		cfg.YouTubeClientID,
		cfg.YouTubeClientSecret,
		cfg.YouTube.RedirectURL,
	)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	manager := credential.NewManager(
		store,
		credential.NewTokenRefresher(oauthCfg),
		credential.NewLoopbackFlow(oauthCfg, flowOpts...),
	)

	return &Credentials{Manager: manager, OAuth: oauthCfg, close: closeStore}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (credential.Store, func() error, error) {
	if cfg.YouTubeTokenBucket == "" {
		return credential.NewFileStore(cfg.YouTubeTokenPath), nil, nil
	}

	store, err := credential.NewGCSStore(ctx, cfg.YouTubeTokenBucket, cfg.YouTube.TokenObject)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Using GCS credential store", "location", store.Location())
	return store, store.Close, nil
}

func Build(ctx context.Context, cfg *config.Config) (*BuildResult, error) {
	if cfg.GroqAPIKey == "" {
		return nil, errors.New("GROQ_API_KEY is not set")
	}

	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewGroqClient(cfg.GroqAPIKey, llm.GroqOptions{
		Model:        cfg.Groq.Model,
		MaxTokens:    cfg.Groq.MaxTokens,
		SystemPrompt: p.System.Metadata,
	})
	if err != nil {
		return nil, err
	}

	generator := metadata.NewGenerator(llmClient, p, metadata.Fallback{
		Description: cfg.Metadata.DefaultDescription,
		Tags:        cfg.Metadata.DefaultTags,
	})

	creds, err := BuildCredentials(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build credentials: %w", err)
	}

	newUploader := func(ctx context.Context, cred *credential.Credential) (uploader.Uploader, error) {
		return uploader.NewYouTube(ctx, uploader.YouTubeOptions{
			HTTPClient: creds.OAuth.Client(ctx, cred.Token()),
			ChunkSize:  cfg.YouTube.ChunkSize,
		})
	}

	service := NewService(ServiceOptions{
		Credentials:   creds.Manager,
		Metadata:      generator,
		NewUploader:   newUploader,
		CategoryID:    cfg.YouTube.CategoryID,
		PrivacyStatus: cfg.YouTube.PrivacyStatus,
	})

	return &BuildResult{Service: service, Credentials: creds}, nil
}
