package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

const secretRefPrefix = "sm://"

// SecretAccessor returns the latest payload of a named secret.
type SecretAccessor interface {
	AccessSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type accessorFactory func(ctx context.Context, project string) (SecretAccessor, error)

type secretManagerAccessor struct {
	client  *secretmanager.Client
	project string
}

func newSecretManagerAccessor(ctx context.Context, project string) (SecretAccessor, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}
	return &secretManagerAccessor{client: client, project: project}, nil
}

func (a *secretManagerAccessor) AccessSecret(ctx context.Context, name string) (string, error) {
	resp, err := a.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", a.project, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}

func (a *secretManagerAccessor) Close() error {
	return a.client.Close()
}

// IsSecretRef reports whether value names a Secret Manager secret.
func IsSecretRef(value string) bool {
	return strings.HasPrefix(value, secretRefPrefix)
}

func resolveSecrets(ctx context.Context, cfg *Config, newAccessor accessorFactory) error {
	fields := []*string{
		&cfg.GroqAPIKey,
		&cfg.YouTubeClientID,
		&cfg.YouTubeClientSecret,
	}

	var refs []*string
	for _, f := range fields {
		if IsSecretRef(*f) {
			refs = append(refs, f)
		}
	}
	if len(refs) == 0 {
		return nil
	}

	if cfg.GCPProject == "" {
		return errors.New("GOOGLE_CLOUD_PROJECT must be set to resolve sm:// secrets")
	}

	accessor, err := newAccessor(ctx, cfg.GCPProject)
	if err != nil {
		return err
	}
	defer func() { _ = accessor.Close() }()

	for _, f := range refs {
		name := strings.TrimPrefix(*f, secretRefPrefix)
		if name == "" {
			return fmt.Errorf("empty secret reference %q", *f)
		}
		value, err := accessor.AccessSecret(ctx, name)
		if err != nil {
			return err
		}
		slog.Debug("Resolved secret", "name", name)
		*f = strings.TrimSpace(value)
	}

	return nil
}
