package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	orig, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(orig) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	return tmp
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "YOUTUBE_CLIENT_SECRET_FILE", "YOUTUBE_CLIENT_ID",
		"YOUTUBE_CLIENT_SECRET", "YOUTUBE_TOKEN_PATH", "YOUTUBE_TOKEN_BUCKET",
		"VIDEO_PATH", "GOOGLE_CLOUD_PROJECT",
	} {
		t.Setenv(key, "")
	}
}

type fakeAccessor struct {
	secrets  map[string]string
	accessed []string
	closed   bool
}

func (f *fakeAccessor) AccessSecret(_ context.Context, name string) (string, error) {
	f.accessed = append(f.accessed, name)
	v, ok := f.secrets[name]
	if !ok {
		return "", errors.New("secret not found")
	}
	return v, nil
}

func (f *fakeAccessor) Close() error {
	f.closed = true
	return nil
}

func factoryFor(a *fakeAccessor, gotProject *string) accessorFactory {
	return func(_ context.Context, project string) (SecretAccessor, error) {
		if gotProject != nil {
			*gotProject = project
		}
		return a, nil
	}
}

func noAccessor(t *testing.T) accessorFactory {
	return func(context.Context, string) (SecretAccessor, error) {
		t.Error("secret accessor should not be created")
		return nil, errors.New("unexpected")
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg, err := load(context.Background(), "", noAccessor(t))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.Groq.Model != defaultGroqModel {
		t.Errorf("Groq.Model = %q, want %q", cfg.Groq.Model, defaultGroqModel)
	}
	if cfg.Groq.MaxTokens != 150 {
		t.Errorf("Groq.MaxTokens = %d, want 150", cfg.Groq.MaxTokens)
	}
	if cfg.YouTube.CategoryID != "22" {
		t.Errorf("YouTube.CategoryID = %q, want 22", cfg.YouTube.CategoryID)
	}
	if cfg.YouTube.PrivacyStatus != "private" {
		t.Errorf("YouTube.PrivacyStatus = %q, want private", cfg.YouTube.PrivacyStatus)
	}
	if cfg.YouTube.RedirectURL != defaultRedirectURL {
		t.Errorf("YouTube.RedirectURL = %q", cfg.YouTube.RedirectURL)
	}
	if cfg.YouTubeTokenPath != defaultTokenPath {
		t.Errorf("YouTubeTokenPath = %q, want %q", cfg.YouTubeTokenPath, defaultTokenPath)
	}
	if cfg.Metadata.DefaultDescription != "No description provided." {
		t.Errorf("Metadata.DefaultDescription = %q", cfg.Metadata.DefaultDescription)
	}
	if !reflect.DeepEqual(cfg.Metadata.DefaultTags, []string{"AI", "auto-upload", "video"}) {
		t.Errorf("Metadata.DefaultTags = %v", cfg.Metadata.DefaultTags)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmp := chdirTemp(t)
	clearEnv(t)

	yaml := `
groq:
  model: test-model
  max_tokens: 300
youtube:
  category_id: "10"
  privacy_status: unlisted
  chunk_size: 1048576
  redirect_url: http://127.0.0.1:9000/cb
metadata:
  default_description: "Uploaded automatically."
  default_tags: [music, live]
`
	path := filepath.Join(tmp, "custom.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(context.Background(), path, noAccessor(t))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.Groq.Model != "test-model" {
		t.Errorf("Groq.Model = %q, want test-model", cfg.Groq.Model)
	}
	if cfg.Groq.MaxTokens != 300 {
		t.Errorf("Groq.MaxTokens = %d, want 300", cfg.Groq.MaxTokens)
	}
	if cfg.YouTube.CategoryID != "10" || cfg.YouTube.PrivacyStatus != "unlisted" {
		t.Errorf("YouTube = %+v", cfg.YouTube)
	}
	if cfg.YouTube.ChunkSize != 1048576 {
		t.Errorf("YouTube.ChunkSize = %d, want 1048576", cfg.YouTube.ChunkSize)
	}
	if cfg.YouTube.RedirectURL != "http://127.0.0.1:9000/cb" {
		t.Errorf("YouTube.RedirectURL = %q", cfg.YouTube.RedirectURL)
	}
	if cfg.Metadata.DefaultDescription != "Uploaded automatically." {
		t.Errorf("Metadata.DefaultDescription = %q", cfg.Metadata.DefaultDescription)
	}
	if !reflect.DeepEqual(cfg.Metadata.DefaultTags, []string{"music", "live"}) {
		t.Errorf("Metadata.DefaultTags = %v", cfg.Metadata.DefaultTags)
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	t.Setenv("GROQ_API_KEY", "test-groq")
	t.Setenv("YOUTUBE_CLIENT_SECRET_FILE", "/etc/client_secret.json")
	t.Setenv("YOUTUBE_TOKEN_PATH", "/var/lib/token.json")
	t.Setenv("YOUTUBE_TOKEN_BUCKET", "tokens")
	t.Setenv("VIDEO_PATH", "/videos/clip.mp4")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")

	cfg, err := load(context.Background(), "", noAccessor(t))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.GroqAPIKey != "test-groq" {
		t.Errorf("GroqAPIKey = %q, want test-groq", cfg.GroqAPIKey)
	}
	if cfg.YouTubeClientSecretFile != "/etc/client_secret.json" {
		t.Errorf("YouTubeClientSecretFile = %q", cfg.YouTubeClientSecretFile)
	}
	if cfg.YouTubeTokenPath != "/var/lib/token.json" {
		t.Errorf("YouTubeTokenPath = %q", cfg.YouTubeTokenPath)
	}
	if cfg.YouTubeTokenBucket != "tokens" {
		t.Errorf("YouTubeTokenBucket = %q", cfg.YouTubeTokenBucket)
	}
	if cfg.VideoPath != "/videos/clip.mp4" {
		t.Errorf("VideoPath = %q", cfg.VideoPath)
	}
	if cfg.GCPProject != "test-project" {
		t.Errorf("GCPProject = %q, want test-project", cfg.GCPProject)
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	tmp := chdirTemp(t)
	clearEnv(t)
	_ = os.Unsetenv("GROQ_API_KEY")

	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("GROQ_API_KEY=from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(context.Background(), "", noAccessor(t))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if cfg.GroqAPIKey != "from-dotenv" {
		t.Errorf("GroqAPIKey = %q, want from-dotenv", cfg.GroqAPIKey)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmp := chdirTemp(t)
	clearEnv(t)

	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte("groq: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := load(context.Background(), path, noAccessor(t)); err == nil {
		t.Error("load() expected error for invalid YAML")
	}
}

func TestLoadResolvesSecrets(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	t.Setenv("GROQ_API_KEY", "sm://groq-key")
	t.Setenv("YOUTUBE_CLIENT_ID", "plain-id")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "sm://yt-secret")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj-1")

	accessor := &fakeAccessor{secrets: map[string]string{
		"groq-key":  "gsk_resolved\n",
		"yt-secret": "client-secret",
	}}
	var project string

	cfg, err := load(context.Background(), "", factoryFor(accessor, &project))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if project != "proj-1" {
		t.Errorf("project = %q, want proj-1", project)
	}
	if cfg.GroqAPIKey != "gsk_resolved" {
		t.Errorf("GroqAPIKey = %q, want gsk_resolved", cfg.GroqAPIKey)
	}
	if cfg.YouTubeClientID != "plain-id" {
		t.Errorf("YouTubeClientID = %q, want plain-id", cfg.YouTubeClientID)
	}
	if cfg.YouTubeClientSecret != "client-secret" {
		t.Errorf("YouTubeClientSecret = %q, want client-secret", cfg.YouTubeClientSecret)
	}
	if !reflect.DeepEqual(accessor.accessed, []string{"groq-key", "yt-secret"}) {
		t.Errorf("accessed = %v", accessor.accessed)
	}
	if !accessor.closed {
		t.Error("accessor not closed")
	}
}

func TestLoadSecretErrors(t *testing.T) {
	tests := []struct {
		name    string
		project string
		value   string
		wantErr string
	}{
		{name: "missingProject", value: "sm://groq-key", wantErr: "GOOGLE_CLOUD_PROJECT"},
		{name: "unknownSecret", project: "p", value: "sm://missing", wantErr: "secret not found"},
		{name: "emptyName", project: "p", value: "sm://", wantErr: "empty secret reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			clearEnv(t)
			t.Setenv("GROQ_API_KEY", tt.value)
			t.Setenv("GOOGLE_CLOUD_PROJECT", tt.project)

			accessor := &fakeAccessor{secrets: map[string]string{}}
			_, err := load(context.Background(), "", factoryFor(accessor, nil))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{YouTubeClientSecretFile: "client_secret.json"}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "idSecretPair", modify: func(c *Config) {
			c.YouTubeClientSecretFile = ""
			c.YouTubeClientID = "id"
			c.YouTubeClientSecret = "secret"
		}},
		{name: "noClient", modify: func(c *Config) { c.YouTubeClientSecretFile = "" }, wantErr: true},
		{name: "idWithoutSecret", modify: func(c *Config) {
			c.YouTubeClientSecretFile = ""
			c.YouTubeClientID = "id"
		}, wantErr: true},
		{name: "nonNumericCategory", modify: func(c *Config) { c.YouTube.CategoryID = "gaming" }, wantErr: true},
		{name: "unknownPrivacy", modify: func(c *Config) { c.YouTube.PrivacyStatus = "hidden" }, wantErr: true},
		{name: "negativeChunk", modify: func(c *Config) { c.YouTube.ChunkSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
