package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath    = "config.yaml"
	defaultGroqModel     = "llama-3.3-70b-versatile"
	defaultMaxTokens     = 150
	defaultCategoryID    = "22"
	defaultPrivacyStatus = "private"
	defaultTokenPath     = "./youtube_token.json"
	defaultTokenObject   = "youtube_token.json"
	defaultRedirectURL   = "http://localhost:8085/callback"
	defaultMetadataDesc  = "No description provided."
)

var defaultMetadataTags = []string{"AI", "auto-upload", "video"}

var privacyStatuses = []string{"public", "private", "unlisted"}

type Config struct {
	GroqAPIKey              string `yaml:"-"`
	YouTubeClientSecretFile string `yaml:"-"`
	YouTubeClientID         string `yaml:"-"`
	YouTubeClientSecret     string `yaml:"-"`
	YouTubeTokenPath        string `yaml:"-"`
	YouTubeTokenBucket      string `yaml:"-"`
	VideoPath               string `yaml:"-"`
	GCPProject              string `yaml:"-"`

	Groq     GroqConfig     `yaml:"groq"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Metadata MetadataConfig `yaml:"metadata"`
}

type GroqConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type YouTubeConfig struct {
	CategoryID    string `yaml:"category_id"`
	PrivacyStatus string `yaml:"privacy_status"`
	ChunkSize     int    `yaml:"chunk_size"`
	RedirectURL   string `yaml:"redirect_url"`
	TokenObject   string `yaml:"token_object"`
}

type MetadataConfig struct {
	DefaultDescription string   `yaml:"default_description"`
	DefaultTags        []string `yaml:"default_tags"`
}

// HasOAuthClient reports whether either a client-secret file or a client
// id/secret pair is configured.
func (c *Config) HasOAuthClient() bool {
	return c.YouTubeClientSecretFile != "" || (c.YouTubeClientID != "" && c.YouTubeClientSecret != "")
}

func (c *Config) Validate() error {
	if c.YouTube.CategoryID == "" || strings.TrimLeft(c.YouTube.CategoryID, "0123456789") != "" {
		return fmt.Errorf("youtube.category_id %q must be a numeric category id", c.YouTube.CategoryID)
	}
	if !slices.Contains(privacyStatuses, c.YouTube.PrivacyStatus) {
		return fmt.Errorf("youtube.privacy_status %q must be one of %s", c.YouTube.PrivacyStatus, strings.Join(privacyStatuses, ", "))
	}
	if c.YouTube.ChunkSize < 0 {
		return fmt.Errorf("youtube.chunk_size must not be negative")
	}
	if !c.HasOAuthClient() {
		return errors.New("no OAuth client configured: set YOUTUBE_CLIENT_SECRET_FILE or YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET")
	}
	return nil
}

// Load reads .env, the environment and the YAML file at path, applies
// defaults and resolves sm:// secret references.
func Load(ctx context.Context, path string) (*Config, error) {
	return load(ctx, path, newSecretManagerAccessor)
}

func load(ctx context.Context, path string, newAccessor accessorFactory) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GroqAPIKey:              os.Getenv("GROQ_API_KEY"),
		YouTubeClientSecretFile: os.Getenv("YOUTUBE_CLIENT_SECRET_FILE"),
		YouTubeClientID:         os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret:     os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:        getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
		YouTubeTokenBucket:      os.Getenv("YOUTUBE_TOKEN_BUCKET"),
		VideoPath:               os.Getenv("VIDEO_PATH"),
		GCPProject:              os.Getenv("GOOGLE_CLOUD_PROJECT"),
	}

	if path == "" {
		path = DefaultConfigPath
	}
	if err := loadYAMLConfig(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := resolveSecrets(ctx, cfg, newAccessor); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAMLConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("No config file found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyGroqDefaults(cfg)
	applyYouTubeDefaults(cfg)
	applyMetadataDefaults(cfg)
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
	if cfg.Groq.MaxTokens <= 0 {
		cfg.Groq.MaxTokens = defaultMaxTokens
	}
}

func applyYouTubeDefaults(cfg *Config) {
	if cfg.YouTube.CategoryID == "" {
		cfg.YouTube.CategoryID = defaultCategoryID
	}
	if cfg.YouTube.PrivacyStatus == "" {
		cfg.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
	if cfg.YouTube.RedirectURL == "" {
		cfg.YouTube.RedirectURL = defaultRedirectURL
	}
	if cfg.YouTube.TokenObject == "" {
		cfg.YouTube.TokenObject = defaultTokenObject
	}
}

func applyMetadataDefaults(cfg *Config) {
	if cfg.Metadata.DefaultDescription == "" {
		cfg.Metadata.DefaultDescription = defaultMetadataDesc
	}
	if len(cfg.Metadata.DefaultTags) == 0 {
		cfg.Metadata.DefaultTags = slices.Clone(defaultMetadataTags)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
