package credential

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

var scopes = []string{youtube.YoutubeUploadScope}

var ErrNoClient = errors.New("no OAuth client configured")

// OAuthConfig builds the installed-app client from the client-secret file, or
// from a bare client id/secret pair when no file is configured.
func OAuthConfig(secretFile, clientID, clientSecret, redirectURL string) (*oauth2.Config, error) {
	var cfg *oauth2.Config

	switch {
	case secretFile != "":
		data, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read client secret file: %w", err)
		}
		cfg, err = google.ConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("unable to parse client secret file: %w", err)
		}
	case clientID != "" && clientSecret != "":
		cfg = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
		}
	default:
		return nil, ErrNoClient
	}

	if redirectURL != "" {
		cfg.RedirectURL = redirectURL
	}
	return cfg, nil
}

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher struct {
	config *oauth2.Config
}

func NewTokenRefresher(config *oauth2.Config) *TokenRefresher {
	return &TokenRefresher{config: config}
}

func (r *TokenRefresher) Refresh(ctx context.Context, c *Credential) (*Credential, error) {
	if !c.CanRefresh() {
		return nil, errors.New("credential has no refresh token")
	}

	// An empty access token forces the token source to hit the token endpoint.
	stale := c.Token()
	stale.AccessToken = ""

	token, err := r.config.TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return FromToken(token), nil
}
