package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const formatVersion = 1

// expiryDelta mirrors the skew oauth2 applies before treating a token as expired.
const expiryDelta = 10 * time.Second

var ErrUnsupportedVersion = errors.New("unsupported credential version")

// Credential is the persisted access/refresh token pair for the upload scope.
type Credential struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
}

type envelope struct {
	Version      int       `json:"version"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

func FromToken(token *oauth2.Token) *Credential {
	if token == nil {
		return nil
	}
	return &Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
}

func (c *Credential) Token() *oauth2.Token {
	if c == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// Valid reports whether the credential can be used without a refresh.
// A zero expiry never expires.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && !c.Expired()
}

func (c *Credential) Expired() bool {
	if c == nil {
		return true
	}
	if c.Expiry.IsZero() {
		return false
	}
	return c.Expiry.Round(0).Add(-expiryDelta).Before(time.Now())
}

func (c *Credential) CanRefresh() bool {
	return c != nil && c.RefreshToken != ""
}

func Marshal(c *Credential) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil credential")
	}
	data, err := json.MarshalIndent(envelope{
		Version:      formatVersion,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal credential: %w", err)
	}
	return data, nil
}

func Unmarshal(data []byte) (*Credential, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}
	if env.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return &Credential{
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
		TokenType:    env.TokenType,
		Expiry:       env.Expiry,
	}, nil
}
