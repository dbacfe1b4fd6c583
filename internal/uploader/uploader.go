package uploader

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

var (
	ErrNoVideoID      = errors.New("upload response contained no video id")
	ErrInvalidRequest = errors.New("invalid upload request")
)

var privacyStatuses = []string{"public", "private", "unlisted"}

type Request struct {
	VideoPath     string
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
}

type Result struct {
	ID  string
	URL string
}

type Uploader interface {
	Upload(ctx context.Context, req Request) (*Result, error)
}

func (r Request) Validate() error {
	if r.VideoPath == "" {
		return fmt.Errorf("%w: video path is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if err := ValidateCategory(r.CategoryID); err != nil {
		return err
	}
	return ValidatePrivacy(r.PrivacyStatus)
}

// ValidateCategory accepts the numeric category ids YouTube uses.
func ValidateCategory(id string) error {
	if id == "" {
		return fmt.Errorf("%w: category id is required", ErrInvalidRequest)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: category id %q is not numeric", ErrInvalidRequest, id)
		}
	}
	return nil
}

func ValidatePrivacy(status string) error {
	for _, s := range privacyStatuses {
		if status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: privacy status %q must be one of %s", ErrInvalidRequest, status, strings.Join(privacyStatuses, ", "))
}

func WatchURL(id string) string {
	return watchURLPrefix + id
}
