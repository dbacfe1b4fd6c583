package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"autotube/internal/credential"
	"autotube/internal/uploader"
)

type Outcome int

const (
	OutcomeUploaded Outcome = iota
	OutcomeNoCredential
	OutcomeNoMetadata
	OutcomeInvalidRequest
	OutcomeUploadFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUploaded:
		return "uploaded"
	case OutcomeNoCredential:
		return "no credential"
	case OutcomeNoMetadata:
		return "no metadata"
	case OutcomeInvalidRequest:
		return "invalid request"
	case OutcomeUploadFailed:
		return "upload failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type Pipeline struct {
	service *Service
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

// Run authenticates, generates metadata and uploads videoPath, in that order.
// Each step runs at most once and the first failure ends the run.
func (p *Pipeline) Run(ctx context.Context, videoPath string) (Outcome, *uploader.Result) {
	if err := checkVideo(videoPath); err != nil {
		slog.Error("Video file unusable", "path", videoPath, "error", err)
		return OutcomeInvalidRequest, nil
	}

	cred := p.service.credentials.Acquire(ctx)
	if cred == nil {
		slog.Error("No usable credential, aborting upload")
		return OutcomeNoCredential, nil
	}

	md, err := p.service.metadata.Generate(ctx, filepath.Base(videoPath))
	if err != nil || md == nil {
		slog.Error("No metadata available, aborting upload", "error", err)
		return OutcomeNoMetadata, nil
	}

	return p.Upload(ctx, cred, uploader.Request{
		VideoPath:     videoPath,
		Title:         md.Title,
		Description:   md.Description,
		Tags:          md.Tags,
		CategoryID:    p.service.categoryID,
		PrivacyStatus: p.service.privacyStatus,
	})
}

// Upload performs a single upload attempt with cred and logs its result.
func (p *Pipeline) Upload(ctx context.Context, cred *credential.Credential, req uploader.Request) (Outcome, *uploader.Result) {
	if err := req.Validate(); err != nil {
		slog.Error("Invalid upload request", "error", err)
		return OutcomeInvalidRequest, nil
	}

	up, err := p.service.newUploader(ctx, cred)
	if err != nil {
		slog.Error("Failed to create uploader", "error", err)
		return OutcomeUploadFailed, nil
	}

	res, err := up.Upload(ctx, req)
	switch {
	case errors.Is(err, uploader.ErrInvalidRequest):
		slog.Error("Invalid upload request", "error", err)
		return OutcomeInvalidRequest, nil
	case err != nil:
		slog.Error("Upload failed", "path", req.VideoPath, "error", err)
		return OutcomeUploadFailed, nil
	}

	slog.Info("Upload complete", "id", res.ID, "url", res.URL)
	return OutcomeUploaded, res
}

func checkVideo(path string) error {
	if path == "" {
		return errors.New("no video path given")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
