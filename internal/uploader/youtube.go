package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var _ Uploader = (*YouTube)(nil)

var insertParts = []string{"snippet", "status"}

type YouTube struct {
	service   *youtube.Service
	chunkSize int
}

type YouTubeOptions struct {
	HTTPClient *http.Client
	// ChunkSize is the resumable chunk size in bytes; zero selects the library default.
	ChunkSize int
	Endpoint  string
}

func NewYouTube(ctx context.Context, opts YouTubeOptions) (*YouTube, error) {
	clientOpts := []option.ClientOption{option.WithHTTPClient(opts.HTTPClient)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = googleapi.DefaultUploadChunkSize
	}

	return &YouTube{service: svc, chunkSize: chunkSize}, nil
}

// BuildVideo assembles the insert body. It does not retain req.Tags.
func BuildVideo(req Request) *youtube.Video {
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        slices.Clone(req.Tags),
			CategoryId:  req.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: req.PrivacyStatus,
		},
	}
}

func (y *YouTube) Upload(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(req.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat video file: %w", err)
	}
	size := uint64(info.Size())

	slog.Info("Uploading video",
		"path", req.VideoPath,
		"size", humanize.IBytes(size),
		"privacy", req.PrivacyStatus,
	)

	call := y.service.Videos.Insert(insertParts, BuildVideo(req)).
		Media(f, googleapi.ChunkSize(y.chunkSize)).
		ProgressUpdater(func(current, _ int64) {
			slog.Debug("Upload progress", "sent", humanize.IBytes(uint64(current)), "total", humanize.IBytes(size))
		}).
		Context(ctx)

	video, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}
	if video == nil || video.Id == "" {
		return nil, ErrNoVideoID
	}

	return &Result{ID: video.Id, URL: WatchURL(video.Id)}, nil
}
