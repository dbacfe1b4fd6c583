package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"autotube/pkg/prompts"
)

var ErrGenerationFailed = errors.New("metadata generation failed")

// Completer issues a single text-completion call.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	completer Completer
	prompts   *prompts.Prompts
	fallback  Fallback
}

func NewGenerator(c Completer, p *prompts.Prompts, fb Fallback) *Generator {
	if p == nil {
		p = prompts.Default()
	}
	return &Generator{
		completer: c,
		prompts:   p,
		fallback:  fb,
	}
}

// Generate asks the completer for metadata about the given video. Failures are
// logged and reported as ErrGenerationFailed with nil metadata.
func (g *Generator) Generate(ctx context.Context, videoID string) (*Metadata, error) {
	prompt, err := g.prompts.RenderMetadata(prompts.MetadataParams{Subject: videoID})
	if err != nil {
		slog.Error("Failed to render metadata prompt", "error", err)
		return nil, fmt.Errorf("%w: render prompt: %v", ErrGenerationFailed, err)
	}

	slog.Debug("Requesting metadata", "video", videoID)

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Error("Metadata generation failed", "video", videoID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	md := Parse(text, g.fallback)
	if md.Title == "" {
		slog.Error("Metadata generation returned no title", "video", videoID)
		return nil, fmt.Errorf("%w: empty title", ErrGenerationFailed)
	}

	slog.Info("Generated metadata", "title", md.Title, "tags", len(md.Tags))
	return &md, nil
}
