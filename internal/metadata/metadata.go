package metadata

import (
	"slices"
	"strings"
)

const DefaultDescription = "No description provided."

var DefaultTags = []string{"AI", "auto-upload", "video"}

type Metadata struct {
	Title       string
	Description string
	Tags        []string
}

// Fallback holds the values used when the completion text is too short to
// supply a description or tags.
type Fallback struct {
	Description string
	Tags        []string
}

func DefaultFallback() Fallback {
	return Fallback{
		Description: DefaultDescription,
		Tags:        slices.Clone(DefaultTags),
	}
}

// Parse splits completion text by line: the first line is the title, the
// second the description and every remaining line a tag.
func Parse(text string, fb Fallback) Metadata {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	md := Metadata{
		Title:       lines[0],
		Description: fb.Description,
		Tags:        slices.Clone(fb.Tags),
	}

	if len(lines) > 1 {
		md.Description = lines[1]
	}
	if len(lines) > 2 {
		md.Tags = lines[2:]
	}

	return md
}
