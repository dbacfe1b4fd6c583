package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const (
	defaultPromptsPath    = "prompts.yaml"
	defaultMetadataPrompt = "Generate a title, description, and tags for a video about {{.Subject}}."
	defaultMetadataSystem = ""
)

type Prompts struct {
	System   SystemPrompts   `yaml:"system"`
	Metadata MetadataPrompts `yaml:"metadata"`
}

type SystemPrompts struct {
	Metadata string `yaml:"metadata"`
}

type MetadataPrompts struct {
	Generate string `yaml:"generate"`
}

type MetadataParams struct {
	Subject string
}

func Default() *Prompts {
	return &Prompts{
		System:   SystemPrompts{Metadata: defaultMetadataSystem},
		Metadata: MetadataPrompts{Generate: defaultMetadataPrompt},
	}
}

// Load reads prompts.yaml from the working directory, falling back to the
// built-in prompts when the file does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return p, err
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	if p.Metadata.Generate == "" {
		p.Metadata.Generate = defaultMetadataPrompt
	}

	return p, nil
}

func (p *Prompts) RenderMetadata(params MetadataParams) (string, error) {
	return render(p.Metadata.Generate, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
