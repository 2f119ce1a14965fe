package recognition

import (
	"context"
	"fmt"
	"os"
)

// FileProvider replays a stored recognition result from disk. It backs
// offline runs and fixtures: the document argument is ignored because the
// stored file already is the recognition outcome.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider that reads the given result file on
// every Recognize call.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Name identifies the provider.
func (p *FileProvider) Name() string { return "file" }

// Recognize reads and decodes the stored result.
func (p *FileProvider) Recognize(ctx context.Context, _ Document, _ Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("recognition: read stored result: %w", err)
	}
	res, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("recognition: stored result %s: %w", p.path, err)
	}
	return res, nil
}
