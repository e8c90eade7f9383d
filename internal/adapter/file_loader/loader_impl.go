package file_loader

import (
	"context"
	"fmt"
	"os"

	"github.com/user/page-sentinel/internal/entity"
)

// FileLoader serves a saved HTML file as if it had been fetched from the requested URL.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Load(ctx context.Context, url string) (*entity.RawPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file %s: %w", l.path, err)
	}
	return &entity.RawPage{URL: url, HTML: string(content)}, nil
}
