package repositories

import (
	"context"
	"fmt"
	"io"
	"os"
)

type fileSource struct {
	path string
}

// NewFileSource opens the workbook from the local filesystem.
func NewFileSource(path string) WorkbookSource {
	return &fileSource{path: path}
}

func (s *fileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, s.path)
		}
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	return f, nil
}

func (s *fileSource) Key() string {
	return s.path
}
