package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskSink writes uploads to a local directory. References are paths of the
// form "uploads/<name>" and resolve to the static /uploads route.
type DiskSink struct {
	dir string
}

// NewDiskSink creates the directory if needed and returns the sink.
func NewDiskSink(dir string) (*DiskSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskSink{dir: dir}, nil
}

// Dir returns the directory the sink writes to, for static file serving.
func (s *DiskSink) Dir() string {
	return s.dir
}

func (s *DiskSink) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := uniqueName(filename)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return "uploads/" + name, nil
}

func (s *DiskSink) URL(ref string) string {
	return "/" + ref
}
