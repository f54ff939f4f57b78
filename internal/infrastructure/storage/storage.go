// Package storage provides the upload sink implementations for contributed
// PDF files: a local disk sink served under /uploads, and an S3 sink for
// deployments with object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Sink stores an uploaded file and returns a durable reference that is later
// resolved to a client-facing URL.
type Sink interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
	URL(ref string) string
}

// uniqueName derives a collision-resistant object name from the original
// filename, multer-style: base-<unix_nano>.ext.
func uniqueName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%d%s", base, time.Now().UnixNano(), ext)
}
