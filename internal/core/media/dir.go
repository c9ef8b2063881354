package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DirUploader stores uploads in a local directory, the way a development
// setup stands in for the upload service.
type DirUploader struct {
	Dir string
	// BaseURL prefixes stored file names in returned URLs.
	BaseURL string
	// MaxBytes rejects larger files when positive.
	MaxBytes int64
}

// Upload writes f under a fresh name and returns its URL.
func (d DirUploader) Upload(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if d.MaxBytes > 0 && int64(len(f.Data)) > d.MaxBytes {
		return "", fmt.Errorf("%d bytes exceeds the %d byte limit", len(f.Data), d.MaxBytes)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + mimetype.Detect(f.Data).Extension()
	if err := os.WriteFile(filepath.Join(d.Dir, name), f.Data, 0o644); err != nil {
		return "", fmt.Errorf("store %s: %w", f.Name, err)
	}
	base := strings.TrimSuffix(d.BaseURL, "/")
	if base == "" {
		base = strings.TrimSuffix(filepath.ToSlash(d.Dir), "/")
	}
	return base + "/" + name, nil
}
