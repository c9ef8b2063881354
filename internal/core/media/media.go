// Package media uploads files and turns them into media blocks once the
// upload collaborator answers.
package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/bethropolis/prose/internal/document"
)

var (
	// ErrUploadFailed wraps every error of the upload collaborator. No
	// block is inserted for a failed upload and it is not retried.
	ErrUploadFailed = errors.New("upload failed")
	// ErrUnsupportedMedia is returned for files that are neither images nor
	// videos.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// File is one file to upload.
type File struct {
	Name string
	Data []byte
}

// Uploader is the upload collaborator: one request per file, returning the
// URL the file is served from.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, f File) (string, error)

// Upload calls fn.
func (fn UploaderFunc) Upload(ctx context.Context, f File) (string, error) {
	return fn(ctx, f)
}

// Detect sniffs data and returns the block kind it becomes.
// SVG is refused since it can carry scripts.
func Detect(data []byte) (document.BlockKind, *mimetype.MIME, error) {
	mime := mimetype.Detect(data)
	switch {
	case mime.Is("image/svg+xml"):
	case strings.HasPrefix(mime.String(), "image/"):
		return document.Image, mime, nil
	case strings.HasPrefix(mime.String(), "video/"):
		return document.VideoEmbed, mime, nil
	}
	return 0, mime, fmt.Errorf("%w: %s", ErrUnsupportedMedia, mime.String())
}

// NewBlock builds the media block for an uploaded file served at url.
func NewBlock(kind document.BlockKind, f File, url string) document.Block {
	if kind == document.VideoEmbed {
		return document.NewVideo(url)
	}
	return document.NewImage(url, altText(f.Name))
}

func altText(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
