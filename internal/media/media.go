// Package media stores uploaded files either in an S3 bucket or on local disk.
package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("media: object not found")
	ErrInvalidName     = errors.New("media: invalid object name")
	ErrUnsupportedType = errors.New("media: unsupported file type")
)

// contentTypes lists the upload extensions that are accepted and the content
// type each one is served with. Markup and scripts are never accepted.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".pdf":  "application/pdf",
}

func ext(name string) string {
	return strings.ToLower(filepath.Ext(filepath.Base(name)))
}

// ContentType returns the served content type for name, or ErrUnsupportedType
// when its extension is not an accepted upload type.
func ContentType(name string) (string, error) {
	ct, ok := contentTypes[ext(name)]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ct, nil
}

type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (*Object, error)
	Delete(ctx context.Context, name string) error
}

// NewName builds the stored name for an upload: "file-<uuid><ext>". Only
// accepted extensions are kept.
func NewName(original string) string {
	e := ext(original)
	if _, ok := contentTypes[e]; !ok {
		e = ""
	}
	return "file-" + uuid.NewString() + e
}

// ValidName rejects names that could escape the upload area.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}
