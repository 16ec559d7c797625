package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrBlobExists is returned by Upload when overwrite is unset and the object
// is already present.
var ErrBlobExists = errors.New("blob already exists")

// BlobStore keeps user uploads (avatars, receipts, card backgrounds).
type BlobStore interface {
	// Upload writes r under objectPath. With overwrite unset an existing
	// object makes the call fail.
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string, overwrite bool) error
	PublicURL(objectPath string) string
	Delete(ctx context.Context, objectPath string) error
	Close() error
}

// ExtensionFor maps an upload content type to a file extension.
func ExtensionFor(contentType, filename string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	return ".bin"
}

// AllowedImage reports whether contentType is an image we accept.
func AllowedImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
