package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"esekoir/internal/domain/service"
)

// DiskStore keeps uploads under a local directory that the HTTP server
// exposes at baseURL.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *DiskStore) Root() string { return d.root }

func (d *DiskStore) resolve(objectPath string) (string, error) {
	clean := filepath.Clean("/" + objectPath)
	if clean == "/" {
		return "", fmt.Errorf("empty object path")
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

func (d *DiskStore) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string, overwrite bool) error {
	target, err := d.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create object dir: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return service.ErrBlobExists
		}
		return fmt.Errorf("failed to open object: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	return f.Close()
}

func (d *DiskStore) PublicURL(objectPath string) string {
	return d.baseURL + "/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+objectPath)), "/")
}

func (d *DiskStore) Delete(ctx context.Context, objectPath string) error {
	target, err := d.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (d *DiskStore) Close() error { return nil }
