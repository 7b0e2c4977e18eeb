package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates a filesystem-backed storage rooted at root
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if root == "" {
		root = "qr_exports"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{root: root, baseURL: baseURL}, nil
}

// Upload writes the file under the storage root
func (l *LocalStorage) Upload(_ context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	dest := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if size > 0 && written != size {
		return nil, fmt.Errorf("short write: wrote %d of %d bytes", written, size)
	}

	return &UploadResult{
		Key:        key,
		URL:        l.GetURL(key),
		Size:       written,
		MimeType:   contentType,
		UploadedAt: time.Now(),
	}, nil
}

// Download opens a stored file
func (l *LocalStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes a stored file
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key))); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetURL returns the public URL, or the local path when no base URL is set
func (l *LocalStorage) GetURL(key string) string {
	if l.baseURL != "" {
		return fmt.Sprintf("%s/%s", l.baseURL, key)
	}
	return filepath.Join(l.root, filepath.FromSlash(key))
}

// Exists checks whether the file exists
func (l *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
