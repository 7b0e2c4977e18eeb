package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/richxcame/cardlink/pkg/config"
)

// Provider represents a storage provider type
type Provider string

const (
	ProviderS3    Provider = "s3"
	ProviderLocal Provider = "local"
)

// UploadResult contains the result of an upload operation
type UploadResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Storage interface defines the archive storage operations
type Storage interface {
	// Upload uploads a file to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)

	// Download downloads a file from storage
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete deletes a file from storage
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a file
	GetURL(key string) string

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds a Storage backend from configuration
func New(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	switch Provider(cfg.Provider) {
	case ProviderS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			BaseURL:   cfg.BaseURL,
		})
	case ProviderLocal, "":
		return NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// GenerateArchiveKey generates a storage key for a bulk export archive
func GenerateArchiveKey(cardID uuid.UUID, filename string) string {
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("exports/%s/%s_%s", cardID.String(), timestamp, filename)
}

// SanitizeName reduces a company name to a filesystem-safe token
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "export"
	}
	return out
}
