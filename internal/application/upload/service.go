package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/pkg/id"
)

// MaxImageSize caps a single upload.
const MaxImageSize = 5 << 20

const uploadPrefix = "uploads/"

var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type Input struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	// UploadImage stores an image and returns its public URL.
	UploadImage(ctx context.Context, in Input) (string, error)
	// DeleteImage removes an object previously returned by UploadImage.
	DeleteImage(ctx context.Context, key string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	store objectStore
}

func NewService(store objectStore) Service {
	return &service{store: store}
}

func (s *service) UploadImage(ctx context.Context, in Input) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(in.ContentType, ";", 2)[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("only image uploads are allowed: %w", domain.ErrBadRequest)
	}
	if in.Size > MaxImageSize {
		return "", fmt.Errorf("image exceeds %d MB: %w", MaxImageSize>>20, domain.ErrBadRequest)
	}
	// The extension always follows the content type; the client name only
	// contributes a readable stem.
	safe := sanitizeFilename(in.Filename)
	stem := strings.TrimSuffix(safe, path.Ext(safe))
	key := uploadPrefix + id.New()
	if stem != "" && stem != "_" {
		key += "-" + stem
	}
	key += ext
	url, err := s.store.Upload(ctx, key, io.LimitReader(in.Reader, MaxImageSize), contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %v: %w", err, domain.ErrInternal)
	}
	return url, nil
}

// DeleteImage only accepts keys under uploads/ with no traversal.
func (s *service) DeleteImage(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, uploadPrefix) || path.Clean(key) != key || path.Base(key) != sanitizeFilename(key) {
		return fmt.Errorf("invalid upload key: %w", domain.ErrBadRequest)
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete image: %v: %w", err, domain.ErrInternal)
	}
	return nil
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
