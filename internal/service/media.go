package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"time"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/storage"
	"github.com/Skotchmaster/journohub/pkg/logging"
)

const MaxImageSize = 5 << 20

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type MediaService struct {
	Store   storage.Store
	Timeout time.Duration
}

// UploadImage stores an image and returns its public URL. contentType is
// expected to be sniffed from the data, not taken from the client. Only the
// types in imageExts are accepted and the stored extension comes from that
// table; filename is used for logging only.
func (s *MediaService) UploadImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if size > MaxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrValidation, MaxImageSize)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	ext, ok := imageExts[mediaType]
	if err != nil || !ok {
		logging.FromContext(ctx).Warn("image_upload_rejected", "filename", filename, "content_type", contentType)
		return "", fmt.Errorf("%w: only jpeg, png, gif and webp images are allowed", domain.ErrValidation)
	}
	if s.Store == nil {
		return "", fmt.Errorf("%w: no image store configured", domain.ErrDependencyUnavailable)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	uctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url, err := s.Store.Put(uctx, storage.NewKey(ext), mediaType, r, size)
	if err != nil {
		logging.FromContext(ctx).Error("image_upload_failed", "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrDependencyUnavailable, err)
	}
	return url, nil
}
