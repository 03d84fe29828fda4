package registry

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MediaConfig holds presigned URL lifetimes for breed and dog images
type MediaConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultMediaConfig returns the default media configuration
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

var allowedImageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// imageStorageKey builds a collision-free object key under the given
// prefix, keeping the extension implied by the content type.
func imageStorageKey(prefix string, ownerID uuid.UUID, contentType string) (string, error) {
	ext, ok := allowedImageContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed for images", contentType))
	}
	return path.Join(prefix, ownerID.String(), uuid.NewString()+ext), nil
}

// uniqueSlug suffixes the base slug with -2, -3, ... until it no
// longer collides with an existing record.
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
