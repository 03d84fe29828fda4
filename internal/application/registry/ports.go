package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or a local stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ViewMilestone carries everything a notifier needs to announce that a
// dog's profile reached a round view count. Values are copied out of
// the aggregate so the notification can run after the request returns.
type ViewMilestone struct {
	DogID      uuid.UUID
	DogName    string
	DogSlug    string
	Views      int64
	OwnerName  string
	OwnerEmail string
}

// MilestoneNotifier delivers view milestone notifications, typically
// by email to the dog's owner.
type MilestoneNotifier interface {
	NotifyViewMilestone(ctx context.Context, milestone ViewMilestone) error
}
