package registry

import (
	"strings"
	"time"

	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is an authored rating and comment attached to a dog. A user
// may post any number of reviews for the same dog.
type Review struct {
	shared.BaseEntity
	DogID    uuid.UUID
	AuthorID uuid.UUID
	Text     string
	Rating   int
}

// NewReview creates a review for a dog.
func NewReview(dogID, authorID uuid.UUID, text string, rating int) (*Review, error) {
	if dogID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "review requires a dog")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "review requires an author")
	}
	text = strings.TrimSpace(text)
	if err := validateReview(text, rating); err != nil {
		return nil, err
	}

	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		DogID:      dogID,
		AuthorID:   authorID,
		Text:       text,
		Rating:     rating,
	}, nil
}

// Update replaces the text and rating and refreshes the edit timestamp.
func (r *Review) Update(text string, rating int) error {
	text = strings.TrimSpace(text)
	if err := validateReview(text, rating); err != nil {
		return err
	}

	r.Text = text
	r.Rating = rating
	r.UpdatedAt = time.Now()

	return nil
}

// IsAuthoredBy reports whether the given user wrote the review.
func (r *Review) IsAuthoredBy(userID uuid.UUID) bool {
	return r.AuthorID == userID
}

func validateReview(text string, rating int) error {
	if text == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "review text is required")
	}
	if len(text) > 2000 {
		return shared.NewDomainError("VALIDATION_ERROR", "review text must not exceed 2000 characters")
	}
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("VALIDATION_ERROR", "rating must be between 1 and 5")
	}
	return nil
}
