package registry

import (
	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is the authenticated identity evaluated by the access policy.
// The application layer builds it from the current user; staff and
// superusers both carry the moderator flag.
type Actor struct {
	ID        uuid.UUID
	Moderator bool
}

// AccessPolicy holds the authorization rules for dog and review
// mutations. Review moderation is fixed (author or moderator); dog
// mutation defaults to any authenticated user and can be restricted to
// the owner via configuration.
type AccessPolicy struct {
	// OwnerOnlyDogMutation restricts dog edit and delete to the
	// current owner when set. Unowned dogs stay editable by anyone.
	OwnerOnlyDogMutation bool
}

// AuthorizeReviewMutation permits edits and deletes by the review's
// author or a moderator. Callers must surface the failure as not-found
// so unauthorized users cannot probe for review existence.
func (p AccessPolicy) AuthorizeReviewMutation(review *Review, actor Actor) error {
	if actor.Moderator || review.IsAuthoredBy(actor.ID) {
		return nil
	}
	return shared.ErrForbidden
}

// AuthorizeDogMutation permits edits and deletes on a dog record.
func (p AccessPolicy) AuthorizeDogMutation(dog *Dog, actor Actor) error {
	if !p.OwnerOnlyDogMutation {
		return nil
	}
	if actor.Moderator || dog.OwnerID == nil || dog.IsOwnedBy(actor.ID) {
		return nil
	}
	return shared.ErrForbidden
}

// AuthorizeRelease permits releasing ownership. Non-owners must not
// learn that the dog exists from this path, so the failure is reported
// as not-found.
func (p AccessPolicy) AuthorizeRelease(dog *Dog, actor Actor) error {
	if dog.IsOwnedBy(actor.ID) {
		return nil
	}
	return shared.ErrNotFound
}
