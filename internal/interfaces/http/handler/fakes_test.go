package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	appregistry "github.com/bony/backend/internal/application/registry"
	domidentity "github.com/bony/backend/internal/domain/identity"
	domregistry "github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
)

// In-memory repository fakes. They implement the domain repository
// interfaces well enough to run the real application services behind
// the HTTP stack without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domidentity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]domidentity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domidentity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domidentity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return shared.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domidentity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domidentity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			u := user
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domidentity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeUserRepo) matching(filter shared.Filter) []domidentity.User {
	needle := strings.ToLower(filter.Search)
	var matched []domidentity.User
	for _, user := range r.users {
		if needle == "" ||
			strings.Contains(strings.ToLower(user.Username), needle) ||
			strings.Contains(strings.ToLower(user.Email), needle) {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })
	return matched
}

func (r *fakeUserRepo) FindAll(_ context.Context, filter shared.Filter) ([]domidentity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.matching(filter)
	return pageOf(matched, filter), nil
}

func (r *fakeUserRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

type fakeBreedRepo struct {
	mu     sync.Mutex
	breeds map[uuid.UUID]domregistry.Breed
}

func newFakeBreedRepo() *fakeBreedRepo {
	return &fakeBreedRepo{breeds: make(map[uuid.UUID]domregistry.Breed)}
}

func (r *fakeBreedRepo) Create(_ context.Context, breed *domregistry.Breed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breeds[breed.ID] = *breed
	return nil
}

func (r *fakeBreedRepo) Update(_ context.Context, breed *domregistry.Breed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.breeds[breed.ID]; !ok {
		return shared.ErrNotFound
	}
	r.breeds[breed.ID] = *breed
	return nil
}

func (r *fakeBreedRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.breeds[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.breeds, id)
	return nil
}

func (r *fakeBreedRepo) FindByID(_ context.Context, id uuid.UUID) (*domregistry.Breed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	breed, ok := r.breeds[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &breed, nil
}

func (r *fakeBreedRepo) FindBySlug(_ context.Context, slug string) (*domregistry.Breed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, breed := range r.breeds {
		if breed.Slug == slug {
			b := breed
			return &b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBreedRepo) FindAll(_ context.Context, filter shared.Filter) ([]*domregistry.Breed, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(filter.Search)
	var matched []domregistry.Breed
	for _, breed := range r.breeds {
		if needle == "" || strings.Contains(strings.ToLower(breed.Name), needle) {
			matched = append(matched, breed)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	page := pageOf(matched, filter)
	out := make([]*domregistry.Breed, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(matched)), nil
}

func (r *fakeBreedRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, breed := range r.breeds {
		if strings.EqualFold(breed.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBreedRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, breed := range r.breeds {
		if breed.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeDogRepo struct {
	mu        sync.Mutex
	dogs      map[uuid.UUID]domregistry.Dog
	pedigrees map[uuid.UUID]domregistry.Pedigree
}

func newFakeDogRepo() *fakeDogRepo {
	return &fakeDogRepo{
		dogs:      make(map[uuid.UUID]domregistry.Dog),
		pedigrees: make(map[uuid.UUID]domregistry.Pedigree),
	}
}

func (r *fakeDogRepo) Create(_ context.Context, dog *domregistry.Dog, pedigree *domregistry.Pedigree) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dogs[dog.ID] = *dog
	if pedigree != nil {
		r.pedigrees[dog.ID] = *pedigree
	}
	return nil
}

func (r *fakeDogRepo) Update(_ context.Context, dog *domregistry.Dog, pedigree *domregistry.Pedigree) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[dog.ID]; !ok {
		return shared.ErrNotFound
	}
	r.dogs[dog.ID] = *dog
	if pedigree != nil {
		r.pedigrees[dog.ID] = *pedigree
	} else {
		delete(r.pedigrees, dog.ID)
	}
	return nil
}

func (r *fakeDogRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.dogs, id)
	delete(r.pedigrees, id)
	return nil
}

func (r *fakeDogRepo) FindByID(_ context.Context, id uuid.UUID) (*domregistry.Dog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, ok := r.dogs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &dog, nil
}

func (r *fakeDogRepo) FindBySlug(_ context.Context, slug string) (*domregistry.Dog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dog := range r.dogs {
		if dog.Slug == slug {
			d := dog
			return &d, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeDogRepo) FindPedigree(_ context.Context, dogID uuid.UUID) (*domregistry.Pedigree, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pedigree, ok := r.pedigrees[dogID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &pedigree, nil
}

func (r *fakeDogRepo) FindAll(_ context.Context, filter shared.Filter) ([]*domregistry.Dog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(filter.Search)
	var matched []domregistry.Dog
	for _, dog := range r.dogs {
		if needle == "" || strings.Contains(strings.ToLower(dog.Name), needle) {
			matched = append(matched, dog)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	page := pageOf(matched, filter)
	out := make([]*domregistry.Dog, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(matched)), nil
}

func (r *fakeDogRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*domregistry.Dog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*domregistry.Dog
	for _, dog := range r.dogs {
		if dog.OwnerID != nil && *dog.OwnerID == ownerID {
			d := dog
			owned = append(owned, &d)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Name < owned[j].Name })
	return owned, nil
}

func (r *fakeDogRepo) Claim(_ context.Context, dogID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, ok := r.dogs[dogID]
	if !ok {
		return shared.ErrNotFound
	}
	if dog.OwnerID != nil {
		return shared.ErrAlreadyOwned
	}
	dog.OwnerID = &userID
	r.dogs[dogID] = dog
	return nil
}

func (r *fakeDogRepo) Release(_ context.Context, dogID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, ok := r.dogs[dogID]
	if !ok || dog.OwnerID == nil || *dog.OwnerID != userID {
		return shared.ErrNotFound
	}
	dog.OwnerID = nil
	r.dogs[dogID] = dog
	return nil
}

func (r *fakeDogRepo) IncrementViewCount(_ context.Context, dogID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, ok := r.dogs[dogID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	dog.ViewCount++
	r.dogs[dogID] = dog
	return dog.ViewCount, nil
}

func (r *fakeDogRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dog := range r.dogs {
		if dog.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDogRepo) CountByBreed(_ context.Context, breedID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, dog := range r.dogs {
		if dog.BreedID == breedID {
			count++
		}
	}
	return count, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]domregistry.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]domregistry.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *domregistry.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[review.ID] = *review
	return nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *domregistry.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[review.ID]; !ok {
		return shared.ErrNotFound
	}
	r.reviews[review.ID] = *review
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*domregistry.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &review, nil
}

func (r *fakeReviewRepo) FindByDog(_ context.Context, dogID uuid.UUID) ([]*domregistry.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domregistry.Review
	for _, review := range r.reviews {
		if review.DogID == dogID {
			matched = append(matched, review)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	out := make([]*domregistry.Review, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, nil
}

func (r *fakeReviewRepo) CountByDog(_ context.Context, dogID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, review := range r.reviews {
		if review.DogID == dogID {
			count++
		}
	}
	return count, nil
}

type fakeStorage struct{}

func (fakeStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://uploads.test/" + storageKey, time.Now().Add(expiresIn), nil
}

func (fakeStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://cdn.test/" + storageKey, time.Now().Add(expiresIn), nil
}

func (fakeStorage) DeleteObject(_ context.Context, _ string) error { return nil }

func (fakeStorage) ObjectExists(_ context.Context, _ string) (bool, error) { return true, nil }

type sentMail struct {
	To       string
	Username string
	Password string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Username: username, Password: password})
	return nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	milestones []string
}

func (n *fakeNotifier) NotifyViewMilestone(_ context.Context, milestone appregistry.ViewMilestone) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.milestones = append(n.milestones, fmt.Sprintf("%s@%d", milestone.DogName, milestone.Views))
	return nil
}

func pageOf[T any](items []T, filter shared.Filter) []T {
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(items) {
		return nil
	}
	end := start + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
