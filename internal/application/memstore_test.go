package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oksasatya/classical-review/internal/domain/entity"
	repo "github.com/oksasatya/classical-review/internal/domain/repository"
	"github.com/oksasatya/classical-review/pkg/apperror"
)

// memStore is an in-memory implementation of every repository plus
// TxManager. WithinTx snapshots the state and restores it when fn fails,
// which is how a rolled-back transaction looks from the outside.
type memStore struct {
	users        map[string]entity.User
	composers    map[string]entity.Composer
	compositions map[string]entity.Composition
	reviews      map[string]entity.Review
	likes        map[[2]string]bool

	seq   int
	fail  map[string]error
	calls []string
	txs   int
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]entity.User{},
		composers:    map[string]entity.Composer{},
		compositions: map[string]entity.Composition{},
		reviews:      map[string]entity.Review{},
		likes:        map[[2]string]bool{},
		fail:         map[string]error{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) call(op string) error {
	m.calls = append(m.calls, op)
	return m.fail[op]
}

func (m *memStore) repos() repo.Repositories {
	return repo.Repositories{
		Users:        memUsers{m},
		Composers:    memComposers{m},
		Compositions: memCompositions{m},
		Reviews:      memReviews{m},
		LikedReviews: memLikes{m},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(r repo.Repositories) error) error {
	m.txs++
	snap := m.snapshot()
	if err := fn(m.repos()); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	users        map[string]entity.User
	composers    map[string]entity.Composer
	compositions map[string]entity.Composition
	reviews      map[string]entity.Review
	likes        map[[2]string]bool
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		users:        copyMap(m.users),
		composers:    copyMap(m.composers),
		compositions: copyMap(m.compositions),
		reviews:      copyMap(m.reviews),
		likes:        copyMap(m.likes),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.users, m.composers, m.compositions, m.reviews, m.likes = s.users, s.composers, s.compositions, s.reviews, s.likes
}

// seeding helpers

func (m *memStore) addUser(u entity.User) entity.User {
	if u.ID == "" {
		u.ID = m.nextID("user")
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addComposer(name string) entity.Composer {
	c := entity.Composer{ID: m.nextID("composer"), Name: name}
	m.composers[c.ID] = c
	return c
}

func (m *memStore) addComposition(composerID, title string) entity.Composition {
	c := entity.Composition{ID: m.nextID("composition"), ComposerID: composerID, Title: title}
	m.compositions[c.ID] = c
	return c
}

// users

type memUsers struct{ m *memStore }

func (r memUsers) find(id entity.UserIdentifier) (entity.User, bool) {
	for _, u := range r.m.users {
		var v string
		switch id.(type) {
		case entity.ByID:
			v = u.ID
		case entity.ByUsername:
			v = u.Username
		case entity.ByEmail:
			v = strings.ToLower(u.Email)
		}
		if v == id.Value() {
			return u, true
		}
	}
	return entity.User{}, false
}

func (r memUsers) Create(ctx context.Context, u *entity.User) error {
	if err := r.m.call("users.create"); err != nil {
		return err
	}
	if _, ok := r.find(entity.ByUsername(u.Username)); ok {
		return apperror.Conflict("Username is already taken.")
	}
	if _, ok := r.find(entity.ByEmail(u.Email)); ok {
		return apperror.Conflict("Email is already registered.")
	}
	u.ID = r.m.nextID("user")
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) Get(ctx context.Context, id entity.UserIdentifier) (*entity.User, error) {
	if err := r.m.call("users.get"); err != nil {
		return nil, err
	}
	u, ok := r.find(id)
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) Exists(ctx context.Context, id entity.UserIdentifier) (bool, error) {
	if err := r.m.call("users.exists"); err != nil {
		return false, err
	}
	_, ok := r.find(id)
	return ok, nil
}

func (r memUsers) SetVerified(ctx context.Context, userID string) error {
	if err := r.m.call("users.set_verified"); err != nil {
		return err
	}
	u, ok := r.m.users[userID]
	if !ok {
		return apperror.ErrNotFound
	}
	u.IsVerified = true
	r.m.users[userID] = u
	return nil
}

func (r memUsers) update(userID string, fn func(u *entity.User)) (*entity.User, error) {
	u, ok := r.m.users[userID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	fn(&u)
	r.m.users[userID] = u
	return &u, nil
}

func (r memUsers) UpdateBio(ctx context.Context, userID, bio string) (*entity.User, error) {
	if err := r.m.call("users.update_bio"); err != nil {
		return nil, err
	}
	return r.update(userID, func(u *entity.User) { u.Bio = bio })
}

func (r memUsers) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*entity.User, error) {
	if err := r.m.call("users.update_avatar"); err != nil {
		return nil, err
	}
	return r.update(userID, func(u *entity.User) { u.AvatarURL = avatarURL })
}

func (r memUsers) Search(ctx context.Context, username string, limit int) ([]entity.User, error) {
	if err := r.m.call("users.search"); err != nil {
		return nil, err
	}
	var out []entity.User
	for _, u := range r.m.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(username)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r memUsers) aggregate(op, id string, fn func(runningMean) runningMean) error {
	if err := r.m.call(op); err != nil {
		return err
	}
	_, err := r.update(id, func(u *entity.User) {
		a := fn(runningMean{Average: u.AverageReview, Total: u.TotalReviews})
		u.AverageReview, u.TotalReviews = a.Average, a.Total
	})
	return err
}

func (r memUsers) IncrementReviewData(ctx context.Context, id string, rating int) error {
	return r.aggregate("users.increment", id, func(a runningMean) runningMean { return a.Add(rating) })
}

func (r memUsers) UpdateReviewData(ctx context.Context, id string, oldRating, newRating int) error {
	return r.aggregate("users.update", id, func(a runningMean) runningMean { return a.Replace(oldRating, newRating) })
}

func (r memUsers) RemoveReviewData(ctx context.Context, id string, rating int) error {
	return r.aggregate("users.remove", id, func(a runningMean) runningMean { return a.Remove(rating) })
}

// composers

type memComposers struct{ m *memStore }

func (r memComposers) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.m.composers[id]
	return ok, r.m.call("composers.exists")
}

func (r memComposers) Get(ctx context.Context, id string) (*entity.Composer, error) {
	if err := r.m.call("composers.get"); err != nil {
		return nil, err
	}
	c, ok := r.m.composers[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &c, nil
}

func (r memComposers) Insert(ctx context.Context, c *entity.Composer) error {
	c.ID = r.m.nextID("composer")
	r.m.composers[c.ID] = *c
	return r.m.call("composers.insert")
}

func (r memComposers) Search(ctx context.Context, name string, limit int) ([]entity.Composer, error) {
	if err := r.m.call("composers.search"); err != nil {
		return nil, err
	}
	var out []entity.Composer
	for _, c := range r.m.composers {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memComposers) aggregate(op, id string, fn func(runningMean) runningMean) error {
	if err := r.m.call(op); err != nil {
		return err
	}
	c, ok := r.m.composers[id]
	if !ok {
		return apperror.ErrNotFound
	}
	a := fn(runningMean{Average: c.AverageReview, Total: c.TotalReviews})
	c.AverageReview, c.TotalReviews = a.Average, a.Total
	r.m.composers[id] = c
	return nil
}

func (r memComposers) IncrementReviewData(ctx context.Context, id string, rating int) error {
	return r.aggregate("composers.increment", id, func(a runningMean) runningMean { return a.Add(rating) })
}

func (r memComposers) UpdateReviewData(ctx context.Context, id string, oldRating, newRating int) error {
	return r.aggregate("composers.update", id, func(a runningMean) runningMean { return a.Replace(oldRating, newRating) })
}

func (r memComposers) RemoveReviewData(ctx context.Context, id string, rating int) error {
	return r.aggregate("composers.remove", id, func(a runningMean) runningMean { return a.Remove(rating) })
}

// compositions

type memCompositions struct{ m *memStore }

func (r memCompositions) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.m.compositions[id]
	return ok, r.m.call("compositions.exists")
}

func (r memCompositions) Get(ctx context.Context, id string) (*entity.Composition, error) {
	if err := r.m.call("compositions.get"); err != nil {
		return nil, err
	}
	c, ok := r.m.compositions[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &c, nil
}

func (r memCompositions) Insert(ctx context.Context, c *entity.Composition) error {
	c.ID = r.m.nextID("composition")
	r.m.compositions[c.ID] = *c
	return r.m.call("compositions.insert")
}

func (r memCompositions) Search(ctx context.Context, title, composerID string, limit int) ([]entity.Composition, error) {
	if err := r.m.call("compositions.search"); err != nil {
		return nil, err
	}
	var out []entity.Composition
	for _, c := range r.m.compositions {
		if composerID != "" && c.ComposerID != composerID {
			continue
		}
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(title)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r memCompositions) aggregate(op, id string, fn func(runningMean) runningMean) error {
	if err := r.m.call(op); err != nil {
		return err
	}
	c, ok := r.m.compositions[id]
	if !ok {
		return apperror.ErrNotFound
	}
	a := fn(runningMean{Average: c.AverageReview, Total: c.TotalReviews})
	c.AverageReview, c.TotalReviews = a.Average, a.Total
	r.m.compositions[id] = c
	return nil
}

func (r memCompositions) IncrementReviewData(ctx context.Context, id string, rating int) error {
	return r.aggregate("compositions.increment", id, func(a runningMean) runningMean { return a.Add(rating) })
}

func (r memCompositions) UpdateReviewData(ctx context.Context, id string, oldRating, newRating int) error {
	return r.aggregate("compositions.update", id, func(a runningMean) runningMean { return a.Replace(oldRating, newRating) })
}

func (r memCompositions) RemoveReviewData(ctx context.Context, id string, rating int) error {
	return r.aggregate("compositions.remove", id, func(a runningMean) runningMean { return a.Remove(rating) })
}

// reviews

type memReviews struct{ m *memStore }

func (r memReviews) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.m.reviews[id]
	return ok, r.m.call("reviews.exists")
}

func (r memReviews) Get(ctx context.Context, id string) (*entity.Review, error) {
	if err := r.m.call("reviews.get"); err != nil {
		return nil, err
	}
	rv, ok := r.m.reviews[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &rv, nil
}

func (r memReviews) UserReviewExists(ctx context.Context, userID, compositionID string) (bool, error) {
	if err := r.m.call("reviews.user_review_exists"); err != nil {
		return false, err
	}
	for _, rv := range r.m.reviews {
		if rv.UserID == userID && rv.CompositionID == compositionID {
			return true, nil
		}
	}
	return false, nil
}

func (r memReviews) Insert(ctx context.Context, rv *entity.Review) error {
	if err := r.m.call("reviews.insert"); err != nil {
		return err
	}
	rv.ID = r.m.nextID("review")
	rv.CreatedAt, rv.UpdatedAt = time.Now(), time.Now()
	r.m.reviews[rv.ID] = *rv
	return nil
}

func (r memReviews) Update(ctx context.Context, id string, rating int, comment *string) (*entity.Review, error) {
	if err := r.m.call("reviews.update"); err != nil {
		return nil, err
	}
	rv, ok := r.m.reviews[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	rv.Rating, rv.Comment, rv.UpdatedAt = rating, comment, time.Now()
	r.m.reviews[id] = rv
	return &rv, nil
}

func (r memReviews) Delete(ctx context.Context, id string) error {
	if err := r.m.call("reviews.delete"); err != nil {
		return err
	}
	if _, ok := r.m.reviews[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(r.m.reviews, id)
	return nil
}

func (r memReviews) likes(op, id string, fn func(n int) int) error {
	if err := r.m.call(op); err != nil {
		return err
	}
	rv, ok := r.m.reviews[id]
	if !ok {
		return apperror.ErrNotFound
	}
	rv.NumLiked = fn(rv.NumLiked)
	r.m.reviews[id] = rv
	return nil
}

func (r memReviews) IncrementLikes(ctx context.Context, id string) error {
	return r.likes("reviews.increment_likes", id, func(n int) int { return n + 1 })
}

func (r memReviews) DecrementLikes(ctx context.Context, id string) error {
	return r.likes("reviews.decrement_likes", id, func(n int) int { return max(n-1, 0) })
}

func (r memReviews) ResetLikes(ctx context.Context, id string) error {
	return r.likes("reviews.reset_likes", id, func(int) int { return 0 })
}

func (r memReviews) Search(ctx context.Context, f repo.ReviewFilter) ([]entity.Review, error) {
	if err := r.m.call("reviews.search"); err != nil {
		return nil, err
	}
	var out []entity.Review
	for _, rv := range r.m.reviews {
		if f.CompositionID != "" && rv.CompositionID != f.CompositionID {
			continue
		}
		if f.UserID != "" && rv.UserID != f.UserID {
			continue
		}
		if f.Comment != "" && (rv.Comment == nil || !strings.Contains(strings.ToLower(*rv.Comment), strings.ToLower(f.Comment))) {
			continue
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// liked reviews

type memLikes struct{ m *memStore }

func (r memLikes) Exists(ctx context.Context, userID, reviewID string) (bool, error) {
	return r.m.likes[[2]string{userID, reviewID}], r.m.call("liked_reviews.exists")
}

func (r memLikes) Insert(ctx context.Context, userID, reviewID string) error {
	if err := r.m.call("liked_reviews.insert"); err != nil {
		return err
	}
	key := [2]string{userID, reviewID}
	if r.m.likes[key] {
		return apperror.Conflict("Review is already liked.")
	}
	r.m.likes[key] = true
	return nil
}

func (r memLikes) Delete(ctx context.Context, userID, reviewID string) error {
	if err := r.m.call("liked_reviews.delete"); err != nil {
		return err
	}
	key := [2]string{userID, reviewID}
	if !r.m.likes[key] {
		return apperror.ErrNotFound
	}
	delete(r.m.likes, key)
	return nil
}

func (r memLikes) DeleteForReview(ctx context.Context, reviewID string) error {
	if err := r.m.call("liked_reviews.delete_for_review"); err != nil {
		return err
	}
	for k := range r.m.likes {
		if k[1] == reviewID {
			delete(r.m.likes, k)
		}
	}
	return nil
}

var (
	_ repo.TxManager             = (*memStore)(nil)
	_ repo.UserRepository        = memUsers{}
	_ repo.ComposerRepository    = memComposers{}
	_ repo.CompositionRepository = memCompositions{}
	_ repo.ReviewRepository      = memReviews{}
	_ repo.LikedReviewRepository = memLikes{}
)
