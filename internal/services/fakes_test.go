package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/barreview/barreview-backend/internal/models"
)

// In-memory stand-ins for the repositories and external collaborators.
// They return copies so "record unchanged" assertions mean something.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (m *memUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUserRepo) findBy(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return u.Username == username })
}

func (m *memUserRepo) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return u.GoogleID == googleID })
}

func (m *memUserRepo) FindByFacebookID(_ context.Context, facebookID string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return u.FacebookID == facebookID })
}

func (m *memUserRepo) FindByResetToken(_ context.Context, tokenHash string) (*models.User, error) {
	return m.findBy(func(u models.User) bool {
		return u.ResetPasswordToken != "" && u.ResetPasswordToken == tokenHash
	})
}

func (m *memUserRepo) Insert(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return errors.New("duplicate key: username")
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return errors.New("no such user")
	}
	m.users[user.ID] = *user
	return nil
}

type memBarRepo struct {
	mu   sync.Mutex
	bars map[primitive.ObjectID]models.Bar

	failUpdate bool
}

func newMemBarRepo() *memBarRepo {
	return &memBarRepo{bars: map[primitive.ObjectID]models.Bar{}}
}

func (m *memBarRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bars[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (m *memBarRepo) FindByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Bar{}
	for _, b := range m.bars {
		if b.Owner == owner {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBarRepo) Insert(_ context.Context, bar *models.Bar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[bar.ID] = *bar
	return nil
}

func (m *memBarRepo) Update(_ context.Context, bar *models.Bar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate {
		return errors.New("store unavailable")
	}
	if _, ok := m.bars[bar.ID]; !ok {
		return errors.New("no such bar")
	}
	m.bars[bar.ID] = *bar
	return nil
}

func (m *memBarRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bars, id)
	return nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]models.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: map[primitive.ObjectID]models.Review{}}
}

func (m *memReviewRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rv, ok := m.reviews[id]; ok {
		return &rv, nil
	}
	return nil, nil
}

func (m *memReviewRepo) FindByBar(_ context.Context, barID primitive.ObjectID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, rv := range m.reviews {
		if rv.Bar == barID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memReviewRepo) Insert(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.ID] = *review
	return nil
}

// fakeMedia records uploads and destroys; failures are switchable to test
// best-effort cleanup.
type fakeMedia struct {
	mu        sync.Mutex
	uploads   int
	destroyed []string

	failDestroy bool
}

func (f *fakeMedia) Upload(_ context.Context, _ multipart.File) (models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return models.Image{
		URL:      fmt.Sprintf("https://media.test/img-%d.jpg", f.uploads),
		Filename: fmt.Sprintf("BarReview/img-%d", f.uploads),
	}, nil
}

func (f *fakeMedia) Destroy(_ context.Context, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDestroy {
		return errors.New("media host unreachable")
	}
	f.destroyed = append(f.destroyed, filename)
	return nil
}

type fakeMailer struct {
	mu       sync.Mutex
	lastTo   string
	lastBody string
	sent     int

	fail bool
}

func (f *fakeMailer) Send(_ context.Context, to, _, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent++
	f.lastTo = to
	f.lastBody = body
	return nil
}

// memSessionStore is an in-memory SessionStore.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
	next     int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]string{}}
}

func (m *memSessionStore) Create(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	token := fmt.Sprintf("token-%d-%d", m.next, time.Now().UnixNano())
	m.sessions[token] = userID
	return token, nil
}

func (m *memSessionStore) Get(_ context.Context, token string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.sessions[token]
	return userID, ok, nil
}

func (m *memSessionStore) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
