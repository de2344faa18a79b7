package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/france-explorer/internal/domain"
)

// -------------------------
// fakes
// -------------------------

type fakeUserRepo struct {
	mu         sync.Mutex
	nextID     int64
	byID       map[int64]domain.User
	byUsername map[string]int64
	byEmail    map[string]int64

	getErr    error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[int64]domain.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
	}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return domain.User{}, r.getErr
	}
	id, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return domain.User{}, r.getErr
	}
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.User{}, r.createErr
	}
	if _, ok := r.byEmail[strings.ToLower(u.Email)]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if _, ok := r.byUsername[u.Username]; ok {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	r.nextID++
	u.ID = r.nextID
	r.byID[u.ID] = u
	r.byUsername[u.Username] = u.ID
	r.byEmail[strings.ToLower(u.Email)] = u.ID
	return u, nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, pw)
	}
	if hash != "hash:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

type fakeSigner struct {
	signErr error
	issued  []string
}

func (s *fakeSigner) SignAccessToken(userID string, ttl time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	tok := "tok-" + userID
	s.issued = append(s.issued, tok)
	return tok, nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	if !strings.HasPrefix(token, "tok-") {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: strings.TrimPrefix(token, "tok-"), Exp: time.Now().Add(time.Minute)}, nil
}

type fakePublisher struct {
	err    error
	events []UserRegisteredEvent
}

func (p *fakePublisher) PublishUserRegistered(_ context.Context, evt UserRegisteredEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

// -------------------------
// helpers
// -------------------------

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeSigner, *fakePublisher) {
	t.Helper()
	users := newFakeUserRepo()
	hasher := &fakeHasher{}
	signer := &fakeSigner{}
	pub := &fakePublisher{}
	svc := NewService(users, hasher, signer, pub, Config{AccessTTL: 10 * time.Minute})
	return svc, users, hasher, signer, pub
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
