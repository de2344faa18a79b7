package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/domain"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

// readCookie finds cookie by name from response headers.
func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Meta    map[string]string `json:"meta"`
	} `json:"error"`
}

// -------------------------
// users
// -------------------------

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]domain.User
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byName: map[string]domain.User{}}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.User{}, r.err
	}
	u, ok := r.byName[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.User{}, r.err
	}
	for _, u := range r.byName {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[u.Username]; ok {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	u.ID = r.nextID
	r.nextID++
	r.byName[u.Username] = u
	return u, nil
}

// -------------------------
// location
// -------------------------

type fakeGeo struct {
	towns []domain.TownInfo
}

func (f *fakeGeo) FindTown(_ context.Context, name, dept string) (domain.TownInfo, error) {
	for _, t := range f.towns {
		if strings.EqualFold(t.Name, name) && t.Department == dept {
			return t, nil
		}
	}
	return domain.TownInfo{}, domain.ErrTownNotFound()
}

type fakeStore struct {
	mu     sync.Mutex
	rows   map[domain.DescriptionKey]string
	delErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[domain.DescriptionKey]string{}}
}

func (f *fakeStore) Get(_ context.Context, key domain.DescriptionKey) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.rows[key]
	if !ok {
		return "", domain.ErrDescriptionNotFound()
	}
	return d, nil
}

func (f *fakeStore) Save(_ context.Context, key domain.DescriptionKey, d string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = d
	return true, nil
}

func (f *fakeStore) DeleteByTown(_ context.Context, town, dept string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return 0, f.delErr
	}
	var n int64
	for k := range f.rows {
		if k.TownCode == town && k.Department == dept {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

type fakeGenerator struct {
	calls int
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, in location.GenerateInput) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "All about " + in.TownName + " [" + in.Language + "]", nil
}

type fakeImages struct {
	imgs []domain.Image
	err  error
}

func (f *fakeImages) FetchImages(context.Context, string, string) ([]domain.Image, error) {
	return f.imgs, f.err
}

var lyon = domain.TownInfo{
	Town:           domain.Town{Code: "69123", Name: "Lyon", Department: "69"},
	DepartmentName: "Rhône",
	RegionCode:     "84",
	RegionName:     "Auvergne-Rhône-Alpes",
}

var saintEtienne = domain.TownInfo{
	Town:           domain.Town{Code: "42218", Name: "Saint-Étienne", Department: "42"},
	DepartmentName: "Loire",
	RegionCode:     "84",
	RegionName:     "Auvergne-Rhône-Alpes",
}
