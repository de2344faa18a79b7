package location

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/baechuer/france-explorer/internal/domain"
)

type fakeGeo struct {
	towns []domain.TownInfo
	err   error
	calls []string
}

func (f *fakeGeo) FindTown(_ context.Context, name, dept string) (domain.TownInfo, error) {
	f.calls = append(f.calls, name+"|"+dept)
	if f.err != nil {
		return domain.TownInfo{}, f.err
	}
	for _, t := range f.towns {
		if strings.EqualFold(t.Name, name) && t.Department == dept {
			return t, nil
		}
	}
	return domain.TownInfo{}, domain.ErrTownNotFound()
}

type fakeStore struct {
	mu      sync.Mutex
	rows    map[domain.DescriptionKey]string
	getErr  error
	saveErr error
	delErr  error

	// preempt simulates a concurrent writer winning the insert race.
	preempt string

	raceReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[domain.DescriptionKey]string{}}
}

func (f *fakeStore) Get(ctx context.Context, key domain.DescriptionKey) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ResolvingRace(ctx) {
		f.raceReads++
	}
	if f.getErr != nil {
		return "", f.getErr
	}
	d, ok := f.rows[key]
	if !ok {
		return "", domain.ErrDescriptionNotFound()
	}
	return d, nil
}

func (f *fakeStore) Save(_ context.Context, key domain.DescriptionKey, d string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return false, f.saveErr
	}
	if f.preempt != "" {
		f.rows[key] = f.preempt
		f.preempt = ""
	}
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
	calls []GenerateInput
	text  string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, in GenerateInput) (string, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return "About " + in.TownName + " (" + in.Language + ")", nil
}

type fakeImages struct {
	imgs []domain.Image
	err  error
}

func (f *fakeImages) FetchImages(context.Context, string, string) ([]domain.Image, error) {
	return f.imgs, f.err
}

type fakePublisher struct {
	generated   []DescriptionGeneratedEvent
	invalidated []DescriptionsInvalidatedEvent
	err         error
}

func (f *fakePublisher) PublishDescriptionGenerated(_ context.Context, e DescriptionGeneratedEvent) error {
	f.generated = append(f.generated, e)
	return f.err
}

func (f *fakePublisher) PublishDescriptionsInvalidated(_ context.Context, e DescriptionsInvalidatedEvent) error {
	f.invalidated = append(f.invalidated, e)
	return f.err
}

var saintEtienne = domain.TownInfo{
	Town:           domain.Town{Code: "42218", Name: "Saint-Étienne", Department: "42"},
	DepartmentName: "Loire",
	RegionCode:     "84",
	RegionName:     "Auvergne-Rhône-Alpes",
}

type harness struct {
	svc    *Service
	geo    *fakeGeo
	store  *fakeStore
	gen    *fakeGenerator
	images *fakeImages
	pub    *fakePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		geo:    &fakeGeo{towns: []domain.TownInfo{saintEtienne}},
		store:  newFakeStore(),
		gen:    &fakeGenerator{},
		images: &fakeImages{},
		pub:    &fakePublisher{},
	}
	h.svc = NewService(h.geo, h.store, h.gen, h.images, h.pub)
	return h
}

var errBoom = errors.New("boom")

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected error code %q, got %v", code, err)
	}
}
