package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"thoughts/internal/domain"
)

func TestTextDraftStoreSaveThenLoad(t *testing.T) {
	t.Parallel()

	store := NewTextDraftStore(newFakeDraftRepo(), &fakeEventSink{})
	if err := store.Save("hello"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got := store.Load(); got != "hello" {
		t.Fatalf("unexpected draft: %q", got)
	}
}

func TestTextDraftStoreLoadFresh(t *testing.T) {
	t.Parallel()

	store := NewTextDraftStore(newFakeDraftRepo(), &fakeEventSink{})
	if got := store.Load(); got != "" {
		t.Fatalf("expected empty draft, got %q", got)
	}
}

func TestTextDraftStoreSurvivesRestart(t *testing.T) {
	t.Parallel()

	repo := newFakeDraftRepo()
	first := NewTextDraftStore(repo, &fakeEventSink{})
	if err := first.Save("كيف تشعر اليوم؟"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	second := NewTextDraftStore(repo, &fakeEventSink{})
	if got := second.Load(); got != "كيف تشعر اليوم؟" {
		t.Fatalf("draft did not survive restart: %q", got)
	}
	if repo.values[DraftKey] != "كيف تشعر اليوم؟" {
		t.Fatalf("expected draft under fixed key")
	}
}

func TestTextDraftStoreSaveFailureDegradesOnce(t *testing.T) {
	t.Parallel()

	repo := newFakeDraftRepo()
	repo.saveErr = errors.New("read-only filesystem")
	events := &fakeEventSink{}
	store := NewTextDraftStore(repo, events)

	err := store.Save("first")
	if !errors.Is(err, domain.ErrPersistenceUnavailable) {
		t.Fatalf("expected ErrPersistenceUnavailable, got %v", err)
	}
	if store.Durable() {
		t.Fatalf("expected store to be memory-only")
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("expected later saves to succeed in memory, got %v", err)
	}
	if got := store.Load(); got != "second" {
		t.Fatalf("expected in-memory value, got %q", got)
	}
	if repo.saveCalls != 1 {
		t.Fatalf("expected storage to be tried once, got %d", repo.saveCalls)
	}
	if errs := events.snapshotErrors(); len(errs) != 1 || errs[0].code != domain.ErrorCodePersistence {
		t.Fatalf("expected one persistence error event, got %+v", errs)
	}
}

func TestTextDraftStoreLoadFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	repo := newFakeDraftRepo()
	repo.loadErr = errors.New("database locked")
	events := &fakeEventSink{}
	store := NewTextDraftStore(repo, events)

	if got := store.Load(); got != "" {
		t.Fatalf("expected empty draft, got %q", got)
	}
	if got := store.Load(); got != "" {
		t.Fatalf("expected empty draft, got %q", got)
	}
	if repo.loadCalls != 1 {
		t.Fatalf("expected a single load attempt, got %d", repo.loadCalls)
	}
	if err := store.Save("kept"); err != nil {
		t.Fatalf("expected memory save, got %v", err)
	}
	if got := store.Load(); got != "kept" {
		t.Fatalf("unexpected draft: %q", got)
	}
	if len(events.snapshotErrors()) != 1 {
		t.Fatalf("expected failure to be reported once")
	}
}

func TestTextDraftStoreWithoutRepo(t *testing.T) {
	t.Parallel()

	store := NewTextDraftStore(nil, nil)
	if err := store.Save("memo"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got := store.Load(); got != "memo" {
		t.Fatalf("unexpected draft: %q", got)
	}
}

type fakeDraftRepo struct {
	mu        sync.Mutex
	values    map[string]string
	saveErr   error
	loadErr   error
	saveCalls int
	loadCalls int
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{values: map[string]string{}}
}

func (f *fakeDraftRepo) LoadDraft(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	if f.loadErr != nil {
		return "", false, f.loadErr
	}
	text, ok := f.values[key]
	return text, ok, nil
}

func (f *fakeDraftRepo) SaveDraft(_ context.Context, key string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.values[key] = text
	return nil
}
