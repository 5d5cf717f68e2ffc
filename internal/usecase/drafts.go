package usecase

import (
	"context"
	"sync"

	"thoughts/internal/ports"
)

// DraftKey is the fixed key the single shared draft lives under.
const DraftKey = "SavedTextInput"

// TextDraftStore keeps the free-text answer. Every prompt shares this one
// draft.
type TextDraftStore struct {
	repo  ports.DraftRepository
	guard *persistenceGuard

	mu     sync.Mutex
	text   string
	cached bool
}

// NewTextDraftStore returns a store backed by repo. A nil repo keeps the draft
// in memory only.
func NewTextDraftStore(repo ports.DraftRepository, events ports.EventSink) *TextDraftStore {
	return &TextDraftStore{
		repo:  repo,
		guard: newPersistenceGuard("draft", events, repo != nil),
	}
}

// Save overwrites the draft. The in-memory value is updated even when storage
// fails; only the first storage failure is returned.
func (d *TextDraftStore) Save(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.text = text
	d.cached = true

	if d.guard.Degraded() {
		return nil
	}
	if err := d.repo.SaveDraft(context.Background(), DraftKey, text); err != nil {
		return d.guard.fail("save", err)
	}
	return nil
}

// Load returns the current draft, or "" when nothing was ever saved.
func (d *TextDraftStore) Load() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cached || d.guard.Degraded() {
		return d.text
	}

	text, found, err := d.repo.LoadDraft(context.Background(), DraftKey)
	if err != nil {
		_ = d.guard.fail("load", err)
		return d.text
	}
	if found {
		d.text = text
	}
	d.cached = true
	return d.text
}

// Durable reports whether drafts are still reaching storage.
func (d *TextDraftStore) Durable() bool {
	return !d.guard.Degraded()
}
