package usecase

import (
	"context"
	"iter"
	"slices"
	"sync"

	"thoughts/internal/domain"
	"thoughts/internal/ports"
)

// RecordingCatalog is the ordered list of finished recordings, oldest first.
type RecordingCatalog struct {
	repo  ports.ArtifactRepository
	guard *persistenceGuard

	mu     sync.Mutex
	mirror []domain.Artifact
}

// NewRecordingCatalog returns a catalog backed by repo. A nil repo keeps the
// catalog in memory only.
func NewRecordingCatalog(repo ports.ArtifactRepository, events ports.EventSink) *RecordingCatalog {
	return &RecordingCatalog{
		repo:  repo,
		guard: newPersistenceGuard("recordings", events, repo != nil),
	}
}

// Append adds artifact to the end of the catalog.
func (c *RecordingCatalog) Append(artifact domain.Artifact) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if !c.guard.Degraded() {
		if appendErr := c.repo.AppendArtifact(context.Background(), artifact); appendErr != nil {
			err = c.guard.fail("append", appendErr)
		}
	}
	c.mirror = append(c.mirror, artifact)
	return err
}

// List snapshots the catalog as of this call. The returned sequence can be
// ranged over any number of times and always yields the same snapshot.
func (c *RecordingCatalog) List() iter.Seq[domain.Artifact] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.guard.Degraded() {
		items, err := c.repo.ListArtifacts(context.Background())
		if err == nil {
			c.mirror = items
		} else {
			_ = c.guard.fail("list", err)
		}
	}
	return slices.Values(slices.Clone(c.mirror))
}

// Find looks up a recording by ID.
func (c *RecordingCatalog) Find(id string) (domain.Artifact, bool) {
	for artifact := range c.List() {
		if artifact.ID == id {
			return artifact, true
		}
	}
	return domain.Artifact{}, false
}

// Durable reports whether appends are still reaching storage.
func (c *RecordingCatalog) Durable() bool {
	return !c.guard.Degraded()
}
