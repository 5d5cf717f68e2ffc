package usecase

import (
	"github.com/google/uuid"

	"thoughts/internal/domain"
	"thoughts/internal/ports"
)

type artifactFinalizer struct {
	catalog *RecordingCatalog
	clock   ports.Clock
	events  ports.EventSink
	newID   func() string
}

func newArtifactFinalizer(catalog *RecordingCatalog, clock ports.Clock, events ports.EventSink) artifactFinalizer {
	return artifactFinalizer{catalog: catalog, clock: clock, events: events, newID: uuid.NewString}
}

// Finalize turns a non-empty capture into an artifact and files it in the
// catalog. A catalog that has lost storage still receives the artifact in
// memory, so the result is returned either way.
func (f artifactFinalizer) Finalize(capture domain.Capture, durationSeconds int) (domain.StopResult, domain.SessionStateReason) {
	artifact := domain.Artifact{
		ID:              f.newID(),
		Path:            capture.Path,
		CreatedAt:       f.clock.Now().UTC(),
		DurationSeconds: durationSeconds,
		SizeBytes:       capture.SizeBytes,
	}

	// A catalog that is already memory-only accepts the artifact without error.
	result := domain.StopResult{Artifact: &artifact, Persisted: f.catalog.Durable()}
	if err := f.catalog.Append(artifact); err != nil {
		// The catalog has reported the storage failure.
		result.Persisted = false
	}
	reason := domain.SessionReasonRecordingSaved
	if !result.Persisted {
		reason = domain.SessionReasonRecordingUnsaved
	}

	f.events.RecordingSaved(artifact)
	return result, reason
}
