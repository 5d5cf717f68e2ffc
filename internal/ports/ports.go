package ports

import (
	"context"
	"time"

	"thoughts/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
	OutputDir   string
}

// AudioSession is a live capture session.
type AudioSession interface {
	// Stop ends the capture and reports where the audio landed.
	Stop() (domain.Capture, error)
	// Discard ends the capture and removes anything written so far.
	Discard() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// Player plays back a stored recording.
type Player interface {
	Play(ctx context.Context, artifact domain.Artifact) error
}

// Ticker is a cancellable periodic timer.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock supplies wall time and tickers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// DraftRepository stores the free-text draft under a key.
type DraftRepository interface {
	// LoadDraft returns found=false when nothing has been stored yet.
	LoadDraft(ctx context.Context, key string) (text string, found bool, err error)
	SaveDraft(ctx context.Context, key string, text string) error
}

// ArtifactRepository is the durable, insertion-ordered list of recordings.
type ArtifactRepository interface {
	AppendArtifact(ctx context.Context, artifact domain.Artifact) error
	ListArtifacts(ctx context.Context) ([]domain.Artifact, error)
}

// ProgressRepository stores prompt completion flags.
type ProgressRepository interface {
	LoadProgress(ctx context.Context) (map[int]bool, error)
	SaveProgress(ctx context.Context, index int, complete bool) error
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason)
	ElapsedChanged(seconds int, formatted string)
	RecordingSaved(artifact domain.Artifact)
	SessionError(code domain.ErrorCode, detail string)
}
