package domain

import "time"

// SessionState models the recording lifecycle.
type SessionState string

const (
	SessionStateIdle      SessionState = "idle"
	SessionStateRecording SessionState = "recording"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonReady              SessionStateReason = "ready"
	SessionReasonRecordingStarted   SessionStateReason = "recording_started"
	SessionReasonRecordingSaved     SessionStateReason = "recording_saved"
	SessionReasonRecordingUnsaved   SessionStateReason = "recording_unsaved"
	SessionReasonRecordingDiscarded SessionStateReason = "recording_discarded"
	SessionReasonNoAudio            SessionStateReason = "no_audio"
	SessionReasonCaptureFailed      SessionStateReason = "capture_failed"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeCapture     ErrorCode = "capture"
	ErrorCodePlayback    ErrorCode = "playback"
	ErrorCodePersistence ErrorCode = "persistence"
)

// Language selects one of the two fixed text variants.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// Capture is what the recorder hands back once a capture is stopped.
type Capture struct {
	Path      string
	SizeBytes int64
}

// Empty reports whether the capture holds no audio.
func (c Capture) Empty() bool {
	return c.Path == "" || c.SizeBytes <= 0
}

// Artifact is one completed recording.
type Artifact struct {
	ID              string    `json:"id"`
	Path            string    `json:"path"`
	CreatedAt       time.Time `json:"createdAt"`
	DurationSeconds int       `json:"durationSeconds"`
	SizeBytes       int64     `json:"sizeBytes"`
}

// StopResult is returned once recording is stopped and the capture is processed.
type StopResult struct {
	Artifact  *Artifact `json:"artifact,omitempty"`
	Persisted bool      `json:"persisted"`
}

// Status summarizes the current runtime status.
type Status struct {
	State          SessionState `json:"state"`
	Active         bool         `json:"active"`
	ElapsedSeconds int          `json:"elapsedSeconds"`
	Elapsed        string       `json:"elapsed"`
	Message        string       `json:"message,omitempty"`
}

// Prompt is one reflection question together with its completion flag.
type Prompt struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Complete bool   `json:"complete"`
}
