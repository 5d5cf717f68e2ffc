package tui

import (
	"thoughts/internal/domain"
)

// EventMsg wraps one backend event delivered through an EventSink.
type EventMsg struct {
	Event any
}

// SessionStateEvent reports a recording state transition.
type SessionStateEvent struct {
	State  domain.SessionState
	Reason domain.SessionStateReason
}

// ElapsedEvent carries the running counter of the active recording.
type ElapsedEvent struct {
	Seconds   int
	Formatted string
}

// RecordingEvent announces a newly cataloged recording.
type RecordingEvent struct {
	Artifact domain.Artifact
}

// ErrorEvent carries a backend error.
type ErrorEvent struct {
	Code   domain.ErrorCode
	Detail string
}

// StartResultMsg carries the outcome of a start request.
type StartResultMsg struct {
	Err error
}

// StopResultMsg carries the outcome of a stop request.
type StopResultMsg struct {
	Result domain.StopResult
	Err    error
}

// AbortResultMsg carries the outcome of leaving the record screen.
type AbortResultMsg struct {
	Err error
}

// PlaybackDoneMsg is sent when a recording finishes playing.
type PlaybackDoneMsg struct {
	ID  string
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
