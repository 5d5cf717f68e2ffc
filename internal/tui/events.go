package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"thoughts/internal/domain"
)

const eventBuffer = 128

// EventSink forwards backend events into the bubbletea program. Sends never
// block; an event that does not fit the buffer is dropped.
type EventSink struct {
	ch chan tea.Msg
}

func NewEventSink() *EventSink {
	return &EventSink{ch: make(chan tea.Msg, eventBuffer)}
}

// Messages is the channel the model reads events from.
func (s *EventSink) Messages() <-chan tea.Msg {
	return s.ch
}

func (s *EventSink) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	s.send(SessionStateEvent{State: state, Reason: reason})
}

func (s *EventSink) ElapsedChanged(seconds int, formatted string) {
	s.send(ElapsedEvent{Seconds: seconds, Formatted: formatted})
}

func (s *EventSink) RecordingSaved(artifact domain.Artifact) {
	s.send(RecordingEvent{Artifact: artifact})
}

func (s *EventSink) SessionError(code domain.ErrorCode, detail string) {
	s.send(ErrorEvent{Code: code, Detail: detail})
}

func (s *EventSink) send(event any) {
	select {
	case s.ch <- EventMsg{Event: event}:
	default:
		slog.Debug("ui event dropped", "event", event)
	}
}

// waitForEventCmd reads the next event from the sink.
func waitForEventCmd(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
