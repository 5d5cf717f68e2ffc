package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"thoughts/internal/domain"
	"thoughts/internal/ports"
)

var (
	ErrAlreadyRecording   = errors.New("recording already in progress")
	ErrNotRecording       = errors.New("no active recording")
	ErrCaptureUnavailable = errors.New("audio capture unavailable")
)

// Config controls recording behavior.
type Config struct {
	Audio        ports.AudioConfig
	TickInterval time.Duration
}

// RecordingSession owns the idle/recording state machine for one record
// screen. Transitions are serialized; the elapsed counter is advanced by a
// ticker goroutine that never outlives Stop or Abort.
type RecordingSession struct {
	audio     ports.AudioCapture
	clock     ports.Clock
	events    ports.EventSink
	finalizer artifactFinalizer
	cfg       Config

	opMu sync.Mutex

	mu      sync.Mutex
	current *activeSession
}

func NewRecordingSession(
	audio ports.AudioCapture,
	catalog *RecordingCatalog,
	clock ports.Clock,
	events ports.EventSink,
	cfg Config,
) *RecordingSession {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &RecordingSession{
		audio:     audio,
		clock:     clock,
		events:    events,
		finalizer: newArtifactFinalizer(catalog, clock, events),
		cfg:       cfg,
	}
}

// Start begins capturing. It fails with ErrAlreadyRecording while a capture
// is running, and with ErrCaptureUnavailable when the device cannot start.
func (s *RecordingSession) Start(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.isRecording() {
		return ErrAlreadyRecording
	}

	audioSession, err := s.audio.Start(ctx, s.cfg.Audio)
	if err != nil {
		slog.Warn("audio capture failed to start", "error", err)
		s.events.SessionError(domain.ErrorCodeCapture, err.Error())
		s.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonCaptureFailed)
		return fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}

	active := newActiveSession(audioSession, s.clock.NewTicker(s.cfg.TickInterval))

	s.mu.Lock()
	s.current = active
	s.mu.Unlock()

	go s.runTicks(active)

	s.events.SessionStateChanged(domain.SessionStateRecording, domain.SessionReasonRecordingStarted)
	s.events.ElapsedChanged(0, FormatElapsed(0))
	return nil
}

// Stop ends the capture and files the recording. Calling Stop while idle is a
// no-op. When the device fails to stop cleanly the session still returns to
// idle and the error wraps ErrCaptureUnavailable.
func (s *RecordingSession) Stop(_ context.Context) (domain.StopResult, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	active := s.detach()
	if active == nil {
		return domain.StopResult{}, nil
	}

	duration := active.elapsed
	s.events.ElapsedChanged(0, FormatElapsed(0))

	capture, err := active.audio.Stop()
	if err != nil {
		slog.Warn("audio capture failed to stop", "error", err)
		s.events.SessionError(domain.ErrorCodeCapture, err.Error())
		s.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonCaptureFailed)
		return domain.StopResult{}, fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}
	if capture.Empty() {
		s.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonNoAudio)
		return domain.StopResult{}, nil
	}

	result, reason := s.finalizer.Finalize(capture, duration)
	s.events.SessionStateChanged(domain.SessionStateIdle, reason)
	return result, nil
}

// Abort discards an in-progress recording without filing it.
func (s *RecordingSession) Abort() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	active := s.detach()
	if active == nil {
		return ErrNotRecording
	}

	s.events.ElapsedChanged(0, FormatElapsed(0))
	if err := active.audio.Discard(); err != nil {
		slog.Warn("audio capture failed to discard", "error", err)
		s.events.SessionError(domain.ErrorCodeCapture, err.Error())
	}
	s.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonRecordingDiscarded)
	return nil
}

// Close tears the session down, discarding any capture in progress.
func (s *RecordingSession) Close() {
	if err := s.Abort(); err != nil && !errors.Is(err, ErrNotRecording) {
		slog.Warn("recording session teardown failed", "error", err)
	}
}

// Status returns the current state and elapsed time.
func (s *RecordingSession) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Status{State: domain.SessionStateIdle, Elapsed: FormatElapsed(0)}
	}
	return domain.Status{
		State:          domain.SessionStateRecording,
		Active:         true,
		ElapsedSeconds: s.current.elapsed,
		Elapsed:        FormatElapsed(s.current.elapsed),
	}
}

// Elapsed returns whole seconds recorded so far, or 0 while idle.
func (s *RecordingSession) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return s.current.elapsed
}

func (s *RecordingSession) isRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// detach clears the current session and waits until its tick loop has
// exited, so no tick can land after the caller returns.
func (s *RecordingSession) detach() *activeSession {
	s.mu.Lock()
	active := s.current
	s.current = nil
	s.mu.Unlock()

	if active != nil {
		active.release()
	}
	return active
}

func (s *RecordingSession) runTicks(active *activeSession) {
	defer close(active.tickDone)

	for {
		select {
		case <-active.stop:
			return
		case <-active.ticker.C():
			s.mu.Lock()
			if s.current != active {
				s.mu.Unlock()
				return
			}
			active.elapsed++
			elapsed := active.elapsed
			s.mu.Unlock()

			s.events.ElapsedChanged(elapsed, FormatElapsed(elapsed))
		}
	}
}
