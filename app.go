package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"thoughts/internal/bootstrap"
	"thoughts/internal/config"
	"thoughts/internal/domain"
	"thoughts/internal/locale"
	"thoughts/internal/ports"
	"thoughts/internal/prompts"
	"thoughts/internal/usecase"
)

const (
	eventSession   = "thoughts:session"
	eventElapsed   = "thoughts:elapsed"
	eventRecording = "thoughts:recording"
	eventError     = "thoughts:error"
)

type emitFunc func(ctx context.Context, name string, data ...interface{})

// App is the Wails application root.
type App struct {
	ctx  context.Context
	emit emitFunc

	session *usecase.RecordingSession
	drafts  *usecase.TextDraftStore
	catalog *usecase.RecordingCatalog
	prompts *prompts.Sequence
	player  ports.Player
	lang    domain.Language
	cfg     config.Config
	closeFn func() error
	bootErr error
}

func NewApp() *App {
	return &App{emit: runtime.EventsEmit}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a, nil)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.session = services.Session
	a.drafts = services.Drafts
	a.catalog = services.Catalog
	a.prompts = services.Prompts
	a.player = services.Player
	a.lang = services.Language
	a.cfg = services.Config
	a.closeFn = services.Close
	a.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonReady)
}

func (a *App) shutdown(_ context.Context) {
	if a.closeFn != nil {
		_ = a.closeFn()
	}
}

// StartRecording begins capturing a spoken answer. Capture failures are
// reported by the session as events as well as returned.
func (a *App) StartRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	err := a.session.Start(a.ctx)
	return a.session.Status(), err
}

// StopRecording ends the capture and returns the saved recording, if any.
func (a *App) StopRecording() (domain.StopResult, error) {
	if err := a.requireReady(); err != nil {
		return domain.StopResult{}, err
	}
	return a.session.Stop(a.ctx)
}

// AbortRecording discards an in-progress recording, as when the user leaves
// the record screen.
func (a *App) AbortRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.session.Abort(); err != nil && !errors.Is(err, usecase.ErrNotRecording) {
		return err
	}
	return nil
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.session == nil {
		status := domain.Status{State: domain.SessionStateIdle, Elapsed: usecase.FormatElapsed(0)}
		if a.bootErr != nil {
			status.Message = a.bootErr.Error()
		}
		return status
	}
	return a.session.Status()
}

// LoadDraft returns the shared text answer.
func (a *App) LoadDraft() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	return a.drafts.Load(), nil
}

// SaveDraft stores the shared text answer. Storage failures are reported as
// events; the text is kept for this run either way.
func (a *App) SaveDraft(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	_ = a.drafts.Save(text)
	return nil
}

// ListRecordings returns saved recordings, oldest first.
func (a *App) ListRecordings() ([]domain.Artifact, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	recordings := slices.Collect(a.catalog.List())
	if recordings == nil {
		recordings = []domain.Artifact{}
	}
	return recordings, nil
}

// PlayRecording plays a saved recording to completion.
func (a *App) PlayRecording(id string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	artifact, ok := a.catalog.Find(id)
	if !ok {
		return fmt.Errorf("recording %q not found", id)
	}
	if err := a.player.Play(a.ctx, artifact); err != nil {
		a.SessionError(domain.ErrorCodePlayback, err.Error())
		return err
	}
	return nil
}

// ListPrompts returns every prompt in the active language with its flag.
func (a *App) ListPrompts() ([]domain.Prompt, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	return a.prompts.All(a.lang), nil
}

// SetPromptComplete marks a prompt done or not done.
func (a *App) SetPromptComplete(index int, complete bool) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	err := a.prompts.SetComplete(index, complete)
	if errors.Is(err, domain.ErrPersistenceUnavailable) {
		a.SessionError(domain.ErrorCodePersistence, err.Error())
		return nil
	}
	return err
}

// GetLabels returns the UI strings for the active language.
func (a *App) GetLabels() map[string]string {
	return locale.Labels(a.lang)
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	direction := "ltr"
	if locale.RightToLeft(a.lang) {
		direction = "rtl"
	}
	return map[string]string{
		"language":         string(locale.Normalize(a.lang)),
		"direction":        direction,
		"recordingsDir":    a.cfg.Storage.RecordingsDir,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.session == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// SessionStateChanged emits session lifecycle updates to the frontend.
func (a *App) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	a.send(eventSession, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": sessionReasonMessage(reason),
	})
}

// ElapsedChanged emits the running counter of the active recording.
func (a *App) ElapsedChanged(seconds int, formatted string) {
	a.send(eventElapsed, map[string]any{
		"seconds":   seconds,
		"formatted": formatted,
	})
}

// RecordingSaved emits a newly cataloged recording.
func (a *App) RecordingSaved(artifact domain.Artifact) {
	a.send(eventRecording, artifact)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	a.send(eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func (a *App) send(name string, payload any) {
	if a.ctx == nil || a.emit == nil {
		return
	}
	a.emit(a.ctx, name, payload)
}

func sessionReasonMessage(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonReady:
		return "Ready"
	case domain.SessionReasonRecordingStarted:
		return "Recording started"
	case domain.SessionReasonRecordingSaved:
		return "Recording saved"
	case domain.SessionReasonRecordingUnsaved:
		return "Recording kept for this session only"
	case domain.SessionReasonRecordingDiscarded:
		return "Recording discarded"
	case domain.SessionReasonNoAudio:
		return "No audio captured"
	case domain.SessionReasonCaptureFailed:
		return "Recording failed"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeCapture:
		return "Microphone issue"
	case domain.ErrorCodePlayback:
		return "Playback failed"
	case domain.ErrorCodePersistence:
		return "Saving is unavailable; changes last until you quit"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
