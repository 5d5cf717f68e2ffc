package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"thoughts/internal/clock"
	"thoughts/internal/domain"
	"thoughts/internal/ports"
)

func TestRecordingSessionStartTickStop(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	events := &fakeEventSink{}
	catalog := NewRecordingCatalog(newFakeArtifactRepo(), events)
	audio := &fakeAudioCapture{sessions: []ports.AudioSession{
		&fakeAudioSession{capture: domain.Capture{Path: "/tmp/a.wav", SizeBytes: 2048}},
	}}
	session := NewRecordingSession(audio, catalog, clk, events, Config{})

	before := len(slices.Collect(catalog.List()))

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clk.Advance(3 * time.Second)
	waitFor(t, func() bool { return session.Elapsed() == 3 })

	status := session.Status()
	if status.State != domain.SessionStateRecording || !status.Active || status.Elapsed != "00:03" {
		t.Fatalf("unexpected status while recording: %+v", status)
	}

	result, err := session.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if result.Artifact == nil {
		t.Fatalf("expected an artifact")
	}
	if !result.Persisted {
		t.Fatalf("expected persisted=true")
	}
	if result.Artifact.DurationSeconds != 3 {
		t.Fatalf("unexpected duration: %d", result.Artifact.DurationSeconds)
	}
	if result.Artifact.Path != "/tmp/a.wav" || result.Artifact.SizeBytes != 2048 {
		t.Fatalf("unexpected artifact: %+v", result.Artifact)
	}
	if result.Artifact.ID == "" {
		t.Fatalf("expected artifact id")
	}
	if !result.Artifact.CreatedAt.Equal(clk.Now().UTC()) {
		t.Fatalf("unexpected created at: %s", result.Artifact.CreatedAt)
	}

	after := slices.Collect(catalog.List())
	if len(after) != before+1 {
		t.Fatalf("expected catalog to grow by 1, got %d -> %d", before, len(after))
	}
	if after[len(after)-1].ID != result.Artifact.ID {
		t.Fatalf("expected new artifact last in catalog")
	}

	if got := session.Status(); got.State != domain.SessionStateIdle || got.Active || got.ElapsedSeconds != 0 {
		t.Fatalf("unexpected status after stop: %+v", got)
	}

	states := events.snapshotStates()
	if states[0].reason != domain.SessionReasonRecordingStarted {
		t.Fatalf("unexpected first reason: %s", states[0].reason)
	}
	if states[len(states)-1].reason != domain.SessionReasonRecordingSaved {
		t.Fatalf("unexpected final reason: %s", states[len(states)-1].reason)
	}
	if saved := events.snapshotRecordings(); len(saved) != 1 || saved[0].ID != result.Artifact.ID {
		t.Fatalf("expected one recording event, got %+v", saved)
	}
}

func TestRecordingSessionStartWhileRecording(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	audio := &fakeAudioCapture{sessions: []ports.AudioSession{
		&fakeAudioSession{capture: domain.Capture{Path: "a", SizeBytes: 1}},
		&fakeAudioSession{capture: domain.Capture{Path: "b", SizeBytes: 1}},
	}}
	session := NewRecordingSession(audio, NewRecordingCatalog(nil, nil), clk, &fakeEventSink{}, Config{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	err := session.Start(context.Background())
	if !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("expected ErrAlreadyRecording, got %v", err)
	}
	if audio.calls != 1 {
		t.Fatalf("expected a single capture start, got %d", audio.calls)
	}
	if n := clk.Tickers(); n != 1 {
		t.Fatalf("expected a single ticker, got %d", n)
	}

	clk.Advance(time.Second)
	waitFor(t, func() bool { return session.Elapsed() == 1 })
	session.Close()
}

func TestRecordingSessionStopWhileIdleIsNoop(t *testing.T) {
	t.Parallel()

	events := &fakeEventSink{}
	catalog := NewRecordingCatalog(newFakeArtifactRepo(), events)
	session := NewRecordingSession(&fakeAudioCapture{}, catalog, clock.NewManual(time.Now()), events, Config{})

	for i := 0; i < 2; i++ {
		result, err := session.Stop(context.Background())
		if err != nil {
			t.Fatalf("stop %d returned error: %v", i, err)
		}
		if result.Artifact != nil {
			t.Fatalf("stop %d produced an artifact", i)
		}
	}
	if n := len(slices.Collect(catalog.List())); n != 0 {
		t.Fatalf("expected empty catalog, got %d", n)
	}
	if session.Elapsed() != 0 {
		t.Fatalf("expected elapsed 0")
	}
	if len(events.snapshotStates()) != 0 {
		t.Fatalf("expected no state events")
	}
}

func TestRecordingSessionSecondStopIsNoop(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	catalog := NewRecordingCatalog(newFakeArtifactRepo(), nil)
	audio := &fakeAudioCapture{sessions: []ports.AudioSession{
		&fakeAudioSession{capture: domain.Capture{Path: "a", SizeBytes: 10}},
	}}
	session := NewRecordingSession(audio, catalog, clk, &fakeEventSink{}, Config{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := session.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	result, err := session.Stop(context.Background())
	if err != nil || result.Artifact != nil {
		t.Fatalf("expected no-op second stop, got %+v, %v", result, err)
	}
	if n := len(slices.Collect(catalog.List())); n != 1 {
		t.Fatalf("expected exactly one artifact, got %d", n)
	}
}

func TestRecordingSessionNoTickAfterStop(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	events := &fakeEventSink{}
	audio := &fakeAudioCapture{sessions: []ports.AudioSession{
		&fakeAudioSession{capture: domain.Capture{Path: "a", SizeBytes: 10}},
	}}
	session := NewRecordingSession(audio, NewRecordingCatalog(nil, nil), clk, events, Config{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clk.Advance(2 * time.Second)
	waitFor(t, func() bool { return session.Elapsed() == 2 })

	if _, err := session.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	ticksAtStop := len(events.snapshotElapsed())

	clk.Advance(5 * time.Second)

	if session.Elapsed() != 0 {
		t.Fatalf("expected elapsed to stay 0, got %d", session.Elapsed())
	}
	if n := clk.Tickers(); n != 0 {
		t.Fatalf("expected ticker to be released, %d still live", n)
	}
	if got := len(events.snapshotElapsed()); got != ticksAtStop {
		t.Fatalf("tick fired after stop: %d events before, %d after", ticksAtStop, got)
	}
}

func TestRecordingSessionCaptureStartFailure(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	events := &fakeEventSink{}
	audio := &fakeAudioCapture{err: errors.New("permission denied")}
	session := NewRecordingSession(audio, NewRecordingCatalog(nil, nil), clk, events, Config{})

	err := session.Start(context.Background())
	if !errors.Is(err, ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
	if status := session.Status(); status.State != domain.SessionStateIdle || status.Active {
		t.Fatalf("expected idle after failed start, got %+v", status)
	}
	if clk.Tickers() != 0 {
		t.Fatalf("expected no ticker after failed start")
	}

	errs := events.snapshotErrors()
	if len(errs) != 1 || errs[0].code != domain.ErrorCodeCapture {
		t.Fatalf("expected capture error event, got %+v", errs)
	}
}

func TestRecordingSessionCaptureStopFailure(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	events := &fakeEventSink{}
	catalog := NewRecordingCatalog(newFakeArtifactRepo(), events)
	audio := &fakeAudioCapture{sessions: []ports.AudioSession{
		&fakeAudioSession{stopErr: errors.New("device busy")},
	}}
	session := NewRecordingSession(audio, catalog, clk, events, Config{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	result, err := session.Stop(context.Background())
	if !errors.Is(err, ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
	if result.Artifact != nil {
		t.Fatalf("expected no artifact on failed stop")
	}
	if session.Status().State != domain.SessionStateIdle {
		t.Fatalf("expected idle after failed stop")
	}
	if n := len(slices.Collect(catalog.List())); n != 0 {
		t.Fatalf("expected empty catalog, got %d", n)
	}

	states := events.snapshotStates()
	if states[len(states)-1].reason != domain.SessionReasonCaptureFailed {
		t.Fatalf("expected capture_failed, got %s", states[len(states)-1].reason)
	}

	// The session is usable again after a failed stop.
	audio.sessions = append(audio.sessions, &fakeAudioSession{capture: domain.Capture{Path: "b", SizeBytes: 1}})
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	session.Close()
}

func TestRecordingSessionEmptyCaptureProducesNoArtifact(t *testing.T) {
	t.Parallel()

	events := &fakeEventSink{}
	catalog := NewRecordingCatalog(newFakeArtifactRepo(), events)
	audio := &fakeAudioCapture{sessions: []ports.AudioSession{&fakeAudioSession{}}}
	session := NewRecordingSession(audio, catalog, clock.NewManual(time.Now()), events, Config{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	result, err := session.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if result.Artifact != nil {
		t.Fatalf("expected no artifact for empty capture")
	}
	if n := len(slices.Collect(catalog.List())); n != 0 {
		t.Fatalf("expected empty catalog, got %d", n)
	}
	states := events.snapshotStates()
	if states[len(states)-1].reason != domain.SessionReasonNoAudio {
		t.Fatalf("expected no_audio, got %s", states[len(states)-1].reason)
	}
}

func TestRecordingSessionAbort(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	events := &fakeEventSink{}
	catalog := NewRecordingCatalog(newFakeArtifactRepo(), events)
	audioSession := &fakeAudioSession{capture: domain.Capture{Path: "a", SizeBytes: 10}}
	session := NewRecordingSession(
		&fakeAudioCapture{sessions: []ports.AudioSession{audioSession}},
		catalog, clk, events, Config{},
	)

	if err := session.Abort(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("expected ErrNotRecording while idle, got %v", err)
	}

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clk.Advance(time.Second)
	waitFor(t, func() bool { return session.Elapsed() == 1 })

	if err := session.Abort(); err != nil {
		t.Fatalf("abort failed: %v", err)
	}
	if audioSession.discardCalls != 1 || audioSession.stopCalls != 0 {
		t.Fatalf("expected discard only, got stop=%d discard=%d", audioSession.stopCalls, audioSession.discardCalls)
	}
	if n := len(slices.Collect(catalog.List())); n != 0 {
		t.Fatalf("expected no artifacts after abort, got %d", n)
	}
	if clk.Tickers() != 0 {
		t.Fatalf("expected ticker released after abort")
	}

	states := events.snapshotStates()
	if states[len(states)-1].reason != domain.SessionReasonRecordingDiscarded {
		t.Fatalf("expected discarded reason, got %s", states[len(states)-1].reason)
	}
}

func TestRecordingSessionUnsavedWhenCatalogStorageFails(t *testing.T) {
	t.Parallel()

	events := &fakeEventSink{}
	repo := newFakeArtifactRepo()
	repo.appendErr = errors.New("disk full")
	catalog := NewRecordingCatalog(repo, events)
	audio := &fakeAudioCapture{sessions: []ports.AudioSession{
		&fakeAudioSession{capture: domain.Capture{Path: "a", SizeBytes: 10}},
	}}
	session := NewRecordingSession(audio, catalog, clock.NewManual(time.Now()), events, Config{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	result, err := session.Stop(context.Background())
	if err != nil {
		t.Fatalf("storage failure should not fail stop: %v", err)
	}
	if result.Artifact == nil || result.Persisted {
		t.Fatalf("expected unpersisted artifact, got %+v", result)
	}
	if n := len(slices.Collect(catalog.List())); n != 1 {
		t.Fatalf("expected in-memory artifact, got %d", n)
	}

	states := events.snapshotStates()
	if states[len(states)-1].reason != domain.SessionReasonRecordingUnsaved {
		t.Fatalf("expected recording_unsaved, got %s", states[len(states)-1].reason)
	}
	errs := events.snapshotErrors()
	if len(errs) != 1 || errs[0].code != domain.ErrorCodePersistence {
		t.Fatalf("expected one persistence error, got %+v", errs)
	}
}

func TestRecordingSessionElapsedZeroWhenIdle(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())
	var sessions []ports.AudioSession
	for i := 0; i < 8; i++ {
		sessions = append(sessions, &fakeAudioSession{capture: domain.Capture{Path: "a", SizeBytes: 1}})
	}
	session := NewRecordingSession(
		&fakeAudioCapture{sessions: sessions},
		NewRecordingCatalog(nil, nil), clk, &fakeEventSink{}, Config{},
	)

	steps := []string{"start", "tick", "stop", "stop", "tick", "start", "start", "tick", "tick", "stop", "tick", "start", "stop"}
	want := 0
	for i, step := range steps {
		switch step {
		case "start":
			err := session.Start(context.Background())
			if err != nil && !errors.Is(err, ErrAlreadyRecording) {
				t.Fatalf("step %d: start failed: %v", i, err)
			}
			if err == nil {
				want = 0
			}
		case "stop":
			if _, err := session.Stop(context.Background()); err != nil {
				t.Fatalf("step %d: stop failed: %v", i, err)
			}
			want = 0
		case "tick":
			clk.Advance(time.Second)
			if session.Status().Active {
				want++
			}
		}

		expected := want
		waitFor(t, func() bool { return session.Elapsed() == expected })
		status := session.Status()
		if status.ElapsedSeconds < 0 {
			t.Fatalf("step %d: negative elapsed", i)
		}
		if status.State == domain.SessionStateIdle && status.ElapsedSeconds != 0 {
			t.Fatalf("step %d: idle with elapsed %d", i, status.ElapsedSeconds)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

type fakeAudioCapture struct {
	sessions []ports.AudioSession
	err      error
	calls    int
}

func (f *fakeAudioCapture) Start(_ context.Context, _ ports.AudioConfig) (ports.AudioSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.sessions) {
		return nil, errors.New("no audio session configured")
	}
	session := f.sessions[f.calls]
	f.calls++
	return session, nil
}

type fakeAudioSession struct {
	mu           sync.Mutex
	capture      domain.Capture
	stopErr      error
	stopCalls    int
	discardCalls int
}

func (f *fakeAudioSession) Stop() (domain.Capture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	if f.stopErr != nil {
		return domain.Capture{}, f.stopErr
	}
	return f.capture, nil
}

func (f *fakeAudioSession) Discard() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discardCalls++
	return nil
}

type fakeEventSink struct {
	mu sync.Mutex

	states     []stateEvent
	elapsed    []int
	recordings []domain.Artifact
	errors     []errEvent
}

type stateEvent struct {
	state  domain.SessionState
	reason domain.SessionStateReason
}

type errEvent struct {
	code   domain.ErrorCode
	detail string
}

func (f *fakeEventSink) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, stateEvent{state: state, reason: reason})
}

func (f *fakeEventSink) ElapsedChanged(seconds int, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elapsed = append(f.elapsed, seconds)
}

func (f *fakeEventSink) RecordingSaved(artifact domain.Artifact) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordings = append(f.recordings, artifact)
}

func (f *fakeEventSink) SessionError(code domain.ErrorCode, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, errEvent{code: code, detail: detail})
}

func (f *fakeEventSink) snapshotStates() []stateEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]stateEvent, len(f.states))
	copy(out, f.states)
	return out
}

func (f *fakeEventSink) snapshotElapsed() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.elapsed))
	copy(out, f.elapsed)
	return out
}

func (f *fakeEventSink) snapshotRecordings() []domain.Artifact {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Artifact, len(f.recordings))
	copy(out, f.recordings)
	return out
}

func (f *fakeEventSink) snapshotErrors() []errEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]errEvent, len(f.errors))
	copy(out, f.errors)
	return out
}
