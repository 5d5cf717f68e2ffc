// Package tui is the terminal shell: a prompt list and a record screen.
package tui

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"thoughts/internal/domain"
	"thoughts/internal/ports"
	"thoughts/internal/usecase"
)

// Recorder is the recording session the record screen drives.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (domain.StopResult, error)
	Abort() error
}

// Drafts holds the shared free-text answer.
type Drafts interface {
	Load() string
	Save(text string) error
}

// Prompts is the prompt table with completion flags.
type Prompts interface {
	All(lang domain.Language) []domain.Prompt
	SetComplete(index int, complete bool) error
}

// Recordings lists saved recordings.
type Recordings interface {
	List() iter.Seq[domain.Artifact]
}

// Deps are the backend components the model uses.
type Deps struct {
	Session    Recorder
	Drafts     Drafts
	Prompts    Prompts
	Recordings Recordings
	Player     ports.Player
	Language   domain.Language
	Events     <-chan tea.Msg
}

// Screen selects what the model renders.
type Screen int

const (
	ScreenList Screen = iota
	ScreenRecord
)

// PanelFocus tracks which list has keyboard focus on the list screen.
type PanelFocus int

const (
	FocusPrompts PanelFocus = iota
	FocusRecordings
)

// Model is the root bubbletea model.
type Model struct {
	deps Deps

	screen Screen
	focus  PanelFocus

	prompts        []domain.Prompt
	selectedPrompt int
	recordings     []domain.Artifact
	selectedRec    int

	// Record screen
	current   int
	draft     string
	recording bool
	elapsed   string
	playing   string

	statusText     string
	errorMessage   string
	errorTransient bool

	width  int
	height int
}

// New creates a Model showing the prompt list.
func New(deps Deps) Model {
	m := Model{
		deps:    deps,
		current: -1,
		elapsed: usecase.FormatElapsed(0),
	}
	m.reloadPrompts()
	m.reloadRecordings()
	return m
}

// Init starts listening for backend events.
func (m Model) Init() tea.Cmd {
	return waitForEventCmd(m.deps.Events)
}

func startCmd(session Recorder) tea.Cmd {
	return func() tea.Msg {
		return StartResultMsg{Err: session.Start(context.Background())}
	}
}

func stopCmd(session Recorder) tea.Cmd {
	return func() tea.Msg {
		result, err := session.Stop(context.Background())
		return StopResultMsg{Result: result, Err: err}
	}
}

func abortCmd(session Recorder) tea.Cmd {
	return func() tea.Msg {
		err := session.Abort()
		if errors.Is(err, usecase.ErrNotRecording) {
			err = nil
		}
		return AbortResultMsg{Err: err}
	}
}

func playCmd(player ports.Player, artifact domain.Artifact) tea.Cmd {
	return func() tea.Msg {
		return PlaybackDoneMsg{ID: artifact.ID, Err: player.Play(context.Background(), artifact)}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EventMsg:
		cmd := m.handleEvent(msg.Event)
		return m, tea.Batch(cmd, waitForEventCmd(m.deps.Events))

	case StartResultMsg:
		if msg.Err == nil && m.screen != ScreenRecord {
			// The record screen was left while Start was running.
			m.recording = false
			return m, abortCmd(m.deps.Session)
		}
		if msg.Err == nil || errors.Is(msg.Err, usecase.ErrAlreadyRecording) {
			m.recording = true
		}
		return m, m.showError(msg.Err)

	case StopResultMsg:
		m.recording = false
		return m, m.showError(msg.Err)

	case AbortResultMsg:
		m.recording = false
		return m, m.showError(msg.Err)

	case PlaybackDoneMsg:
		m.playing = ""
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// showError displays err unless the session has already reported it as an
// event.
func (m *Model) showError(err error) tea.Cmd {
	if err == nil || errors.Is(err, usecase.ErrCaptureUnavailable) {
		return nil
	}
	m.errorMessage = err.Error()
	m.errorTransient = true
	return clearTransientErrorCmd()
}

// handleEvent processes a backend event and returns any resulting command.
func (m *Model) handleEvent(event any) tea.Cmd {
	switch ev := event.(type) {
	case SessionStateEvent:
		m.recording = ev.State == domain.SessionStateRecording
		m.statusText = reasonText(ev.Reason)

	case ElapsedEvent:
		m.elapsed = ev.Formatted

	case RecordingEvent:
		m.reloadRecordings()

	case ErrorEvent:
		m.errorMessage = errorText(ev.Code, ev.Detail)
		if ev.Code != domain.ErrorCodePersistence {
			m.errorTransient = true
			return clearTransientErrorCmd()
		}
	}
	return nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		return m, tea.Quit
	}
	if m.screen == ScreenRecord {
		return m.handleRecordKey(msg)
	}

	switch msg.String() {
	case KeyQuit:
		return m, tea.Quit

	case KeyTab:
		if m.focus == FocusPrompts {
			m.focus = FocusRecordings
		} else {
			m.focus = FocusPrompts
		}
		return m, nil

	case KeyDown, KeyJ:
		if m.focus == FocusPrompts {
			m.selectedPrompt = min(m.selectedPrompt+1, max(0, len(m.prompts)-1))
		} else {
			m.selectedRec = min(m.selectedRec+1, max(0, len(m.recordings)-1))
		}
		return m, nil

	case KeyUp, KeyK:
		if m.focus == FocusPrompts {
			m.selectedPrompt = max(m.selectedPrompt-1, 0)
		} else {
			m.selectedRec = max(m.selectedRec-1, 0)
		}
		return m, nil

	case KeyToggle:
		if m.focus != FocusPrompts || m.selectedPrompt >= len(m.prompts) {
			return m, nil
		}
		p := m.prompts[m.selectedPrompt]
		return m, m.setComplete(p.Index, !p.Complete)

	case KeyEnter:
		if m.focus == FocusRecordings {
			if m.selectedRec >= len(m.recordings) || m.playing != "" || m.deps.Player == nil {
				return m, nil
			}
			artifact := m.recordings[m.selectedRec]
			m.playing = artifact.ID
			return m, playCmd(m.deps.Player, artifact)
		}
		if m.selectedPrompt >= len(m.prompts) {
			return m, nil
		}
		m.open(m.prompts[m.selectedPrompt].Index)
		return m, nil
	}

	return m, nil
}

func (m Model) handleRecordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyRecord:
		if m.recording {
			return m, stopCmd(m.deps.Session)
		}
		return m, startCmd(m.deps.Session)

	case KeyBack:
		return m, m.leave(false)

	case KeyDone:
		return m, m.leave(true)

	case KeyBackspace:
		if m.draft == "" {
			return m, nil
		}
		runes := []rune(m.draft)
		return m, m.editDraft(string(runes[:len(runes)-1]))

	case KeyEnter:
		return m, m.editDraft(m.draft + "\n")

	case KeySpace:
		return m, m.editDraft(m.draft + " ")
	}

	if msg.Type == tea.KeyRunes {
		return m, m.editDraft(m.draft + string(msg.Runes))
	}
	return m, nil
}

func (m *Model) open(index int) {
	m.screen = ScreenRecord
	m.current = index
	m.elapsed = usecase.FormatElapsed(0)
	m.statusText = ""
	if m.deps.Drafts != nil {
		m.draft = m.deps.Drafts.Load()
	}
}

// leave returns to the list. Any capture in progress is discarded, including
// one whose start has not been reported yet.
func (m *Model) leave(markDone bool) tea.Cmd {
	cmds := []tea.Cmd{abortCmd(m.deps.Session)}
	m.recording = false
	if markDone {
		cmds = append(cmds, m.setComplete(m.current, true))
	}
	m.screen = ScreenList
	m.current = -1
	m.reloadRecordings()
	return tea.Batch(cmds...)
}

func (m *Model) editDraft(text string) tea.Cmd {
	m.draft = text
	if m.deps.Drafts == nil {
		return nil
	}
	// Persistence failures arrive as error events.
	_ = m.deps.Drafts.Save(text)
	return nil
}

func (m *Model) setComplete(index int, complete bool) tea.Cmd {
	if m.deps.Prompts == nil {
		return nil
	}
	err := m.deps.Prompts.SetComplete(index, complete)
	m.reloadPrompts()
	if err != nil {
		m.errorMessage = err.Error()
		m.errorTransient = true
		return clearTransientErrorCmd()
	}
	return nil
}

func (m *Model) reloadPrompts() {
	if m.deps.Prompts == nil {
		return
	}
	m.prompts = m.deps.Prompts.All(m.deps.Language)
	if m.selectedPrompt >= len(m.prompts) {
		m.selectedPrompt = max(0, len(m.prompts)-1)
	}
}

func (m *Model) reloadRecordings() {
	if m.deps.Recordings == nil {
		return
	}
	m.recordings = slices.Collect(m.deps.Recordings.List())
	if m.selectedRec >= len(m.recordings) {
		m.selectedRec = max(0, len(m.recordings)-1)
	}
}

func reasonText(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonRecordingStarted:
		return "Recording"
	case domain.SessionReasonRecordingSaved:
		return "Saved"
	case domain.SessionReasonRecordingUnsaved:
		return "Saved for this session only"
	case domain.SessionReasonRecordingDiscarded:
		return "Discarded"
	case domain.SessionReasonNoAudio:
		return "No audio captured"
	case domain.SessionReasonCaptureFailed:
		return "Recording failed"
	default:
		return ""
	}
}

func errorText(code domain.ErrorCode, detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return string(code)
	}
	return string(code) + ": " + detail
}
