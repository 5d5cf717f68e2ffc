package tui

import (
	"fmt"
	"strings"

	"thoughts/internal/locale"
	"thoughts/internal/ui"
	"thoughts/internal/usecase"
)

// View renders the full TUI.
func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 60
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", width)))

	if m.screen == ScreenRecord {
		sections = append(sections, m.renderRecordScreen(width))
	} else {
		sections = append(sections, m.renderListScreen())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", width)))
	if m.errorMessage != "" {
		sections = append(sections, ui.ErrorTextStyle.Render(m.errorMessage))
	}
	sections = append(sections, m.renderFooter())

	return ui.Direction(strings.Join(sections, "\n"), m.width, locale.RightToLeft(m.deps.Language))
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("THOUGHTS")

	dot := ui.IdleDotStyle.Render("○")
	if m.recording {
		dot = ui.RecordingDotStyle.Render("●")
	}
	status := ""
	if m.statusText != "" {
		status = " " + ui.StatusStyle.Render(m.statusText)
	}
	return fmt.Sprintf("%s  %s%s", title, dot, status)
}

func (m Model) renderListScreen() string {
	var b strings.Builder

	promptTitle := ui.PanelTitleStyle
	recTitle := ui.PanelTitleStyle
	if m.focus == FocusPrompts {
		promptTitle = ui.PanelTitleActiveStyle
	} else {
		recTitle = ui.PanelTitleActiveStyle
	}

	b.WriteString(promptTitle.Render(m.label(locale.LabelPrompts)))
	b.WriteString("\n")
	for i, p := range m.prompts {
		mark := "[ ]"
		if p.Complete {
			mark = ui.CompleteStyle.Render("[✓]")
		}
		line := fmt.Sprintf("%s %s", mark, p.Text)
		if m.focus == FocusPrompts && i == m.selectedPrompt {
			line = ui.SelectedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(recTitle.Render(m.label(locale.LabelRecordings)))
	b.WriteString("\n")
	if len(m.recordings) == 0 {
		b.WriteString(ui.DimStyle.Render("  " + m.label(locale.LabelNoRecordings)))
		return b.String()
	}
	for i, r := range m.recordings {
		line := fmt.Sprintf("%s  %s",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			usecase.FormatElapsed(r.DurationSeconds),
		)
		if r.ID == m.playing {
			line += " ♪"
		}
		if m.focus == FocusRecordings && i == m.selectedRec {
			line = ui.SelectedStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(m.recordings)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderRecordScreen(width int) string {
	var b strings.Builder

	if m.current >= 0 {
		for _, p := range m.prompts {
			if p.Index == m.current {
				b.WriteString(ui.PromptStyle.Render(p.Text))
				b.WriteString("\n")
				break
			}
		}
	}

	b.WriteString(ui.ElapsedStyle.Render(m.elapsed))
	b.WriteString("\n")

	action := m.label(locale.LabelRecord)
	if m.recording {
		action = m.label(locale.LabelStop)
	}
	b.WriteString(ui.FooterKeyStyle.Render("ctrl+r") + " " + ui.FooterDescStyle.Render(action))
	b.WriteString("\n\n")

	b.WriteString(ui.DimStyle.Render(m.label(locale.LabelLongAnswer)))
	b.WriteString("\n")
	draft := m.draft + "▏"
	if m.draft == "" {
		draft = ui.PlaceholderStyle.Render(m.label(locale.LabelPlaceholder))
	}
	b.WriteString(ui.DraftStyle.Width(max(20, width-4)).Render(draft))
	return b.String()
}

func (m Model) renderFooter() string {
	type binding struct{ key, desc string }
	var bindings []binding
	if m.screen == ScreenRecord {
		bindings = []binding{
			{"ctrl+r", m.label(locale.LabelRecord) + "/" + m.label(locale.LabelStop)},
			{"esc", m.label(locale.LabelBack)},
			{"ctrl+d", m.label(locale.LabelDone)},
		}
	} else {
		bindings = []binding{
			{"enter", "open/play"},
			{"x", "toggle done"},
			{"tab", "switch"},
			{"q", "quit"},
		}
	}

	parts := make([]string, 0, len(bindings))
	for _, bnd := range bindings {
		parts = append(parts, ui.FooterKeyStyle.Render(bnd.key)+" "+ui.FooterDescStyle.Render(bnd.desc))
	}
	return strings.Join(parts, "  ")
}

func (m Model) label(key locale.Label) string {
	return locale.Text(m.deps.Language, key)
}
