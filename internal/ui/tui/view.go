package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"warcraft-recorder/internal/recorder"
	"warcraft-recorder/internal/ui/tui/render"
	"warcraft-recorder/internal/ui/tui/theme"
)

const (
	sectionGap     = "\n\n"
	categoryColumn = 14
	nameColumn     = 28
	resultColumn   = 6
)

func (m *statusModel) View() string {
	if m.width == 0 {
		return "initializing..."
	}
	content := m.contentWidth()

	sections := []string{
		theme.TitleStyle.Render("Warcraft Recorder (" + m.buildVersion + ")"),
		m.renderStatus(content),
		m.renderSources(content),
		m.renderFinished(content),
	}
	if m.errText != "" {
		sections = append(sections, theme.ErrorStyle.Render(render.TruncateDisplayWidth(m.errText, content)))
	}
	helpText := theme.HelpStyle.Render(m.help.View(m.keys))

	if m.showLogs {
		used := lipgloss.Height(strings.Join(append(sections, helpText), sectionGap)) + 2*len(sections) + 4
		m.logView.Height = max(m.height-used, minLogPanelHeight)
		m.logView.Width = max(content-4, 1)
		sections = append(sections, render.Frame(m.logView.View(), content, theme.PanelStyle))
	}
	sections = append(sections, helpText)
	return render.Frame(strings.Join(sections, sectionGap), m.width, theme.PanelStyle)
}

func (m *statusModel) contentWidth() int {
	return max(m.width-theme.PanelStyle.GetHorizontalFrameSize(), 1)
}

func (m *statusModel) renderStatus(width int) string {
	lines := []string{theme.LabelStyle.Render("Status:   ") + statusStyle(m.kind).Render("● "+m.status)}

	source := theme.MutedStyle.Render("none")
	if m.lockFlavour != "" {
		source = m.lockFlavour + theme.MutedStyle.Render(" "+m.lockSource)
	}
	lines = append(lines, theme.LabelStyle.Render("Source:   ")+source)

	current := theme.MutedStyle.Render("none")
	if m.current != nil {
		current = theme.CategoryStyle(string(m.current.Category)).Render(string(m.current.Category)) +
			" " + m.current.Name + " " + render.Clock(m.now.Sub(m.current.Start))
		if m.current.Segments > 0 {
			current += theme.MutedStyle.Render(fmt.Sprintf(" (%d segments)", m.current.Segments))
		}
	}
	lines = append(lines, theme.LabelStyle.Render("Activity: ")+current)

	for i, line := range lines {
		lines[i] = render.TruncateDisplayWidth(line, width)
	}
	return strings.Join(lines, "\n")
}

func (m *statusModel) renderSources(width int) string {
	lines := []string{theme.LabelStyle.Render("Watching")}
	if len(m.sources) == 0 {
		lines = append(lines, theme.MutedStyle.Render("  no log directories"))
	}
	for _, src := range m.sources {
		file := theme.MutedStyle.Render("no combat log yet")
		if src.CurrentFile != "" {
			file = filepath.Base(src.CurrentFile)
		}
		row := fmt.Sprintf("  %s  %s  %s", render.PadRight(src.Flavour, 12), src.Path, file)
		lines = append(lines, render.TruncateDisplayWidth(row, width))
	}
	return strings.Join(lines, "\n")
}

func (m *statusModel) renderFinished(width int) string {
	lines := []string{theme.LabelStyle.Render("Recent activities")}
	if len(m.finished) == 0 {
		lines = append(lines, theme.MutedStyle.Render("  nothing recorded yet"))
	}
	for _, meta := range m.finished {
		lines = append(lines, render.TruncateDisplayWidth(renderActivityRow(meta), width))
	}
	return strings.Join(lines, "\n")
}

func renderActivityRow(meta recorder.Metadata) string {
	result := theme.LossStyle.Render(meta.ResultLabel())
	if meta.Result {
		result = theme.WinStyle.Render(meta.ResultLabel())
	}
	return fmt.Sprintf("  %s  %s  %s  %s  %s",
		meta.StartTime.Local().Format("15:04"),
		render.PadRight(theme.CategoryStyle(meta.Category).Render(meta.Category), categoryColumn),
		render.PadRight(meta.Title(), nameColumn),
		render.PadRight(result, resultColumn),
		render.Clock(secondsDuration(meta.Duration)),
	)
}

func statusStyle(kind statusKind) lipgloss.Style {
	switch kind {
	case statusWatching:
		return theme.StatusWatchingStyle
	case statusReceiving:
		return theme.StatusReceivingStyle
	case statusRecording:
		return theme.StatusRecordingStyle
	case statusError:
		return theme.StatusErrorStyle
	}
	return theme.StatusIdleStyle
}

func secondsDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
