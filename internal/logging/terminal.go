package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorProfileOnce sync.Once

	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	messageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	equalsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	rawLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	blockStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)
)

func terminalSupportsColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := strings.TrimSpace(os.Getenv("TERM"))
	return term != "" && term != "dumb"
}

func levelBadge(level slog.Level) string {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch {
	case level <= slog.LevelDebug:
		return badge.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("240")).Render("DEBUG")
	case level <= slog.LevelInfo:
		return badge.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("31")).Render("INFO")
	case level <= slog.LevelWarn:
		return badge.Foreground(lipgloss.Color("234")).Background(lipgloss.Color("214")).Render("WARN")
	default:
		return badge.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Render("ERROR")
	}
}

// FormatEventANSI renders a record with ANSI styling for the terminal and the
// TUI log pane. The raw combat log line is dimmed at the end of the row and
// structured fields follow in bordered blocks.
func FormatEventANSI(event Event) string {
	colorProfileOnce.Do(func() {
		lipgloss.SetColorProfile(termenv.TrueColor)
	})

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		timeStyle.Render(event.Time.Format("15:04:05.000")), " ",
		levelBadge(event.Level), " ",
		messageStyle.Render(event.Message),
	)

	inline, blocks := orderFields(event.Fields)
	parts := make([]string, 0, len(inline))
	for _, key := range inline {
		value := valueStyle
		if key == rawLineKey {
			value = rawLineStyle
		}
		parts = append(parts, keyStyle.Render(key)+equalsStyle.Render("=")+value.Render(inlineValue(event.Fields[key])))
	}
	if len(parts) > 0 {
		row += "  " + strings.Join(parts, " ")
	}
	for _, key := range blocks {
		body, _ := blockValue(key, event.Fields[key])
		row += "\n  " + keyStyle.Render(key) + equalsStyle.Render("=") + "\n" + blockStyle.Render(body)
	}
	return row + "\n"
}
