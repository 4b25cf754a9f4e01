package theme

import "github.com/charmbracelet/lipgloss"

var (
	PanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	HelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	StatusIdleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	StatusWatchingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	StatusReceivingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	StatusRecordingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	StatusErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)

	WinStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	LossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var categoryColors = map[string]lipgloss.Color{
	"2v2":           lipgloss.Color("117"),
	"3v3":           lipgloss.Color("75"),
	"Skirmish":      lipgloss.Color("250"),
	"Solo Shuffle":  lipgloss.Color("177"),
	"Mythic+":       lipgloss.Color("214"),
	"Raids":         lipgloss.Color("203"),
	"Battlegrounds": lipgloss.Color("149"),
}

// CategoryStyle colours an activity category label.
func CategoryStyle(category string) lipgloss.Style {
	color, ok := categoryColors[category]
	if !ok {
		color = lipgloss.Color("250")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}
