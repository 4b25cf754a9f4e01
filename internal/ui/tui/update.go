package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"warcraft-recorder/internal/activity"
	"warcraft-recorder/internal/recorder"
	"warcraft-recorder/internal/runstatus"
)

func (m *statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = max(msg.Width-4, 1)
		return m, nil
	case logMsg:
		wasAtBottom := m.logView.AtBottom()
		m.logText = appendLogLinesWithLimit(m.logText, string(msg), logLineLimit)
		m.logView.SetContent(m.logText)
		if m.followLogs || wasAtBottom {
			m.logView.GotoBottom()
			m.followLogs = true
		}
		return m, waitFor(m.logCh, func(line string) tea.Msg { return logMsg(line) })
	case statusMsg, lockMsg, activityStartedMsg, activityFinishedMsg, sourcesMsg:
		m.applyEvent(msg)
		return m, waitFor(m.eventCh, func(msg tea.Msg) tea.Msg { return msg })
	case startResultMsg:
		m.starting = false
		if msg.err != nil {
			m.status = "Not running"
			m.kind = statusError
			m.errText = msg.err.Error()
			return m, nil
		}
		m.running = true
		return m, nil
	case runDoneMsg:
		m.running = false
		m.starting = false
		m.current = nil
		m.lockSource, m.lockFlavour = "", ""
		if msg.err != nil {
			m.status = "Stopped (error)"
			m.kind = statusError
			m.errText = msg.err.Error()
		} else {
			m.status = runstatus.Stopped
			m.kind = statusIdle
		}
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *statusModel) applyEvent(msg tea.Msg) {
	switch msg := msg.(type) {
	case statusMsg:
		m.applyRuntimeStatus(string(msg))
	case lockMsg:
		m.lockSource = msg.source
		m.lockFlavour = msg.flavour
	case activityStartedMsg:
		summary := activity.Summary(msg)
		m.current = &summary
	case activityFinishedMsg:
		m.current = nil
		m.finished = append([]recorder.Metadata{recorder.Metadata(msg)}, m.finished...)
		if len(m.finished) > finishedLimit {
			m.finished = m.finished[:finishedLimit]
		}
	case sourcesMsg:
		m.sources = append(m.sources[:0], msg...)
	}
}

func (m *statusModel) applyRuntimeStatus(status string) {
	m.status = status
	switch runstatus.Key(status) {
	case runstatus.KeyStarting:
		m.kind = statusIdle
	case runstatus.KeyWatching:
		m.kind = statusWatching
		m.errText = ""
	case runstatus.KeyReceiving:
		m.kind = statusReceiving
	case runstatus.KeyRecording:
		m.kind = statusRecording
	case runstatus.KeyStopped:
		m.kind = statusIdle
	}
}

func (m *statusModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cleanup()
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleRun):
		if m.starting {
			return m, nil
		}
		if m.running {
			m.runner.Stop()
			m.status = "Stopping"
			m.kind = statusIdle
			return m, nil
		}
		return m, m.startRecorderCmd()
	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		return m, nil
	case key.Matches(msg, m.keys.Follow):
		m.followLogs = true
		m.logView.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		m.followLogs = m.logView.AtBottom()
		return m, cmd
	}
	return m, nil
}

func appendLogLinesWithLimit(current string, next string, limit int) string {
	if limit <= 0 {
		return ""
	}
	lines := splitLogLines(current)
	lines = append(lines, splitLogLines(next)...)
	if len(lines) > limit {
		lines = append([]string(nil), lines[len(lines)-limit:]...)
	}
	return strings.Join(lines, "\n")
}

func splitLogLines(input string) []string {
	if input == "" {
		return nil
	}
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
