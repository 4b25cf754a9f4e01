package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"warcraft-recorder/internal/activity"
	"warcraft-recorder/internal/config"
	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/recorder"
	"warcraft-recorder/internal/runtime"
	"warcraft-recorder/internal/ui/tui/keyboard"
	"warcraft-recorder/internal/wowlogs"
)

const (
	logLineLimit        = 2_000
	finishedLimit       = 8
	minLogPanelHeight   = 6
	defaultLogViewWidth = 80
)

type logMsg string
type statusMsg string
type tickMsg time.Time

type lockMsg struct {
	source  string
	flavour string
}

type activityStartedMsg activity.Summary
type activityFinishedMsg recorder.Metadata
type sourcesMsg []wowlogs.Source

type runDoneMsg struct {
	err error
}

type startResultMsg struct {
	err error
}

type statusKind int

const (
	statusIdle statusKind = iota
	statusWatching
	statusReceiving
	statusRecording
	statusError
)

type modelDeps struct {
	opts        config.Options
	runner      *runtime.Controller
	logger      *logging.Logger
	unsubscribe func()
	rootCancel  context.CancelFunc
	program     *tea.Program
}

type modelChannels struct {
	logCh   chan string
	eventCh chan tea.Msg
}

type modelRuntime struct {
	running  bool
	starting bool
	status   string
	kind     statusKind
	errText  string

	lockSource  string
	lockFlavour string
	current     *activity.Summary
	finished    []recorder.Metadata
	sources     []wowlogs.Source
	now         time.Time
}

type modelView struct {
	width      int
	height     int
	showLogs   bool
	followLogs bool
	logText    string
	logView    viewport.Model
	help       help.Model
	keys       keyboard.Map
}

type statusModel struct {
	buildVersion string
	modelDeps
	modelChannels
	modelRuntime
	modelView
	cleanupOnce sync.Once
}
