package tui

import (
	"context"
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
	logChannelBufferSize   = 512
	eventChannelBufferSize = 64
	clockTickInterval      = time.Second
)

// Run shows the status view and starts the recorder right away. It returns
// when the user quits.
func Run(rootCtx context.Context, buildVersion string, opts config.Options, logger *logging.Logger) error {
	logger.SetTerminalOutputEnabled(false)
	logger.Info("starting status view", logging.Field("version", buildVersion))

	m := newStatusModel(rootCtx, buildVersion, opts, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	m.program = program
	result, runErr := program.Run()
	if model, ok := result.(*statusModel); ok && model != nil {
		model.cleanup()
	}
	if !m.runner.Wait(30 * time.Second) {
		logger.Warn("recorder did not stop in time")
	}
	return runErr
}

func newStatusModel(rootCtx context.Context, buildVersion string, opts config.Options, logger *logging.Logger) *statusModel {
	if rootCtx == nil {
		rootCtx = context.Background()
	}
	runCtx, runCancel := context.WithCancel(rootCtx)

	m := &statusModel{
		buildVersion: buildVersion,
		modelDeps: modelDeps{
			opts:       opts,
			runner:     runtime.NewController(runCtx),
			logger:     logger,
			rootCancel: runCancel,
		},
		modelChannels: modelChannels{
			logCh:   make(chan string, logChannelBufferSize),
			eventCh: make(chan tea.Msg, eventChannelBufferSize),
		},
		modelRuntime: modelRuntime{
			status: "Idle",
			kind:   statusIdle,
			now:    time.Now(),
		},
		modelView: modelView{
			showLogs:   true,
			followLogs: true,
			logView:    viewport.New(defaultLogViewWidth, minLogPanelHeight),
			help:       help.New(),
			keys:       keyboard.New(),
		},
	}

	m.unsubscribe = logger.Subscribe(func(event logging.Event) {
		pushDropOldest(m.logCh, logging.FormatEventANSI(event))
	})
	return m
}

// pushDropOldest never blocks the sender; when ch is full the oldest value
// makes room.
func pushDropOldest[T any](ch chan T, value T) {
	for {
		select {
		case ch <- value:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (m *statusModel) Init() tea.Cmd {
	return tea.Batch(
		waitFor(m.logCh, func(line string) tea.Msg { return logMsg(line) }),
		waitFor(m.eventCh, func(msg tea.Msg) tea.Msg { return msg }),
		tickCmd(),
		m.startRecorderCmd(),
	)
}

func waitFor[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		value, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(value)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(clockTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *statusModel) startRecorderCmd() tea.Cmd {
	if err := config.ValidateRequired(m.opts); err != nil {
		m.errText = err.Error()
		m.kind = statusError
		return nil
	}
	m.starting = true
	m.status = "Starting"
	m.errText = ""
	opts := m.opts
	return func() tea.Msg {
		err := m.runner.Start(opts, m.logger, runtime.StartHooks{
			OnStatus: func(status string) { pushDropOldest(m.eventCh, tea.Msg(statusMsg(status))) },
			OnSourceLocked: func(source, flavour string) {
				pushDropOldest(m.eventCh, tea.Msg(lockMsg{source: source, flavour: flavour}))
			},
			OnActivityStarted: func(summary activity.Summary) {
				pushDropOldest(m.eventCh, tea.Msg(activityStartedMsg(summary)))
			},
			OnActivityFinished: func(meta recorder.Metadata) {
				pushDropOldest(m.eventCh, tea.Msg(activityFinishedMsg(meta)))
			},
			OnSourcesChange: func(sources []wowlogs.Source) {
				pushDropOldest(m.eventCh, tea.Msg(sourcesMsg(sources)))
			},
			OnExit: m.onRuntimeExit,
		})
		return startResultMsg{err: err}
	}
}

func (m *statusModel) onRuntimeExit(runErr error) {
	if m.program == nil {
		return
	}
	m.program.Send(runDoneMsg{err: runErr})
}

func (m *statusModel) cleanup() {
	m.cleanupOnce.Do(func() {
		m.logger.Debug("status view cleanup started")
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		m.runner.Stop()
		if m.rootCancel != nil {
			m.rootCancel()
		}
	})
}
