package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"warcraft-recorder/internal/activity"
	"warcraft-recorder/internal/combatant"
	"warcraft-recorder/internal/config"
	"warcraft-recorder/internal/dispatch"
	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/process"
	"warcraft-recorder/internal/recorder"
	"warcraft-recorder/internal/runstatus"
	"warcraft-recorder/internal/wowlogs"
)

const (
	idleCheckInterval = time.Second
	lineBufferSize    = 256
)

// RecorderApp owns the ingestion loop: combat log lines and game process
// changes are funnelled into one goroutine that drives the dispatcher and the
// activity state machine.
type RecorderApp struct {
	opts     config.Options
	recorder recorder.Recorder
	checker  process.Checker
	logger   *logging.Logger
	hooks    Callbacks
	status   runtimeStatusState
	now      func() time.Time
}

type Callbacks struct {
	OnStatusChange     func(string)
	OnSourceLocked     func(source, flavour string)
	OnActivityStarted  func(activity.Summary)
	OnActivityFinished func(recorder.Metadata)
	OnSourcesChange    func([]wowlogs.Source)
}

// New wires the app. A nil checker disables game process polling.
func New(opts config.Options, rec recorder.Recorder, checker process.Checker, logger *logging.Logger, hooks Callbacks) *RecorderApp {
	if rec == nil {
		panic("app.New: recorder must not be nil")
	}
	if logger == nil {
		panic("app.New: logger must not be nil")
	}
	return &RecorderApp{opts: opts, recorder: rec, checker: checker, logger: logger, hooks: hooks, now: time.Now}
}

type pipeline struct {
	dispatcher *dispatch.Dispatcher
	machine    *activity.Machine
}

func (a *RecorderApp) newPipeline() pipeline {
	registry := combatant.NewRegistry()
	machine := activity.NewMachine(a.recorder, registry, a.logger)
	dispatcher := dispatch.New(a.logger, a.opts.DataTimeout, dispatch.Callbacks{
		OnFirstData: func(source, flavour string) {
			a.recorder.StartBuffer()
			a.setRuntimeStatus(runstatus.Receiving)
			if a.hooks.OnSourceLocked != nil {
				a.hooks.OnSourceLocked(source, flavour)
			}
		},
		OnDataTimeout: func(source string, idle time.Duration) {
			if _, recording := machine.Current(); !recording {
				a.setRuntimeStatus(runstatus.Watching)
			}
			if a.hooks.OnSourceLocked != nil {
				a.hooks.OnSourceLocked("", "")
			}
		},
	})
	machine.SetHooks(activity.Hooks{
		OnStarted: func(summary activity.Summary) {
			a.setRuntimeStatus(runstatus.Recording)
			if a.hooks.OnActivityStarted != nil {
				a.hooks.OnActivityStarted(summary)
			}
		},
		OnFinalized: func(meta recorder.Metadata) {
			if _, _, locked := dispatcher.LockHolder(); locked {
				a.setRuntimeStatus(runstatus.Receiving)
			} else {
				a.setRuntimeStatus(runstatus.Watching)
			}
			if a.hooks.OnActivityFinished != nil {
				a.hooks.OnActivityFinished(meta)
			}
		},
	})
	machine.Register(dispatcher)
	return pipeline{dispatcher: dispatcher, machine: machine}
}

func (a *RecorderApp) RunContext(ctx context.Context) error {
	a.logger.Info("recorder app starting",
		logging.Field("log_dirs", strings.Join(a.opts.LogDirs, ", ")),
		logging.Field("data_timeout", a.opts.DataTimeout),
	)
	a.setRuntimeStatus(runstatus.Starting)

	p := a.newPipeline()
	monitor := wowlogs.NewMonitor(wowlogs.MonitorOptions{PollInterval: a.opts.PollInterval}, a.logger, wowlogs.MonitorCallbacks{
		OnError: func(err error) {
			a.logger.Warn("log monitor error", logging.Field("error", err))
		},
	})
	watched := 0
	for _, dir := range a.opts.LogDirs {
		if err := monitor.WatchPath(dir); err != nil {
			continue
		}
		watched++
	}
	if watched == 0 {
		a.setRuntimeStatus(runstatus.Stopped)
		return fmt.Errorf("%w: %s", ErrNoLogSource, strings.Join(a.opts.LogDirs, ", "))
	}
	defer monitor.UnwatchAll()
	a.notifySources(monitor)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	lines := make(chan wowlogs.Line, lineBufferSize)
	monitorErr := make(chan error, 1)
	wg.Go(func() {
		if err := monitor.RunContext(runCtx, lines); err != nil {
			monitorErr <- err
		}
	})

	var running chan bool
	if a.checker != nil {
		running = make(chan bool, 1)
		poller := process.NewPoller(a.checker, a.opts.ProcessPollInterval, a.logger)
		wg.Go(func() {
			_ = poller.RunContext(runCtx, running)
		})
	}

	a.setRuntimeStatus(runstatus.Watching)
	idle := time.NewTicker(idleCheckInterval)
	defer idle.Stop()

	stop := func() {
		cancel()
		wg.Wait()
		a.setRuntimeStatus(runstatus.Stopped)
	}
	for {
		select {
		case <-ctx.Done():
			stop()
			a.logger.Info("recorder app stopped")
			return nil
		case err := <-monitorErr:
			stop()
			a.logger.Warn("recorder app stopped with error", logging.Field("error", err))
			return err
		case line := <-lines:
			p.dispatcher.HandleLine(line.Source, line.Flavour, line.Text, a.now())
		case up := <-running:
			if up {
				p.machine.ProcessStarted()
			} else {
				p.machine.ProcessStopped(a.now())
			}
		case <-idle.C:
			p.dispatcher.CheckIdle(a.now())
			a.notifySources(monitor)
		}
	}
}

// Sample arena match used by RunTest. The stop line is replayed after the
// configured delay so a recorder has time to capture something.
var testRunLines = struct {
	start []string
	stop  string
}{
	start: []string{
		"8/3 22:09:58.548  ARENA_MATCH_START,2547,33,2v2,1",
		"8/3 22:09:58.548  COMBATANT_INFO,Player-1084-08A89569,0,194,452,3670,2353,0,0,0,111,111,111,0,0,632,632,632,0,345,1193,1193,1193,779,256,(102351,102401,197491,5211,158478,203651,155675),(0,203553,203399,353114),[4,4,[],[(1123),(1124)],[(256,200)]],[(188847,265,(),(7578,8151),())],[Player-1084-08A89569,768,Player-1084-08A89569,5225],327,33,767,1",
		`8/3 22:09:59.365  SPELL_AURA_APPLIED,Player-1084-08A89569,"Alexsmite-TarrenMill",0x511,0x0,Player-1084-08A89569,"Alexsmite-TarrenMill",0x511,0x0,110310,"Dampening",0x1,DEBUFF`,
	},
	stop: "8/3 22:12:14.889  ARENA_MATCH_END,0,8,1673,1668",
}

// RunTest replays a short 2v2 match through a fresh pipeline, bypassing the
// source lock. It returns once the stop signal has been sent.
func (a *RecorderApp) RunTest(ctx context.Context, delay time.Duration) error {
	a.logger.Info("starting test recording", logging.Field("delay", delay))
	p := a.newPipeline()
	for _, line := range testRunLines.start {
		if err := p.dispatcher.Replay("wow", line, a.now()); err != nil {
			return fmt.Errorf("replay test line: %w", err)
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		p.machine.ProcessStopped(a.now())
		return errors.Join(ErrTestRunCancelled, ctx.Err())
	case <-timer.C:
	}

	if err := p.dispatcher.Replay("wow", testRunLines.stop, a.now()); err != nil {
		return fmt.Errorf("replay test line: %w", err)
	}
	a.logger.Info("test recording finished")
	return nil
}

type runtimeStatusState struct {
	mu      sync.Mutex
	current string
}

func (s *runtimeStatusState) update(status string) (string, string, bool) {
	trimmed := strings.TrimSpace(status)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == trimmed {
		return s.current, trimmed, false
	}
	previous := s.current
	s.current = trimmed
	return previous, trimmed, true
}

func (a *RecorderApp) Status() string {
	a.status.mu.Lock()
	defer a.status.mu.Unlock()
	return a.status.current
}

func (a *RecorderApp) notifySources(monitor *wowlogs.Monitor) {
	if a.hooks.OnSourcesChange == nil {
		return
	}
	a.hooks.OnSourcesChange(monitor.Sources())
}

func (a *RecorderApp) setRuntimeStatus(status string) {
	previous, next, changed := a.status.update(status)
	if !changed {
		return
	}
	a.logger.Debug("runtime status transition",
		logging.Field("from", previous),
		logging.Field("to", next),
	)
	if a.hooks.OnStatusChange != nil {
		a.hooks.OnStatusChange(status)
	}
}
