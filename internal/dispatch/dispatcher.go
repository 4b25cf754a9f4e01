package dispatch

import (
	"time"

	"warcraft-recorder/internal/combatlog"
	"warcraft-recorder/internal/logging"
)

const DefaultDataTimeout = 30 * time.Second

// Event is one tokenized line routed to a handler.
type Event struct {
	Line     *combatlog.LogLine
	Source   string
	Flavour  string
	Received time.Time
}

type HandlerFunc func(Event) error

type Callbacks struct {
	// OnFirstData fires when a source takes the lock.
	OnFirstData func(source, flavour string)
	// OnDataTimeout fires when the lock holder went quiet and the lock was released.
	OnDataTimeout func(source string, idle time.Duration)
}

// Dispatcher routes combat log lines by event type and lets only one source
// drive the handlers at a time. It is owned by a single goroutine.
type Dispatcher struct {
	logger      *logging.Logger
	callbacks   Callbacks
	dataTimeout time.Duration
	handlers    map[string]HandlerFunc

	holder        string
	holderFlavour string
	lastData      time.Time
}

func New(logger *logging.Logger, dataTimeout time.Duration, callbacks Callbacks) *Dispatcher {
	if logger == nil {
		panic("dispatch logger is required")
	}
	if dataTimeout <= 0 {
		dataTimeout = DefaultDataTimeout
	}
	return &Dispatcher{
		logger:      logger,
		callbacks:   callbacks,
		dataTimeout: dataTimeout,
		handlers:    map[string]HandlerFunc{},
	}
}

// Register installs fn for eventType, replacing any earlier handler.
func (d *Dispatcher) Register(eventType string, fn HandlerFunc) {
	if fn == nil {
		delete(d.handlers, eventType)
		return
	}
	d.handlers[eventType] = fn
}

// HandleLine runs one raw line from source through the lock, the tokenizer and
// the handler table. It reports whether the line was accepted. Lines for
// registered event types are tokenized in full before the lock is touched.
func (d *Dispatcher) HandleLine(source, flavour, raw string, now time.Time) bool {
	if d.holder != "" && d.holder != source {
		if !d.idleExpired(now) {
			return false
		}
		d.release(now)
	}

	line, handler, err := d.tokenize(raw)
	if err != nil {
		d.logger.Warn("skipping malformed combat log line",
			logging.Field("source", source),
			logging.Field("error", err.Error()),
			logging.Field("line", logging.Truncate(raw)),
		)
		return false
	}

	if d.holder == "" {
		d.holder = source
		d.holderFlavour = flavour
		d.logger.Info("locking log source for exclusive processing",
			logging.Field("source", source),
			logging.Field("flavour", flavour),
		)
		if d.callbacks.OnFirstData != nil {
			d.callbacks.OnFirstData(source, flavour)
		}
	}
	d.lastData = now

	d.dispatch(handler, Event{Line: line, Source: source, Flavour: flavour, Received: now})
	return true
}

// Replay dispatches a line without touching the source lock.
func (d *Dispatcher) Replay(flavour, raw string, now time.Time) error {
	line, handler, err := d.tokenize(raw)
	if err != nil {
		return err
	}
	d.dispatch(handler, Event{Line: line, Flavour: flavour, Received: now})
	return nil
}

// tokenize parses the event type and, when a handler is registered for it,
// the rest of the line. Unknown event types stay lazily parsed.
func (d *Dispatcher) tokenize(raw string) (*combatlog.LogLine, HandlerFunc, error) {
	line, err := combatlog.NewLogLine(raw)
	if err != nil {
		return nil, nil, err
	}
	handler, ok := d.handlers[line.Type()]
	if !ok {
		return line, nil, nil
	}
	if _, err := line.Len(); err != nil {
		return nil, nil, err
	}
	return line, handler, nil
}

func (d *Dispatcher) dispatch(handler HandlerFunc, ev Event) {
	if handler == nil {
		return
	}
	if err := handler(ev); err != nil {
		d.logger.Warn("combat log handler failed",
			logging.Field("event", ev.Line.Type()),
			logging.Field("source", ev.Source),
			logging.Field("error", err.Error()),
			logging.Field("line", logging.Truncate(ev.Line.Raw())),
		)
	}
}

// CheckIdle releases the lock when the holder has been silent for the data
// timeout. It reports whether the lock was released.
func (d *Dispatcher) CheckIdle(now time.Time) bool {
	if d.holder == "" || !d.idleExpired(now) {
		return false
	}
	d.release(now)
	return true
}

func (d *Dispatcher) idleExpired(now time.Time) bool {
	return now.Sub(d.lastData) >= d.dataTimeout
}

func (d *Dispatcher) release(now time.Time) {
	source := d.holder
	idle := now.Sub(d.lastData)
	d.holder = ""
	d.holderFlavour = ""
	d.logger.Info("unlocking log source after data timeout",
		logging.Field("source", source),
		logging.Field("timeout", d.dataTimeout.String()),
	)
	if d.callbacks.OnDataTimeout != nil {
		d.callbacks.OnDataTimeout(source, idle)
	}
}

// ClearLock drops the lock without firing the timeout callback.
func (d *Dispatcher) ClearLock() {
	d.holder = ""
	d.holderFlavour = ""
}

func (d *Dispatcher) LockHolder() (source string, flavour string, ok bool) {
	return d.holder, d.holderFlavour, d.holder != ""
}

func (d *Dispatcher) DataTimeout() time.Duration {
	return d.dataTimeout
}
