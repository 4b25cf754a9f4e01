package process

import (
	"context"
	"time"

	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/runctx"
)

const DefaultPollInterval = 5 * time.Second

// Poller samples a Checker on an interval and reports the first observation
// followed by every change.
type Poller struct {
	checker  Checker
	interval time.Duration
	logger   *logging.Logger
}

func NewPoller(checker Checker, interval time.Duration, logger *logging.Logger) *Poller {
	if logger == nil {
		panic("process.NewPoller: logger must not be nil")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{checker: checker, interval: interval, logger: logger}
}

func (p *Poller) RunContext(ctx context.Context, out chan<- bool) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		last  bool
		known bool
	)
	for {
		running, err := p.checker.Running()
		if err != nil {
			p.logger.Debug("process check failed", logging.Field("error", err))
		} else if !known || running != last {
			known = true
			last = running
			p.logger.Debug("game process state", logging.Field("running", running))
			if !runctx.SendOrDone(ctx, "process poller", p.logger, out, running) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			p.logger.Debug("stopping process poller: context canceled")
			return nil
		case <-ticker.C:
		}
	}
}
