package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"warcraft-recorder/internal/logging"
)

type scriptedChecker struct {
	mu      sync.Mutex
	results []bool
	fails   int
}

func (c *scriptedChecker) Running() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fails > 0 {
		c.fails--
		return false, errors.New("snapshot unavailable")
	}
	if len(c.results) == 0 {
		return false, nil
	}
	next := c.results[0]
	if len(c.results) > 1 {
		c.results = c.results[1:]
	}
	return next, nil
}

func TestPoller_ReportsInitialStateAndTransitions(t *testing.T) {
	logger := logging.New(false)
	logger.SetTerminalOutputEnabled(false)
	checker := &scriptedChecker{fails: 1, results: []bool{false, false, true, true, false}}
	poller := NewPoller(checker, time.Millisecond, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out := make(chan bool)
	done := make(chan error, 1)
	go func() { done <- poller.RunContext(ctx, out) }()

	for i, want := range []bool{false, true, false} {
		select {
		case got := <-out:
			if got != want {
				t.Fatalf("report %d = %v, want %v", i, got, want)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for report %d", i)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
}

func TestNameChecker_MatchesBaseNameCaseInsensitive(t *testing.T) {
	checker := NewNameChecker(nil)
	checker.list = func() ([]string, error) {
		return []string{"bash", `C:\Program Files (x86)\World of Warcraft\_retail_\wow.exe`}, nil
	}
	running, err := checker.Running()
	if err != nil || !running {
		t.Fatalf("Running() = %v, %v", running, err)
	}

	checker.list = func() ([]string, error) { return []string{"Wow.exe.bak", "Battle.net.exe"}, nil }
	if running, _ := checker.Running(); running {
		t.Fatalf("unexpected match")
	}

	checker.list = func() ([]string, error) { return nil, errors.New("denied") }
	if _, err := checker.Running(); err == nil {
		t.Fatalf("expected list error")
	}
}

func TestNameChecker_FindsCurrentProcess(t *testing.T) {
	self := filepath.Base(os.Args[0])
	running, err := NewNameChecker([]string{self}).Running()
	if err != nil {
		t.Fatalf("Running() error = %v", err)
	}
	if !running {
		t.Fatalf("expected %q to be listed as running", self)
	}
	if running, _ := NewNameChecker([]string{"no-such-game.exe"}).Running(); running {
		t.Fatalf("unexpected match for a missing executable")
	}
}
