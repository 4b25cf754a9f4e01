package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warcraft-recorder/internal/config"
	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/runtime"
	"warcraft-recorder/internal/ui/tui"

	flags "github.com/jessevdk/go-flags"
)

var BuildVersion = "dev"

const (
	testRunDelay    = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	opts, err := config.ParseOptions(config.DefaultLogDir)
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	lock, lockedByOther, lockErr := acquireInstanceLock()
	if lockErr != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize single-instance lock:", lockErr)
		return 2
	}
	if lockedByOther {
		fmt.Fprintln(os.Stderr, "Warcraft Recorder is already running.")
		return 1
	}
	defer func() {
		_ = lock.Release()
	}()

	logger := logging.New(false)
	logger.SetDebugEnabled(opts.Debug)
	defer func() {
		_ = logger.Close()
	}()
	if err := logger.EnableFilePersistence(0); err != nil {
		logger.Warn("failed to enable file log persistence", logging.Field("error", err))
	}

	switch {
	case opts.TestRun:
		return runTest(rootCtx, opts, logger)
	case opts.TUI:
		if err := tui.Run(rootCtx, BuildVersion, opts, logger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	return runPlain(rootCtx, opts, logger)
}

func runPlain(ctx context.Context, opts config.Options, logger *logging.Logger) int {
	logger.Info("starting recorder", logging.Field("version", BuildVersion), logging.Field("log_dirs", opts.LogDirs))
	runner := runtime.NewController(ctx)
	exitErr := make(chan error, 1)
	err := runner.Start(opts, logger, runtime.StartHooks{
		OnStatus: func(status string) {
			logger.Debug("status changed", logging.Field("status", status))
		},
		OnExit: func(err error) {
			exitErr <- err
		},
	})
	if err != nil {
		logger.Error("recorder failed to start", logging.Field("error", err))
		return 1
	}

	var runErr error
	select {
	case <-ctx.Done():
		runner.Stop()
		if !runner.Wait(shutdownTimeout) {
			logger.Warn("recorder did not stop in time")
		}
	case runErr = <-exitErr:
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("recorder stopped", logging.Field("error", runErr))
		return 1
	}
	logger.Info("recorder stopped")
	return 0
}

func runTest(ctx context.Context, opts config.Options, logger *logging.Logger) int {
	svc, err := runtime.NewTestRun(opts, logger, testRunDelay)
	if err != nil {
		logger.Error("test run setup failed", logging.Field("error", err))
		return 1
	}
	logger.Info("replaying sample arena match", logging.Field("delay", testRunDelay.String()))
	if err := svc.RunContext(ctx); err != nil {
		logger.Error("test run failed", logging.Field("error", err))
		return 1
	}
	logger.Info("test run finished")
	return 0
}
