package runtime

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"warcraft-recorder/internal/app"
	"warcraft-recorder/internal/config"
	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/process"
	"warcraft-recorder/internal/recorder"
)

const defaultHTTPTimeout = 10 * time.Second

type Service interface {
	RunContext(ctx context.Context) error
}

// recorderService runs the ingestion loop together with the recorder
// collaborators it signals.
type recorderService struct {
	app     *app.RecorderApp
	journal *recorder.Journal
	webhook *recorder.Webhook
	logger  *logging.Logger
}

func NewService(opts config.Options, logger *logging.Logger) (Service, error) {
	return NewServiceWithHooks(opts, logger, StartHooks{})
}

func NewServiceWithHooks(opts config.Options, logger *logging.Logger, hooks StartHooks) (Service, error) {
	if logger == nil {
		panic("runtime.NewServiceWithHooks: logger must not be nil")
	}
	if err := config.ValidateRequired(opts); err != nil {
		return nil, err
	}

	svc := &recorderService{logger: logger}
	svc.journal = recorder.NewJournal(recorder.JournalOptions{
		OutputDir:            opts.OutputDir,
		MinEncounterDuration: opts.MinEncounterDuration,
	}, logger)
	svc.journal.OnWritten(func(path string, meta recorder.Metadata) {
		logger.Info("activity saved",
			logging.Field("activity", meta.Title()),
			logging.Field("result", meta.ResultLabel()),
			logging.Field("path", path),
		)
	})
	recorders := recorder.Multi{svc.journal}

	if url := strings.TrimSpace(opts.RecorderURL); url != "" {
		httpClient := &http.Client{Timeout: defaultHTTPTimeout}
		svc.webhook = recorder.NewWebhook(httpClient, recorder.WebhookOptions{URL: url, Token: opts.RecorderToken}, logger)
		recorders = append(recorders, svc.webhook)
		logger.Debug("recorder webhook enabled", logging.Field("url", url))
	}

	svc.app = app.New(opts, recorders, process.NewNameChecker(opts.ProcessNames), logger, app.Callbacks{
		OnStatusChange:     hooks.OnStatus,
		OnSourceLocked:     hooks.OnSourceLocked,
		OnActivityStarted:  hooks.OnActivityStarted,
		OnActivityFinished: hooks.OnActivityFinished,
		OnSourcesChange:    hooks.OnSourcesChange,
	})
	return svc, nil
}

// NewTestRun builds a service that replays the sample match instead of
// watching log directories.
func NewTestRun(opts config.Options, logger *logging.Logger, delay time.Duration) (Service, error) {
	if len(opts.LogDirs) == 0 {
		opts.LogDirs = []string{"-"}
	}
	svc, err := NewServiceWithHooks(opts, logger, StartHooks{})
	if err != nil {
		return nil, err
	}
	return testRunService{recorderService: svc.(*recorderService), delay: delay}, nil
}

func (s *recorderService) RunContext(ctx context.Context) error {
	return s.run(ctx, s.app.RunContext)
}

// run keeps webhook delivery alive until pending overruns have been handed
// over, then drains the queue.
func (s *recorderService) run(ctx context.Context, body func(context.Context) error) error {
	var wg sync.WaitGroup
	deliveryCtx, stopDelivery := context.WithCancel(context.WithoutCancel(ctx))
	if s.webhook != nil {
		wg.Go(func() {
			s.webhook.Run(deliveryCtx)
		})
	}

	err := body(ctx)

	s.journal.Wait()
	if s.webhook != nil {
		s.webhook.Close()
	}
	wg.Wait()
	stopDelivery()
	return err
}

type testRunService struct {
	*recorderService
	delay time.Duration
}

func (s testRunService) RunContext(ctx context.Context) error {
	return s.run(ctx, func(ctx context.Context) error {
		return s.app.RunTest(ctx, s.delay)
	})
}
