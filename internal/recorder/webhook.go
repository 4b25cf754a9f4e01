package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/runctx"
)

const (
	webhookQueueSize    = 64
	webhookRetryDelay   = 500 * time.Millisecond
	webhookRetryMax     = 10 * time.Second
	webhookMaxTries     = 5
	webhookMaxElapsed   = time.Minute
	webhookRequestLimit = 10 * time.Second
)

type WebhookOptions struct {
	URL   string
	Token string
}

type webhookPayload struct {
	Event          string    `json:"event"`
	SentAt         time.Time `json:"sentAt"`
	OverrunSeconds float64   `json:"overrunSeconds,omitempty"`
	Metadata       *Metadata `json:"metadata,omitempty"`
}

// Webhook forwards recorder signals as JSON POSTs. Signals are queued and
// delivered in order by Run.
type Webhook struct {
	http    *http.Client
	options WebhookOptions
	logger  *logging.Logger
	queue   chan webhookPayload
	now     func() time.Time

	mu     sync.Mutex
	closed bool
}

func NewWebhook(httpClient *http.Client, options WebhookOptions, logger *logging.Logger) *Webhook {
	if logger == nil {
		panic("recorder.NewWebhook: logger must not be nil")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: webhookRequestLimit}
	}
	return &Webhook{
		http:    httpClient,
		options: options,
		logger:  logger,
		queue:   make(chan webhookPayload, webhookQueueSize),
		now:     time.Now,
	}
}

func (w *Webhook) Start() {
	w.enqueue(webhookPayload{Event: "start"})
}

func (w *Webhook) Stop(meta Metadata, overrun time.Duration) {
	w.enqueue(webhookPayload{Event: "stop", OverrunSeconds: overrun.Seconds(), Metadata: &meta})
}

func (w *Webhook) StartBuffer() {
	w.enqueue(webhookPayload{Event: "startBuffer"})
}

func (w *Webhook) StopBuffer() {
	w.enqueue(webhookPayload{Event: "stopBuffer"})
}

func (w *Webhook) enqueue(payload webhookPayload) {
	payload.SentAt = w.now().UTC()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.logger.Debug("recorder webhook closed, dropping event", logging.Field("event", payload.Event))
		return
	}
	select {
	case w.queue <- payload:
	default:
		w.logger.Warn("dropping recorder webhook event",
			logging.Field("event", payload.Event),
			logging.Field("error", ErrQueueFull.Error()),
		)
	}
}

// Close stops accepting events. Run returns once the queued ones are delivered.
func (w *Webhook) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.queue)
}

// Run delivers queued events until ctx is canceled or the webhook is closed
// and drained.
func (w *Webhook) Run(ctx context.Context) {
	for {
		payload, ok := runctx.RecvOrDone(ctx, "recorder webhook", w.logger, w.queue)
		if !ok {
			return
		}
		err := w.deliver(ctx, payload)
		switch {
		case err == nil || ctx.Err() != nil:
		case IsUnauthorized(err):
			w.logger.Error("recorder webhook rejected the token",
				logging.Field("event", payload.Event),
				logging.Field("error", err.Error()),
			)
		default:
			w.logger.Warn("recorder webhook delivery failed",
				logging.Field("event", payload.Event),
				logging.Field("error", err.Error()),
			)
		}
	}
}

func (w *Webhook) deliver(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = webhookRetryDelay
	retry.MaxInterval = webhookRetryMax
	retry.Reset()

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		err := w.post(ctx, body)
		if err == nil {
			return struct{}{}, nil
		}
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(retry),
		backoff.WithMaxTries(webhookMaxTries),
		backoff.WithMaxElapsedTime(webhookMaxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			w.logger.Debug("retrying recorder webhook",
				logging.Field("event", payload.Event),
				logging.Field("error", err.Error()),
				logging.Field("next_retry", next.String()))
		}),
	)
	return err
}

func (w *Webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.options.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.options.Token != "" {
		req.Header.Set("Authorization", "Bearer "+w.options.Token)
	}
	w.logger.Debug("posting recorder webhook", logging.Field("payload", logging.FormatWebhookBody(body)))

	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	w.logger.Debug("recorder webhook answered", logging.Field("status", resp.Status))

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		w.logger.Warn("recorder webhook rejected",
			logging.Field("status", resp.Status),
			logging.Field("response", logging.FormatWebhookBody(data)),
		)
		return fmt.Errorf("recorder webhook: %w", &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}
	return nil
}
