package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"warcraft-recorder/internal/logging"
)

const raidCategory = "Raids"

type JournalOptions struct {
	OutputDir string
	// MinEncounterDuration discards raid pulls shorter than this, overrun excluded.
	MinEncounterDuration time.Duration
}

type JournalState struct {
	Recording bool
	Buffering bool
	Pending   int
	Written   int
}

// Journal tracks recording and buffer state and writes a metadata sidecar
// for every finished activity once its overrun has elapsed.
type Journal struct {
	logger  *logging.Logger
	options JournalOptions

	mu        sync.Mutex
	recording bool
	buffering bool
	pending   int
	written   []string
	onWritten func(path string, meta Metadata)

	wg sync.WaitGroup
}

func NewJournal(options JournalOptions, logger *logging.Logger) *Journal {
	if logger == nil {
		panic("recorder.NewJournal: logger must not be nil")
	}
	return &Journal{logger: logger, options: options}
}

// OnWritten registers a callback invoked after each sidecar is written.
func (j *Journal) OnWritten(fn func(path string, meta Metadata)) {
	j.mu.Lock()
	j.onWritten = fn
	j.mu.Unlock()
}

func (j *Journal) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.recording {
		j.logger.Debug("recording already in progress")
		return
	}
	j.recording = true
	j.buffering = false
	j.logger.Info("recording started")
}

// Stop ends the recording now and finalizes it after overrun. A new Start may
// arrive while the overrun is still counting down.
func (j *Journal) Stop(meta Metadata, overrun time.Duration) {
	j.mu.Lock()
	if !j.recording {
		j.logger.Debug("stop received while not recording", logging.Field("activity", meta.Title()))
	}
	j.recording = false
	j.pending++
	j.mu.Unlock()

	j.logger.Info("stopping recording after overrun",
		logging.Field("activity", meta.Title()),
		logging.Field("overrun", overrun.String()),
		logging.Field("metadata", meta),
	)

	j.wg.Add(1)
	time.AfterFunc(overrun, func() {
		defer j.wg.Done()
		j.finalize(meta, overrun)
	})
}

func (j *Journal) finalize(meta Metadata, overrun time.Duration) {
	path, err := j.write(meta, overrun)

	j.mu.Lock()
	j.pending--
	if path != "" {
		j.written = append(j.written, path)
	}
	restartBuffer := !j.recording && !j.buffering
	if restartBuffer {
		j.buffering = true
	}
	onWritten := j.onWritten
	j.mu.Unlock()

	if err != nil {
		j.logger.Error("failed to write activity metadata",
			logging.Field("activity", meta.Title()),
			logging.Field("error", err.Error()),
		)
	}
	if path != "" && onWritten != nil {
		onWritten(path, meta)
	}
	if restartBuffer {
		j.logger.Debug("buffer restarted after recording")
	}
}

func (j *Journal) write(meta Metadata, overrun time.Duration) (string, error) {
	if meta.Category == raidCategory && j.options.MinEncounterDuration > 0 {
		active := time.Duration(meta.Duration)*time.Second - overrun
		if active < j.options.MinEncounterDuration {
			j.logger.Info("raid encounter too short, discarding",
				logging.Field("activity", meta.Title()),
				logging.Field("duration", active.String()),
				logging.Field("minimum", j.options.MinEncounterDuration.String()),
			)
			return "", nil
		}
	}
	if j.options.OutputDir == "" {
		return "", nil
	}

	if err := os.MkdirAll(j.options.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	path, err := writeUnique(j.options.OutputDir, SidecarName(meta), data)
	if err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	j.logger.Debug("activity metadata written", logging.Field("path", path))
	return path, nil
}

func (j *Journal) StartBuffer() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.buffering || j.recording {
		return
	}
	j.buffering = true
	j.logger.Info("buffer recording started")
}

func (j *Journal) StopBuffer() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.buffering {
		return
	}
	j.buffering = false
	j.logger.Info("buffer recording stopped")
}

func (j *Journal) State() JournalState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JournalState{
		Recording: j.recording,
		Buffering: j.buffering,
		Pending:   j.pending,
		Written:   len(j.written),
	}
}

func (j *Journal) Written() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.written...)
}

// Wait blocks until every scheduled finalization has run.
func (j *Journal) Wait() {
	j.wg.Wait()
}

const maxSidecarSuffix = 100

// writeUnique creates name in dir, appending " #2", " #3", ... to the stem
// while the name is taken.
func writeUnique(dir, name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; n <= maxSidecarSuffix; n++ {
		candidate := name
		if n > 1 {
			candidate = fmt.Sprintf("%s #%d%s", stem, n, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("%s: no free name after %d attempts", name, maxSidecarSuffix)
}

var unsafeFileChars = strings.NewReplacer(
	"/", "-", `\`, "-", ":", "-", "*", "", "?", "", `"`, "", "<", "", ">", "", "|", "",
)

// SidecarName is "<start> - <title> (<Win|Loss>).json".
func SidecarName(meta Metadata) string {
	start := meta.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	title := unsafeFileChars.Replace(meta.Title())
	return fmt.Sprintf("%s - %s (%s).json", start.Format("2006-01-02 15-04-05"), title, meta.ResultLabel())
}
