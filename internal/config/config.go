package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

type Options struct {
	LogDirs              []string      `long:"log-dir" env:"WCR_LOG_DIR" env-delim:";" description:"Combat log directory to watch (repeatable)"`
	OutputDir            string        `long:"output-dir" env:"WCR_OUTPUT_DIR" description:"Directory receiving activity metadata files"`
	RecorderURL          string        `long:"recorder-url" env:"WCR_RECORDER_URL" description:"Webhook that receives recorder start and stop signals"`
	RecorderToken        string        `long:"recorder-token" env:"WCR_RECORDER_TOKEN" description:"Bearer token sent to the recorder webhook"`
	DataTimeout          time.Duration `long:"data-timeout" env:"WCR_DATA_TIMEOUT" default:"30s" description:"Release a log source after this long without lines"`
	PollInterval         time.Duration `long:"poll-interval" env:"WCR_POLL_INTERVAL" default:"1s" description:"How often log directories are rescanned"`
	ProcessPollInterval  time.Duration `long:"process-poll-interval" env:"WCR_PROCESS_POLL_INTERVAL" default:"5s" description:"How often the game process is checked"`
	MinEncounterDuration time.Duration `long:"min-encounter-duration" env:"WCR_MIN_ENCOUNTER_DURATION" description:"Discard raid pulls shorter than this"`
	ProcessNames         []string      `long:"process-name" env:"WCR_PROCESS_NAME" env-delim:"," description:"Game executable name (repeatable, defaults to Wow.exe and WowClassic.exe)"`
	TUI                  bool          `long:"tui" env:"WCR_TUI" description:"Show the terminal status view"`
	TestRun              bool          `long:"test-run" description:"Replay a short sample arena match through the recorder and exit"`
	SaveSettings         bool          `long:"save-settings" description:"Persist the effective options as saved settings"`
	Debug                bool          `long:"debug" env:"WCR_DEBUG" description:"Enable verbose debug output"`
}

// ParseOptions reads flags and environment, fills the gaps from saved
// settings, then falls back to the platform log directory.
func ParseOptions(defaultLogDirFn func() string) (Options, error) {
	opts, err := parseArgs(nil, nil)
	if err != nil {
		return Options{}, err
	}
	if saved, loadErr := LoadSettings(); loadErr == nil {
		opts = MergeOptionsWithSettings(opts, saved)
	}
	opts.LogDirs = withDefaultLogDir(opts.LogDirs, defaultLogDirFn)
	if opts.SaveSettings {
		if err := SaveSettings(SettingsFromOptions(opts)); err != nil {
			return Options{}, fmt.Errorf("save settings: %w", err)
		}
	}
	return opts, nil
}

func parseArgs(args []string, defaultLogDirFn func() string) (Options, error) {
	_ = godotenv.Load()
	opts := Options{}
	var err error
	if args == nil {
		_, err = flags.Parse(&opts)
	} else {
		_, err = flags.ParseArgs(&opts, args)
	}
	if err != nil {
		return Options{}, err
	}
	opts.LogDirs = withDefaultLogDir(cleanList(opts.LogDirs), defaultLogDirFn)
	opts.ProcessNames = cleanList(opts.ProcessNames)
	return opts, nil
}

func withDefaultLogDir(dirs []string, defaultLogDirFn func() string) []string {
	if len(dirs) > 0 || defaultLogDirFn == nil {
		return dirs
	}
	if dir := defaultLogDirFn(); dir != "" {
		return []string{dir}
	}
	return dirs
}

func ValidateRequired(opts Options) error {
	if len(cleanList(opts.LogDirs)) == 0 {
		return errors.New("at least one log directory is required")
	}
	if opts.DataTimeout < 0 {
		return errors.New("data timeout must not be negative")
	}
	if strings.TrimSpace(opts.RecorderURL) != "" {
		if err := validateRecorderURL(opts.RecorderURL); err != nil {
			return fmt.Errorf("recorder URL: %w", err)
		}
	}
	return nil
}

func validateRecorderURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("expected absolute URL like https://example.com/hook")
	}
	if !strings.EqualFold(parsed.Scheme, "http") && !strings.EqualFold(parsed.Scheme, "https") {
		return errors.New("scheme must be http or https")
	}
	return nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
