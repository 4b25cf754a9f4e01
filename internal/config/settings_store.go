package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type RecorderSettings struct {
	LogDirs              []string `json:"log_dirs"`
	OutputDir            string   `json:"output_dir"`
	RecorderURL          string   `json:"recorder_url"`
	RecorderToken        string   `json:"recorder_token"`
	MinEncounterDuration string   `json:"min_encounter_duration,omitempty"`
	ProcessNames         []string `json:"process_names,omitempty"`
	TUI                  bool     `json:"tui"`
	Debug                bool     `json:"debug"`
}

func SettingsPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "warcraft-recorder", "settings.json"), nil
}

func LoadSettings() (RecorderSettings, error) {
	path, err := SettingsPath()
	if err != nil {
		return RecorderSettings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RecorderSettings{}, err
	}
	var settings RecorderSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return RecorderSettings{}, err
	}
	return settings, nil
}

func SaveSettings(settings RecorderSettings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// MergeOptionsWithSettings fills options left empty on the command line from
// saved settings.
func MergeOptionsWithSettings(cli Options, saved RecorderSettings) Options {
	if len(cli.LogDirs) == 0 {
		cli.LogDirs = cleanList(saved.LogDirs)
	}
	if strings.TrimSpace(cli.OutputDir) == "" {
		cli.OutputDir = saved.OutputDir
	}
	if strings.TrimSpace(cli.RecorderURL) == "" {
		cli.RecorderURL = saved.RecorderURL
	}
	if strings.TrimSpace(cli.RecorderToken) == "" {
		cli.RecorderToken = saved.RecorderToken
	}
	if cli.MinEncounterDuration == 0 && saved.MinEncounterDuration != "" {
		if d, err := time.ParseDuration(saved.MinEncounterDuration); err == nil {
			cli.MinEncounterDuration = d
		}
	}
	if len(cli.ProcessNames) == 0 {
		cli.ProcessNames = cleanList(saved.ProcessNames)
	}
	if !cli.TUI {
		cli.TUI = saved.TUI
	}
	if !cli.Debug {
		cli.Debug = saved.Debug
	}
	return cli
}

func SettingsFromOptions(opts Options) RecorderSettings {
	settings := RecorderSettings{
		LogDirs:       cleanList(opts.LogDirs),
		OutputDir:     strings.TrimSpace(opts.OutputDir),
		RecorderURL:   strings.TrimSpace(opts.RecorderURL),
		RecorderToken: strings.TrimSpace(opts.RecorderToken),
		ProcessNames:  cleanList(opts.ProcessNames),
		TUI:           opts.TUI,
		Debug:         opts.Debug,
	}
	if opts.MinEncounterDuration > 0 {
		settings.MinEncounterDuration = opts.MinEncounterDuration.String()
	}
	return settings
}
