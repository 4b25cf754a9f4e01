package config

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestSettingsSaveLoadAndPath(t *testing.T) {
	root := t.TempDir()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("AppData", root)
	case "darwin", "ios", "plan9":
		t.Skip("config directory is not overridable on this platform")
	default:
		t.Setenv("XDG_CONFIG_HOME", root)
	}

	path, err := SettingsPath()
	if err != nil {
		t.Fatalf("SettingsPath() error = %v", err)
	}
	wantPath := filepath.Join(root, "warcraft-recorder", "settings.json")
	if path != wantPath {
		t.Fatalf("SettingsPath() = %q, want %q", path, wantPath)
	}

	in := RecorderSettings{
		LogDirs:              []string{"/games/wow/_retail_/Logs"},
		OutputDir:            "/videos",
		RecorderURL:          "http://127.0.0.1:4455/hook",
		RecorderToken:        "tok",
		MinEncounterDuration: "30s",
		Debug:                true,
	}
	if err := SaveSettings(in); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	out, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if len(out.LogDirs) != 1 || out.OutputDir != in.OutputDir || out.RecorderToken != in.RecorderToken || out.MinEncounterDuration != "30s" || !out.Debug {
		t.Fatalf("loaded settings = %#v", out)
	}
}

func TestMergeOptionsWithSettings_PrefersCLI(t *testing.T) {
	merged := MergeOptionsWithSettings(
		Options{
			OutputDir:   "/cli/videos",
			RecorderURL: "",
		},
		RecorderSettings{
			LogDirs:              []string{"/saved/Logs", ""},
			OutputDir:            "/saved/videos",
			RecorderURL:          "https://saved.example.com/hook",
			MinEncounterDuration: "20s",
			TUI:                  true,
		},
	)

	if merged.OutputDir != "/cli/videos" {
		t.Fatalf("OutputDir = %q", merged.OutputDir)
	}
	if merged.RecorderURL != "https://saved.example.com/hook" {
		t.Fatalf("RecorderURL = %q", merged.RecorderURL)
	}
	if len(merged.LogDirs) != 1 || merged.LogDirs[0] != "/saved/Logs" {
		t.Fatalf("LogDirs = %q", merged.LogDirs)
	}
	if merged.MinEncounterDuration != 20*time.Second {
		t.Fatalf("MinEncounterDuration = %v", merged.MinEncounterDuration)
	}
	if !merged.TUI {
		t.Fatalf("bool flags should merge from saved when CLI false: %#v", merged)
	}

	roundTrip := SettingsFromOptions(merged)
	if roundTrip.MinEncounterDuration != "20s" || roundTrip.OutputDir != "/cli/videos" {
		t.Fatalf("SettingsFromOptions() = %#v", roundTrip)
	}
}
