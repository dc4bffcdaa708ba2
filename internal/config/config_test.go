package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestSampleConfig_MatchesDefaults(t *testing.T) {
	cfg := Default()
	if err := toml.Unmarshal([]byte(SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config must parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config must validate: %v", err)
	}
	if cfg.Clip.MinSeconds != 15 || cfg.Clip.MaxSeconds != 60 {
		t.Fatalf("unexpected clip range: %+v", cfg.Clip)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tikcut.toml")
	body := strings.Join([]string{
		"[clip]",
		"min_seconds = 20",
		"max_seconds = 45",
		"[captions]",
		"max_line_chars = 30",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %s", resolved)
	}
	if cfg.Clip.MinSeconds != 20 || cfg.Clip.MaxSeconds != 45 {
		t.Fatalf("file values not applied: %+v", cfg.Clip)
	}
	if cfg.Captions.MaxLineChars != 30 {
		t.Fatalf("file values not applied: %+v", cfg.Captions)
	}
	// Untouched keys keep defaults.
	if cfg.Clip.Width != 1080 || cfg.Clip.Height != 1920 {
		t.Fatalf("defaults lost: %+v", cfg.Clip)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min zero", func(c *Config) { c.Clip.MinSeconds = 0 }},
		{"max below min", func(c *Config) { c.Clip.MaxSeconds = c.Clip.MinSeconds - 1 }},
		{"line chars zero", func(c *Config) { c.Captions.MaxLineChars = 0 }},
		{"cue seconds zero", func(c *Config) { c.Captions.MaxCueSeconds = 0 }},
		{"no whisper model", func(c *Config) { c.Whisper.Model = " " }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if got, _ := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Fatalf("absolute path must pass through, got %s", got)
	}
}
