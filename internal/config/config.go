package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories the pipeline works in.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	WatchDir  string `toml:"watch_dir"`
}

// Clip controls how the output clip is cut and encoded.
type Clip struct {
	MinSeconds int    `toml:"min_seconds"`
	MaxSeconds int    `toml:"max_seconds"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Preset     string `toml:"preset"`
	CRF        int    `toml:"crf"`
}

// Captions controls caption line sizing and burn-in style.
type Captions struct {
	MaxLineChars  int     `toml:"max_line_chars"`
	MaxCueSeconds float64 `toml:"max_cue_seconds"`
	Font          string  `toml:"font"`
	FontSize      int     `toml:"font_size"`
	Burn          bool    `toml:"burn"`
	WriteSRT      bool    `toml:"write_srt"`
}

// Download configures the yt-dlp adapter.
type Download struct {
	Binary           string `toml:"binary"`
	Format           string `toml:"format"`
	MaxSourceSeconds int    `toml:"max_source_seconds"`
	CookiesFile      string `toml:"cookies_file"`
}

// Whisper configures the whisper.cpp adapter.
type Whisper struct {
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
	Threads  int    `toml:"threads"`
}

// FFmpeg holds the media tool binary paths.
type FFmpeg struct {
	Binary      string `toml:"binary"`
	ProbeBinary string `toml:"probe_binary"`
}

// Logging controls log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all settings. The zero value is not usable; start
// from Default and overlay a TOML file with Load.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Clip     Clip     `toml:"clip"`
	Captions Captions `toml:"captions"`
	Download Download `toml:"download"`
	Whisper  Whisper  `toml:"whisper"`
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Logging  Logging  `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   "~/.cache/tikcut",
			OutputDir: "output",
			LogDir:    "~/.local/share/tikcut/logs",
			WatchDir:  "inbox",
		},
		Clip: Clip{
			MinSeconds: 15,
			MaxSeconds: 60,
			Width:      1080,
			Height:     1920,
			Preset:     "veryfast",
			CRF:        21,
		},
		Captions: Captions{
			MaxLineChars:  42,
			MaxCueSeconds: 4,
			Font:          "Arial",
			FontSize:      64,
			Burn:          true,
			WriteSRT:      true,
		},
		Download: Download{
			Binary:           "yt-dlp",
			Format:           "best[height<=1080][ext=mp4]/best[ext=mp4]/best",
			MaxSourceSeconds: 3600,
		},
		Whisper: Whisper{
			Binary: "whisper-cli",
			Model:  "~/.cache/tikcut/models/ggml-base.bin",
		},
		FFmpeg: FFmpeg{
			Binary:      "ffmpeg",
			ProbeBinary: "ffprobe",
		},
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
	}
}

// DefaultConfigPath returns the user-level config file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/tikcut/config.toml")
}

// Load locates, parses, and validates a configuration file. When path is
// empty it tries ~/.config/tikcut/config.toml and then ./tikcut.toml;
// missing files fall back to defaults and the returned path is empty.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		resolvedPath = ""
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolvedPath, nil
}

// Validate rejects settings the pipeline cannot operate with.
func (c *Config) Validate() error {
	if c.Clip.MinSeconds <= 0 {
		return errors.New("clip.min_seconds must be > 0")
	}
	if c.Clip.MaxSeconds < c.Clip.MinSeconds {
		return errors.New("clip.max_seconds must be >= clip.min_seconds")
	}
	if c.Clip.Width <= 0 || c.Clip.Height <= 0 {
		return errors.New("clip.width and clip.height must be > 0")
	}
	if c.Captions.MaxLineChars <= 0 {
		return errors.New("captions.max_line_chars must be > 0")
	}
	if c.Captions.MaxCueSeconds <= 0 {
		return errors.New("captions.max_cue_seconds must be > 0")
	}
	if strings.TrimSpace(c.Whisper.Model) == "" {
		return errors.New("whisper.model is required")
	}
	if c.Download.MaxSourceSeconds <= 0 {
		return errors.New("download.max_source_seconds must be > 0")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// EnsureDirectories creates the work, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the annotated sample file written by `config init`.
func SampleConfig() string { return sampleConfig }

func (c *Config) expandPaths() error {
	for _, p := range []*string{
		&c.Paths.WorkDir, &c.Paths.OutputDir, &c.Paths.LogDir, &c.Paths.WatchDir,
		&c.Whisper.Model, &c.Download.CookiesFile,
	} {
		if *p == "" {
			continue
		}
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("tikcut.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}
