package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tikcut/internal/config"
	"tikcut/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:           "tikcut",
		Short:         "Turn YouTube videos into captioned vertical shorts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().String("config", "", "Path to config file (default: ~/.config/tikcut/config.toml)")

	root.AddCommand(
		newRunCommand(),
		newWatchCommand(),
		newHistoryCommand(),
		newCheckCommand(),
		newConfigCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the --config flag. Directory creation is left to
// the commands that run the pipeline, so `check` can report missing
// directories instead of silently creating them.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: logging.DefaultFilePath(cfg.Paths.LogDir),
	})
}
