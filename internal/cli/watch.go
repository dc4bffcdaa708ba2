package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tikcut/internal/pipeline"
	"tikcut/internal/watcher"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process video files dropped into the watch directory",
		Long: `Watches the configured watch directory and turns every video file
created there into a captioned vertical clip. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	cmd.Flags().Bool("keep", false, "Keep per-video work directories for inspection")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Paths.WatchDir == "" {
		return fmt.Errorf("paths.watch_dir is not configured")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Paths.WatchDir, 0o755); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	pipe := pipeline.New(cfg, log)
	pipe.KeepArtifacts, _ = cmd.Flags().GetBool("keep")

	w, err := watcher.New(cfg.Paths.WatchDir, func(ctx context.Context, path string) error {
		out, err := pipe.ProcessFile(ctx, path, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "done: %s -> %s\n", path, out.OutputPath)
		return nil
	}, log)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (ctrl-c to stop)\n", cfg.Paths.WatchDir)
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
