package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tikcut/internal/batch"
	"tikcut/internal/history"
	"tikcut/internal/pipeline"
	"tikcut/internal/types"
	"tikcut/internal/youtube"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [url ...]",
		Short: "Download, trim, and caption one or more YouTube videos",
		RunE:  runRun,
	}

	cmd.Flags().String("list", "", "File with one YouTube URL per line")
	cmd.Flags().Bool("force", false, "Reprocess videos already marked completed")
	cmd.Flags().Bool("keep", false, "Keep per-video work directories for inspection")
	cmd.Flags().String("out", "", "Output directory (overrides config)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	urls := args

	if listPath, _ := cmd.Flags().GetString("list"); listPath != "" {
		fromFile, err := youtube.ReadURLList(listPath)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given (pass them as arguments or via --list)")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Paths.OutputDir = out
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	store, err := history.Open(historyPath(cfg.Paths.WorkDir))
	if err != nil {
		return err
	}
	defer store.Close()

	pipe := pipeline.New(cfg, log)
	pipe.KeepArtifacts, _ = cmd.Flags().GetBool("keep")

	b := batch.New(store, pipe, log, cfg.Paths.WorkDir)
	b.Force, _ = cmd.Flags().GetBool("force")

	outcomes, err := b.Run(cmd.Context(), urls)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summarize(outcomes))
	return nil
}

func historyPath(workDir string) string {
	return filepath.Join(workDir, "history.db")
}

// summarize renders the per-video batch results as a table plus a
// one-line total.
func summarize(outcomes []types.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	done := 0
	for _, o := range outcomes {
		status := "ok"
		detail := o.OutputPath
		switch {
		case o.Err != nil:
			status = "failed"
			detail = o.Err.Error()
		case o.Skipped:
			status = "skipped"
			detail = "already completed"
		default:
			done++
		}
		rows = append(rows, []string{
			o.VideoID,
			truncate(o.Title, 40),
			status,
			fmtClipDur(o.ClipDur),
			detail,
		})
	}

	out := renderTable(
		[]string{"Video", "Title", "Status", "Clip", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
	return fmt.Sprintf("%s\n%d/%d videos processed", out, done, len(outcomes))
}

func fmtClipDur(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.Round(100 * time.Millisecond).String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
