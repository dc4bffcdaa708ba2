package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tikcut/internal/history"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show processed videos",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	cmd.Flags().Int("limit", 20, "Maximum rows to show")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history records",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClear,
	})
	return cmd
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := history.Open(historyPath(cfg.Paths.WorkDir))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	jobs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no history yet")
		return nil
	}

	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		detail := j.OutputPath
		if j.Status == history.StatusFailed {
			detail = j.ErrorMessage
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", j.ID),
			j.VideoID,
			truncate(j.Title, 40),
			j.Status,
			j.UpdatedAt.Local().Format(time.DateTime),
			truncate(detail, 50),
		})
	}

	out := renderTable(
		[]string{"ID", "Video", "Title", "Status", "Updated", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := history.Open(historyPath(cfg.Paths.WorkDir))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
	return nil
}
