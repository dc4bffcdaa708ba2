package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tikcut/internal/preflight"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and directories are ready",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results := preflight.RunAll(cfg)

	rows := make([][]string, 0, len(results))
	failed := 0
	for _, r := range results {
		mark := "ok"
		if !r.Passed {
			mark = "FAIL"
			failed++
		}
		rows = append(rows, []string{r.Name, mark, r.Detail})
	}

	out := renderTable(
		[]string{"Check", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	)
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "all checks passed")
	return nil
}
