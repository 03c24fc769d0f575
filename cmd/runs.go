package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/edgar-ingest/internal/edgar"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect ingestion run history",
	Long:  "Lists reconcile, filings and tickers runs with their status and record counts.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := dbPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := edgar.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "runs: migrate")
		}

		runs, err := edgar.NewRunLog(pool).ListAll(ctx)
		if err != nil {
			return eris.Wrap(err, "runs")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs recorded.")
			return nil
		}

		formatRuns(os.Stdout, runs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

// formatRuns writes a tabular run listing to w.
func formatRuns(out io.Writer, runs []edgar.RunEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tOPERATION\tSTATUS\tSTARTED\tDURATION\tRECORDS\tERROR")

	for _, r := range runs {
		dur := ""
		if r.CompletedAt != nil {
			dur = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}

		errMsg := r.Error
		if len(errMsg) > 40 {
			errMsg = errMsg[:37] + "..."
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID,
			r.Operation,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04"),
			dur,
			r.Records,
			errMsg,
		)
	}
	_ = w.Flush()
}
