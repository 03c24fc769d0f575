package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/edgar-ingest/internal/edgar"
	"github.com/sells-group/edgar-ingest/internal/edgar/pipeline"
)

var filingsCmd = &cobra.Command{
	Use:   "filings",
	Short: "Ingest company filings",
	Long: `Downloads every indexed 10-K and 10-Q for the given CIKs, derives
normalized fundamentals from each XBRL instance document, and persists
the records. Re-ingesting an accession number is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ciks, err := parseCIKs(cmd)
		if err != nil {
			return err
		}

		pool, err := dbPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := edgar.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "filings: migrate")
		}

		runner := pipeline.New(cfg.Edgar, pool)
		zap.L().Info("ingesting filings", zap.Strings("ciks", ciks))

		if err := runner.IngestFilings(ctx, ciks); err != nil {
			return eris.Wrap(err, "filings")
		}

		fmt.Println("Ingest complete")
		return nil
	},
}

// parseCIKs merges the --cik and --ciks flags into one list.
func parseCIKs(cmd *cobra.Command) ([]string, error) {
	single, _ := cmd.Flags().GetString("cik")
	multi, _ := cmd.Flags().GetString("ciks")

	var ciks []string
	if single != "" {
		ciks = append(ciks, single)
	}
	for _, c := range strings.Split(multi, ",") {
		if c = strings.TrimSpace(c); c != "" {
			ciks = append(ciks, c)
		}
	}
	if len(ciks) == 0 {
		return nil, eris.New("filings: no CIKs given (use --cik or --ciks)")
	}
	return ciks, nil
}

func init() {
	filingsCmd.Flags().String("cik", "", "single CIK to ingest")
	filingsCmd.Flags().String("ciks", "", "comma-separated CIKs to ingest")
	rootCmd.AddCommand(filingsCmd)
}
