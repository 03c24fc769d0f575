package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/edgar-ingest/internal/edgar"
	"github.com/sells-group/edgar-ingest/internal/edgar/pipeline"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the local filing index with EDGAR",
	Long: `Downloads EDGAR quarterly master indexes and inserts the entries the
local index is missing. Entries filed within the last two days are left
for a later run so late index amendments are not missed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		startYear, _ := cmd.Flags().GetInt("year")
		endYear, _ := cmd.Flags().GetInt("end-year")
		if endYear == 0 {
			endYear = startYear
		}
		if startYear > endYear {
			return eris.Errorf("reconcile: year %d is after end-year %d", startYear, endYear)
		}

		pool, err := dbPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := edgar.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "reconcile: migrate")
		}

		runner := pipeline.New(cfg.Edgar, pool)
		zap.L().Info("reconciling index", zap.Int("start_year", startYear), zap.Int("end_year", endYear))

		if err := runner.ReconcileIndex(ctx, startYear, endYear); err != nil {
			return eris.Wrap(err, "reconcile")
		}

		fmt.Println("Reconcile complete")
		return nil
	},
}

func init() {
	reconcileCmd.Flags().Int("year", time.Now().Year(), "first year to reconcile")
	reconcileCmd.Flags().Int("end-year", 0, "last year to reconcile (defaults to --year)")
	rootCmd.AddCommand(reconcileCmd)
}
