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

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Discover trading symbols for newly filing companies",
	Long: `Finds CIKs with recent 10-K/10-Q filings but no stored trading symbol,
reads each company's most recent instance document, and records its
registrant name and symbol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sinceStr, _ := cmd.Flags().GetString("since")
		since, err := time.Parse("2006-01-02", sinceStr)
		if err != nil {
			return eris.Wrapf(err, "tickers: parse --since %q", sinceStr)
		}

		pool, err := dbPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := edgar.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "tickers: migrate")
		}

		runner := pipeline.New(cfg.Edgar, pool)
		zap.L().Info("discovering tickers", zap.Time("since", since))

		if err := runner.DiscoverTickers(ctx, since); err != nil {
			return eris.Wrap(err, "tickers")
		}

		fmt.Println("Ticker discovery complete")
		return nil
	},
}

func init() {
	tickersCmd.Flags().String("since", time.Now().AddDate(0, -3, 0).Format("2006-01-02"), "only consider filings after this date (YYYY-MM-DD)")
	rootCmd.AddCommand(tickersCmd)
}
