package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/trendwise/options-scanner/internal/config"
	"github.com/trendwise/options-scanner/internal/marketdata"
	"github.com/trendwise/options-scanner/internal/notify"
	"github.com/trendwise/options-scanner/internal/scan"
)

func scanCmd() *cobra.Command {
	var (
		tickers []string
		dryRun  bool
		send    bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan over the configured ticker universe",
		Long: `Run the full signal pipeline once: fetch daily history, classify the
trend, pull the matching option chain, and pick the contract closest to
the target delta.

Examples:
  # Scan the configured universe
  options-scanner scan

  # Override tickers from config
  options-scanner scan --tickers SPY,QQQ

  # Scan and deliver the report over the configured channels
  options-scanner scan --notify

  # Show what would be scanned
  options-scanner scan --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			universe := cfg.ScanTickers()
			if len(tickers) > 0 {
				universe = tickers
			}

			if dryRun {
				for _, t := range universe {
					fmt.Printf("Would scan: %s\n", t)
				}
				return nil
			}

			scanner := buildScanner(cfg, logger)

			result, err := scanner.Execute(ctx, universe)
			if err != nil {
				return err
			}

			for _, sig := range result.Signals {
				fmt.Printf("%s %s %s exp %s", sig.Ticker, sig.Trend, sig.Contract.Symbol, sig.Contract.Expiration)
				if sig.Projection != nil {
					fmt.Printf(" projected return %.1f%%", sig.Projection.ReturnPct)
				}
				fmt.Println()
			}

			if send {
				report := notify.NewReport(time.Now().UTC().Format("2006-01-02"), result)
				notifier := notify.New(cfg.NotifierConfig(), logger)
				if err := notifier.Send(ctx, report); err != nil {
					return err
				}
			}

			if result.Failed > 0 {
				return fmt.Errorf("%d tickers failed", result.Failed)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tickers, "tickers", nil, "override tickers from config")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be scanned")
	cmd.Flags().BoolVar(&send, "notify", false, "deliver the report over the configured channels")

	return cmd
}

func buildScanner(cfg *config.Config, logger *zap.Logger) *scan.Scanner {
	client := marketdata.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		cfg.Scan.LookbackDays,
		cfg.Scan.RatePerSecond,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
		time.Duration(cfg.API.RetryDelay)*time.Second,
		cfg.API.RetryCount,
		logger,
	)

	return scan.NewScanner(client, cfg.SignalParams(), cfg.Scan.Workers, logger)
}
