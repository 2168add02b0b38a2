package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trendwise/options-scanner/internal/config"
	"github.com/trendwise/options-scanner/internal/marketdata"
	"github.com/trendwise/options-scanner/internal/notify"
	"github.com/trendwise/options-scanner/internal/scan"
)

// executeScan runs the pipeline over the configured universe and delivers
// the report.
func executeScan(ctx context.Context, cfg *config.Config, date string, logger *zap.Logger) error {
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

	scanner := scan.NewScanner(client, cfg.SignalParams(), cfg.Scan.Workers, logger)

	result, err := scanner.Execute(ctx, cfg.ScanTickers())
	if err != nil {
		return err
	}

	report := notify.NewReport(date, result)
	notifier := notify.New(cfg.NotifierConfig(), logger)
	return notifier.Send(ctx, report)
}
