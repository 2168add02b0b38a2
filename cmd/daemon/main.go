// The daemon runs one scan per market day at a scheduled time and delivers
// the report over the configured notification channels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/trendwise/options-scanner/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	_ = godotenv.Load()

	daemonCfg := LoadDaemonConfig()

	logger.Info("daemon configuration loaded",
		zap.Int("scheduleHour", daemonCfg.ScheduleHour),
		zap.Int("scheduleMinute", daemonCfg.ScheduleMinute),
		zap.String("timezone", daemonCfg.Timezone),
		zap.String("configPath", daemonCfg.ConfigPath),
		zap.String("stateFile", daemonCfg.StateFile),
		zap.Bool("runOnStartup", daemonCfg.RunOnStartup),
	)

	cfg, err := config.Load(daemonCfg.ConfigPath)
	if err != nil {
		logger.Error("failed to load scanner config", zap.Error(err))
		return 1
	}

	logger.Info("scanner configuration loaded",
		zap.Int("workers", cfg.Scan.Workers),
		zap.Int("tickers", len(cfg.ScanTickers())),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sched := NewSchedule(daemonCfg.ScheduleHour, daemonCfg.ScheduleMinute, daemonCfg.Timezone, daemonCfg.StateFile)

	logger.Info("daemon started",
		zap.String("schedule", fmt.Sprintf("%02d:%02d %s", daemonCfg.ScheduleHour, daemonCfg.ScheduleMinute, daemonCfg.Timezone)),
	)

	// Check on startup if enabled
	if daemonCfg.RunOnStartup {
		logger.Info("checking for missed scan on startup")
		if date, ok := sched.Due(time.Now()); ok {
			runScan(ctx, cfg, sched, date, logger)
		}
	}

	// Main loop - check every minute
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
			return 0

		case <-ticker.C:
			if date, ok := sched.Due(time.Now()); ok {
				runScan(ctx, cfg, sched, date, logger)
			}

		case <-ctx.Done():
			logger.Info("context cancelled, shutting down")
			return 0
		}
	}
}

// runScan executes the scan and marks the day done so it cannot rerun
func runScan(ctx context.Context, cfg *config.Config, sched *Schedule, date string, logger *zap.Logger) {
	logger.Info("starting scheduled scan", zap.String("date", date))
	start := time.Now()

	if err := executeScan(ctx, cfg, date, logger); err != nil {
		logger.Error("scan failed", zap.Error(err), zap.String("date", date))
		return
	}

	logger.Info("scan succeeded",
		zap.String("date", date),
		zap.Duration("duration", time.Since(start)),
	)

	if err := sched.MarkDone(date); err != nil {
		logger.Error("failed to record scan date", zap.Error(err))
	}
}
