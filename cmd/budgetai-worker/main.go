package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetai/internal/amqp"
	"budgetai/internal/cli"
	"budgetai/internal/export"
	"budgetai/internal/export/csvfile"
	"budgetai/internal/export/gsheet"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("worker")

	logger.Info("Starting budgetai-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var targets []export.Target

	if cfg.CSVExportPath != "" {
		csvWriter, err := csvfile.NewWriter(cfg.CSVExportPath)
		if err != nil {
			logger.Error("Failed to initialize CSV export", "error", err, "path", cfg.CSVExportPath)
			os.Exit(1)
		}
		targets = append(targets, export.Target{Name: "csv", Writer: csvWriter})
		logger.Info("CSV export enabled", "path", cfg.CSVExportPath)
	}

	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		targets = append(targets, export.Target{Name: "sheets", Writer: sheetsClient})
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	if len(targets) == 0 {
		logger.Error("No export targets configured, set CSV_EXPORT_PATH or GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}

	worker := export.NewWorker(sqliteRepo, targets, cfg.SyncBatchSize, logger.WithComponent("export"))

	// AMQP is optional; without it the periodic pending scan does all
	// the work.
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, relying on pending scan only", "error", err)
		amqpClient = nil
	} else {
		defer amqpClient.Close()
	}

	logger.Info("Performing startup export check...")
	if err := worker.StartupCheck(ctx); err != nil {
		logger.Error("Startup export check failed", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeTransactionSync(gctx, func(msg *amqp.TransactionSyncMessage) error {
				return worker.HandleSyncMessage(gctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := worker.ProcessPending(gctx); err != nil {
					logger.Error("Periodic export failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
