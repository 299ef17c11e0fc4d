package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"walletd/internal/amqp"
	"walletd/internal/cli"
	"walletd/internal/log"
	"walletd/internal/sheets"
	gsheet "walletd/internal/sheets/google"
	mem "walletd/internal/sheets/memory"
	"walletd/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting export-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var sink sheets.TransactionAppender
	switch cfg.ExportSink {
	case "memory":
		sink = mem.New()
		logger.Info("Using in-memory export sink")
	default:
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets sink initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, sink)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Catch up on anything left pending before consuming new messages.
	if n, err := exportWorker.ProcessPending(ctx, cfg.ExportBatchSize); err != nil {
		logger.Error("Startup export sweep failed", "error", err)
	} else if n > 0 {
		logger.Info("Startup export sweep complete", "exported", n)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeTransactionExport(ctx, func(msg *amqp.TransactionExportMessage) error {
			return exportWorker.HandleExportMessage(ctx, msg)
		})
	})
	g.Go(func() error {
		return exportWorker.RunSweep(ctx, cfg.ExportInterval, cfg.ExportBatchSize)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
