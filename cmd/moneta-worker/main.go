package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"moneta/internal/amqp"
	"moneta/internal/cli"
	"moneta/internal/export/gsheet"
	"moneta/internal/services"
	"moneta/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting moneta-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store, cleanup := cli.OpenStore(logger, cfg)
	defer cleanup()

	// Google Sheets export is optional.
	var exporter worker.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background(), cfg.LedgerSheetName, cfg.DriftSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	reconcileWorker := worker.NewReconcileWorker(store, services.NewReconcileService(store), exporter)

	// AMQP consumption is optional; the periodic pass alone keeps balances
	// reconciled.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - running periodic reconciliation only")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, ctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerMessage) error {
				return reconcileWorker.HandleMessage(ctx, msg)
			})
		})
	}

	g.Go(func() error {
		return reconcileWorker.RunPeriodic(ctx, cfg.ReconcileInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
