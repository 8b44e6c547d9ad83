package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"fxconvert/internal/adapter/audit"
	"fxconvert/internal/adapter/cache"
	"fxconvert/internal/adapter/chart"
	"fxconvert/internal/adapter/cli"
	"fxconvert/internal/adapter/credentials"
	"fxconvert/internal/adapter/export"
	"fxconvert/internal/adapter/repository"
	"fxconvert/internal/config"
	"fxconvert/internal/metrics"
	"fxconvert/internal/service"
	"fxconvert/internal/session"
	"fxconvert/pkg/logger"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "fxconvert",
		Short:         "Interactive currency converter",
		Long:          "Convert amounts between currencies, plot recent rate history and export the session to CSV.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	bootLog := logger.NewLogger(os.Getenv("LOG_LEVEL"))

	cfg, dotenv, err := config.LoadConfig()
	if err != nil {
		bootLog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.LogLevel).With("session", uuid.NewString())
	log.Info("Starting currency converter", "dotenv", dotenv)

	apiKey, err := credentials.NewFileChain(cfg.Keys.BinaryFile, cfg.Keys.TextFile, log).Load()
	if err != nil {
		log.Error("Failed to load API key", "error", err)
		if errors.Is(err, credentials.ErrNotFound) {
			return fmt.Errorf("no API key: create %s or %s: %w", cfg.Keys.BinaryFile, cfg.Keys.TextFile, err)
		}
		return err
	}

	timeseriesKey := cfg.Timeseries.APIKey
	if timeseriesKey == "" {
		timeseriesKey = apiKey
	}

	appMetrics := metrics.NewMetrics()
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if err := appMetrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				log.Error("Failed to write metrics textfile", "error", err, "path", cfg.Metrics.Textfile)
			}
		}()
	}

	rateCache := cache.NewMemoryCache(cfg.Cache.TTL, log)
	rateRepo := repository.NewExchangeAPI(cfg.ExchangeAPI.BaseURL, apiKey, cfg.ExchangeAPI.Timeout, appMetrics, log)
	historyRepo := repository.NewTimeseriesAPI(cfg.Timeseries.BaseURL, timeseriesKey, cfg.ExchangeAPI.Timeout, appMetrics, log)

	exchangeService := service.NewExchangeService(rateRepo, rateCache, audit.NewFileLog(cfg.Files.ConversionLog), appMetrics, log)
	historyService := service.NewHistoryService(historyRepo, chart.NewASCIIPlotter(), appMetrics, log)

	menu := cli.NewMenu(in, out, exchangeService, historyService,
		export.NewCSVExporter(cfg.Files.Export), session.NewResults(), cfg.History.Days, appMetrics, log)

	if err := menu.Run(ctx); err != nil {
		log.Error("Menu stopped", "error", err)
		return err
	}

	log.Info("Currency converter exited")
	return nil
}
