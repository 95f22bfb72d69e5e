package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-calendar/internal/api"
	"market-calendar/internal/dataset"
	"market-calendar/internal/expiry"
	"market-calendar/internal/logger"
	"market-calendar/internal/quotes"
	"market-calendar/internal/store"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	must(logger.Init())

	cfg, err := store.LoadConfig(configPath())
	must(err)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer logger.Shutdown(context.Background())

	op := logger.StartOperation(ctx, "calendar.run", "dataset", cfg.Dataset.Path)
	ctx = op.GetContext()

	sheet, err := dataset.Load(cfg.Dataset.Path, cfg.Dataset.Format, cfg.Dataset.Sheet)
	must(err)
	logger.Info(ctx, "Calendar sheet loaded", "path", cfg.Dataset.Path, "rows", sheet.Len())

	if cfg.Quotes.Enabled {
		svc := quotes.NewService(buildSources(cfg)...)
		written := svc.Apply(ctx, sheet)
		logger.Info(ctx, "Quotes applied", "cells", written)
	}

	sheet.SortByDate()
	sheet.UpdateTradingDays()

	table, err := cfg.RuleTable()
	must(err)

	cal := expiry.NewTradingCalendar(sheet.TradingDays())
	eng, err := expiry.New(cal, table)
	must(err)

	dates := sheet.Dates()
	for _, pair := range eng.Pairs() {
		series, err := table.Lookup(pair.Instrument, pair.Frequency)
		must(err)
		flags, err := eng.ScheduleFlags(pair.Instrument, pair.Frequency, dates)
		must(err)
		must(sheet.SetFlags(series.Column, flags))
		logger.Info(ctx, "Expiry column written",
			"instrument", string(pair.Instrument),
			"frequency", string(pair.Frequency),
			"column", series.Column)
	}

	must(dataset.Save(sheet, cfg.Dataset.Path, cfg.Dataset.Format, cfg.Dataset.Sheet))
	logger.Info(ctx, "Calendar sheet saved", "path", cfg.Dataset.Path, "rows", sheet.Len())
	op.End()
}

func configPath() string {
	if p := os.Getenv("CALENDAR_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func buildSources(cfg *store.Config) []quotes.Source {
	timeout := time.Duration(cfg.Quotes.TimeoutSeconds) * time.Second
	var sources []quotes.Source

	if len(cfg.Quotes.Yahoo) > 0 {
		client := api.NewClient(api.WithTimeout(timeout), api.WithLogging(true))
		symbols := make([]quotes.YahooSymbol, 0, len(cfg.Quotes.Yahoo))
		for _, y := range cfg.Quotes.Yahoo {
			symbols = append(symbols, quotes.YahooSymbol{Symbol: y.Symbol, Column: y.Column})
		}
		sources = append(sources, quotes.NewYahooSource(client, symbols))
	}

	if len(cfg.Quotes.Investing) > 0 {
		pages := make([]quotes.InvestingPage, 0, len(cfg.Quotes.Investing))
		for _, p := range cfg.Quotes.Investing {
			pages = append(pages, quotes.InvestingPage{URL: p.URL, Column: p.Column})
		}
		sources = append(sources, quotes.NewInvestingSource(pages, timeout))
	}

	if cfg.Quotes.Kite.Enabled {
		apiKey := os.Getenv("KITE_API_KEY")
		accessToken := os.Getenv("KITE_ACCESS_TOKEN")
		if apiKey != "" && accessToken != "" {
			sources = append(sources, quotes.NewKiteSource(apiKey, accessToken, cfg.Quotes.Kite.Symbols))
		}
	}
	return sources
}
