package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/handiism/universally-acclaimed/internal/acclaim"
	"github.com/handiism/universally-acclaimed/internal/config"
	"github.com/handiism/universally-acclaimed/internal/logger"
)

func main() {
	var (
		refreshFlag = flag.Bool("refresh", false, "Scrape scores again instead of using the cache")
		configFlag  = flag.String("config", "", "Path to config file (JSON or YAML)")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		backendFlag = flag.String("backend", "", "Cache backend: csv or sqlite (overrides config)")
		verboseFlag = flag.Bool("verbose", false, "Show every fetch")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Universally Acclaimed - chart acclaimed albums per release year")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  acclaimed [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: acclaimed-tui")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if *refreshFlag {
		settings.Refresh = true
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *backendFlag != "" {
		settings.CacheBackend = strings.ToLower(*backendFlag)
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}

	log := logger.New(logger.Config{
		Format: settings.LogFormat,
		Level:  logger.ParseLevel(settings.LogLevel),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, cancelling...")
		cancel()
	}()

	log.Info("Starting",
		"refresh", settings.Refresh,
		"backend", settings.CacheBackend,
		"output", settings.OutputDir,
	)

	start := time.Now()
	res, err := acclaim.NewPipeline(settings, acclaim.LogEvents(log)).Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("Run cancelled, checkpointed genres are kept")
			os.Exit(130)
		}
		log.Error("Run failed", "error", err)
		os.Exit(1)
	}

	log.Info("Complete",
		"file", res.OutputPath,
		"albums", res.Albums,
		"genres", res.Genres,
		"charted", len(res.Charted),
		"took", time.Since(start).Round(time.Second),
	)
}
