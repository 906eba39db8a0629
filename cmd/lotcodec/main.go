// Command lotcodec round-trips every map cell of a game install and reports
// the files that do not re-encode to identical bytes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/INLOpen/lotcodec/config"
	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/debugserver"
	"github.com/INLOpen/lotcodec/dump"
	"github.com/INLOpen/lotcodec/hooks"
	"github.com/INLOpen/lotcodec/hooks/listeners"
	"github.com/INLOpen/lotcodec/mapfiles"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("lotcodec", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to the configuration file")
	dir := fs.String("dir", "", "Map directory; overrides the install lookup")
	variant := fs.String("variant", "", "Game install variant (b41 or b42)")
	mapName := fs.String("map", "", "Map name under media/maps")
	dumpFiles := fs.Bool("dump", false, "Write JSON dumps of decoded files")
	workers := fs.Int("workers", 0, "Cells verified concurrently")
	verbose := fs.Bool("v", false, "List every file, not only failures")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 2
	}
	if *dir != "" {
		cfg.Game.MapDir = *dir
	}
	if *variant != "" {
		cfg.Game.Variant = *variant
	}
	if *mapName != "" {
		cfg.Game.Map = *mapName
	}
	if *dumpFiles {
		cfg.Dump.Enabled = true
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}

	logger, logCloser, err := createLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		return 2
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	_, shutdownTracing, err := initTracerProvider(cfg.Tracing, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		return 2
	}
	defer shutdownTracing()

	if cfg.Debug.Enabled {
		ds, err := debugserver.New(cfg.Debug, logger)
		if err != nil {
			logger.Error("Failed to create debug server", "error", err)
			return 2
		}
		if err := ds.Start(); err != nil {
			logger.Error("Failed to start debug server", "error", err)
			return 2
		}
		defer ds.Stop()
	}

	mapsDir, err := cfg.Game.MapsDir()
	if err != nil {
		logger.Error("Cannot locate map directory", "error", err)
		return 2
	}
	cells, err := mapfiles.Discover(mapsDir)
	if err != nil {
		logger.Error("Discovery failed", "dir", mapsDir, "error", err)
		return 2
	}
	logger.Info("Discovered cells", "dir", mapsDir, "cells", len(cells))

	hm := hooks.NewHookManager(logger)
	reporter := listeners.NewFailureReporter(logger)
	hm.Register(hooks.EventOnFileError, reporter)
	slow := listeners.NewSlowFileListener(logger, []listeners.SlowFileRule{
		{Kind: hooks.KindHeader, Max: 250 * time.Millisecond},
		{Kind: hooks.KindLotpack, Max: 2 * time.Second},
	})
	hm.Register(hooks.EventPostDecodeHeader, slow)
	hm.Register(hooks.EventPostDecodeLotpack, slow)
	defer hm.Stop()

	opts := mapfiles.Options{
		Logger:        logger,
		Hooks:         hm,
		Workers:       cfg.Batch.Workers,
		CacheCapacity: cfg.Cache.HeaderCacheCapacity,
	}
	if cfg.Dump.Enabled {
		w, err := dump.NewWriter(cfg.Dump.Dir, cfg.Dump.Compression)
		if err != nil {
			logger.Error("Failed to create dump writer", "error", err)
			return 2
		}
		opts.Dumper = w
	}
	svc := mapfiles.NewService(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := config.ParseDuration(cfg.Batch.Timeout, 0, logger); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rep, err := svc.VerifyAll(ctx, mapsDir, cells)
	if err != nil && rep.Results == nil {
		logger.Error("Verification did not run", "error", err)
		return 2
	}
	if err != nil {
		logger.Warn("Verification interrupted", "error", err)
	}
	printReport(stdout, rep, *verbose)
	if err != nil || rep.Failed > 0 {
		return 1
	}
	return 0
}

func printReport(out io.Writer, rep mapfiles.Report, verbose bool) {
	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CELL\tFILE\tSIZE\tSTATUS\tDETAIL")
	for _, r := range rep.Results {
		for _, f := range r.Files() {
			if f.OK() && !verbose {
				continue
			}
			status, detail := "ok", ""
			if !f.OK() {
				status, detail = core.ErrorKind(f.Err), f.Err.Error()
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.Cell, f.Kind, f.Size, status, detail)
		}
	}
	tw.Flush()
	fmt.Fprintf(out, "%d cells, %d files, %d failed in %s\n", len(rep.Results), rep.Files, rep.Failed, rep.Duration.Round(time.Millisecond))
}
