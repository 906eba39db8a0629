// Command render-cell draws the buildings of one lotheader layer to a PNG.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/INLOpen/lotcodec/config"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/render"
	"github.com/INLOpen/lotcodec/sys"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], logger); err != nil {
		logger.Error("render-cell failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("render-cell", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional configuration file for render defaults")
	headerPath := fs.String("header", "", "Path to a .lotheader file (required)")
	outPath := fs.String("out", "", "Output PNG path (required)")
	layer := fs.Int("layer", 0, "Layer to draw; defaults to the configured layer")
	scale := fs.Int("scale", 0, "Pixels per square; defaults to the configured scale")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *headerPath == "" || *outPath == "" {
		fs.Usage()
		return fmt.Errorf("-header and -out are required")
	}

	cfg, err := config.Load(nil)
	if *configPath != "" {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		return err
	}
	opts := render.Options{Layer: cfg.Render.Layer, Scale: cfg.Render.Scale}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "layer" {
			opts.Layer = int32(*layer)
		}
	})
	if *scale > 0 {
		opts.Scale = *scale
	}

	h, err := lotheader.ReadFile(*headerPath)
	if err != nil {
		return err
	}
	err = sys.WriteAtomic(*outPath, 0o644, func(w io.Writer) error {
		return render.Buildings(w, h, opts)
	})
	if err != nil {
		return err
	}
	logger.Info("Rendered cell", "header", *headerPath, "layer", opts.Layer, "scale", opts.Scale, "out", *outPath)
	return nil
}
