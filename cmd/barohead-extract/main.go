// Command barohead-extract builds the crafting database from a Barotrauma
// content tree and writes it as JSON, publishing and persisting it when
// configured.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"barohead/internal/config"
	"barohead/internal/pipeline"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

type flags struct {
	configPath      string
	root            string
	out             string
	workers         int
	logLevel        string
	metricsTextfile string
	recipesOnly     bool
	indent          bool
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("barohead-extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f flags
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.root, "root", "", "game directory holding Content/ (fs input driver)")
	fs.StringVar(&f.out, "out", "-", "write the database JSON to this file, - for stdout, empty to skip")
	fs.IntVar(&f.workers, "workers", 0, "documents parsed concurrently (1 = sequential)")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.metricsTextfile, "metrics-textfile", "", "write run metrics in Prometheus text format to this file")
	fs.BoolVar(&f.recipesOnly, "recipes-only", false, "keep only items with at least one recipe")
	fs.BoolVar(&f.indent, "indent", false, "pretty-print the JSON output")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return 2
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "barohead-extract: %v\n", err)
		return 2
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "root":
			cfg.Input.Root = f.root
		case "workers":
			cfg.Workers = f.workers
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "metrics-textfile":
			cfg.MetricsTextfile = f.metricsTextfile
		case "recipes-only":
			cfg.RecipesOnly = f.recipesOnly
		}
	})
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "barohead-extract: %v\n", err)
		return 2
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, f, stdout, logger); err != nil {
		logger.Error("extraction failed", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, f flags, stdout io.Writer, logger *slog.Logger) error {
	// The JSON is held back until every stage succeeded, so a failed run
	// never leaves partial output behind.
	var buf *bytes.Buffer
	var w io.Writer
	if f.out != "" {
		buf = new(bytes.Buffer)
		w = buf
	}

	report, err := pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithIndent(f.indent)).Run(ctx, w)
	if err != nil {
		return err
	}
	switch f.out {
	case "":
	case "-":
		if _, err := buf.WriteTo(stdout); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	default:
		if err := writeFileAtomic(f.out, buf.Bytes()); err != nil {
			return err
		}
	}
	if report.Published != nil {
		logger.Info("database available", "key", report.Published.Key, "url", report.Published.URL)
	}
	if report.Database.Len() == 0 {
		logger.Warn("no items found", "root", cfg.Input.Root, "items_prefix", cfg.Input.ItemsPrefix)
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".barohead-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
