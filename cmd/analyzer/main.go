package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/app"
	"github.com/tubepulse/standout/internal/config"
	"github.com/tubepulse/standout/internal/middleware"
	"github.com/tubepulse/standout/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is the whole command; it returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		sheetID  = fs.String("sheet", "", "Google spreadsheet id (default GOOGLE_SHEETS_ID)")
		target   = fs.String("export", "", "export target: sheets, csv, postgres or none (default EXPORT_TARGET)")
		csvDir   = fs.String("csv-dir", "", "directory for CSV export (default CSV_DIR)")
		asJSON   = fs.Bool("json", false, "print the report as JSON instead of text")
		parallel = fs.Int("parallel", 0, "channels analyzed at once (default CHANNEL_CONCURRENCY)")
		verbose  = fs.Bool("v", false, "debug logging")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: analyzer [flags] URL...\n\nURLs may be channel or video URLs.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *target != "" {
		cfg.ExportTarget = *target
	}
	if *sheetID != "" {
		cfg.SpreadsheetID = *sheetID
	}
	if *csvDir != "" {
		cfg.CSVDir = *csvDir
	}
	if *parallel > 0 {
		cfg.Concurrency = *parallel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	log := newLogger(stderr, cfg.LogLevel, *verbose)

	if cfg.ApifyToken == "" {
		fmt.Fprintln(stderr, "APIFY_API_TOKEN is not set")
		return 1
	}

	urls, msg := middleware.ValidateChannelURLs(fs.Args())
	if msg != "" {
		fmt.Fprintln(stderr, msg)
		return 2
	}

	destination := ""
	switch cfg.ExportTarget {
	case config.TargetSheets:
		if cfg.SpreadsheetID == "" {
			fmt.Fprintln(stderr, "sheets export needs -sheet or GOOGLE_SHEETS_ID (or use -export none)")
			return 1
		}
		destination = cfg.SpreadsheetID
	case config.TargetPostgres:
		destination = "cli-" + time.Now().UTC().Format("20060102T150405Z")
	}

	components, err := app.Build(ctx, cfg, "", log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer components.Close()

	report, locator, err := components.Standout.AnalyzeAndExport(ctx, urls, destination, nil)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			fmt.Fprintln(stderr, encErr)
			return 1
		}
	} else {
		printReport(stdout, report)
	}

	var exportErr *service.ExportError
	switch {
	case errors.As(err, &exportErr):
		fmt.Fprintf(stderr, "\n%v\n", exportErr)
		return 1
	case err != nil:
		fmt.Fprintln(stderr, err)
		return 1
	}

	if locator != "" {
		fmt.Fprintf(stderr, "\nReport exported to %s\n", locator)
	}
	return 0
}

func newLogger(w io.Writer, level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl < zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().
		Logger()
}
