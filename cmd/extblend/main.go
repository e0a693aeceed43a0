// Command extblend runs the blend pipeline on local files and writes the
// result workbook.
//
//	extblend -codate codate.xlsx -ivrv ivrv.xlsx -arinvoice ar.xlsx [-out result.xlsx] [-today 2024-06-01]
//
// Business rules and loader offsets come from the same environment
// variables as the server (and a .env file when present).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/extblend/internal/config"
	"github.com/JonMunkholm/extblend/internal/core"
	"github.com/JonMunkholm/extblend/internal/logging"
	"github.com/JonMunkholm/extblend/internal/workbook"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 on success, 1 when the pipeline
// rejects the inputs, 2 on bad usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("extblend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	codate := fs.String("codate", "", "Codate export (.xlsx, .xls or .csv)")
	ivrv := fs.String("ivrv", "", "IVRV export")
	arinvoice := fs.String("arinvoice", "", "AR Invoice/Ship export")
	out := fs.String("out", "", "output workbook (default from PIPELINE_OUTPUT_NAME)")
	today := fs.String("today", "", "reference date YYYY-MM-DD (default: today)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format)

	rules := cfg.Pipeline.Rules()
	if *today != "" {
		t, err := time.Parse("2006-01-02", *today)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -today %q: want YYYY-MM-DD\n", *today)
			return 2
		}
		rules.Now = func() time.Time { return t }
	}
	if *out == "" {
		*out = cfg.Pipeline.OutputName
	}

	paths := map[core.DatasetKind]string{
		core.KindCodate:    *codate,
		core.KindIVRV:      *ivrv,
		core.KindARInvoice: *arinvoice,
	}
	var sources []workbook.Source
	for _, kind := range core.Kinds() {
		path := paths[kind]
		if path == "" {
			continue // reported as missing by the run
		}
		sources = append(sources, workbook.Source{
			Kind:    kind,
			Name:    filepath.Base(path),
			Open:    func() (io.ReadCloser, error) { return os.Open(path) },
			Options: cfg.Loader.Options(kind),
		})
	}
	in, err := workbook.LoadInputs(ctx, sources)
	if err != nil {
		printError(stderr, err)
		logger.Debug("load failed", "error", err)
		return 1
	}

	res, err := core.Run(ctx, in, rules, core.NewSlogReporter(logger))
	if err != nil {
		printError(stderr, err)
		return 1
	}

	if err := writeWorkbook(*out, res.Sheets()); err != nil {
		fmt.Fprintf(stderr, "write %s: %v\n", *out, err)
		return 1
	}

	for _, t := range res.Totals() {
		fmt.Fprintf(stdout, "%-60s %s\n", t.Metric, rules.Money(t.Value))
	}
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return 0
}

// printError writes the user message for err. Errors without a mapped
// message also get their technical text, since there is no server log to
// look it up in.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		fmt.Fprintf(w, "detail: %v\n", err)
	}
}

// writeWorkbook writes to a temp file in the target directory and renames
// it into place, so a failed export never leaves a truncated workbook.
func writeWorkbook(path string, sheets []core.Sheet) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".extblend-*.xlsx")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := workbook.Export(tmp, sheets); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
