package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/kart-checkout/internal/snapshot"
)

const (
	defaultCapacity = 10_000_000
	defaultFPR      = 0.0001
	progressEvery   = 1_000_000
)

type options struct {
	dataDir  string
	out      string
	capacity uint
	fpr      float64
	workers  int
}

func main() {
	var opts options

	flag.StringVar(&opts.dataDir, "data-dir", "data", "directory containing snapshot .ndjson or .ndjson.gz files")
	flag.StringVar(&opts.out, "out", "-", "report destination, - for stdout")
	flag.UintVar(&opts.capacity, "expected", defaultCapacity, "expected number of snapshots, sizes the duplicate filter")
	flag.Float64Var(&opts.fpr, "fpr", defaultFPR, "duplicate filter false positive rate")
	flag.IntVar(&opts.workers, "workers", runtime.GOMAXPROCS(0), "files processed concurrently")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		slog.Error("summary batch failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("summary batch completed successfully")
}

func run(ctx context.Context, opts options) error {
	files, err := snapshotFiles(opts.dataDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no snapshot files in %s", opts.dataDir)
	}

	slog.Info("processing snapshots", slog.Int("files", len(files)), slog.Int("workers", opts.workers))

	report := snapshot.NewReport(opts.capacity, opts.fpr)
	if err := processFiles(ctx, files, opts.workers, report); err != nil {
		return errors.Wrap(err, "process files")
	}

	for _, t := range report.Totals() {
		slog.Info("currency totals",
			slog.String("currency", t.Currency),
			slog.Int("snapshots", t.Snapshots),
			slog.Int64("subtotal", t.Subtotal),
			slog.Int64("total", t.Total),
			slog.Int("unsettled", t.Unsettled),
		)
	}
	slog.Info("skipped snapshots",
		slog.Int("duplicates", report.Duplicates()),
		slog.Int("failed", report.Failed()),
	)

	return writeReport(opts.out, report)
}

// snapshotFiles lists snapshot files in dir in name order.
func snapshotFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".ndjson") || strings.HasSuffix(name, ".ndjson.gz") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	slices.Sort(files)
	return files, nil
}

// processFiles streams every file into report, at most workers at a time.
func processFiles(ctx context.Context, files []string, workers int, report *snapshot.Report) error {
	var processed atomic.Uint64

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, f := range files {
		g.Go(func() error {
			return processFile(ctx, f, report, &processed)
		})
	}
	return g.Wait()
}

func processFile(ctx context.Context, path string, report *snapshot.Report, processed *atomic.Uint64) error {
	r, err := snapshot.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	var count, skipped int
	err = snapshot.Stream(ctx, r,
		func(s snapshot.Snapshot) error {
			count++
			if n := processed.Add(1); n%progressEvery == 0 {
				slog.Info("progress", slog.Uint64("snapshots", n))
			}
			if _, err := report.Add(s); err != nil {
				skipped++
				slog.Warn("snapshot not computed",
					slog.String("file", path),
					slog.String("id", s.ID),
					slog.String("error", err.Error()),
				)
			}
			return nil
		},
		func(lerr *snapshot.LineError) error {
			report.Fail()
			skipped++
			slog.Warn("snapshot not decoded",
				slog.String("file", path),
				slog.Int("line", lerr.Line),
				slog.String("error", lerr.Err.Error()),
			)
			return nil
		},
	)
	if err != nil {
		return errors.Wrapf(err, "stream %s", path)
	}

	slog.Info("file complete",
		slog.String("file", path),
		slog.Int("snapshots", count),
		slog.Int("failed", skipped),
	)
	return nil
}

func writeReport(out string, report *snapshot.Report) error {
	var e jx.Encoder
	report.Encode(&e)
	data := append(e.Bytes(), '\n')

	if out == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.Wrap(err, "write report")
		}
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "create %s", out)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write report")
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", out)
	}
	return nil
}
