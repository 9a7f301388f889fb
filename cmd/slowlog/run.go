package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/slowlog/internal/httpserver"
	"github.com/tinytelemetry/slowlog/internal/logging"
	"github.com/tinytelemetry/slowlog/internal/report"
)

// runParse parses one log file and writes its report.
func runParse(ctx context.Context, cfg appConfig, format string, args parseArguments, w io.Writer) error {
	data, err := os.ReadFile(args.Input)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return errors.Errorf("Input file '%s' not found.", args.Input)
		}
		return errors.Wrapf(err, "Failed to read %s", args.Input)
	}

	r, err := report.Parse(format, string(data), args.Input, report.ParseOptions{SnippetLen: cfg.SnippetLength})
	if err != nil {
		return err
	}
	logging.Diagnostics(r)

	if err := report.WriteFile(ctx, r, args.Output); err != nil {
		return err
	}

	printSuccess(w, "Successfully parsed '%s' and saved report to '%s'", args.Input, args.Output)
	if r.Empty() {
		printInfo(w, "Note: no rows were extracted; the report holds column headers only.")
	}
	return nil
}

// runInteractive serves the upload UI until SIGINT or SIGTERM.
func runInteractive(cfg appConfig, w io.Writer) error {
	srv := httpserver.NewServer(httpserver.Options{
		Addr:        cfg.ListenAddr,
		MaxUploadMB: cfg.MaxUploadMB,
		SnippetLen:  cfg.SnippetLength,
	})
	if err := srv.Start(); err != nil {
		return err
	}
	printStartupBanner(w, srv.Addr(), report.Formats())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		logging.Logger.Info("shutting down upload server")
		return srv.Stop()
	})
	return g.Wait()
}
