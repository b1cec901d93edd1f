package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tkjaer/pinglog/internal/config"
	"github.com/tkjaer/pinglog/internal/prober"
	"github.com/tkjaer/pinglog/pkg/resolve"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args, err := config.ParseProbeArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logFile, err := config.SetupLogging(args.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	outfile := args.OutFilename
	if outfile == "" {
		outfile = prober.DefaultOutputName(args.Domain, time.Now())
	}

	var runner prober.Runner
	switch args.Backend {
	case config.BackendNative:
		runner = prober.NewNativeRunner(args.Timeout, args.Privileged)
	default:
		runner = prober.NewExecRunner(args.PingBinary)
	}

	var resolver prober.AddressResolver
	if !args.NoResolve {
		resolver = resolve.NewResolver(resolve.DefaultTTL)
	}

	slog.Debug("Starting pingprobe",
		"domain", args.Domain,
		"backend", args.Backend,
		"rate", args.Rate,
		"output", outfile,
	)

	p := prober.New(prober.Config{
		Target:     args.Domain,
		Count:      args.Count,
		Rate:       args.Rate,
		OutputPath: outfile,
	}, runner, os.Stdout, resolver)

	// Ctrl+C stops the loop after the probe in flight
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := p.Run(ctx)
	stop()

	if args.MetricsFile != "" {
		if err := p.Metrics().WriteTextfile(args.MetricsFile); err != nil {
			slog.Error("Failed to write metrics", "path", args.MetricsFile, "error", err)
		}
	}

	switch {
	case errors.Is(runErr, context.Canceled):
		slog.Debug("Stopped by signal", "output", outfile)
	case runErr != nil:
		slog.Error("Probe run failed", "error", runErr)
		os.Exit(1)
	}
}
