package prober

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config describes one probe run
type Config struct {
	Target     string
	Count      int
	Rate       float64 // probes per second
	OutputPath string
}

// Interval returns the minimum spacing between the starts of two probes
func (c Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.Rate)
}

func (c Config) validate() error {
	switch {
	case c.Target == "":
		return errors.New("target is required")
	case c.Count < 0:
		return errors.New("count must not be negative")
	case !(c.Rate > 0):
		return errors.New("rate must be greater than zero")
	case c.OutputPath == "":
		return errors.New("output path is required")
	}
	return nil
}

// AddressResolver maps the target name to the address it currently resolves to.
// *resolve.Resolver implements it.
type AddressResolver interface {
	Lookup(ctx context.Context, host string) (string, bool)
}

// Prober sends Count probes to Target one after another, never faster than
// Rate, appending each probe's output to OutputPath.
type Prober struct {
	cfg      Config
	runner   Runner
	progress io.Writer
	resolver AddressResolver // nil disables address tracking
	metrics  *Metrics

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a Prober. Progress lines are written to progress.
func New(cfg Config, runner Runner, progress io.Writer, resolver AddressResolver) *Prober {
	return &Prober{
		cfg:      cfg,
		runner:   runner,
		progress: progress,
		resolver: resolver,
		metrics:  NewMetrics(cfg.Target),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Metrics returns the counters of this prober's run
func (p *Prober) Metrics() *Metrics {
	return p.metrics
}

// Run truncates the output file and performs the probe loop. It stops
// before the next probe once ctx is done and returns ctx.Err(); everything
// written up to then stays in the file.
func (p *Prober) Run(ctx context.Context) error {
	if err := p.cfg.validate(); err != nil {
		return err
	}

	f, err := os.Create(p.cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	defer func() { p.metrics.finish(p.now()) }()

	interval := p.cfg.Interval()
	slog.Info("Starting probe run",
		"target", p.cfg.Target,
		"count", p.cfg.Count,
		"interval", interval,
		"output", p.cfg.OutputPath,
	)

	var addr string
	for i := range p.cfg.Count {
		if err := ctx.Err(); err != nil {
			slog.Info("Probe run interrupted", "completed", i, "requested", p.cfg.Count)
			return err
		}
		if p.resolver != nil {
			addr = p.trackAddress(ctx, addr)
		}

		start := p.now()
		out, err := p.runner.Probe(p.cfg.Target)
		if err != nil {
			return err
		}
		if _, err := f.Write(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		elapsed := p.now().Sub(start)

		fmt.Fprintf(p.progress, "PING #%d\tDuration: %s\n", i, strconv.FormatFloat(elapsed.Seconds(), 'f', -1, 64))
		p.metrics.observeProbe(len(out), elapsed)
		if len(out) == 0 {
			slog.Debug("Probe produced no output", "index", i, "target", p.cfg.Target)
		}

		// No catch-up: a slow probe is followed immediately by the next one
		if wait := interval - elapsed; wait > 0 {
			p.metrics.observeThrottle(wait)
			p.sleep(ctx, wait)
		}
	}

	slog.Info("Probe run complete", "target", p.cfg.Target, "count", p.cfg.Count)
	return f.Close()
}

// trackAddress logs when the target first resolves and whenever the
// resolved address differs from prev
func (p *Prober) trackAddress(ctx context.Context, prev string) string {
	addr, ok := p.resolver.Lookup(ctx, p.cfg.Target)
	switch {
	case !ok:
		return prev
	case prev == "":
		slog.Info("Target resolved", "target", p.cfg.Target, "address", addr)
	case addr != prev:
		slog.Info("Target address changed", "target", p.cfg.Target, "from", prev, "to", addr)
	}
	return addr
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
