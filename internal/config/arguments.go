package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tkjaer/pinglog/internal/version"
)

const (
	// DefaultCount is the number of probes sent when --count is not given.
	DefaultCount = 1000
	// DefaultRate is the probe rate limit in probes per second.
	DefaultRate = 5.0
	// DefaultPingBinary is the external echo utility used by the exec backend.
	DefaultPingBinary = "ping"
	// DefaultNativeTimeout bounds a single native echo exchange.
	DefaultNativeTimeout = 5 * time.Second
)

// Probe backends
const (
	BackendExec   = "exec"
	BackendNative = "native"
)

type ProbeArgs struct {
	Domain      string
	OutFilename string // empty means derive from domain and capture time
	Count       int
	Rate        float64 // probes per second

	// Probe backend
	Backend    string
	PingBinary string
	Timeout    time.Duration
	Privileged bool
	NoResolve  bool

	MetricsFile string // node-exporter textfile, empty means disabled

	Logging
}

type ExtractArgs struct {
	InputFile string

	Logging
}

func ParseProbeArgs() (ProbeArgs, error) {
	var args ProbeArgs
	var showVersion bool

	flag.Usage = func() {
		println("pingprobe - rate limited ping capture")
		println()
		println("Sends single-echo pings to DOMAIN and appends the raw output to a file.")
		println()
		println("Usage:")
		println("  pingprobe [OPTIONS] DOMAIN")
		println()
		println("Examples:")
		println("  pingprobe example.com                      # 1000 probes at 5/s")
		println("  pingprobe -c 50 -o results.txt example.com # 50 probes into results.txt")
		println("  pingprobe --backend native example.com     # send echoes without the ping binary")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.StringVarP(&args.OutFilename, "outfilename", "o", "", "Output file (default: <domain>_ping_results_<YYYYMMDD_HHMMSS>.txt)")
	flag.IntVarP(&args.Count, "count", "c", getEnvInt("PINGPROBE_COUNT", DefaultCount), "Number of ping requests to send")
	flag.Float64VarP(&args.Rate, "rate", "r", getEnvFloat("PINGPROBE_RATE", DefaultRate), "Maximum probes per second")
	flag.StringVar(&args.Backend, "backend", getEnv("PINGPROBE_BACKEND", BackendExec), "Probe backend: exec or native")
	flag.StringVar(&args.PingBinary, "ping-binary", getEnv("PINGPROBE_PING_BINARY", DefaultPingBinary), "Ping utility used by the exec backend")
	flag.DurationVar(&args.Timeout, "timeout", DefaultNativeTimeout, "Echo timeout for the native backend")
	flag.BoolVar(&args.Privileged, "privileged", false, "Use raw ICMP sockets with the native backend")
	flag.BoolVarP(&args.NoResolve, "no-resolve", "n", false, "Do not track the resolved address of the domain")
	flag.StringVar(&args.MetricsFile, "metrics-file", getEnv("PINGPROBE_METRICS_FILE", ""), "Write run metrics in Prometheus textfile format")
	registerLoggingFlags(&args.Logging, "PINGPROBE")
	flag.Parse()

	if showVersion {
		fmt.Println(version.FullVersion("pingprobe"))
		os.Exit(0)
	}

	args.Domain = flag.Arg(0)

	switch {
	case args.Domain == "":
		return args, errors.New("domain is required")
	case args.Count < 0:
		return args, errors.New("count must not be negative")
	case !(args.Rate > 0):
		return args, errors.New("rate must be greater than zero")
	case args.Backend != BackendExec && args.Backend != BackendNative:
		return args, errors.New("backend must be either 'exec' or 'native'")
	case args.Backend == BackendExec && args.PingBinary == "":
		return args, errors.New("ping binary is required for the exec backend")
	case args.Backend == BackendNative && args.Timeout <= 0:
		return args, errors.New("timeout must be greater than zero")
	}

	return args, nil
}

func ParseExtractArgs() (ExtractArgs, error) {
	var args ExtractArgs
	var showVersion bool

	flag.Usage = func() {
		println("pingextract - convert captured ping output to CSV")
		println()
		println("Usage:")
		println("  pingextract [OPTIONS] INPUT_FILE")
		println()
		println("Writes INPUT_FILE with its extension replaced by .csv.")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	registerLoggingFlags(&args.Logging, "PINGEXTRACT")
	flag.Parse()

	if showVersion {
		fmt.Println(version.FullVersion("pingextract"))
		os.Exit(0)
	}

	args.InputFile = flag.Arg(0)
	if args.InputFile == "" {
		return args, errors.New("input file is required")
	}

	return args, nil
}
