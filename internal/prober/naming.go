package prober

import (
	"strings"
	"time"
)

// timestampLayout renders as YYYYMMDD_HHMMSS
const timestampLayout = "20060102_150405"

// DefaultOutputName derives the capture file name for domain at time t
func DefaultOutputName(domain string, t time.Time) string {
	return strings.ReplaceAll(domain, ".", "_") + "_ping_results_" + t.Format(timestampLayout) + ".txt"
}
