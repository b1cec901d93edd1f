package prober

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// defaultPayloadSize matches the ping utility's default of 56 data bytes
const defaultPayloadSize = 56

// NativeRunner sends echoes itself and prints them the way iputils ping
// does, so captures from either runner extract identically.
type NativeRunner struct {
	Timeout    time.Duration
	Privileged bool
	Size       int
}

func NewNativeRunner(timeout time.Duration, privileged bool) NativeRunner {
	return NativeRunner{
		Timeout:    timeout,
		Privileged: privileged,
		Size:       defaultPayloadSize,
	}
}

func (r NativeRunner) Probe(target string) ([]byte, error) {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		// ping reports an unknown host on stderr only
		slog.Debug("Could not resolve target", "target", target, "error", err)
		return nil, nil
	}
	pinger.Count = 1
	pinger.Size = r.Size
	pinger.Timeout = r.Timeout
	pinger.SetPrivileged(r.Privileged)

	var replies []echoReply
	pinger.OnRecv = func(pkt *probing.Packet) {
		replies = append(replies, echoReply{
			Bytes: pkt.Nbytes,
			From:  pkt.IPAddr.String(),
			Seq:   pkt.Seq + 1,
			TTL:   pkt.TTL,
			RTT:   pkt.Rtt,
		})
	}

	start := time.Now()
	if err := pinger.Run(); err != nil {
		return nil, fmt.Errorf("native probe %s: %w", target, err)
	}

	stats := pinger.Statistics()
	return renderBlock(echoSummary{
		Target:   target,
		Addr:     pinger.IPAddr().String(),
		Size:     pinger.Size,
		Sent:     stats.PacketsSent,
		Received: stats.PacketsRecv,
		Loss:     stats.PacketLoss,
		Elapsed:  time.Since(start),
		Min:      stats.MinRtt,
		Avg:      stats.AvgRtt,
		Max:      stats.MaxRtt,
		MDev:     stats.StdDevRtt,
	}, replies), nil
}

type echoReply struct {
	Bytes int
	From  string
	Seq   int
	TTL   int
	RTT   time.Duration
}

type echoSummary struct {
	Target   string
	Addr     string
	Size     int
	Sent     int
	Received int
	Loss     float64
	Elapsed  time.Duration
	Min      time.Duration
	Avg      time.Duration
	Max      time.Duration
	MDev     time.Duration
}

// renderBlock prints one probe in iputils ping format
func renderBlock(s echoSummary, replies []echoReply) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "PING %s (%s) %d(%d) bytes of data.\n", s.Target, s.Addr, s.Size, s.Size+28)
	for _, r := range replies {
		fmt.Fprintf(&b, "%d bytes from %s: icmp_seq=%d ttl=%d time=%s ms\n", r.Bytes, r.From, r.Seq, r.TTL, formatReplyTime(r.RTT))
	}
	fmt.Fprintf(&b, "\n--- %s ping statistics ---\n", s.Target)
	fmt.Fprintf(&b, "%d packets transmitted, %d received, %s%% packet loss, time %dms\n",
		s.Sent, s.Received, strconv.FormatFloat(s.Loss, 'g', -1, 64), s.Elapsed.Milliseconds())
	if s.Received > 0 {
		fmt.Fprintf(&b, "rtt min/avg/max/mdev = %.3f/%.3f/%.3f/%.3f ms\n",
			millis(s.Min), millis(s.Avg), millis(s.Max), millis(s.MDev))
	}
	b.WriteString("\n")

	return b.Bytes()
}

// formatReplyTime keeps about three significant digits like ping does
func formatReplyTime(d time.Duration) string {
	ms := millis(d)
	switch {
	case ms >= 100:
		return strconv.FormatFloat(ms, 'f', 0, 64)
	case ms >= 10:
		return strconv.FormatFloat(ms, 'f', 1, 64)
	case ms >= 1:
		return strconv.FormatFloat(ms, 'f', 2, 64)
	default:
		return strconv.FormatFloat(ms, 'f', 3, 64)
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
