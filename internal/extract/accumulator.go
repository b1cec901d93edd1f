package extract

import "regexp"

// Patterns are written against iputils ping output. Every pattern is
// unanchored and a line may match any number of them.
var (
	domainRE  = regexp.MustCompile(`PING (\S+)`)
	ipRE      = regexp.MustCompile(`PING [\w.-]+ \(([\d.]+)\)`)
	bytesRE   = regexp.MustCompile(`(\d+) bytes from`)
	packetsRE = regexp.MustCompile(`(\d+) packets transmitted`)
	rttRE     = regexp.MustCompile(`rtt min/avg/max/mdev = [\d.]+/([\d.]+)/[\d.]+/[\d.]+ ms`)
)

// Header is the fixed first row of every CSV file
var Header = []string{"Domain", "IP", "Bytes Transmitted", "Packets Transmitted", "RTT"}

// Row is one extracted record; all fields keep their original text
type Row struct {
	Domain             string
	IP                 string
	BytesTransmitted   string
	PacketsTransmitted string
	RTT                string
}

// Record returns the row in Header order
func (r Row) Record() []string {
	return []string{r.Domain, r.IP, r.BytesTransmitted, r.PacketsTransmitted, r.RTT}
}

// Accumulator collects fields across lines until a row is complete.
// An empty field means it has not been seen since the last Reset; none of
// the patterns can capture an empty string.
type Accumulator struct {
	domain  string
	ip      string
	bytes   string
	packets string
	rtt     string
}

// Feed matches line against every pattern and overwrites each field that matched
func (a *Accumulator) Feed(line string) {
	if m := domainRE.FindStringSubmatch(line); m != nil {
		a.domain = m[1]
	}
	if m := ipRE.FindStringSubmatch(line); m != nil {
		a.ip = m[1]
	}
	if m := bytesRE.FindStringSubmatch(line); m != nil {
		a.bytes = m[1]
	}
	if m := packetsRE.FindStringSubmatch(line); m != nil {
		a.packets = m[1]
	}
	if m := rttRE.FindStringSubmatch(line); m != nil {
		a.rtt = m[1]
	}
}

// Complete reports whether ip, bytes, packets and rtt are all set.
// Domain is not required.
func (a *Accumulator) Complete() bool {
	return a.ip != "" && a.bytes != "" && a.packets != "" && a.rtt != ""
}

// Row returns the current field values
func (a *Accumulator) Row() Row {
	return Row{
		Domain:             a.domain,
		IP:                 a.ip,
		BytesTransmitted:   a.bytes,
		PacketsTransmitted: a.packets,
		RTT:                a.rtt,
	}
}

// Reset clears everything except domain, which carries over to later
// blocks that lack their own PING line.
func (a *Accumulator) Reset() {
	a.ip = ""
	a.bytes = ""
	a.packets = ""
	a.rtt = ""
}
