package shared

import (
	"errors"
	"net"
	"net/netip"
	"os"
	"time"
)

// Target describes the single address a run probes
type Target struct {
	Host     string     `json:"host"`   // Host as given on the command line
	Addr     netip.Addr `json:"ip"`     // Selected address
	Port     uint16     `json:"port"`   // Destination port
	HostIsIP bool       `json:"-"`      // Host was already a literal IP
	PTR      string     `json:"ptr"`    // PTR record for Addr, if resolved
	SourceIP string     `json:"source"` // Egress source address, if known
	Iface    string     `json:"iface"`  // Egress interface, if known
	Family   string     `json:"family"` // "ipv4" or "ipv6"
}

// Endpoint returns the address in ip:port form with IPv6 in brackets
func (t Target) Endpoint() string {
	return netip.AddrPortFrom(t.Addr, t.Port).String()
}

// Attempt is the outcome of one timed connection try
type Attempt struct {
	Seq       uint          // Sequence number, starting at 0
	Latency   time.Duration // Connect latency, zero on failure
	Err       error         // Nil on success
	Timestamp time.Time     // When the attempt started
}

func (a Attempt) Success() bool {
	return a.Err == nil
}

// LatencyMs returns the connect latency in fractional milliseconds
func (a Attempt) LatencyMs() float64 {
	return float64(a.Latency.Nanoseconds()) / 1e6
}

// Summary holds the final statistics of a run.
// Latency values are in milliseconds.
type Summary struct {
	Host     string  `json:"host"`
	Sent     uint    `json:"sent"`
	Received uint    `json:"received"`
	LossPct  float64 `json:"loss_pct"`
	Min      float64 `json:"min"`
	Avg      float64 `json:"avg"`
	Max      float64 `json:"max"`
	StdDev   float64 `json:"stddev"`
}

// DescribeError strips the dial/op prefix from connection errors so that
// only the underlying reason is shown, e.g. "connection refused".
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		inner := opErr.Err
		var sysErr *os.SyscallError
		if errors.As(inner, &sysErr) {
			return sysErr.Err.Error()
		}
		return inner.Error()
	}
	return err.Error()
}
