package output

import (
	"bytes"
	"net"
	"net/netip"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/tkjaer/tcpping/internal/shared"
)

func TestTextOutput_Start(t *testing.T) {
	tests := []struct {
		name   string
		target shared.Target
		want   string
	}{
		{
			name:   "hostname",
			target: testTarget(),
			want:   "TCP PING example.com 192.0.2.1:443\n",
		},
		{
			name: "literal IPv6",
			target: shared.Target{
				Host:     "2001:db8::1",
				Addr:     netip.MustParseAddr("2001:db8::1"),
				Port:     80,
				HostIsIP: true,
			},
			want: "TCP PING [2001:db8::1]:80\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewTextOutput(&buf, false).Start(tt.target)
			if got := buf.String(); got != tt.want {
				t.Errorf("Start() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAttempt(t *testing.T) {
	refused := &net.OpError{
		Op:  "dial",
		Net: "tcp",
		Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
	}

	tests := []struct {
		name    string
		attempt shared.Attempt
		want    string
	}{
		{
			name:    "success",
			attempt: shared.Attempt{Seq: 3, Latency: 12345 * time.Microsecond},
			want:    "Connected to 192.0.2.1:443, tcp_seq=3 time=12.345 ms",
		},
		{
			name:    "refused",
			attempt: shared.Attempt{Seq: 0, Err: refused},
			want:    "Failed to connect to 192.0.2.1:443, tcp_seq=0 connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAttempt(testTarget(), tt.attempt); got != tt.want {
				t.Errorf("formatAttempt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextOutput_CompleteRun(t *testing.T) {
	var buf bytes.Buffer
	out := NewTextOutput(&buf, false)
	out.CompleteRun(shared.Summary{
		Host:     "example.com",
		Sent:     3,
		Received: 1,
		LossPct:  200.0 / 3,
		Min:      1.5,
		Avg:      1.5,
		Max:      1.5,
	})

	want := "\n--- example.com tcp ping statistics ---\n" +
		"3 packets transmitted, 1 packets received, 66.7% packet loss\n" +
		"round-trip min/avg/max/stddev = 1.500/1.500/1.500/0.000 ms\n"
	if got := buf.String(); got != want {
		t.Errorf("CompleteRun() wrote %q, want %q", got, want)
	}
}

func TestTextOutput_Color(t *testing.T) {
	var buf bytes.Buffer
	out := NewTextOutput(&buf, true)
	out.CompleteAttempt(testTarget(), shared.Attempt{Seq: 1, Latency: time.Millisecond})

	got := buf.String()
	if !strings.Contains(got, "Connected to 192.0.2.1:443, tcp_seq=1 time=1.000 ms") {
		t.Errorf("CompleteAttempt() wrote %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("attempt line should end with a newline")
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
