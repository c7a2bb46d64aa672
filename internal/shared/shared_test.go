package shared

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestTarget_Endpoint(t *testing.T) {
	tests := []struct {
		name string
		addr string
		port uint16
		want string
	}{
		{"ipv4", "192.0.2.1", 80, "192.0.2.1:80"},
		{"ipv6", "2001:db8::1", 443, "[2001:db8::1]:443"},
		{"port zero", "198.51.100.1", 0, "198.51.100.1:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Target{Addr: netip.MustParseAddr(tt.addr), Port: tt.port}
			if got := target.Endpoint(); got != tt.want {
				t.Errorf("Endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttempt(t *testing.T) {
	ok := Attempt{Seq: 1, Latency: 1234567 * time.Nanosecond}
	if !ok.Success() {
		t.Error("Success() = false for attempt without error")
	}
	if got := ok.LatencyMs(); got != 1.234567 {
		t.Errorf("LatencyMs() = %v, want 1.234567", got)
	}

	failed := Attempt{Seq: 2, Err: errors.New("refused")}
	if failed.Success() {
		t.Error("Success() = true for attempt with error")
	}
	if got := failed.LatencyMs(); got != 0 {
		t.Errorf("LatencyMs() = %v, want 0", got)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("something broke"), "something broke"},
		{
			name: "syscall error",
			err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
			},
			want: "connection refused",
		},
		{
			name: "timeout",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: context.DeadlineExceeded},
			want: "context deadline exceeded",
		},
		{
			name: "wrapped",
			err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: os.NewSyscallError("connect", syscall.EHOSTUNREACH),
			},
			want: syscall.EHOSTUNREACH.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeError(tt.err); got != tt.want {
				t.Errorf("DescribeError() = %q, want %q", got, tt.want)
			}
		})
	}
}
