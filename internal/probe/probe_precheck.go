package probe

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/tkjaer/tcpping/internal/shared"
)

// precheckTimeout bounds the single connect done before the timed loop
const precheckTimeout = 100 * time.Millisecond

// Dialer opens connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// connect dials the target once with the given timeout, closes the connection
// and returns how long the connect took
func connect(d Dialer, target shared.Target, timeout time.Duration) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", target.Endpoint())
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(start)
	if err := conn.Close(); err != nil {
		slog.Debug("Failed to close connection", "target", target.Endpoint(), "error", err)
	}
	return elapsed, nil
}

// precheck makes one short connection attempt and fails the run if it does not succeed
func precheck(d Dialer, target shared.Target) error {
	if _, err := connect(d, target, precheckTimeout); err != nil {
		slog.Debug("Reachability pre-check failed", "target", target.Endpoint(), "error", err)
		return &NetworkUnreachableError{Err: err}
	}
	return nil
}
