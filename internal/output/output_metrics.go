package output

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tkjaer/tcpping/internal/shared"
	"golang.org/x/sync/errgroup"
)

// MetricsOutput exposes attempt results as Prometheus metrics
type MetricsOutput struct {
	registry *prometheus.Registry

	attemptsTotal   *prometheus.CounterVec
	connectDuration *prometheus.HistogramVec
	lastRTT         *prometheus.GaugeVec
	up              *prometheus.GaugeVec
	packetLoss      *prometheus.GaugeVec

	server *http.Server
	addr   net.Addr
	group  errgroup.Group
}

// NewMetricsOutput creates the metrics and, if listen is not empty, starts an
// HTTP server exposing them on /metrics.
func NewMetricsOutput(listen string) (*MetricsOutput, error) {
	labels := []string{"destination", "ip", "port"}
	m := &MetricsOutput{
		registry: prometheus.NewRegistry(),
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tcpping_attempts_total",
				Help: "Total number of connection attempts by result",
			},
			append(labels, "result"),
		),
		connectDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tcpping_connect_duration_seconds",
				Help:    "TCP connect latency of successful attempts",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			labels,
		),
		lastRTT: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tcpping_last_rtt_ms",
				Help: "Connect latency of the most recent successful attempt in milliseconds",
			},
			labels,
		),
		up: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tcpping_up",
				Help: "Whether the most recent attempt succeeded (1 = yes, 0 = no)",
			},
			labels,
		),
		packetLoss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tcpping_packet_loss_pct",
				Help: "Packet loss of the finished run in percent",
			},
			[]string{"destination"},
		),
	}
	m.registry.MustRegister(m.attemptsTotal, m.connectDuration, m.lastRTT, m.up, m.packetLoss)

	if listen == "" {
		return m, nil
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, err
	}
	m.addr = ln.Addr()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.group.Go(func() error {
		slog.Info("Serving metrics", "address", m.addr.String())
		if err := m.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return m, nil
}

func (m *MetricsOutput) Start(target shared.Target) {
	// Pre-create the series so scrapes before the first attempt see zeros
	values := targetLabels(target)
	m.attemptsTotal.WithLabelValues(append(values, "success")...)
	m.attemptsTotal.WithLabelValues(append(values, "failure")...)
}

func (m *MetricsOutput) CompleteAttempt(target shared.Target, attempt shared.Attempt) {
	values := targetLabels(target)
	if attempt.Success() {
		m.attemptsTotal.WithLabelValues(append(values, "success")...).Inc()
		m.connectDuration.WithLabelValues(values...).Observe(attempt.Latency.Seconds())
		m.lastRTT.WithLabelValues(values...).Set(attempt.LatencyMs())
		m.up.WithLabelValues(values...).Set(1)
		return
	}
	m.attemptsTotal.WithLabelValues(append(values, "failure")...).Inc()
	m.up.WithLabelValues(values...).Set(0)
}

func (m *MetricsOutput) CompleteRun(summary shared.Summary) {
	m.packetLoss.WithLabelValues(summary.Host).Set(summary.LossPct)
}

// Close stops the metrics server, if any, and waits for it to exit
func (m *MetricsOutput) Close() error {
	if m.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.server.Shutdown(ctx); err != nil {
		return err
	}
	return m.group.Wait()
}

// Addr returns the address the metrics server listens on, or nil without a server
func (m *MetricsOutput) Addr() net.Addr {
	return m.addr
}

// Registry returns the registry backing this output
func (m *MetricsOutput) Registry() *prometheus.Registry {
	return m.registry
}

func targetLabels(target shared.Target) []string {
	return []string{target.Host, target.Addr.String(), strconv.Itoa(int(target.Port))}
}
