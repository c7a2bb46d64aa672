package probe

import (
	"context"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/tkjaer/tcpping/internal/config"
	"github.com/tkjaer/tcpping/internal/output"
	"github.com/tkjaer/tcpping/internal/shared"
	"github.com/tkjaer/tcpping/pkg/ptr"
	"github.com/tkjaer/tcpping/pkg/route"
)

// ProbeConfig holds the settings of one run
type ProbeConfig struct {
	destination Destination
	count       uint
	hasCount    bool // false = until stopped
	timeout     time.Duration
	interval    time.Duration
	precheck    bool
	noResolve   bool
}

type outputConfig struct {
	jsonOutput    bool
	jsonFile      string
	metricsListen string
	color         bool
}

// Probe repeatedly connects to a single target and aggregates the results
type Probe struct {
	config       ProbeConfig
	outputConfig outputConfig

	resolver   Resolver
	dialer     Dialer
	ptrManager *ptr.PtrManager

	target  shared.Target
	stats   Statistics
	outputs *output.OutputManager

	stop             *StopSignal
	handlerInstalled atomic.Bool
}

// NewProbe resolves the destination, runs the optional pre-check and sets up outputs
func NewProbe(a config.Args) (*Probe, error) {
	family := FamilyAny
	switch {
	case a.ForceIPv4:
		family = FamilyIPv4
	case a.ForceIPv6:
		family = FamilyIPv6
	}

	p := &Probe{
		config: ProbeConfig{
			destination: Destination{
				Host:   a.Destination,
				Port:   uint16(a.Port),
				Family: family,
			},
			count:     a.Count,
			hasCount:  a.HasCount,
			timeout:   a.Timeout,
			interval:  a.Interval,
			precheck:  !a.NoPrecheck,
			noResolve: a.NoResolve,
		},
		outputConfig: outputConfig{
			jsonOutput:    a.Json,
			jsonFile:      a.JsonFile,
			metricsListen: a.MetricsListen,
			color:         !a.NoColor && term.IsTerminal(int(os.Stdout.Fd())),
		},
		resolver:   defaultResolver,
		dialer:     &net.Dialer{},
		ptrManager: ptr.NewPtrManager(),
		stop:       NewStopSignal(),
	}

	if err := p.init(); err != nil {
		return nil, err
	}

	om, err := p.createOutputs()
	if err != nil {
		return nil, err
	}
	p.outputs = om

	return p, nil
}

// init resolves the target once and checks that it is reachable
func (p *Probe) init() error {
	target, err := resolveTarget(context.Background(), p.resolver, p.config.destination)
	if err != nil {
		return err
	}
	p.target = target
	slog.Debug("Resolved destination",
		"host", target.Host,
		"ip", target.Addr.String(),
		"family", target.Family,
	)

	if p.config.precheck {
		if err := precheck(p.dialer, p.target); err != nil {
			return err
		}
	}

	if r, err := route.Get(p.target.Addr); err == nil {
		if r.Source.IsValid() {
			p.target.SourceIP = r.Source.String()
		}
		p.target.Iface = r.InterfaceName()
		slog.Debug("Egress route", "source", p.target.SourceIP, "interface", p.target.Iface, "gateway", r.Gateway)
	} else {
		slog.Debug("Failed to look up egress route", "error", err)
	}

	// Only JSON output reports the PTR record
	if p.wantPTR() {
		p.ptrManager.RequestPTR(p.target.Addr.String())
		if name, found := p.ptrManager.GetPTR(p.target.Addr.String()); found {
			p.target.PTR = name
		}
	}

	return nil
}

func (p *Probe) wantPTR() bool {
	if p.config.noResolve || p.ptrManager == nil {
		return false
	}
	return p.outputConfig.jsonOutput || p.outputConfig.jsonFile != ""
}

// createOutputs creates and registers the configured outputs
func (p *Probe) createOutputs() (*output.OutputManager, error) {
	om := &output.OutputManager{}

	if p.outputConfig.jsonOutput {
		jsonOut, err := output.NewJSONOutput("") // empty string = stdout
		if err != nil {
			return nil, err
		}
		om.Register(jsonOut)
	} else {
		om.Register(output.NewTextOutput(os.Stdout, p.outputConfig.color))
	}

	if p.outputConfig.jsonFile != "" {
		jsonOut, err := output.NewJSONOutput(p.outputConfig.jsonFile)
		if err != nil {
			om.Close()
			return nil, err
		}
		om.Register(jsonOut)
	}

	if p.outputConfig.metricsListen != "" {
		metricsOut, err := output.NewMetricsOutput(p.outputConfig.metricsListen)
		if err != nil {
			om.Close()
			return nil, err
		}
		om.Register(metricsOut)
	}

	return om, nil
}

// Target returns the resolved target of this run
func (p *Probe) Target() shared.Target {
	return p.target
}

// Run performs connection attempts until the count is reached or the probe is
// stopped, then reports the summary and closes all outputs.
func (p *Probe) Run() error {
	p.outputs.Start(p.target)

	for seq := uint(0); ; seq++ {
		if p.stop.Stopped() {
			slog.Debug("Probe received stop signal", "tcp_seq", seq)
			break
		}
		if p.config.hasCount && seq >= p.config.count {
			break
		}

		attempt := p.attempt(seq)
		p.stats.Record(attempt)
		p.outputs.CompleteAttempt(p.target, attempt)

		if p.config.hasCount && seq+1 >= p.config.count {
			break
		}
		p.wait()
	}

	if summary, ok := p.stats.Summary(p.target.Host); ok {
		p.outputs.CompleteRun(summary)
	}

	return p.outputs.Close()
}

// attempt makes one timed connection attempt
func (p *Probe) attempt(seq uint) shared.Attempt {
	start := time.Now()
	latency, err := connect(p.dialer, p.target, p.config.timeout)
	return shared.Attempt{
		Seq:       seq,
		Latency:   latency,
		Err:       err,
		Timestamp: start,
	}
}

// wait sleeps for the interval, returning early if the probe is stopped
func (p *Probe) wait() {
	if p.config.interval <= 0 {
		return
	}
	timer := time.NewTimer(p.config.interval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-p.stop.Done():
	}
}

// Close releases the outputs without running the probe
func (p *Probe) Close() error {
	if p.outputs == nil {
		return nil
	}
	return p.outputs.Close()
}

// Stop asks the probe loop to finish after the current attempt
func (p *Probe) Stop() {
	p.stop.Stop()
}

// Statistics returns the statistics gathered so far
func (p *Probe) Statistics() Statistics {
	return p.stats
}
