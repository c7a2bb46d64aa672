package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tkjaer/tcpping/internal/version"
)

// DefaultPort is used when neither the destination nor --port carries one.
const DefaultPort = 80

type Args struct {
	Destination string // host part of the positional argument
	Port        uint
	Count       uint
	HasCount    bool // --count was given, so Count bounds the run even when 0
	ForceIPv4   bool
	ForceIPv6   bool
	NoResolve   bool
	NoPrecheck  bool

	// Timing
	Timeout  time.Duration
	Interval time.Duration

	// Output
	Json          bool   // output json to stdout
	JsonFile      string // output json to file while keeping text output
	MetricsListen string // serve prometheus metrics on this address
	NoColor       bool

	// Logging
	Log      string // log file path, empty means stderr
	LogLevel string // log level: debug, info, warn, error
}

func ParseArgs() (Args, error) {
	var args Args
	var showVersion bool

	flag.Usage = func() {
		println("tcpping - TCP connect latency probe")
		println()
		println("Usage:")
		println("  tcpping [OPTIONS] DESTINATION")
		println()
		println("DESTINATION is a hostname or IP address, optionally with a port:")
		println("  example.com, example.com:443, 192.0.2.1:22, [2001:db8::1]:80")
		println()
		println("Examples:")
		println("  tcpping example.com                  # Probe port 80 until interrupted")
		println("  tcpping -c 5 -p 443 example.com      # 5 probes to port 443")
		println("  tcpping -6 [2001:db8::1]:22          # Force IPv6")
		println("  tcpping -J example.com:443           # JSON lines to stdout")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.UintVarP(&args.Port, "port", "p", DefaultPort, "Destination port (overrides a port embedded in DESTINATION)")
	flag.BoolVarP(&args.ForceIPv4, "ipv4", "4", false, "Force IPv4")
	flag.BoolVarP(&args.ForceIPv6, "ipv6", "6", false, "Force IPv6")
	flag.UintVarP(&args.Count, "count", "c", 0, "Number of connection attempts (default: until interrupted)")
	flag.DurationVarP(&args.Timeout, "timeout", "t", 1*time.Second, "Connect timeout per attempt")
	flag.DurationVarP(&args.Interval, "interval", "i", 1*time.Second, "Delay between attempts")
	flag.BoolVar(&args.NoPrecheck, "no-precheck", false, "Do not abort when a quick reachability check fails")
	flag.BoolVarP(&args.NoResolve, "no-resolve", "n", false, "Do not resolve the destination IP to a hostname")
	flag.BoolVarP(&args.Json, "json", "J", false, "Write JSON output to stdout (disables text output)")
	flag.StringVarP(&args.JsonFile, "json-file", "j", "", "Write JSON output to file (keeps text output)")
	flag.StringVarP(&args.MetricsListen, "metrics-listen", "m", "", "Serve Prometheus metrics on this address, e.g. :9115")
	flag.BoolVar(&args.NoColor, "no-color", false, "Disable coloured output")
	flag.StringVarP(&args.Log, "log", "l", "", "Diagnostic log file (empty = stderr)")
	flag.StringVar(&args.LogLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.Parse()

	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return args, errors.New("destination is required")
	}
	if flag.NArg() > 1 {
		return args, fmt.Errorf("unexpected argument: %s", flag.Arg(1))
	}

	host, port, err := SplitDestination(flag.Arg(0))
	if err != nil {
		return args, err
	}
	args.Destination = host

	switch {
	case args.ForceIPv4 && args.ForceIPv6:
		return args, errors.New("cannot force both IPv4 and IPv6")
	case args.Json && args.JsonFile != "":
		return args, errors.New("cannot use both --json and --json-file")
	case args.Port > 65535:
		return args, errors.New("port must be between 0 and 65535")
	case args.Timeout <= 0:
		return args, errors.New("timeout must be positive")
	case args.Interval < 0:
		return args, errors.New("interval must not be negative")
	}

	args.HasCount = flag.CommandLine.Changed("count")

	// An explicit --port wins over one embedded in the destination
	if !flag.CommandLine.Changed("port") && port >= 0 {
		args.Port = uint(port)
	}

	return args, nil
}

// SplitDestination separates an optional port from the destination argument.
// It accepts host, host:port, [ipv6]:port and bare IPv6 literals. The returned
// port is -1 when the destination does not carry one.
func SplitDestination(destination string) (host string, port int, err error) {
	if strings.HasPrefix(destination, "[") {
		if !strings.Contains(destination, "]:") {
			host = strings.TrimSuffix(strings.TrimPrefix(destination, "["), "]")
			if _, err := netip.ParseAddr(host); err != nil {
				return "", -1, fmt.Errorf("invalid destination: %s", destination)
			}
			return host, -1, nil
		}
		h, p, err := net.SplitHostPort(destination)
		if err != nil {
			return "", -1, fmt.Errorf("invalid destination: %s", destination)
		}
		port, err := parsePort(p)
		if err != nil {
			return "", -1, err
		}
		return h, port, nil
	}

	// Bare IPv6 literals contain colons but no port
	if _, err := netip.ParseAddr(destination); err == nil {
		return destination, -1, nil
	}

	if strings.Count(destination, ":") == 1 {
		h, p, err := net.SplitHostPort(destination)
		if err != nil || h == "" {
			return "", -1, fmt.Errorf("invalid destination: %s", destination)
		}
		port, err := parsePort(p)
		if err != nil {
			return "", -1, err
		}
		return h, port, nil
	}

	if strings.Contains(destination, ":") {
		return "", -1, fmt.Errorf("invalid destination: %s", destination)
	}
	return destination, -1, nil
}

func parsePort(p string) (int, error) {
	n, err := strconv.ParseUint(p, 10, 16)
	if err != nil {
		return -1, fmt.Errorf("invalid port: %s", p)
	}
	return int(n), nil
}
