package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tkjaer/tcpping/internal/config"
	"github.com/tkjaer/tcpping/internal/probe"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup happens before the process exits
func run() int {
	args, err := config.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tcpping: %v\n", err)
		return 1
	}

	// Setup logging
	logFile, err := config.SetupLogging(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tcpping: failed to setup logging: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}

	slog.Debug("Starting TCP ping",
		"destination", args.Destination,
		"port", args.Port,
		"count", args.Count,
		"interval", args.Interval,
		"timeout", args.Timeout,
	)

	p, err := probe.NewProbe(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tcpping: %v\n", err)
		return 1
	}

	// Ctrl+C ends the run after the current attempt and still prints statistics
	release, err := p.HandleInterrupts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tcpping: %v\n", err)
		if err := p.Close(); err != nil {
			slog.Error("Failed to close outputs", "error", err)
		}
		return 1
	}
	defer release()

	if err := p.Run(); err != nil {
		slog.Error("Probe error", "error", err)
		fmt.Fprintf(os.Stderr, "tcpping: %v\n", err)
		return 1
	}

	slog.Debug("TCP ping completed")
	return 0
}
