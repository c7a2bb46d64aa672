package probe

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// StopSignal is a one-way flag telling the probe loop to finish.
// It is set at most once and never reset.
type StopSignal struct {
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
}

func NewStopSignal() *StopSignal {
	return &StopSignal{done: make(chan struct{})}
}

// Stop sets the flag. Safe to call from any goroutine, any number of times.
func (s *StopSignal) Stop() {
	s.once.Do(func() {
		s.stopped.Store(true)
		close(s.done)
	})
}

// Stopped reports whether Stop has been called
func (s *StopSignal) Stopped() bool {
	return s.stopped.Load()
}

// Done is closed once Stop has been called
func (s *StopSignal) Done() <-chan struct{} {
	return s.done
}

// Variables for mocking in tests
var (
	notify     = signal.Notify
	stopNotify = signal.Stop
)

var errHandlerInstalled = errors.New("interrupt handler already installed")

// HandleInterrupts installs the handler that stops the probe on SIGINT or SIGTERM.
// It may be called once per probe; the returned function uninstalls the handler.
func (p *Probe) HandleInterrupts() (func(), error) {
	if !p.handlerInstalled.CompareAndSwap(false, true) {
		return nil, &SignalHandlerInstallError{Err: errHandlerInstalled}
	}

	sigChan := make(chan os.Signal, 1)
	notify(sigChan, os.Interrupt, syscall.SIGTERM)

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case sig := <-sigChan:
			slog.Debug("Received interrupt signal, stopping", "signal", sig)
			p.stop.Stop()
		case <-release:
		}
	}()

	var releaseOnce sync.Once
	return func() {
		releaseOnce.Do(func() {
			stopNotify(sigChan)
			close(release)
			wg.Wait()
		})
	}, nil
}
