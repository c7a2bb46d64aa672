package output

import "github.com/tkjaer/tcpping/internal/shared"

// Output interface for different output types
type Output interface {
	Start(target shared.Target)
	CompleteAttempt(target shared.Target, attempt shared.Attempt)
	CompleteRun(summary shared.Summary)
	Close() error
}

// OutputManager manages multiple outputs
type OutputManager struct {
	outputs []Output
}

func (om *OutputManager) Register(o Output) {
	om.outputs = append(om.outputs, o)
}

func (om *OutputManager) Start(target shared.Target) {
	for _, o := range om.outputs {
		o.Start(target)
	}
}

func (om *OutputManager) CompleteAttempt(target shared.Target, attempt shared.Attempt) {
	for _, o := range om.outputs {
		o.CompleteAttempt(target, attempt)
	}
}

func (om *OutputManager) CompleteRun(summary shared.Summary) {
	for _, o := range om.outputs {
		o.CompleteRun(summary)
	}
}

// Close closes every output and returns the first error
func (om *OutputManager) Close() error {
	var firstErr error
	for _, o := range om.outputs {
		if err := o.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
