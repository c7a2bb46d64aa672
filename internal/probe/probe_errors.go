package probe

import "fmt"

// ResolutionError is returned when the destination host yields no addresses
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: Name or service not known", e.Host)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AddressFamilyError is returned when a forced address family has no candidate
type AddressFamilyError struct {
	Host   string
	Family Family
}

func (e *AddressFamilyError) Error() string {
	return fmt.Sprintf("%s: Address family for hostname not supported", e.Host)
}

// NetworkUnreachableError is returned when the reachability pre-check fails
type NetworkUnreachableError struct {
	Err error
}

func (e *NetworkUnreachableError) Error() string {
	return "connect: Network is unreachable"
}

func (e *NetworkUnreachableError) Unwrap() error { return e.Err }

// SignalHandlerInstallError is returned when the interrupt handler cannot be installed
type SignalHandlerInstallError struct {
	Err error
}

func (e *SignalHandlerInstallError) Error() string {
	return fmt.Sprintf("failed to install interrupt handler: %v", e.Err)
}

func (e *SignalHandlerInstallError) Unwrap() error { return e.Err }
