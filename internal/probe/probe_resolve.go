package probe

import (
	"context"
	"errors"
	"net"
	"net/netip"

	"github.com/tkjaer/tcpping/internal/shared"
)

// Family selects which address family a run is restricted to
type Family int

const (
	FamilyAny Family = iota
	FamilyIPv4
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "any"
	}
}

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Destination is the parsed command line target
type Destination struct {
	Host   string
	Port   uint16
	Family Family
}

var errNoAddresses = errors.New("no addresses found")

// SelectAddress picks the address to probe from the resolver's candidates.
//
// With a forced family the first candidate of that family wins. Without one the
// first candidate wins, so the result follows whatever order the system resolver
// returns and may differ between environments.
func SelectAddress(candidates []netip.Addr, family Family) (netip.Addr, bool) {
	for _, c := range candidates {
		c = c.Unmap()
		switch family {
		case FamilyIPv4:
			if c.Is4() {
				return c, true
			}
		case FamilyIPv6:
			if c.Is6() {
				return c, true
			}
		default:
			if c.IsValid() {
				return c, true
			}
		}
	}
	return netip.Addr{}, false
}

// resolveTarget turns a destination into the single target of a run
func resolveTarget(ctx context.Context, r Resolver, d Destination) (shared.Target, error) {
	target := shared.Target{
		Host: d.Host,
		Port: d.Port,
	}

	var candidates []netip.Addr
	if addr, err := netip.ParseAddr(d.Host); err == nil {
		target.HostIsIP = true
		candidates = []netip.Addr{addr}
	} else {
		candidates, err = r.LookupNetIP(ctx, "ip", d.Host)
		if err != nil {
			return target, &ResolutionError{Host: d.Host, Err: err}
		}
		if len(candidates) == 0 {
			return target, &ResolutionError{Host: d.Host, Err: errNoAddresses}
		}
	}

	addr, ok := SelectAddress(candidates, d.Family)
	if !ok {
		return target, &AddressFamilyError{Host: d.Host, Family: d.Family}
	}

	target.Addr = addr
	if addr.Is4() {
		target.Family = FamilyIPv4.String()
	} else {
		target.Family = FamilyIPv6.String()
	}
	return target, nil
}

// defaultResolver is used when no resolver is injected
var defaultResolver Resolver = net.DefaultResolver
