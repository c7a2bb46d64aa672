// Package route finds the egress path the kernel uses towards a destination.
package route

import (
	"net"
	"net/netip"
)

// Route describes how traffic to Destination leaves this host
type Route struct {
	Destination netip.Addr
	Gateway     netip.Addr // Invalid for directly connected destinations
	Source      netip.Addr
	Interface   *net.Interface
}

// InterfaceName returns the egress interface name or an empty string
func (r Route) InterfaceName() string {
	if r.Interface == nil {
		return ""
	}
	return r.Interface.Name
}

// Get returns the route the kernel selects for ip
func Get(ip netip.Addr) (Route, error) {
	// Use platform-specific implementation to fetch the route
	return get(ip)
}

// interfaceByIndex is a variable for mocking in tests
var interfaceByIndex = net.InterfaceByIndex
