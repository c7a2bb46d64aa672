//go:build !linux

package route

import (
	"fmt"
	"net"
	"net/netip"
)

// get learns the source address by connecting a UDP socket, which selects a
// route without sending any packet, then maps it back to its interface.
func get(ip netip.Addr) (Route, error) {
	conn, err := net.DialUDP("udp", nil, net.UDPAddrFromAddrPort(netip.AddrPortFrom(ip, 9)))
	if err != nil {
		return Route{}, fmt.Errorf("route lookup for %s: %w", ip, err)
	}
	defer conn.Close()

	local := conn.LocalAddr().(*net.UDPAddr).AddrPort().Addr().Unmap()
	r := Route{Destination: ip, Source: local}

	ifaces, err := net.Interfaces()
	if err != nil {
		return r, nil
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if prefix, err := netip.ParsePrefix(a.String()); err == nil && prefix.Addr().Unmap() == local {
				r.Interface = &ifaces[i]
				return r, nil
			}
		}
	}
	return r, nil
}
