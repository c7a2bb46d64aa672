//go:build linux

package route

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/jsimonetti/rtnetlink"
	"golang.org/x/sys/unix"
)

// fetchRouteMessages asks the kernel for the route to ip with RTM_GETROUTE.
// Variable for mocking in tests.
var fetchRouteMessages = func(ip netip.Addr) ([]rtnetlink.RouteMessage, error) {
	c, err := rtnetlink.Dial(nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	family := unix.AF_INET
	if ip.Is6() {
		family = unix.AF_INET6
	}

	return c.Route.Get(&rtnetlink.RouteMessage{
		Family:     uint8(family),
		Table:      unix.RT_TABLE_MAIN,
		Attributes: rtnetlink.RouteAttributes{Dst: ip.AsSlice()},
	})
}

var errNoRoute = errors.New("no route returned")

// routeFromMessages converts the kernel's answer into a Route.
// RTM_GETROUTE for a single address answers with exactly one resolved route.
func routeFromMessages(ip netip.Addr, msgs []rtnetlink.RouteMessage) (Route, error) {
	switch {
	case len(msgs) == 0:
		return Route{}, errNoRoute
	case len(msgs) > 1:
		return Route{}, fmt.Errorf("multiple routes found for %s", ip)
	}
	attrs := msgs[0].Attributes

	dst, ok := netip.AddrFromSlice(attrs.Dst)
	if !ok || dst.Unmap() != ip.Unmap() {
		return Route{}, fmt.Errorf("no matching route found for %s", ip)
	}

	r := Route{Destination: ip}
	if gw, ok := netip.AddrFromSlice(attrs.Gateway); ok {
		r.Gateway = gw.Unmap()
	}
	if src, ok := netip.AddrFromSlice(attrs.Src); ok {
		r.Source = src.Unmap()
	}

	intf, err := interfaceByIndex(int(attrs.OutIface))
	if err != nil {
		return Route{}, fmt.Errorf("failed to get interface by index %d: %w", attrs.OutIface, err)
	}
	if intf.Flags&unix.IFF_UP == 0 {
		return Route{}, fmt.Errorf("interface %s is down", intf.Name)
	}
	r.Interface = intf

	return r, nil
}

func get(ip netip.Addr) (Route, error) {
	msgs, err := fetchRouteMessages(ip)
	if err != nil {
		return Route{}, fmt.Errorf("route lookup for %s: %w", ip, err)
	}
	return routeFromMessages(ip, msgs)
}
