//go:build linux

package route

import (
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/jsimonetti/rtnetlink"
	"golang.org/x/sys/unix"
)

func mockInterfaces(t *testing.T, ifaces map[int]*net.Interface) {
	t.Helper()
	orig := interfaceByIndex
	interfaceByIndex = func(index int) (*net.Interface, error) {
		if intf, ok := ifaces[index]; ok {
			return intf, nil
		}
		return nil, errors.New("no such interface")
	}
	t.Cleanup(func() { interfaceByIndex = orig })
}

func TestRouteFromMessages(t *testing.T) {
	mockInterfaces(t, map[int]*net.Interface{
		1: {Index: 1, Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
		2: {Index: 2, Name: "eth0", Flags: net.FlagUp},
		3: {Index: 3, Name: "eth1"}, // down
	})

	ipv4 := netip.MustParseAddr("192.0.2.100")
	ipv6 := netip.MustParseAddr("2001:db8::100")

	tests := []struct {
		name      string
		ip        netip.Addr
		msgs      []rtnetlink.RouteMessage
		wantIface string
		wantSrc   string
		wantGw    string
		wantErr   bool
	}{
		{
			name: "IPv4 via gateway",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{{
				Family: unix.AF_INET,
				Attributes: rtnetlink.RouteAttributes{
					Dst:      ipv4.AsSlice(),
					Gateway:  netip.MustParseAddr("192.0.2.1").AsSlice(),
					Src:      netip.MustParseAddr("192.0.2.10").AsSlice(),
					OutIface: 2,
				},
			}},
			wantIface: "eth0",
			wantSrc:   "192.0.2.10",
			wantGw:    "192.0.2.1",
		},
		{
			name: "IPv6 directly connected",
			ip:   ipv6,
			msgs: []rtnetlink.RouteMessage{{
				Family: unix.AF_INET6,
				Attributes: rtnetlink.RouteAttributes{
					Dst:      ipv6.AsSlice(),
					Src:      netip.MustParseAddr("2001:db8::10").AsSlice(),
					OutIface: 2,
				},
			}},
			wantIface: "eth0",
			wantSrc:   "2001:db8::10",
			wantGw:    "invalid IP",
		},
		{
			name:    "no routes",
			ip:      ipv4,
			msgs:    nil,
			wantErr: true,
		},
		{
			name: "multiple routes",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{
				{Attributes: rtnetlink.RouteAttributes{Dst: ipv4.AsSlice(), OutIface: 1}},
				{Attributes: rtnetlink.RouteAttributes{Dst: ipv4.AsSlice(), OutIface: 2}},
			},
			wantErr: true,
		},
		{
			name: "destination mismatch",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{{
				Attributes: rtnetlink.RouteAttributes{
					Dst:      netip.MustParseAddr("198.51.100.1").AsSlice(),
					OutIface: 2,
				},
			}},
			wantErr: true,
		},
		{
			name: "unknown interface",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{{
				Attributes: rtnetlink.RouteAttributes{Dst: ipv4.AsSlice(), OutIface: 42},
			}},
			wantErr: true,
		},
		{
			name: "interface down",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{{
				Attributes: rtnetlink.RouteAttributes{Dst: ipv4.AsSlice(), OutIface: 3},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := routeFromMessages(tt.ip, tt.msgs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("routeFromMessages() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if r.InterfaceName() != tt.wantIface {
				t.Errorf("InterfaceName() = %q, want %q", r.InterfaceName(), tt.wantIface)
			}
			if r.Source.String() != tt.wantSrc {
				t.Errorf("Source = %v, want %v", r.Source, tt.wantSrc)
			}
			if r.Gateway.String() != tt.wantGw {
				t.Errorf("Gateway = %v, want %v", r.Gateway, tt.wantGw)
			}
			if r.Destination != tt.ip {
				t.Errorf("Destination = %v, want %v", r.Destination, tt.ip)
			}
		})
	}
}

func TestGet_Linux(t *testing.T) {
	mockInterfaces(t, map[int]*net.Interface{
		2: {Index: 2, Name: "eth0", Flags: net.FlagUp},
	})
	ipv4 := netip.MustParseAddr("192.0.2.1")

	tests := []struct {
		name    string
		msgs    []rtnetlink.RouteMessage
		err     error
		wantErr bool
	}{
		{
			name: "successful fetch",
			msgs: []rtnetlink.RouteMessage{{
				Family: unix.AF_INET,
				Attributes: rtnetlink.RouteAttributes{
					Dst:      ipv4.AsSlice(),
					Src:      netip.MustParseAddr("192.0.2.10").AsSlice(),
					OutIface: 2,
				},
			}},
		},
		{
			name:    "fetch error",
			err:     errors.New("dial failed"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := fetchRouteMessages
			fetchRouteMessages = func(ip netip.Addr) ([]rtnetlink.RouteMessage, error) { return tt.msgs, tt.err }
			defer func() { fetchRouteMessages = orig }()

			_, err := Get(ipv4)
			if (err != nil) != tt.wantErr {
				t.Errorf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoute_InterfaceName(t *testing.T) {
	if got := (Route{}).InterfaceName(); got != "" {
		t.Errorf("InterfaceName() of empty route = %q, want empty", got)
	}
	r := Route{Interface: &net.Interface{Name: "eth0"}}
	if got := r.InterfaceName(); got != "eth0" {
		t.Errorf("InterfaceName() = %q, want eth0", got)
	}
}
