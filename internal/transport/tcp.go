package transport

import (
	"context"
	"net"
	"time"
)

// TCPDialer establishes plain TCP connections from the local host.
type TCPDialer struct {
	// Timeout is an upper bound on connection establishment on top of
	// the caller's context.  Zero means the context alone decides.
	Timeout time.Duration
}

// Dial connects to address over TCP.  Keep-alives are disabled: probe
// connections are closed as soon as they open.
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := net.Dialer{
		Timeout:   d.Timeout,
		KeepAlive: -1,
	}
	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op for stateless TCP dialers.
func (d *TCPDialer) Close() error { return nil }
