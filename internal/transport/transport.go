// Package transport provides abstractions for connection
// establishment.  A probe only needs to know whether a connection can
// be opened; transports decide where it is opened from: the local
// host or an SSH gateway.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations include
// a plain TCP dialer and an SSH-tunnelled dialer that opens the
// connection from a remote gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	// Implementations must give up when ctx is done.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}

// Connector is implemented by dialers that hold a session which should
// be established before the first probe, outside any probe's timeout.
type Connector interface {
	Connect(ctx context.Context) error
}

// DialFunc adapts a plain function to the Dialer interface.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Dial calls f.
func (f DialFunc) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

// Close is a no-op.
func (f DialFunc) Close() error { return nil }
