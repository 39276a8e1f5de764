// Package tunnel lets probes originate from an SSH gateway instead of
// the local host.  The implementation is backed by
// golang.org/x/crypto/ssh: every probe becomes a direct-tcpip channel
// opened by the gateway.
package tunnel

import (
	"context"
	"net"
)

// Tunnel abstracts an encrypted channel through which TCP connections
// can be opened on the far side.
type Tunnel interface {
	// Connect establishes the session with the gateway.
	Connect(ctx context.Context) error

	// Dial opens a connection to address from the gateway.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close tears down the session and frees resources.
	Close() error

	// IsAlive reports whether the session is still up.
	IsAlive() bool
}
