package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"tcpsweep/tunnel"
	"tcpsweep/util"
)

// SSHDialer opens probe connections from an SSH gateway.  The session
// is established by Connect, or lazily on the first Dial, and torn
// down on Close.
type SSHDialer struct {
	tunnel    tunnel.Tunnel
	logger    *util.Logger
	mu        sync.Mutex
	connected bool
}

// NewSSHDialer creates a dialer that probes through the gateway
// described by cfg.  Nothing is dialed until Connect or Dial.
func NewSSHDialer(cfg *tunnel.SSHConfig, logger *util.Logger) *SSHDialer {
	return &SSHDialer{
		tunnel: tunnel.NewSSHTunnel(cfg, logger),
		logger: logger,
	}
}

// newTunnelDialer wraps an existing Tunnel; tests use it with fakes.
func newTunnelDialer(t tunnel.Tunnel, logger *util.Logger) *SSHDialer {
	return &SSHDialer{tunnel: t, logger: logger}
}

// Connect establishes the gateway session if not already connected.
// A session that dropped mid-scan is not re-established; the tunnel
// reports ErrTunnelClosed and the remaining probes count as not open.
func (d *SSHDialer) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}

	if err := d.tunnel.Connect(ctx); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	d.connected = true
	return nil
}

// Dial connects to address from the gateway, establishing the session
// on first use.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.Connect(ctx); err != nil {
		return nil, err
	}
	return d.tunnel.Dial(ctx, network, address)
}

// Close tears down the gateway session.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		return d.tunnel.Close()
	}
	return nil
}
