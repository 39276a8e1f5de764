package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, positional key=value arguments and environment
// variable loading.

const (
	// DefaultHost is scanned when no host is given.
	DefaultHost = "127.0.0.1"

	// MinPort and MaxPort bound every port spec; the default scan
	// covers the whole span.
	MinPort = 1
	MaxPort = 65535

	// DefaultPoolSize selects the sequential scanner.
	DefaultPoolSize = 1

	// DefaultProbeTimeout is the per-probe connect budget.
	DefaultProbeTimeout = 500 * time.Millisecond

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultConnTimeout bounds the SSH gateway handshake.
	DefaultConnTimeout = 30 * time.Second
)
