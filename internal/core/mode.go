// Package core is the orchestration layer.  It composes a transport,
// a prober and a scheduler into a runnable scan and provides a builder
// that selects them from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  scan  →  core  →  cmd (CLI)
//
// The builder in this package is the single dispatch point between the
// sequential and the wave-based concurrent scanner.
package core

import "context"

// Mode is a complete, runnable operation.  It owns its full lifecycle
// from gateway setup to teardown.
type Mode interface {
	Run(ctx context.Context) error
}
