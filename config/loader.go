package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags and key=value arguments  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go, applied by ApplyDefaults)

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the TCPSWEEP_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
//
// TCPSWEEP_POOL goes through [NormalizePoolSize] like its flag, so a
// bad value quietly means 1.  A malformed TCPSWEEP_PORTS is an error.
func LoadFromEnv(cfg *Config) error {
	if v := os.Getenv("TCPSWEEP_HOSTS"); v != "" {
		cfg.Hosts = ParseHostList(v)
	}
	if v := os.Getenv("TCPSWEEP_PORTS"); v != "" {
		ports, err := ParsePortList(v)
		if err != nil {
			return fmt.Errorf("TCPSWEEP_PORTS: %w", err)
		}
		cfg.Ports = ports
	}
	if v, ok := os.LookupEnv("TCPSWEEP_POOL"); ok {
		cfg.PoolSize = NormalizePoolSize(v)
	}
	if v := envInt("TCPSWEEP_TIMEOUT_MS"); v > 0 {
		cfg.Timeout = millisDuration(v)
	}
	if envBool("TCPSWEEP_NO_DNS") {
		cfg.NoDNS = true
	}
	if envBool("TCPSWEEP_PLAIN") {
		cfg.Plain = true
	}

	// SSH gateway
	if v := os.Getenv("TCPSWEEP_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("TCPSWEEP_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("TCPSWEEP_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("TCPSWEEP_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("TCPSWEEP_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("TCPSWEEP_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("TCPSWEEP_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func millisDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
