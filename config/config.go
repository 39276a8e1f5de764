// Package config defines the runtime configuration for tcpsweep and
// provides helpers for parsing host lists, port specs, pool sizes and
// SSH gateway specifications.
package config

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"

	ncerr "tcpsweep/internal/errors"
	"tcpsweep/util"
)

// Config holds every tuneable for a single scan.
type Config struct {
	// ── Targets ──────────────────────────────────────────────────────
	Hosts    []string
	Ports    PortSet
	PoolSize int // probes in flight per wave; 1 selects the sequential scanner
	Timeout  time.Duration
	NoDNS    bool

	// ── SSH gateway ──────────────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	Plain   bool // never use the live terminal renderer
	Stats   bool // dump the metrics snapshot after the scan
	DryRun  bool
}

// ── Port helpers ─────────────────────────────────────────────────────

// PortRange is an inclusive start–end pair.
type PortRange struct {
	Start int
	End   int
}

// All yields every port in the range without materializing it.
func (pr PortRange) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for p := pr.Start; p <= pr.End; p++ {
			if !yield(p) {
				return
			}
		}
	}
}

// Len returns the number of ports in the range.
func (pr PortRange) Len() int {
	if pr.End < pr.Start {
		return 0
	}
	return pr.End - pr.Start + 1
}

func (pr PortRange) String() string {
	if pr.Start == pr.End {
		return strconv.Itoa(pr.Start)
	}
	return strconv.Itoa(pr.Start) + "-" + strconv.Itoa(pr.End)
}

// PortSet is an ordered list of ranges.  Ports are produced in input
// order and duplicates are kept.
type PortSet []PortRange

// DefaultPorts returns the full 1-65535 range.
func DefaultPorts() PortSet {
	return PortSet{{Start: MinPort, End: MaxPort}}
}

// All yields every port of every range, in order.  The sequence is
// restartable, so it can be walked once per host.
func (ps PortSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, pr := range ps {
			for p := range pr.All() {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Len returns the total number of ports across all ranges.
func (ps PortSet) Len() int {
	n := 0
	for _, pr := range ps {
		n += pr.Len()
	}
	return n
}

func (ps PortSet) String() string {
	parts := make([]string, len(ps))
	for i, pr := range ps {
		parts[i] = pr.String()
	}
	return strings.Join(parts, ",")
}

// ParsePortSpec accepts "80" or "80-90".
func ParsePortSpec(spec string) (PortRange, error) {
	spec = strings.TrimSpace(spec)
	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		start, err := strconv.Atoi(parts[0])
		if err != nil {
			return PortRange{}, portError(spec, "invalid port range start %q", parts[0])
		}
		end, err := strconv.Atoi(parts[1])
		if err != nil {
			return PortRange{}, portError(spec, "invalid port range end %q", parts[1])
		}
		if start < MinPort || end > MaxPort || start > end {
			return PortRange{}, portError(spec, "invalid port range %d-%d", start, end)
		}
		return PortRange{Start: start, End: end}, nil
	}

	port, err := strconv.Atoi(spec)
	if err != nil {
		return PortRange{}, portError(spec, "invalid port %q", spec)
	}
	if port < MinPort || port > MaxPort {
		return PortRange{}, portError(spec, "port %d out of range 1-65535", port)
	}
	return PortRange{Start: port, End: port}, nil
}

// ParsePortList parses a comma-separated list of port specs such as
// "22,80-90,443".  Empty elements are skipped.
func ParsePortList(list string) (PortSet, error) {
	var out PortSet
	for _, spec := range strings.Split(list, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		pr, err := ParsePortSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, nil
}

func portError(spec, format string, args ...interface{}) error {
	return &ncerr.ConfigError{
		Field:   "port",
		Value:   spec,
		Message: fmt.Sprintf(format, args...),
		Hint:    "ports are 1-65535, written as 80, 20-25 or 22,80,443",
	}
}

// ParseHostList splits a comma-separated host list, trimming blanks.
func ParseHostList(list string) []string {
	var out []string
	for _, h := range strings.Split(list, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// ── Pool size ────────────────────────────────────────────────────────

// NormalizePoolSize turns a user-supplied pool size into a usable one.
// Anything that is not an integer ≥ 1 falls back to 1 silently.
func NormalizePoolSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultPoolSize
	}
	return n
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, &ncerr.ConfigError{
			Field:   "tunnel",
			Value:   spec,
			Message: "invalid gateway spec",
			Hint:    "expected [user@]host[:port]",
		}
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < MinPort || port > MaxPort {
			return "", "", 0, &ncerr.ConfigError{
				Field:   "tunnel",
				Value:   spec,
				Message: "invalid gateway port " + strconv.Quote(m[3]),
			}
		}
	}
	return user, host, port, nil
}

// ── Defaults & validation ────────────────────────────────────────────

// ApplyDefaults fills every unset target field: localhost, the full
// port range, a pool of one and the standard probe timeout.
func (c *Config) ApplyDefaults() {
	if len(c.Hosts) == 0 {
		c.Hosts = []string{DefaultHost}
	}
	if len(c.Ports) == 0 {
		c.Ports = DefaultPorts()
	}
	if c.PoolSize < 1 {
		c.PoolSize = DefaultPoolSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultProbeTimeout
	}
}

// Validate checks that the configuration is internally consistent.
// It expects [Config.ApplyDefaults] to have run.
func (c *Config) Validate() error {
	if len(c.Hosts) == 0 {
		return &ncerr.ConfigError{
			Field:   "host",
			Message: "at least one host is required",
		}
	}
	for _, h := range c.Hosts {
		if strings.TrimSpace(h) == "" {
			return &ncerr.ConfigError{Field: "host", Value: h, Message: "empty host name"}
		}
		if c.NoDNS {
			if err := util.RequireIP(h); err != nil {
				return &ncerr.ConfigError{
					Field:   "host",
					Value:   h,
					Message: err.Error(),
					Hint:    "drop -n or give a numeric address",
				}
			}
		}
	}
	for _, pr := range c.Ports {
		if pr.Start < MinPort || pr.End > MaxPort || pr.Start > pr.End {
			return &ncerr.ConfigError{Field: "port", Value: pr.String(), Message: "out of range 1-65535"}
		}
	}
	if c.PoolSize < 1 {
		return &ncerr.ConfigError{Field: "pool", Value: c.PoolSize, Message: "must be at least 1"}
	}
	if c.Timeout <= 0 {
		return &ncerr.ConfigError{
			Field:   "timeout",
			Value:   c.Timeout,
			Message: "must be positive",
			Hint:    "give the per-probe budget in milliseconds, e.g. -w 500",
		}
	}
	if c.TunnelEnabled && c.TunnelHost == "" {
		return &ncerr.ConfigError{Field: "tunnel", Message: "gateway host is required"}
	}
	return nil
}
