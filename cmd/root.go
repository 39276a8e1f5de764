// Package cmd wires up the CLI flags and dispatches to the scan core.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"tcpsweep/config"
	"tcpsweep/internal/core"
	"tcpsweep/internal/metrics"
	"tcpsweep/internal/render"
	"tcpsweep/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X tcpsweep/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the scan, writing results to stdout and
// diagnostics to stderr.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := &config.Config{}
	if err := config.LoadFromEnv(cfg); err != nil {
		return err
	}

	fs := flag.NewFlagSet("tcpsweep", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── targets ──────────────────────────────────────────────────
	var hosts, ports []string
	var pool string
	var timeoutMS int
	fs.StringSliceVarP(&hosts, "host", "H", nil, "Hosts to scan (repeatable, comma-separated)")
	fs.StringSliceVarP(&ports, "port", "p", nil, "Ports or ranges, e.g. 22,80-90 (default 1-65535)")
	fs.StringVarP(&pool, "pool", "P", "", "Probes per wave; 1 scans sequentially (default 1)")
	fs.IntVarP(&timeoutMS, "timeout", "w", 0, "Per-probe timeout in milliseconds (default 500)")
	fs.BoolVarP(&cfg.NoDNS, "no-dns", "n", cfg.NoDNS, "Numeric-only, no DNS resolution")

	// ── SSH gateway ──────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Probe from an SSH gateway [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "Append-only output, even on a terminal")
	fs.BoolVar(&cfg.Stats, "stats", false, "Print scan metrics as JSON to stderr")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Print the scan plan and exit")
	var verbose int
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(stderr, fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(stderr, fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "tcpsweep %s\n", version)
		return nil
	}

	// ── key=value arguments, then flags on top ───────────────────
	ignored, err := parsePositional(cfg, fs.Args())
	if err != nil {
		return err
	}
	if fs.Changed("host") {
		cfg.Hosts = config.ParseHostList(strings.Join(hosts, ","))
	}
	if fs.Changed("port") {
		ps, err := config.ParsePortList(strings.Join(ports, ","))
		if err != nil {
			return err
		}
		cfg.Ports = ps
	}
	if fs.Changed("pool") {
		cfg.PoolSize = config.NormalizePoolSize(pool)
	}
	if fs.Changed("timeout") {
		cfg.Timeout = time.Duration(timeoutMS) * time.Millisecond
	}
	if fs.Changed("verbose") {
		cfg.Verbose = verbose
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Level 1 is the default so warnings and the summary reach stderr.
	logger := util.NewLogger(cfg.Verbose + 1)
	logger.SetOutput(stderr)
	for _, arg := range ignored {
		logger.Warn("ignoring unrecognised argument %q", arg)
	}

	if cfg.DryRun {
		printPlan(stdout, cfg)
		return nil
	}

	// ── build and run ────────────────────────────────────────────
	m := metrics.New()
	sink := render.New(stdout, !cfg.Plain && isTerminal(stdout))

	mode, err := core.Build(cfg, logger, sink, m)
	if err != nil {
		return err
	}
	err = mode.Run(ctx)

	if cfg.Stats {
		fmt.Fprintln(stderr, m.JSON())
	}
	return err
}

// ── helpers ──────────────────────────────────────────────────────────

// parsePositional applies host=, port= and pool= arguments.  Anything
// else is returned so the caller can warn about it.
func parsePositional(cfg *config.Config, remaining []string) (ignored []string, err error) {
	for _, arg := range remaining {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			ignored = append(ignored, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "host", "hosts":
			cfg.Hosts = config.ParseHostList(value)
		case "port", "ports":
			ps, err := config.ParsePortList(value)
			if err != nil {
				return nil, err
			}
			cfg.Ports = ps
		case "pool":
			cfg.PoolSize = config.NormalizePoolSize(value)
		default:
			ignored = append(ignored, arg)
		}
	}
	return ignored, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printPlan(w io.Writer, cfg *config.Config) {
	mode := "sequential"
	if cfg.PoolSize > 1 {
		mode = "concurrent"
	}
	fmt.Fprintf(w, "hosts:   %s\n", strings.Join(cfg.Hosts, ","))
	fmt.Fprintf(w, "ports:   %s\n", cfg.Ports)
	fmt.Fprintf(w, "probes:  %d\n", len(cfg.Hosts)*cfg.Ports.Len())
	fmt.Fprintf(w, "pool:    %d (%s)\n", cfg.PoolSize, mode)
	fmt.Fprintf(w, "timeout: %s\n", cfg.Timeout)
	if cfg.TunnelEnabled {
		fmt.Fprintf(w, "gateway: %s\n", util.FormatAddr(cfg.TunnelHost, cfg.TunnelPort))
	}
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `tcpsweep – TCP connect scanner v%s

Probes every host×port pair with a bounded-time TCP connect and
reports the open ones.  A pool of 1 scans one port at a time; a larger
pool probes the work list in waves of that many connections.

Usage:
  tcpsweep [options] [host=a,b] [port=22,80-90] [pool=N]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Environment:
  TCPSWEEP_HOSTS, TCPSWEEP_PORTS, TCPSWEEP_POOL, TCPSWEEP_TIMEOUT_MS,
  TCPSWEEP_TUNNEL and friends; flags take precedence.

Examples:
  tcpsweep                                    Scan 127.0.0.1, all ports
  tcpsweep host=10.0.0.5 port=1-1024 pool=200 Waves of 200 probes
  tcpsweep -H web1,web2 -p 22,80,443          Several hosts
  tcpsweep -T admin@bastion -H 10.1.0.7 -P 64 Probe from a gateway
`)
}
