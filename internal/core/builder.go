package core

import (
	"tcpsweep/config"
	"tcpsweep/internal/metrics"
	"tcpsweep/internal/scan"
	"tcpsweep/internal/transport"
	"tcpsweep/tunnel"
	"tcpsweep/util"
)

// Build constructs the scan described by cfg, which must already have
// defaults applied; an invalid config is rejected with the error from
// [config.Config.Validate].  A pool size of 1 selects the sequential
// scanner; anything larger selects waves of that size.  Output goes to
// sink; m may be nil.
func Build(cfg *config.Config, logger *util.Logger, sink scan.Sink, m *metrics.Collector) (*ScanMode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialer := buildDialer(cfg, logger)
	prober := &scan.DialProber{
		Dialer:  dialer,
		Timeout: cfg.Timeout,
		Metrics: m,
	}

	return &ScanMode{
		Scanner:  buildScanner(prober, cfg.PoolSize, m),
		Dialer:   dialer,
		Hosts:    cfg.Hosts,
		Ports:    cfg.Ports,
		PoolSize: cfg.PoolSize,
		Timeout:  cfg.Timeout,
		Sink:     sink,
		Metrics:  m,
		Logger:   logger.Named("scan"),
	}, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// buildDialer creates the right transport.Dialer for the given config.
// Probes through a gateway are opened from the gateway's side.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   config.DefaultConnTimeout,
		}, logger)
	}
	return &transport.TCPDialer{Timeout: cfg.Timeout}
}

func buildScanner(p scan.Prober, pool int, m *metrics.Collector) scan.Scanner {
	if pool <= 1 {
		return &scan.Sequential{Prober: p}
	}
	return &scan.Concurrent{Prober: p, PoolSize: pool, Metrics: m}
}
