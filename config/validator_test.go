package config

import (
	"strings"
	"testing"

	ncerr "tcpsweep/internal/errors"
)

// TestValidate_ErrorMessages verifies that Validate returns actionable
// error messages with hints.
func TestValidate_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantSub string // substring expected in error
	}{
		{
			name:    "no-dns hostname has hint",
			cfg:     Config{Hosts: []string{"example.com"}, NoDNS: true, PoolSize: 1, Timeout: 1},
			wantSub: "hint:",
		},
		{
			name:    "timeout has hint",
			cfg:     Config{Hosts: []string{"127.0.0.1"}, PoolSize: 1},
			wantSub: "hint:",
		},
		{
			name:    "pool names the field",
			cfg:     Config{Hosts: []string{"127.0.0.1"}, Timeout: 1},
			wantSub: "--pool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantSub)
			}
			var ce *ncerr.ConfigError
			if !ncerr.As(err, &ce) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

// TestParsePortSpec_Fuzz covers edge-case port specs.
func TestParsePortSpec_Fuzz(t *testing.T) {
	edgeCases := []string{
		"1", "65535", "1-1", "1-65535",
		"-1", "65536", "abc-def", "-", "1-", "-1",
		"0", "99999", "1-0",
	}
	for _, s := range edgeCases {
		t.Run(s, func(t *testing.T) {
			pr, err := ParsePortSpec(s)
			if err == nil {
				// Valid result: check invariants.
				if pr.Start < 1 || pr.End > 65535 || pr.Start > pr.End {
					t.Errorf("invalid range: %+v", pr)
				}
			}
		})
	}
}

// TestNormalizePoolSize_NeverBelowOne checks the pool invariant over a
// spread of hostile inputs.
func TestNormalizePoolSize_NeverBelowOne(t *testing.T) {
	inputs := []string{"", " ", "0", "-0", "-1", "-999999", "1e3", "0x10", "NaN", "999999999999999999999"}
	for _, in := range inputs {
		if got := NormalizePoolSize(in); got < 1 {
			t.Errorf("NormalizePoolSize(%q) = %d, want ≥ 1", in, got)
		}
	}
}
