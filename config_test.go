package goSignin

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "zero max attempts",
			mutate:  func(c *Config) { c.RateLimit.MaxAttempts = 0 },
			wantMsg: "MaxAttempts",
		},
		{
			name:    "negative window",
			mutate:  func(c *Config) { c.RateLimit.Window = -time.Minute },
			wantMsg: "Window",
		},
		{
			name:    "zero base cooldown",
			mutate:  func(c *Config) { c.RateLimit.BaseCooldown = 0 },
			wantMsg: "BaseCooldown",
		},
		{
			name: "max cooldown below base",
			mutate: func(c *Config) {
				c.RateLimit.BaseCooldown = time.Hour
				c.RateLimit.MaxCooldown = time.Minute
			},
			wantMsg: "MaxCooldown",
		},
		{
			name:    "zero activity throttle",
			mutate:  func(c *Config) { c.Session.ActivityThrottle = 0 },
			wantMsg: "ActivityThrottle",
		},
		{
			name: "audit enabled without buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantMsg: "BufferSize",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestCloneConfigIsIndependent(t *testing.T) {
	original := DefaultConfig()
	clone := cloneConfig(original)

	clone.RateLimit.MaxAttempts = 99
	clone.Session.ActivityThrottle = time.Hour
	clone.Linking.Enabled = !original.Linking.Enabled

	if original.RateLimit.MaxAttempts == 99 {
		t.Fatal("clone mutation leaked into original RateLimit")
	}
	if original.Session.ActivityThrottle == time.Hour {
		t.Fatal("clone mutation leaked into original Session")
	}
	if original.Linking.Enabled == clone.Linking.Enabled {
		t.Fatal("clone mutation leaked into original Linking")
	}
}

func TestAuditDisabledSkipsBufferCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.Audit.BufferSize = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("buffer size is irrelevant while audit is disabled: %v", err)
	}
}
