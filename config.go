package goSignin

import (
	"errors"
	"time"
)

// Config defines a public type used by goSignin APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	RateLimit RateLimitConfig
	Session   SessionConfig
	Linking   LinkingConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by goSignin APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	MaxAttempts         int
	Window              time.Duration
	BaseCooldown        time.Duration
	MaxCooldown         time.Duration
	ProgressiveCooldown bool
	RedisPrefix         string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goSignin APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	ActivityThrottle time.Duration
}

/*
====================================
LINKING CONFIG
====================================
*/

// LinkingConfig defines a public type used by goSignin APIs.
//
// LinkingConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LinkingConfig struct {
	Enabled bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goSignin APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSignin APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		RateLimit: RateLimitConfig{
			MaxAttempts:         5,
			Window:              15 * time.Minute,
			BaseCooldown:        30 * time.Minute,
			MaxCooldown:         24 * time.Hour,
			ProgressiveCooldown: true,
			RedisPrefix:         "sgn",
		},
		Session: SessionConfig{
			ActivityThrottle: 30 * time.Second,
		},
		Linking: LinkingConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// No reference types in any section; value copy is a deep copy.
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.RateLimit.MaxAttempts <= 0 {
		return errors.New("RateLimit MaxAttempts must be > 0")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RateLimit Window must be > 0")
	}
	if c.RateLimit.BaseCooldown <= 0 {
		return errors.New("RateLimit BaseCooldown must be > 0")
	}
	if c.RateLimit.MaxCooldown < c.RateLimit.BaseCooldown {
		return errors.New("RateLimit MaxCooldown must be >= BaseCooldown")
	}
	if c.Session.ActivityThrottle <= 0 {
		return errors.New("Session ActivityThrottle must be > 0")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	return nil
}
