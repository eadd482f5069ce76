package goSignin

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSignin/internal/rate"
	"github.com/MrEthical07/goSignin/session"
)

// Builder defines a public type used by goSignin APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	backend  AuthBackend
	profiles ProfileStore
	confirm  ConfirmationPort
	prefs    session.PreferenceStore
	status   StatusReporter

	clock     session.Clock
	scheduler session.Scheduler
	activity  session.ActivitySource

	auditSink AuditSink
	logger    Logger

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBackend describes the withbackend operation and its observable behavior.
//
// WithBackend may return an error when input validation, dependency calls, or security checks fail.
// WithBackend does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBackend(backend AuthBackend) *Builder {
	b.backend = backend
	return b
}

// WithProfileStore describes the withprofilestore operation and its observable behavior.
//
// WithProfileStore may return an error when input validation, dependency calls, or security checks fail.
// WithProfileStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithProfileStore(store ProfileStore) *Builder {
	b.profiles = store
	return b
}

// WithConfirmation describes the withconfirmation operation and its observable behavior.
//
// WithConfirmation may return an error when input validation, dependency calls, or security checks fail.
// WithConfirmation does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfirmation(port ConfirmationPort) *Builder {
	b.confirm = port
	return b
}

// WithPreferences describes the withpreferences operation and its observable behavior.
//
// WithPreferences may return an error when input validation, dependency calls, or security checks fail.
// WithPreferences does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPreferences(store session.PreferenceStore) *Builder {
	b.prefs = store
	return b
}

// WithStatusReporter describes the withstatusreporter operation and its observable behavior.
//
// WithStatusReporter may return an error when input validation, dependency calls, or security checks fail.
// WithStatusReporter does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStatusReporter(reporter StatusReporter) *Builder {
	b.status = reporter
	return b
}

// WithClock describes the withclock operation and its observable behavior.
//
// WithClock may return an error when input validation, dependency calls, or security checks fail.
// WithClock does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithClock(clock session.Clock) *Builder {
	b.clock = clock
	return b
}

// WithScheduler describes the withscheduler operation and its observable behavior.
//
// WithScheduler may return an error when input validation, dependency calls, or security checks fail.
// WithScheduler does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithScheduler(scheduler session.Scheduler) *Builder {
	b.scheduler = scheduler
	return b
}

// WithActivitySource describes the withactivitysource operation and its observable behavior.
//
// WithActivitySource may return an error when input validation, dependency calls, or security checks fail.
// WithActivitySource does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithActivitySource(source session.ActivitySource) *Builder {
	b.activity = source
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger may return an error when input validation, dependency calls, or security checks fail.
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithLinkingEnabled describes the withlinkingenabled operation and its observable behavior.
//
// WithLinkingEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithLinkingEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLinkingEnabled(enabled bool) *Builder {
	b.config.Linking.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.backend == nil {
		return nil, errors.New("auth backend required")
	}

	if cfg.Linking.Enabled && b.confirm == nil {
		return nil, errors.New("Linking requires a confirmation port")
	}

	logger := b.logger
	if logger == nil {
		logger = defaultLogger()
	}

	status := b.status
	if status == nil {
		status = noopStatusReporter{}
	}

	prefs := b.prefs
	if prefs == nil {
		prefs = session.NewMemoryPreferenceStore()
	}

	clock := b.clock
	if clock == nil {
		clock = session.SystemClock{}
	}

	scheduler := b.scheduler
	if scheduler == nil {
		scheduler = session.TimerScheduler{}
	}

	engine := &Engine{
		config:   cfg,
		backend:  b.backend,
		profiles: b.profiles,
		confirm:  b.confirm,
		status:   status,
		logger:   logger,
		clock:    clock,
	}

	// -------- RATE LIMITER --------
	var store rate.AttemptStore
	if b.redis != nil {
		store = rate.NewRedisStore(b.redis, cfg.RateLimit.RedisPrefix, logger.Warn)
	} else {
		store = rate.NewMemoryStore()
	}
	engine.limiter = rate.New(store, rate.Config{
		MaxAttempts:         cfg.RateLimit.MaxAttempts,
		Window:              cfg.RateLimit.Window,
		BaseCooldown:        cfg.RateLimit.BaseCooldown,
		MaxCooldown:         cfg.RateLimit.MaxCooldown,
		ProgressiveCooldown: cfg.RateLimit.ProgressiveCooldown,
	}, clock.Now)

	// -------- SESSION POLICY --------
	engine.policy = session.NewPolicy(session.PolicyConfig{
		Backend:          b.backend,
		Preferences:      prefs,
		Clock:            clock,
		Scheduler:        scheduler,
		Activity:         b.activity,
		ActivityThrottle: cfg.Session.ActivityThrottle,
		Warn:             logger.Warn,
		OnAutoSignOut: func() {
			engine.metricInc(MetricAutoSignOut)
			engine.emitAudit(context.Background(), auditEventAutoSignOut, true, "", "", "", "", nil, nil)
		},
	})

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.flows = newFlowService(engine)

	b.built = true

	return engine, nil
}
