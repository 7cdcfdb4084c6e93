package cache

import (
	"fmt"
	"time"

	"github.com/jonwraymond/memocache/observe"
)

// Option configures a Cache at construction.
type Option func(*config)

type config struct {
	policy   Policy
	keyer    Keyer
	clock    Clock
	meta     observe.Meta
	observer observe.Observer
	logger   observe.Logger
	metrics  observe.Metrics
	tracer   observe.Tracer
}

func defaultConfig() config {
	return config{
		keyer: NewDefaultKeyer(),
		clock: systemClock{},
		meta:  observe.Meta{Name: "memo"},
	}
}

// WithMaxEntries bounds the cache to n entries, evicting the least
// recently used beyond that. Without it the cache is unbounded.
// n == 0 retains nothing; n < 0 makes New fail.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		c.policy.MaxEntries = n
		c.policy.Bounded = true
	}
}

// WithTTL expires entries d after they were stored.
// Zero disables expiry; a negative d makes New fail.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		c.policy.TTL = d
	}
}

// WithPolicy replaces the whole retention policy.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithKeyer replaces the default structural key derivation.
func WithKeyer(k Keyer) Option {
	return func(c *config) {
		c.keyer = k
	}
}

// WithKeyFunc is WithKeyer for a plain function.
func WithKeyFunc(fn func(args ...any) (string, error)) Option {
	return func(c *config) {
		if fn == nil {
			c.keyer = nil
			return
		}
		c.keyer = KeyerFunc(fn)
	}
}

// WithClock sets the time source used for TTL bookkeeping.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithName names the cache in logs, metrics, and spans.
func WithName(namespace, name string) Option {
	return func(c *config) {
		c.meta.Namespace = namespace
		c.meta.Name = name
	}
}

// WithVersion tags computation spans with the version of the wrapped function.
func WithVersion(version string) Option {
	return func(c *config) {
		c.meta.Version = version
	}
}

// WithObserver takes tracer, meter, and logger from obs.
// WithLogger, WithMetrics, and WithTracer override the matching piece.
func WithObserver(obs observe.Observer) Option {
	return func(c *config) {
		c.observer = obs
	}
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m observe.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for computation spans.
func WithTracer(t observe.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

func (c *config) validate() error {
	if err := c.policy.Validate(); err != nil {
		return err
	}
	if c.keyer == nil {
		return fmt.Errorf("%w: keyer is nil", ErrInvalidConfig)
	}
	if c.clock == nil {
		return fmt.Errorf("%w: clock is nil", ErrInvalidConfig)
	}
	return nil
}

// middleware assembles the telemetry pipeline. Unset pieces are no-ops.
func (c *config) middleware() (*observe.Middleware, error) {
	tracer, metrics, logger := c.tracer, c.metrics, c.logger

	if c.observer != nil {
		if tracer == nil {
			tracer = observe.NewTracer(c.observer.Tracer())
		}
		if metrics == nil {
			m, err := observe.NewMetrics(c.observer.Meter())
			if err != nil {
				return nil, fmt.Errorf("cache: create metrics: %w", err)
			}
			metrics = m
		}
		if logger == nil {
			logger = c.observer.Logger()
		}
	}

	return observe.NewMiddleware(tracer, metrics, logger), nil
}
