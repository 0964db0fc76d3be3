package tools

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/types"
)

// DefaultCacheTTL is the result cache window applied when no TTL is
// configured on the tool.
const DefaultCacheTTL = time.Hour

// Observer receives every invocation outcome, for process-level collectors
// such as the prometheus bridge in the metrics package.
type Observer interface {
	ObserveExecution(tool string, d time.Duration, err error)
	ObserveCacheHit(tool string)
}

// Instrumented wraps a Tool with argument validation, result caching and
// execution metrics so tool implementations only carry domain logic.
//
// An invocation proceeds: validate, consult the cache (cacheable tools
// only), execute with wall-clock timing, store and record. Validation
// failures never reach the cache or the metrics; cache hits bump only the
// hit counter, never execution counters. The wrapper adds no retries and no
// timeout of its own; cancellation errors from the wrapped tool surface as
// execution errors.
type Instrumented struct {
	tool     types.Tool
	store    Store
	ttl      time.Duration
	metrics  Metrics
	observer Observer
	logger   *zap.Logger
}

// Option configures an Instrumented wrapper.
type Option func(*Instrumented)

// WithStore sets the result cache. Pass a shared store to share cached
// results across tools or processes; by default each cacheable tool gets a
// private in-memory store.
func WithStore(store Store) Option {
	return func(i *Instrumented) { i.store = store }
}

// WithTTL sets the per-tool cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(i *Instrumented) { i.ttl = ttl }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Instrumented) { i.logger = logger }
}

// WithObserver registers an invocation observer.
func WithObserver(observer Observer) Option {
	return func(i *Instrumented) { i.observer = observer }
}

// NewInstrumented wraps a tool. Cacheable tools receive a private
// MemoryStore unless WithStore provides one.
func NewInstrumented(tool types.Tool, opts ...Option) *Instrumented {
	i := &Instrumented{
		tool:   tool,
		ttl:    DefaultCacheTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.store == nil && tool.Cacheable() {
		i.store = NewMemoryStore(DefaultMemoryStoreConfig(), i.logger)
	}
	i.logger = i.logger.With(zap.String("tool", tool.Name()))
	return i
}

// Name returns the wrapped tool's name.
func (i *Instrumented) Name() string { return i.tool.Name() }

// Description returns the wrapped tool's description.
func (i *Instrumented) Description() string { return i.tool.Description() }

// Schema returns the wrapped tool's parameter schema.
func (i *Instrumented) Schema() types.ParameterSchema { return i.tool.Schema() }

// Cacheable reports whether results are cached.
func (i *Instrumented) Cacheable() bool { return i.tool.Cacheable() && i.store != nil }

// Invoke validates args, consults the cache and executes the tool.
func (i *Instrumented) Invoke(ctx context.Context, args types.Args) (string, error) {
	output, _, err := i.invoke(ctx, args, i.ttl)
	return output, err
}

// InvokeWithTTL is Invoke with a per-call cache TTL override.
func (i *Instrumented) InvokeWithTTL(ctx context.Context, args types.Args, ttl time.Duration) (string, error) {
	output, _, err := i.invoke(ctx, args, ttl)
	return output, err
}

// InvokeTraced is Invoke but additionally reports whether the result was
// served from cache.
func (i *Instrumented) InvokeTraced(ctx context.Context, args types.Args) (string, bool, error) {
	return i.invoke(ctx, args, i.ttl)
}

func (i *Instrumented) invoke(ctx context.Context, args types.Args, ttl time.Duration) (string, bool, error) {
	validated, err := ValidateArgs(i.tool.Name(), i.tool.Schema(), args)
	if err != nil {
		i.logger.Debug("argument validation failed", zap.Error(err))
		return "", false, err
	}

	var key string
	if i.Cacheable() {
		key = CacheKey(i.tool.Name(), validated)
		if value, ok := i.store.Get(ctx, key); ok {
			i.metrics.RecordHit()
			if i.observer != nil {
				i.observer.ObserveCacheHit(i.tool.Name())
			}
			i.logger.Debug("cache hit", zap.String("key", key))
			return value, true, nil
		}
	}

	start := time.Now()
	output, err := i.tool.Execute(ctx, validated)
	duration := time.Since(start)

	if err != nil {
		if _, ok := err.(*types.ToolError); !ok {
			err = types.NewExecutionError(i.tool.Name(), "tool execution failed").WithCause(err)
		}
		i.metrics.Record(duration, false)
		if i.observer != nil {
			i.observer.ObserveExecution(i.tool.Name(), duration, err)
		}
		i.logger.Error("tool execution failed",
			zap.Duration("duration", duration),
			zap.Error(err))
		return "", false, err
	}

	if i.Cacheable() {
		i.store.Set(ctx, key, output, ttl)
		i.logger.Debug("cached result",
			zap.String("key", key),
			zap.Duration("ttl", ttl))
	}

	i.metrics.Record(duration, true)
	if i.observer != nil {
		i.observer.ObserveExecution(i.tool.Name(), duration, nil)
	}
	i.logger.Debug("tool executed", zap.Duration("duration", duration))
	return output, false, nil
}

// Metrics returns a snapshot of the tool's execution counters.
func (i *Instrumented) Metrics() MetricsSnapshot {
	return i.metrics.Snapshot()
}

// ResetMetrics zeroes the tool's execution counters.
func (i *Instrumented) ResetMetrics() {
	i.metrics.Reset()
}

// ClearCache drops all cached results for this tool's store.
func (i *Instrumented) ClearCache(ctx context.Context) {
	if i.store != nil {
		i.store.Clear(ctx)
	}
}
