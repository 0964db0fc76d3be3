package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/crewkit/crewkit/types"
)

// RateLimitConfig caps how often a tool may execute.
type RateLimitConfig struct {
	MaxCalls int           `json:"max_calls"`
	Window   time.Duration `json:"window"`
}

// Descriptor summarizes a registered tool for prompt construction.
type Descriptor struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Schema      types.ParameterSchema `json:"schema"`
	Cacheable   bool                  `json:"cacheable"`
}

// Registry holds instrumented tools by name, with optional per-tool rate
// limits. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]*Instrumented
	limiters map[string]*rate.Limiter
	logger   *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		tools:    make(map[string]*Instrumented),
		limiters: make(map[string]*rate.Limiter),
		logger:   logger.With(zap.String("component", "tool_registry")),
	}
}

// Register adds a tool. Registering the same name twice is an error.
func (r *Registry) Register(tool *Instrumented) error {
	return r.RegisterWithLimit(tool, nil)
}

// RegisterWithLimit adds a tool with a rate limit.
func (r *Registry) RegisterWithLimit(tool *Instrumented, limit *RateLimitConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = tool
	if limit != nil && limit.MaxCalls > 0 && limit.Window > 0 {
		r.limiters[name] = rate.NewLimiter(
			rate.Limit(float64(limit.MaxCalls)/limit.Window.Seconds()),
			limit.MaxCalls,
		)
	}

	r.logger.Info("tool registered",
		zap.String("name", name),
		zap.Bool("cacheable", tool.Cacheable()))
	return nil
}

// Unregister removes a tool.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return fmt.Errorf("tool %s not found", name)
	}
	delete(r.tools, name)
	delete(r.limiters, name)

	r.logger.Info("tool unregistered", zap.String("name", name))
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (*Instrumented, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %s not found", name)
	}
	return tool, nil
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// List returns descriptors for all registered tools.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.tools))
	for _, tool := range r.tools {
		descriptors = append(descriptors, Descriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
			Schema:      tool.Schema(),
			Cacheable:   tool.Cacheable(),
		})
	}
	return descriptors
}

// allow checks the tool's rate limit, if any.
func (r *Registry) allow(name string) bool {
	r.mu.RLock()
	limiter, ok := r.limiters[name]
	r.mu.RUnlock()
	if !ok {
		return true
	}
	return limiter.Allow()
}

// Executor dispatches tool calls against a registry.
type Executor struct {
	registry *Registry
	logger   *zap.Logger
}

// NewExecutor creates an executor over the given registry.
func NewExecutor(registry *Registry, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		registry: registry,
		logger:   logger.With(zap.String("component", "tool_executor")),
	}
}

// Execute runs all calls concurrently and returns results in call order.
func (e *Executor) Execute(ctx context.Context, calls []types.ToolCall) []types.ToolResult {
	results := make([]types.ToolResult, len(calls))

	var wg sync.WaitGroup
	for idx, call := range calls {
		wg.Add(1)
		go func(idx int, call types.ToolCall) {
			defer wg.Done()
			results[idx] = e.ExecuteOne(ctx, call)
		}(idx, call)
	}
	wg.Wait()

	return results
}

// ExecuteOne runs a single call. Missing tools and exceeded rate limits are
// reported as execution errors in the result, never as panics.
func (e *Executor) ExecuteOne(ctx context.Context, call types.ToolCall) types.ToolResult {
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	result := types.ToolResult{CallID: call.ID, Name: call.Name}

	tool, err := e.registry.Get(call.Name)
	if err != nil {
		result.Error = types.NewExecutionError(call.Name, "tool not found").WithCause(err).Error()
		e.logger.Error("tool not found", zap.String("name", call.Name))
		return result
	}

	if !e.registry.allow(call.Name) {
		result.Error = types.NewExecutionError(call.Name, "rate limit exceeded").Error()
		e.logger.Warn("rate limit exceeded", zap.String("name", call.Name))
		return result
	}

	start := time.Now()
	output, fromCache, err := tool.InvokeTraced(ctx, call.Args)
	result.Duration = time.Since(start)
	result.FromCache = fromCache

	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Output = output
	return result
}
