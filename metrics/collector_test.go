package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

func TestCollector_ObserveExecution(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	collector, err := NewCollector("crewkit", reg, nil)
	require.NoError(t, err)

	collector.ObserveExecution("doubler", 10*time.Millisecond, nil)
	collector.ObserveExecution("doubler", 10*time.Millisecond, errors.New("boom"))
	collector.ObserveCacheHit("doubler")

	assert.Equal(t, 1.0, testutil.ToFloat64(
		collector.invocationsTotal.WithLabelValues("doubler", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		collector.invocationsTotal.WithLabelValues("doubler", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		collector.cacheHitsTotal.WithLabelValues("doubler")))
}

func TestCollector_DoubleRegistrationFails(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewCollector("crewkit", reg, nil)
	require.NoError(t, err)

	_, err = NewCollector("crewkit", reg, nil)
	assert.Error(t, err)
}

// echoTool is a minimal tool for exercising the observer wiring end to end.
type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "echoes input" }
func (echoTool) Cacheable() bool     { return true }

func (echoTool) Schema() types.ParameterSchema {
	return types.NewSchema().Add("message", types.StringParam("text to echo", true))
}

func (echoTool) Execute(_ context.Context, args types.Args) (string, error) {
	return args["message"].(string), nil
}

func TestCollector_WiredAsObserver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	collector, err := NewCollector("crewkit", reg, nil)
	require.NoError(t, err)

	tool := tools.NewInstrumented(echoTool{}, tools.WithObserver(collector))

	_, err = tool.Invoke(ctx, types.Args{"message": "hi"})
	require.NoError(t, err)
	_, err = tool.Invoke(ctx, types.Args{"message": "hi"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		collector.invocationsTotal.WithLabelValues("echo", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		collector.cacheHitsTotal.WithLabelValues("echo")))
}
