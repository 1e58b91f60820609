package team

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

func TestRunTask_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	o := newTestOrchestrator(t,
		[]TeamMember{member("A", "a", 1), member("B", "b", 2), member("C", "c", 3)},
		[]provider.Provider{
			okProvider("a", "alpha"),
			okProvider("b", "beta"),
			&fakeProvider{id: "c", err: errors.New("offline")},
			okProvider("synth", "merged"),
		},
		WithTracer(tp.Tracer("test")),
	)

	result, err := o.RunTask(context.Background(), codeReviewTask())
	require.NoError(t, err)

	counts := map[string]int{}
	var root sdktrace.ReadOnlySpan
	failedInvokes := 0
	for _, s := range recorder.Ended() {
		counts[s.Name()]++
		if s.Name() == "aiteam.run_task" {
			root = s
		}
		if s.Name() == "aiteam.invoke_member" && s.Status().Code == codes.Error {
			failedInvokes++
		}
	}

	assert.Equal(t, 1, counts["aiteam.run_task"])
	assert.Equal(t, 3, counts["aiteam.invoke_member"])
	assert.Equal(t, 1, counts["aiteam.synthesize"])
	assert.Equal(t, 1, failedInvokes)

	require.NotNil(t, root)
	attrs := map[string]string{}
	for _, kv := range root.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, result.RunID, attrs["aiteam.run_id"])
	assert.Equal(t, "code-review", attrs["aiteam.kind"])
	assert.Equal(t, "parallel", attrs["aiteam.strategy"])
	assert.Equal(t, "3", attrs["aiteam.members"])
}

func TestRunTask_FailedSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	o := newTestOrchestrator(t, []TeamMember{member("A", "a", 1)}, []provider.Provider{provider.Stub("a")},
		WithTracer(tp.Tracer("test")))

	_, err := o.RunTask(context.Background(), codeReviewTask())
	require.Error(t, err)

	for _, s := range recorder.Ended() {
		if s.Name() == "aiteam.run_task" {
			assert.Equal(t, codes.Error, s.Status().Code)
			assert.NotEmpty(t, s.Events(), "error recorded as event")
		}
	}
}
