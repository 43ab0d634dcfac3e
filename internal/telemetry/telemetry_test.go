package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracerUsesGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	_, span := Tracer("combat").Start(context.Background(), "skill.cast")
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "skill.cast", ended[0].Name())
	assert.Equal(t, "barquest/combat", ended[0].InstrumentationScope().Name)
}

func TestDisable(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	Disable()
	_, span := Tracer("game").Start(context.Background(), "dungeon.enter")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.False(t, span.IsRecording())
}

func TestNoopTracer(t *testing.T) {
	_, span := NoopTracer().Start(context.Background(), "profile.save")
	defer span.End()
	assert.False(t, span.IsRecording())
}

func TestSetup(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Setup(context.Background(), Options{Endpoint: "localhost:4318", Insecure: true, SampleRatio: 0.5})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.NoError(t, shutdown(context.Background()))
}
