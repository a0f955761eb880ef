package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chensid/grunt-demo/internal/adapters/telemetry"
	"github.com/chensid/grunt-demo/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

// The tests below swap the global tracer provider and must not run in parallel.

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	sr := setupRecorder(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	renderer.EXPECT().OnPlanEmit([]string{"clean", "templates"}, "build").Times(2)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)

	tracer.EmitPlan(t.Context(), []string{"clean", "templates"}, "build")
	assert.Empty(t, sr.Ended())

	ctx, span := otel.Tracer("test").Start(t.Context(), "root")
	tracer.EmitPlan(ctx, []string{"clean", "templates"}, "build")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelTracer_StartStreamsOutputToRenderer(t *testing.T) {
	setupRecorder(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	_, span := tracer.Start(t.Context(), "lint-styles")

	_, ok := span.(*telemetry.OTelSpan)
	require.True(t, ok)

	renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("src/main.scss ok\n")).Times(1)

	n, err := span.Write([]byte("src/main.scss ok\n"))
	require.NoError(t, err)
	assert.Equal(t, 17, n)

	span.End()
}

func TestOTelTracer_SpanWithoutRendererRecordsEvents(t *testing.T) {
	sr := setupRecorder(t)

	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(t.Context(), "copy")
	_, err := span.Write([]byte("copied 3 files"))
	require.NoError(t, err)
	span.SetAttribute("files", 3)
	span.SetAttribute("cached", true)
	span.SetAttribute("task", "copy")
	span.SetAttribute("groups", []string{"a.js"})
	span.SetAttribute("other", 1.5)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "copy", spans[0].Name())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "log", spans[0].Events()[0].Name)
	assert.Len(t, spans[0].Attributes(), 5)
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr := setupRecorder(t)

	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(t.Context(), "minify-js")
	span.RecordError(errors.New("unexpected token"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "unexpected token", spans[0].Status().Description)
}

func TestSetup_ReportsSpansToRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "scripts", gomock.Any()),
		renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("done\n")),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil),
	)

	tracer, shutdown := telemetry.Setup(renderer)
	t.Cleanup(func() { otel.SetTracerProvider(sdktrace.NewTracerProvider()) })

	_, span := tracer.Start(t.Context(), "scripts")
	_, err := span.Write([]byte("done\n"))
	require.NoError(t, err)
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
