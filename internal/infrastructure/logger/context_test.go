package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger returns a logger whose entries can be inspected.
func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// fieldValue returns the string value of a field in the first observed entry.
func fieldValue(t *testing.T, logs *observer.ObservedLogs, key string) (string, bool) {
	t.Helper()
	entries := logs.All()
	require.NotEmpty(t, entries)
	for _, f := range entries[0].Context {
		if f.Key == key {
			return f.String, true
		}
	}
	return "", false
}

func TestWithContext_RoundTrip(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), logger)
	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_Fallback(t *testing.T) {
	t.Run("empty context returns usable no-op logger", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.NotPanics(t, func() {
			logger.Info("well status changed")
			logger.With(zap.String("well_id", "w-1")).Error("permit lookup failed")
		})
	})

	t.Run("wrong value type returns usable no-op logger", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		logger := FromContext(ctx)
		require.NotNil(t, logger)
		assert.NotPanics(t, func() { logger.Info("afe approved") })
	})
}

func TestContextEnrichment(t *testing.T) {
	logger, logs := newObservedLogger()
	ctx := context.Background()

	ctx, logger = WithRequestID(ctx, logger, "req-afe-approve-01")
	ctx, logger = WithOrganizationID(ctx, logger, "org-maverick-basin")
	ctx, logger = WithUserID(ctx, logger, "user-ops-analyst")

	assert.Equal(t, "req-afe-approve-01", GetRequestID(ctx))
	assert.Equal(t, "org-maverick-basin", GetOrganizationID(ctx))
	assert.Equal(t, "user-ops-analyst", GetUserID(ctx))

	// The enriched logger carries all three fields
	logger.Info("afe submitted")
	for key, want := range map[string]string{
		"request_id":      "req-afe-approve-01",
		"organization_id": "org-maverick-basin",
		"user_id":         "user-ops-analyst",
	} {
		got, found := fieldValue(t, logs, key)
		assert.True(t, found, "field %s missing", key)
		assert.Equal(t, want, got)
	}

	// The context carries the enriched logger, not the base one
	assert.Equal(t, logger, FromContext(ctx))
}

func TestContextEnrichment_LatestValueWins(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	ctx, _ = WithRequestID(ctx, logger, "req-first")
	ctx, _ = WithRequestID(ctx, logger, "req-second")

	assert.Equal(t, "req-second", GetRequestID(ctx))
}

func TestContextGetters_Empty(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetOrganizationID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestTraceCorrelation_NoValidSpan(t *testing.T) {
	logger := zap.NewNop()

	t.Run("background context", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetTraceID(ctx))
		assert.Empty(t, GetSpanID(ctx))
		assert.Equal(t, logger, WithTraceContext(ctx, logger))
	})

	t.Run("noop span has invalid span context", func(t *testing.T) {
		tracer := noop.NewTracerProvider().Tracer("test")
		ctx, span := tracer.Start(context.Background(), "distribute-revenue")
		defer span.End()

		require.False(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
		assert.Empty(t, GetTraceID(ctx))
		assert.Empty(t, GetSpanID(ctx))
		assert.Equal(t, logger, WithTraceContext(ctx, logger))
	})
}

func TestL_ExtractsLoggerFromContext(t *testing.T) {
	logger, logs := newObservedLogger()
	ctx := WithContext(context.Background(), logger)

	L(ctx).Info("lease statement generated")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "lease statement generated", entries[0].Message)
}

func TestWithLogger_UsesProvidedLogger(t *testing.T) {
	logger, logs := newObservedLogger()

	cl := WithLogger(context.Background(), logger)
	cl.Info("permit filed")

	require.Len(t, logs.All(), 1)
}

func TestContextLogger_InjectsContextFields(t *testing.T) {
	logger, logs := newObservedLogger()

	ctx := context.Background()
	ctx = context.WithValue(ctx, RequestIDKey, "req-division-order")
	ctx = context.WithValue(ctx, OrganizationIDKey, "org-permian")
	ctx = context.WithValue(ctx, UserIDKey, "user-landman")

	WithLogger(ctx, logger).Info("title chain verified", zap.String("tract", "Survey 12 Block A"))

	for key, want := range map[string]string{
		"request_id":      "req-division-order",
		"organization_id": "org-permian",
		"user_id":         "user-landman",
		"tract":           "Survey 12 Block A",
	} {
		got, found := fieldValue(t, logs, key)
		assert.True(t, found, "field %s missing", key)
		assert.Equal(t, want, got)
	}
}

func TestContextLogger_OmitsEmptyContextFields(t *testing.T) {
	logger, logs := newObservedLogger()

	WithLogger(context.Background(), logger).Info("outbox drained")

	entries := logs.All()
	require.Len(t, entries, 1)
	for _, f := range entries[0].Context {
		assert.NotContains(t, []string{"request_id", "organization_id", "user_id"}, f.Key)
	}
}

func TestContextLogger_With(t *testing.T) {
	logger, logs := newObservedLogger()

	cl := WithLogger(context.Background(), logger).
		With(zap.String("afe_number", "AFE-2026-00042")).
		With(zap.String("well_id", "w-eagle-ford-12h"))
	cl.Info("estimate revised")

	got, found := fieldValue(t, logs, "afe_number")
	assert.True(t, found)
	assert.Equal(t, "AFE-2026-00042", got)
	got, found = fieldValue(t, logs, "well_id")
	assert.True(t, found)
	assert.Equal(t, "w-eagle-ford-12h", got)
}

func TestContextLogger_NilLoggerDoesNotPanic(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background(), logger: nil}

	assert.NotPanics(t, func() {
		cl.Debug("debug")
		cl.Info("info")
		cl.Warn("warn")
		cl.Error("error")
	})
}

func TestContextLogger_ZapAndSugar(t *testing.T) {
	logger, logs := newObservedLogger()
	cl := WithLogger(context.Background(), logger)

	cl.Zap().Info("from zap")
	cl.Sugar().Infof("from sugar for %s", "AFE-2026-00042")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "from zap", entries[0].Message)
	assert.Equal(t, "from sugar for AFE-2026-00042", entries[1].Message)
}
