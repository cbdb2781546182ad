package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// setupTestTracer installs an in-memory tracer provider and returns its recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

// findSpan returns the recorded span with the given name, or nil.
func findSpan(sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	return nil
}

// spanAttr returns the string value of a span attribute, with a found flag.
func spanAttr(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}
	return "", false
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.Equal(t, "wellfield-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, ServiceName: "test-service"}))
	router.GET("/api/v1/afes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/afes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, findSpan(sr, "GET /api/v1/afes"))
}

func TestTracingWithConfig_NamesSpanAfterRoute(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
	router.GET("/api/v1/afes/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/afes/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, findSpan(sr, "GET /api/v1/afes/:id"), "HTTP span not found")
}

func TestTracingAttributeInjector_EnrichesSpan(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
	// Simulate the JWT middleware attaching identity before the injector runs
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, "user-123")
		c.Set(JWTOrganizationIDKey, "org-456")
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/permits", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/permits", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	span := findSpan(sr, "GET /api/v1/permits")
	require.NotNil(t, span)

	for key, want := range map[string]string{
		"request_id":      "req-abc-123",
		"user_id":         "user-123",
		"organization_id": "org-456",
	} {
		got, found := spanAttr(span, key)
		assert.True(t, found, "%s attribute not found in span", key)
		assert.Equal(t, want, got)
	}
}

func TestTracingAttributeInjector_OrganizationHeaderFallback(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/wells", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wells", nil)
	req.Header.Set("X-Organization-ID", "12345678-1234-1234-1234-123456789abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	span := findSpan(sr, "GET /api/v1/wells")
	require.NotNil(t, span)
	got, found := spanAttr(span, "organization_id")
	assert.True(t, found, "organization_id attribute not found in span")
	assert.Equal(t, "12345678-1234-1234-1234-123456789abc", got)
}

func TestTracingAttributeInjector_WithNoSpan(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	router := gin.New()
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/afes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/afes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		wantCode        codes.Code
		wantDescription string
	}{
		{"bad request", http.StatusBadRequest, codes.Error, "Client Error"},
		{"unauthorized", http.StatusUnauthorized, codes.Error, "Unauthorized"},
		{"forbidden", http.StatusForbidden, codes.Error, "Forbidden"},
		{"not found", http.StatusNotFound, codes.Error, "Not Found"},
		// otelgin may set its own description on 5xx, so only the code is checked
		{"internal error", http.StatusInternalServerError, codes.Error, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)

			router := gin.New()
			router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
			router.Use(SpanErrorMarker())
			router.GET("/api/v1/afes", func(c *gin.Context) {
				c.JSON(tt.status, gin.H{"error": tt.name})
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/afes", nil))
			assert.Equal(t, tt.status, w.Code)

			span := findSpan(sr, "GET /api/v1/afes")
			require.NotNil(t, span)
			assert.Equal(t, tt.wantCode, span.Status().Code)
			if tt.wantDescription != "" {
				assert.Equal(t, tt.wantDescription, span.Status().Description)
			}
		})
	}

	t.Run("success leaves status unset", func(t *testing.T) {
		sr := setupTestTracer(t)

		router := gin.New()
		router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
		router.Use(SpanErrorMarker())
		router.GET("/api/v1/afes", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/afes", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		span := findSpan(sr, "GET /api/v1/afes")
		require.NotNil(t, span)
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})

	t.Run("does not panic without a recording span", func(t *testing.T) {
		otel.SetTracerProvider(noop.NewTracerProvider())

		router := gin.New()
		router.Use(SpanErrorMarker())
		router.GET("/api/v1/afes", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/afes", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetRequestID(t *testing.T) {
	run := func(t *testing.T, setup gin.HandlerFunc, header string) string {
		t.Helper()
		var got string
		router := gin.New()
		if setup != nil {
			router.Use(setup)
		}
		router.GET("/check", func(c *gin.Context) {
			got = getRequestID(c)
			c.Status(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/check", nil)
		if header != "" {
			req.Header.Set("X-Request-ID", header)
		}
		router.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	t.Run("prefers gin context over header", func(t *testing.T) {
		got := run(t, func(c *gin.Context) {
			c.Set("request_id", "context-request-id")
			c.Next()
		}, "header-request-id")
		assert.Equal(t, "context-request-id", got)
	})

	t.Run("falls back to header", func(t *testing.T) {
		got := run(t, nil, "header-request-id")
		assert.Equal(t, "header-request-id", got)
	})

	t.Run("truncates oversized header", func(t *testing.T) {
		got := run(t, nil, strings.Repeat("x", MaxRequestIDLength+100))
		assert.Len(t, got, MaxRequestIDLength)
	})
}

func TestTracingGetOrganizationID(t *testing.T) {
	run := func(t *testing.T, setup gin.HandlerFunc, header string) string {
		t.Helper()
		var got string
		router := gin.New()
		if setup != nil {
			router.Use(setup)
		}
		router.GET("/check", func(c *gin.Context) {
			got = getOrganizationID(c)
			c.Status(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/check", nil)
		if header != "" {
			req.Header.Set("X-Organization-ID", header)
		}
		router.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	t.Run("prefers JWT claims", func(t *testing.T) {
		got := run(t, func(c *gin.Context) {
			c.Set(JWTOrganizationIDKey, "jwt-org-id")
			c.Next()
		}, "12345678-1234-1234-1234-123456789abc")
		assert.Equal(t, "jwt-org-id", got)
	})

	t.Run("accepts UUID header for unauthenticated requests", func(t *testing.T) {
		got := run(t, nil, "12345678-1234-1234-1234-123456789abc")
		assert.Equal(t, "12345678-1234-1234-1234-123456789abc", got)
	})

	t.Run("rejects non-UUID header", func(t *testing.T) {
		got := run(t, nil, "operator-texas")
		assert.Empty(t, got)
	})
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/check", nil)
	assert.Empty(t, getUserID(c))

	c.Set(JWTUserIDKey, "jwt-user-id")
	assert.Equal(t, "jwt-user-id", getUserID(c))
}

func TestIsValidOrganizationID(t *testing.T) {
	tests := []struct {
		name           string
		organizationID string
		expected       bool
	}{
		{"lowercase UUID", "12345678-1234-1234-1234-123456789abc", true},
		{"uppercase UUID", "12345678-1234-1234-1234-123456789ABC", true},
		{"too short", "12345678-1234-1234", false},
		{"no dashes", "12345678123412341234123456789abc", false},
		{"script injection attempt", "<script>alert(1)</script>", false},
		{"embedded space", "12345678-1234 -1234-1234-123456789abc", false},
		{"empty string", "", false},
		{"oversized value", "12345678-1234-1234-1234-123456789abc" + strings.Repeat("extra", 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isValidOrganizationID(tt.organizationID))
		})
	}
}
