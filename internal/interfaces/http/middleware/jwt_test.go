package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellfield/backend/internal/infrastructure/auth"
	"github.com/wellfield/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:             "test-secret-key-at-least-32-chars",
		RefreshSecret:      "test-refresh-secret-key-32-chars",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "test-issuer",
		MaxRefreshCount:    10,
	})
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		Username:       "ops.analyst",
		RoleIDs:        []uuid.UUID{uuid.New()},
		Permissions:    []string{"afe:read", "afe:submit"},
	}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

// authRequest runs a GET through JWTAuthMiddleware with the given
// Authorization header value ("" omits the header).
func authRequest(t *testing.T, jwtService *auth.JWTService, authHeader string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	if handler == nil {
		handler = func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		}
	}

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/afes", handler)

	req := httptest.NewRequest(http.MethodGet, "/afes", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newTestTokenPair(t, jwtService)

	rec := authRequest(t, jwtService, "Bearer "+pair.AccessToken, func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.OrganizationID.String(), claims.OrganizationID)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	jwtService := newTestJWTService()

	tests := []struct {
		name       string
		authHeader string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic token123"},
		{"empty bearer token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authRequest(t, jwtService, tt.authHeader, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:             "test-secret-key-at-least-32-chars",
		AccessTokenExpiry:  -1 * time.Hour, // Already expired
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "test-issuer",
	})
	pair, _ := newTestTokenPair(t, jwtService)

	rec := authRequest(t, jwtService, "Bearer "+pair.AccessToken, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_RefreshTokenUsedAsAccess(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService)

	rec := authRequest(t, jwtService, "Bearer "+pair.RefreshToken, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	jwtService := newTestJWTService()

	cfg := DefaultJWTConfig(jwtService)
	cfg.SkipPaths = append(cfg.SkipPaths, "/public")
	cfg.SkipPathPrefixes = append(cfg.SkipPathPrefixes, "/static")

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
	router.GET("/public", ok)
	router.GET("/static/assets/logo.png", ok)

	for _, path := range []string{"/public", "/static/assets/logo.png"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestJWTAuthMiddleware_DefaultSkipPaths(t *testing.T) {
	jwtService := newTestJWTService()

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))

	defaultSkipPaths := []string{
		"/health",
		"/healthz",
		"/ready",
		"/api/v1/health",
		"/api/v1/ping",
		"/api/v1/system/ping",
	}

	for _, path := range defaultSkipPaths {
		router.GET(path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	for _, path := range defaultSkipPaths {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, "path %s should not require auth", path)
		})
	}
}

func TestJWTAuthMiddleware_ContextValues(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newTestTokenPair(t, jwtService)

	rec := authRequest(t, jwtService, "Bearer "+pair.AccessToken, func(c *gin.Context) {
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, input.OrganizationID.String(), GetJWTOrganizationID(c))
		assert.Equal(t, input.Username, GetJWTUsername(c))
		assert.Equal(t, input.Permissions, GetJWTPermissions(c))

		roleIDs := GetJWTRoleIDs(c)
		require.Len(t, roleIDs, 1)
		assert.Equal(t, input.RoleIDs[0].String(), roleIDs[0])
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTContextAccessors_EmptyContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTOrganizationID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Nil(t, GetJWTRoleIDs(c))
	assert.Nil(t, GetJWTPermissions(c))

	assert.Panics(t, func() {
		MustGetJWTClaims(c)
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newTestTokenPair(t, jwtService)

	run := func(authHeader string) (*httptest.ResponseRecorder, *auth.Claims) {
		var captured *auth.Claims
		router := gin.New()
		router.Use(OptionalJWTAuthMiddleware(jwtService))
		router.GET("/afes", func(c *gin.Context) {
			captured = GetJWTClaims(c)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		req := httptest.NewRequest(http.MethodGet, "/afes", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec, captured
	}

	t.Run("no token passes through without claims", func(t *testing.T) {
		rec, claims := run("")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, claims)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		rec, claims := run("Bearer " + pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
	})

	t.Run("invalid token passes through without claims", func(t *testing.T) {
		rec, claims := run("Bearer not-a-jwt")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, claims)
	})
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	jwtService := newTestJWTService()

	called := false
	cfg := DefaultJWTConfig(jwtService)
	cfg.OnError = func(c *gin.Context, err error) {
		called = true
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"custom": "error"})
	}

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/afes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/afes", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
