package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamflow/pkg/trace"
	"teamflow/pkg/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceMiddlewarePropagatesHeader(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())

	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = trace.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(trace.HeaderName(), "incoming-trace")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "incoming-trace", seen)
	assert.Equal(t, "incoming-trace", w.Header().Get(trace.HeaderName()))
}

func TestTraceMiddlewareGeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, w.Header().Get(trace.HeaderName()), 32)
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"

	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id")})
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := util.GenerateJWT(42, secret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "42")
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := util.GenerateJWT(42, "other", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	r := gin.New()
	r.GET("/ok",
		func(c *gin.Context) { c.Set("user_id", 1); c.Next() },
		RequirePermission("task:read"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	r.GET("/denied",
		func(c *gin.Context) { c.Set("user_id", 1); c.Next() },
		RequirePermission("not:granted"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/denied", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
