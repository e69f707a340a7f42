package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tollfee/internal/http/middleware"
)

func newTestRouter(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": middleware.RequestID(c)})
	})
	r.GET("/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestLogging_AssignsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Contains(t, w.Body.String(), id)

	entries := logs.FilterMessage("request served").All()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}

func TestLogging_KeepsCallerRequestID(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestLogging_WarnsOnClientError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("request rejected").Len())
}

func TestRecovery_Returns500(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}
