package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	httptransport "tollfee/internal/http"
	"tollfee/internal/modules/toll"
)

func TestRunner_AgainstService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptransport.NewServer(httptransport.ServerDeps{Toll: toll.NewService(nil, nil, toll.Options{})})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	r := NewRunner(Config{
		BaseURL:     ts.URL,
		Timeout:     10 * time.Second,
		Concurrency: 2,
		Duration:    100 * time.Millisecond,
	})
	results := r.RunAll(context.Background())

	assert.Len(t, results, len(r.cases()))
	for _, res := range results {
		if res.Name == "Cache: quote stored in redis" {
			assert.Equal(t, StatusSkip, res.Status)
			continue
		}
		assert.Equal(t, StatusPass, res.Status, "%s: %s", res.Name, res.Note)
	}
}

func TestExpectNumber(t *testing.T) {
	chk := expectNumber("total", 26)
	assert.Empty(t, chk(map[string]any{"total": float64(26)}))
	assert.NotEmpty(t, chk(map[string]any{"total": float64(18)}))
	assert.NotEmpty(t, chk(map[string]any{}))
}

func TestHTTPCase_StatusMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()

	r := NewRunner(Config{BaseURL: ts.URL})
	res := httpCase("teapot", http.MethodGet, ts.URL, nil, http.StatusOK, nil).Run(context.Background(), r)
	assert.Equal(t, StatusFail, res.Status)
}
