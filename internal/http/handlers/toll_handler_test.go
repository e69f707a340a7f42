// README: Handler tests for toll quote endpoints and error mapping.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollfee/internal/http/handlers"
	"tollfee/internal/modules/toll"
)

func buildTestRouter(opts toll.Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := toll.NewService(nil, nil, opts)
	h := handlers.NewTollHandler(svc)
	r := gin.New()
	r.GET("/api/tolls/schedule", h.Schedule)
	r.POST("/api/tolls/pass", h.Pass)
	r.POST("/api/tolls/day", h.Day)
	r.POST("/api/tolls/days", h.Days)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPass_Car(t *testing.T) {
	r := buildTestRouter(toll.Options{Currency: "SEK"})
	w := doRequest(r, http.MethodPost, "/api/tolls/pass", map[string]any{
		"vehicle": "car",
		"at":      "2013-02-08T07:30:00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(18), body["fee"])
	assert.Equal(t, "SEK", body["currency"])
	assert.Equal(t, false, body["toll_free_date"])
	assert.Equal(t, false, body["toll_free_vehicle"])
	assert.Equal(t, "2013-02-08T07:30:00", body["at"])
}

func TestPass_OffsetTimestamp(t *testing.T) {
	r := buildTestRouter(toll.Options{Location: time.FixedZone("CET", 60*60)})
	w := doRequest(r, http.MethodPost, "/api/tolls/pass", map[string]any{
		"vehicle": "car",
		"at":      "2013-02-08T06:30:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(18), decode(t, w)["fee"])
}

func TestPass_Errors(t *testing.T) {
	r := buildTestRouter(toll.Options{})
	tests := []struct {
		name string
		body any
	}{
		{"missing vehicle", map[string]any{"at": "2013-02-08T07:30:00"}},
		{"unknown vehicle", map[string]any{"vehicle": "bus", "at": "2013-02-08T07:30:00"}},
		{"missing timestamp", map[string]any{"vehicle": "car"}},
		{"bad timestamp", map[string]any{"vehicle": "car", "at": "half past seven"}},
		{"not json", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/tolls/pass", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestDay_Car(t *testing.T) {
	r := buildTestRouter(toll.Options{})
	w := doRequest(r, http.MethodPost, "/api/tolls/day", map[string]any{
		"vehicle": "car",
		"passes":  []string{"2013-02-08T06:00:00", "2013-02-08T07:10:00", "2013-02-08T07:20:00"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(26), body["total"])
	assert.Equal(t, float64(26), body["uncapped"])
	assert.Equal(t, false, body["capped"])

	windows, ok := body["windows"].([]any)
	require.True(t, ok)
	require.Len(t, windows, 2)
	second := windows[1].(map[string]any)
	assert.Equal(t, "2013-02-08T07:10:00", second["start"])
	assert.Equal(t, float64(18), second["fee"])
	assert.Equal(t, float64(2), second["passes"])
}

func TestDay_EmptyPasses(t *testing.T) {
	r := buildTestRouter(toll.Options{})
	w := doRequest(r, http.MethodPost, "/api/tolls/day", map[string]any{"vehicle": "car"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(0), body["total"])
	assert.Equal(t, []any{}, body["windows"])
}

func TestDay_InvalidVehicle(t *testing.T) {
	r := buildTestRouter(toll.Options{})
	w := doRequest(r, http.MethodPost, "/api/tolls/day", map[string]any{
		"vehicle": "",
		"passes":  []string{"2013-02-08T06:00:00"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDays_Batch(t *testing.T) {
	r := buildTestRouter(toll.Options{BatchConcurrency: 2})
	w := doRequest(r, http.MethodPost, "/api/tolls/days", map[string]any{
		"days": []map[string]any{
			{"vehicle": "car", "passes": []string{"2013-02-08T07:00:00", "2013-02-08T07:20:00"}},
			{"vehicle": "tractor", "passes": []string{"2013-02-08T07:00:00"}},
			{"vehicle": "car", "passes": []string{"2013-02-09T07:00:00"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	results, ok := decode(t, w)["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 3)
	assert.Equal(t, float64(18), results[0].(map[string]any)["total"])
	assert.Equal(t, "tractor", results[1].(map[string]any)["vehicle"])
	assert.Equal(t, float64(0), results[1].(map[string]any)["total"])
	assert.Equal(t, float64(0), results[2].(map[string]any)["total"])
}

func TestDays_Errors(t *testing.T) {
	r := buildTestRouter(toll.Options{MaxBatch: 1})

	w := doRequest(r, http.MethodPost, "/api/tolls/days", map[string]any{
		"days": []map[string]any{
			{"vehicle": "car"},
			{"vehicle": "car"},
		},
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = doRequest(r, http.MethodPost, "/api/tolls/days", map[string]any{
		"days": []map[string]any{{"vehicle": "zeppelin"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "day 0")

	w = doRequest(r, http.MethodPost, "/api/tolls/days", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedule(t *testing.T) {
	r := buildTestRouter(toll.Options{Currency: "SEK"})
	w := doRequest(r, http.MethodGet, "/api/tolls/schedule", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(toll.DailyCap), body["daily_cap"])
	assert.Equal(t, float64(60), body["window_minutes"])

	bands := body["bands"].([]any)
	assert.Len(t, bands, len(toll.Bands()))
	assert.Equal(t, map[string]any{"start": "06:00", "end": "06:29", "fee": float64(8)}, bands[0])

	holidays := body["holidays"].([]any)
	assert.Len(t, holidays, len(toll.Holidays()))
	assert.Equal(t, map[string]any{"start": "12-24", "end": "12-26"}, holidays[0])

	vehicles := body["vehicles"].([]any)
	assert.Len(t, vehicles, 7)
	assert.Equal(t, map[string]any{"kind": "car", "exempt": false}, vehicles[0])
}
