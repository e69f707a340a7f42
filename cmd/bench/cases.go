// README: Bench cases for the toll API: schedule, quotes, validation, cache and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

// check inspects a decoded JSON body and returns a failure note, or "".
type check func(body map[string]any) string

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// weekdayPasses fall on Friday 2013-02-08: 06:00 and 07:10 are separate windows, 07:20 joins the second.
var weekdayPasses = []string{"2013-02-08T06:00:00", "2013-02-08T07:10:00", "2013-02-08T07:20:00"}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		httpCase("Health", http.MethodGet, base+"/health", nil, http.StatusOK, nil),
		httpCase("Schedule: daily cap", http.MethodGet, base+"/api/tolls/schedule", nil, http.StatusOK, expectNumber("daily_cap", 60)),
		httpCase("Pass: car in morning peak", http.MethodPost, base+"/api/tolls/pass", map[string]any{
			"vehicle": "car",
			"at":      "2013-02-08T07:30:00",
		}, http.StatusOK, expectNumber("fee", 18)),
		httpCase("Pass: exempt vehicle", http.MethodPost, base+"/api/tolls/pass", map[string]any{
			"vehicle": "emergency",
			"at":      "2013-02-08T07:30:00",
		}, http.StatusOK, expectNumber("fee", 0)),
		httpCase("Day: weekday windows", http.MethodPost, base+"/api/tolls/day", map[string]any{
			"vehicle": "car",
			"passes":  weekdayPasses,
		}, http.StatusOK, expectNumber("total", 26)),
		httpCase("Day: weekend is free", http.MethodPost, base+"/api/tolls/day", map[string]any{
			"vehicle": "car",
			"passes":  []string{"2013-02-09T07:00:00", "2013-02-09T16:00:00"},
		}, http.StatusOK, expectNumber("total", 0)),
		httpCase("Day: unknown vehicle -> 400", http.MethodPost, base+"/api/tolls/day", map[string]any{
			"vehicle": "hovercraft",
			"passes":  weekdayPasses,
		}, http.StatusBadRequest, nil),
		httpCase("Days: batch", http.MethodPost, base+"/api/tolls/days", map[string]any{
			"days": []map[string]any{
				{"vehicle": "car", "passes": weekdayPasses},
				{"vehicle": "diplomat", "passes": weekdayPasses},
			},
		}, http.StatusOK, nil),
		{
			Name: "Cache: quote stored in redis",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				keys, _, err := r.redis.Scan(ctx, 0, "toll:quote:*", 100).Result()
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if len(keys) == 0 {
					return Result{Status: StatusFail, Note: "no cached quotes"}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("keys=%d", len(keys))}
			},
		},
		{
			Name: "Perf: day quote throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/tolls/day", map[string]any{
					"vehicle": "car",
					"passes":  weekdayPasses,
				})
			},
		},
	}
}

func httpCase(name, method, url string, body any, wantStatus int, chk check) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			raw, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if resp.StatusCode != wantStatus {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want %d", resp.StatusCode, wantStatus)}
			}
			if chk != nil {
				var decoded map[string]any
				if err := json.Unmarshal(raw, &decoded); err != nil {
					return Result{Status: StatusFail, Latency: latency, Note: "invalid json: " + err.Error()}
				}
				if note := chk(decoded); note != "" {
					return Result{Status: StatusFail, Latency: latency, Note: note}
				}
			}
			return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func expectNumber(field string, want float64) check {
	return func(body map[string]any) string {
		got, ok := body[field].(float64)
		if !ok {
			return fmt.Sprintf("%s missing", field)
		}
		if got != want {
			return fmt.Sprintf("%s=%v want %v", field, got, want)
		}
		return ""
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			for time.Now().Before(end) && gctx.Err() == nil {
				req, _ := http.NewRequestWithContext(gctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}
