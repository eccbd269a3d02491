// README: Smoke test cases; HTTP, DB, Redis and performance checks against a running instance.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
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

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured; aggregator cache disabled"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: health reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				resp, err := r.httpc.Get(base + "/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},

		// Carrier identification
		jsonCase("Carrier: detect UPS 1Z", http.MethodGet,
			base+"/v1/carriers/detect?trackingNumber=1Z999AA10123456784", nil, http.StatusOK,
			func(body map[string]any) string {
				guesses, _ := body["guesses"].([]any)
				if len(guesses) == 0 {
					return "no guesses"
				}
				top, _ := guesses[0].(map[string]any)
				if top["code"] != "ups" {
					return fmt.Sprintf("top code=%v", top["code"])
				}
				return ""
			}),
		jsonCase("Carrier: detect missing param -> 400", http.MethodGet,
			base+"/v1/carriers/detect", nil, http.StatusBadRequest, nil),
		jsonCase("Carrier: probe S10 validated", http.MethodGet,
			base+"/v1/carriers/probe?trackingNumber=RR123456785CN", nil, http.StatusOK,
			func(body map[string]any) string {
				candidates, _ := body["candidates"].([]any)
				if len(candidates) == 0 {
					return "no candidates"
				}
				top, _ := candidates[0].(map[string]any)
				if top["validated"] != true {
					return "top candidate not validated"
				}
				return ""
			}),
		jsonCase("Carrier: aggregate reports a source", http.MethodGet,
			base+"/v1/carriers/aggregate?trackingNumber=1Z999AA10123456784", nil, http.StatusOK,
			func(body map[string]any) string {
				src, _ := body["source"].(string)
				if src != "aggregator" && src != "local" {
					return fmt.Sprintf("source=%q", src)
				}
				return ""
			}),

		// ETA engine
		{
			Name: "ETA: deterministic for same inputs",
			Run: func(ctx context.Context, r *Runner) Result {
				url := base + "/v1/eta?origin=memphis&destination=Berlin,+DE&carrier=UPS&seed=1Z999AA10123456784"
				first, res := r.getJSON(ctx, url)
				if res != "" {
					return Result{Status: "FAIL", Note: res}
				}
				second, res := r.getJSON(ctx, url)
				if res != "" {
					return Result{Status: "FAIL", Note: res}
				}
				if first["estimatedDate"] != second["estimatedDate"] || first["estimatedDays"] != second["estimatedDays"] {
					return Result{Status: "FAIL", Note: "estimates differ between calls"}
				}
				return Result{Status: "PASS"}
			},
		},
		jsonCase("ETA: missing destination -> 400", http.MethodGet, base+"/v1/eta", nil, http.StatusBadRequest, nil),

		// Pickup optimization
		jsonCase("Pickup: optimize ranks carriers", http.MethodPost,
			base+"/v1/pickup/optimize", map[string]any{
				"origin":      "memphis",
				"destination": "Austin, TX",
				"carriers":    []string{"UPS", "USPS Ground Advantage", "FedEx"},
			}, http.StatusOK,
			func(body map[string]any) string {
				if body["recommended"] == nil {
					return "no recommended option"
				}
				alts, _ := body["alternatives"].([]any)
				if len(alts) != 2 {
					return fmt.Sprintf("alternatives=%d", len(alts))
				}
				return ""
			}),
		jsonCase("Pickup: missing destination -> 400", http.MethodPost,
			base+"/v1/pickup/optimize", map[string]any{"origin": "memphis"}, http.StatusBadRequest, nil),

		// Shipment lifecycle
		{
			Name: "Shipment: create, advance to delivered",
			Run:  shipmentLifecycle(base),
		},
		{
			Name: "Concurrency: parallel advance single-steps",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentAdvance(ctx, r, base)
			},
		},

		// Performance
		{
			Name: "Perf: detect throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, http.MethodGet,
					base+"/v1/carriers/detect?trackingNumber=1Z999AA10123456784", nil)
			},
		},
	}
}

func jsonCase(name, method, url string, body any, wantStatus int, validate func(map[string]any) string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			raw, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if resp.StatusCode != wantStatus {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d want=%d", resp.StatusCode, wantStatus)}
			}
			if validate != nil {
				var parsed map[string]any
				if err := json.Unmarshal(raw, &parsed); err != nil {
					return Result{Status: "FAIL", Latency: latency, Note: "invalid json body"}
				}
				if note := validate(parsed); note != "" {
					return Result{Status: "FAIL", Latency: latency, Note: note}
				}
			}
			return Result{Status: "PASS", Latency: latency}
		},
	}
}

func (r *Runner) getJSON(ctx context.Context, url string) (map[string]any, string) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, err.Error()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Sprintf("status=%d", resp.StatusCode)
	}
	var parsed map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "invalid json body"
	}
	return parsed, ""
}

func (r *Runner) postJSON(ctx context.Context, url string, body any) (int, map[string]any, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	var parsed map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp.StatusCode, parsed, nil
}

func shipmentLifecycle(base string) func(ctx context.Context, r *Runner) Result {
	return func(ctx context.Context, r *Runner) Result {
		status, created, err := r.postJSON(ctx, base+"/v1/shipments", map[string]any{
			"trackingNumber": "1Z999AA10123456784",
			"origin":         "memphis",
			"destination":    "Berlin, DE",
		})
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		if status != http.StatusCreated {
			return Result{Status: "FAIL", Note: fmt.Sprintf("create status=%d", status)}
		}
		id, _ := created["id"].(string)
		if id == "" {
			return Result{Status: "FAIL", Note: "create returned no id"}
		}

		want := []string{"IN_TRANSIT", "OUT_FOR_DELIVERY", "DELIVERED"}
		for _, expected := range want {
			status, body, err := r.postJSON(ctx, base+"/v1/shipments/"+id+"/advance", nil)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status != http.StatusOK || body["status"] != expected {
				return Result{Status: "FAIL", Note: fmt.Sprintf("advance: status=%d got=%v want=%s", status, body["status"], expected)}
			}
		}

		status, _, err = r.postJSON(ctx, base+"/v1/shipments/"+id+"/advance", nil)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		if status != http.StatusConflict {
			return Result{Status: "FAIL", Note: fmt.Sprintf("advance past delivered: status=%d want=409", status)}
		}
		return Result{Status: "PASS"}
	}
}

func concurrentAdvance(ctx context.Context, r *Runner, base string) Result {
	status, created, err := r.postJSON(ctx, base+"/v1/shipments", map[string]any{
		"trackingNumber": "RR123456785CN",
		"origin":         "leipzig",
		"destination":    "Osaka, JP",
	})
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if status != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("create status=%d", status)}
	}
	id, _ := created["id"].(string)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succ := 0
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _, err := r.postJSON(ctx, base+"/v1/shipments/"+id+"/advance", nil)
			if err != nil {
				return
			}
			mu.Lock()
			if status >= 200 && status < 300 {
				succ++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// The lifecycle has exactly three forward steps; anything more means the
	// versioned update let a stale writer through.
	if succ > 3 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("success=%d", succ)}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("success=%d", succ)}
}

func perfLoad(ctx context.Context, r *Runner, method, url string, payload any) Result {
	var b []byte
	if payload != nil {
		b, _ = json.Marshal(payload)
	}
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				var reader io.Reader
				if b != nil {
					reader = bytes.NewReader(b)
				}
				req, _ := http.NewRequestWithContext(ctx, method, url, reader)
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
