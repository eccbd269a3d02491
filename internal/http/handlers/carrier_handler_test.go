// README: Handler tests over an in-memory Gin engine (no DB required).
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shipscope/internal/config"
	"shipscope/internal/http/handlers"
	"shipscope/internal/modules/aggregator"
	"shipscope/internal/modules/carrier"
	"shipscope/internal/modules/pickup"
)

func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	detector := carrier.NewDetector(carrier.DefaultCatalog())
	agg := aggregator.NewService(config.AggregatorConfig{}, detector, nil, zerolog.Nop())

	r := gin.New()
	ch := handlers.NewCarrierHandler(detector, agg, 5)
	r.GET("/v1/carriers/detect", ch.Detect)
	r.GET("/v1/carriers/probe", ch.Probe)
	r.GET("/v1/carriers/aggregate", ch.Aggregate)
	r.GET("/v1/eta", handlers.NewEtaHandler().Predict)
	r.POST("/v1/pickup/optimize", handlers.NewPickupHandler(pickup.NewService(nil)).Optimize)
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

func TestDetectEndpoint(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodGet, "/v1/carriers/detect?trackingNumber=1Z999AA10123456784", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Guesses []carrier.Guess `json:"guesses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Guesses) == 0 || resp.Guesses[0].Code != "ups" {
		t.Fatalf("expected ups as top guess, got %+v", resp.Guesses)
	}
}

func TestDetectEndpointMissingParam(t *testing.T) {
	r := buildTestRouter()
	if w := doRequest(r, http.MethodGet, "/v1/carriers/detect", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDetectEndpointLimitClamped(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodGet, "/v1/carriers/detect?trackingNumber=123456789012&limit=9999", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Guesses []carrier.Guess `json:"guesses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Guesses) > 20 {
		t.Fatalf("limit not clamped: %d guesses", len(resp.Guesses))
	}
}

func TestProbeEndpoint(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodGet, "/v1/carriers/probe?trackingNumber=RR123456785CN", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Candidates []carrier.Probe `json:"candidates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Candidates) == 0 || !resp.Candidates[0].Validated {
		t.Fatalf("expected validated top candidate, got %+v", resp.Candidates)
	}
}

func TestAggregateEndpointLocalFallback(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodGet, "/v1/carriers/aggregate?trackingNumber=1Z999AA10123456784", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp aggregator.Result
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Source != aggregator.SourceLocal {
		t.Fatalf("expected local source without aggregator config, got %q", resp.Source)
	}
	if resp.Candidates == nil {
		t.Fatalf("candidates must be present even when empty")
	}
}

func TestEtaEndpoint(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodGet, "/v1/eta?origin=memphis&destination=Berlin,+DE&carrier=UPS&seed=1Z999AA10123456784", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"estimatedDate", "confidence", "minDays", "maxDays", "estimatedDays"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("missing %q in response", key)
		}
	}

	if w2 := doRequest(r, http.MethodGet, "/v1/eta", nil); w2.Code != http.StatusBadRequest {
		t.Fatalf("missing destination: expected 400, got %d", w2.Code)
	}
}

func TestPickupOptimizeEndpoint(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodPost, "/v1/pickup/optimize", map[string]any{
		"origin":      "memphis",
		"destination": "Austin, TX",
		"carriers":    []string{"UPS", "USPS Ground Advantage"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp pickup.Result
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Recommended == nil {
		t.Fatalf("expected a recommended option")
	}
	if len(resp.Alternatives) != 1 {
		t.Fatalf("expected 1 alternative, got %d", len(resp.Alternatives))
	}

	if w2 := doRequest(r, http.MethodPost, "/v1/pickup/optimize", map[string]any{"origin": "memphis"}); w2.Code != http.StatusBadRequest {
		t.Fatalf("missing destination: expected 400, got %d", w2.Code)
	}
}
