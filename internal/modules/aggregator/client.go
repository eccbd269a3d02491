// README: HTTP client for the external tracking aggregator service.
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shipscope/internal/modules/carrier"
	"shipscope/internal/types"
)

// httpClient is shared by all aggregator requests; the timeout guards against
// stalled connections while context cancellation is still honoured via
// NewRequestWithContext.
var httpClient = &http.Client{Timeout: 15 * time.Second}

// remoteCandidate is the loosely-typed shape the aggregator returns. Every
// field is optional; normalization fills the gaps in one place.
type remoteCandidate struct {
	Code           *string  `json:"code"`
	Name           *string  `json:"name"`
	Score          *int     `json:"score"`
	Probability    *float64 `json:"probability"`
	Validated      *bool    `json:"validated"`
	MatchedPattern *string  `json:"matchedPattern"`
	Description    *string  `json:"description"`
}

type remoteResponse struct {
	Candidates []remoteCandidate `json:"candidates"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type client struct {
	baseURL string
	apiKey  string
}

func newClient(baseURL, apiKey string) *client {
	return &client{baseURL: baseURL, apiKey: apiKey}
}

// identify calls the remote aggregator and normalizes its response. Any
// transport, status or parse failure surfaces as an error for the service
// layer to swallow into the local fallback.
func (c *client) identify(ctx context.Context, trackingNumber string, limit int, carrierHint string) ([]carrier.Probe, error) {
	q := url.Values{}
	q.Set("trackingNumber", trackingNumber)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if carrierHint != "" {
		q.Set("carrier", carrierHint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/identify?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("aggregator: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aggregator: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("aggregator: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("aggregator: read response: %w", err)
	}

	var rr remoteResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("aggregator: unmarshal response: %w", err)
	}
	if rr.Error != nil {
		return nil, fmt.Errorf("aggregator: api error: %s", rr.Error.Message)
	}

	probes := make([]carrier.Probe, 0, len(rr.Candidates))
	for _, rc := range rr.Candidates {
		probes = append(probes, normalizeCandidate(rc))
	}
	return probes, nil
}

const (
	defaultProbability = 0.6
	// Remote scores are back-derived from probability when absent.
	scorePerProbability = 1000
)

// normalizeCandidate fills defaults for the aggregator's partial shape.
// Confidence is always "medium": the engine cannot corroborate an external
// source's confidence claim.
func normalizeCandidate(rc remoteCandidate) carrier.Probe {
	p := carrier.Probe{}
	p.Code = stringOr(rc.Code, "unknown")
	p.Name = stringOr(rc.Name, "unknown")
	p.Confidence = types.ConfidenceMedium

	prob := defaultProbability
	if rc.Probability != nil {
		prob = *rc.Probability
	}
	if prob < 0 {
		prob = 0
	}
	if prob > 1 {
		prob = 1
	}
	p.Probability = prob

	if rc.Score != nil {
		p.Score = *rc.Score
	} else {
		p.Score = int(prob * scorePerProbability)
	}
	if rc.Validated != nil {
		p.Validated = *rc.Validated
	}
	p.MatchedPattern = stringOr(rc.MatchedPattern, "aggregator")
	p.Description = stringOr(rc.Description, "reported by external aggregator")
	return p
}

func stringOr(v *string, def string) string {
	if v != nil && *v != "" {
		return *v
	}
	return def
}
