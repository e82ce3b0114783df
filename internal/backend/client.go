// Package backend talks to the Solinvestti brokerage API: imported generator
// records are pushed upstream in batches once they are persisted locally.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/config"
)

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type batchInsertRequest struct {
	Generators []generatorPayload `json:"generators"`
}

type batchInsertResult struct {
	Inserted int `json:"inserted"`
}

type generatorPayload struct {
	Name             string  `json:"name"`
	Company          string  `json:"company"`
	Type             string  `json:"type"`
	Website          string  `json:"website"`
	Region           string  `json:"region"`
	City             string  `json:"city"`
	Capacity         string  `json:"capacity"`
	AnnualRevenue    float64 `json:"annualRevenue"`
	Discount         float64 `json:"discount"`
	Commission       float64 `json:"commission"`
	ResponsibleName  string  `json:"responsibleName"`
	ResponsiblePhone string  `json:"responsiblePhone"`
	Landline         string  `json:"landline"`
	AccessEmail      string  `json:"accessEmail"`
	Status           string  `json:"status"`
	Rating           float64 `json:"rating"`
	EstimatedSavings float64 `json:"estimatedSavings"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.BackendTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.BackendRateLimitRPS),
	}
}

// PushGenerators bulk-inserts one batch of records into the backend and
// returns the count the backend reports as inserted.
func (c *Client) PushGenerators(ctx context.Context, records []internal.GeneratorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	payload := batchInsertRequest{Generators: make([]generatorPayload, 0, len(records))}
	for _, r := range records {
		payload.Generators = append(payload.Generators, toPayload(r))
	}

	body, err := c.postJSON(ctx, "generator/batch-insert", payload)
	if err != nil {
		return 0, err
	}

	var result batchInsertResult
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}
	return result.Inserted, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if strings.TrimSpace(c.cfg.BackendAPIToken) == "" {
		return nil, errors.New("missing BACKEND_API_TOKEN")
	}

	baseURL := strings.TrimRight(c.cfg.BackendAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(blob))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.BackendAPIToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("backend status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("backend api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, err
		}
		if !apiResp.Success {
			return nil, fmt.Errorf("backend api unsuccessful: %s", string(apiResp.Errors))
		}
		return apiResp.Data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("backend request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func toPayload(r internal.GeneratorRecord) generatorPayload {
	return generatorPayload{
		Name:             r.Name,
		Company:          r.Company,
		Type:             r.Type,
		Website:          r.Website,
		Region:           r.Region,
		City:             r.City,
		Capacity:         r.Capacity,
		AnnualRevenue:    r.AnnualRevenue,
		Discount:         r.Discount,
		Commission:       r.Commission,
		ResponsibleName:  r.ResponsibleName,
		ResponsiblePhone: r.ResponsiblePhone,
		Landline:         r.Landline,
		AccessEmail:      r.AccessEmail,
		Status:           r.Status,
		Rating:           r.Rating,
		EstimatedSavings: r.EstimatedSavings,
	}
}
