package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cati-platform/internal/config"

	"github.com/cenkalti/backoff/v4"
)

// Client fetches call detail records from the dialing provider.
//
// It exists for late-arriving enrichment: attempts whose status callback was
// never delivered get their hangup cause and duration backfilled from the
// provider's CDR endpoint.
type Client struct {
	baseURL string
	apiKey  string

	httpClient *http.Client

	// maxElapsed bounds the whole retry loop for one fetch.
	maxElapsed time.Duration
}

func NewClient(cfg config.DialerConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 12 * time.Second},
		maxElapsed: 30 * time.Second,
	}
}

// CDR is the provider's call detail record, already provider-agnostic.
type CDR struct {
	CallID string `json:"call_id"`
	From   string `json:"from"`
	To     string `json:"to"`

	Status            string `json:"status"`
	HangupCause       string `json:"hangup_cause,omitempty"`
	HangupReason      string `json:"hangup_reason,omitempty"`
	StatusDescription string `json:"status_description,omitempty"`
	HangupBy          string `json:"hangup_by,omitempty"`

	DurationSeconds int `json:"duration_seconds"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// FetchCDRs pulls detail records for a campaign within a window.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; 4xx responses fail immediately.
func (c *Client) FetchCDRs(ctx context.Context, campaignID string, from, to time.Time) ([]CDR, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("telephony: dialer base url not configured")
	}

	q := url.Values{}
	q.Set("campaign_id", campaignID)
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	endpoint := c.baseURL + "/v2/cdr?" + q.Encode()

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxElapsed

	var records []CDR
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("telephony: cdr fetch returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("telephony: cdr fetch returned %d: %s", resp.StatusCode, body))
		}

		var payload struct {
			Records []CDR `json:"records"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return backoff.Permanent(fmt.Errorf("telephony: decode cdr response: %w", err))
		}
		records = payload.Records
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return records, nil
}

