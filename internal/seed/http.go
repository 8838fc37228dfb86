package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON.
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitSnapshots submits snapshots concurrently using a worker pool.
func submitSnapshots(ctx context.Context, config *Config, snapshots []SnapshotRequest, stats *Stats) error {
	log.Printf("submitting %d snapshots with %d workers...", len(snapshots), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/snapshots"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	snapshotChan := make(chan SnapshotRequest, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for snap := range snapshotChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleSnapshot(ctx, client, url, snap)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if config.Verbose {
						log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
							atomic.LoadInt64(&submitted), len(snapshots),
							atomic.LoadInt64(&successful),
							atomic.LoadInt64(&duplicate),
							atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(snapshotChan)
		for _, snap := range snapshots {
			select {
			case <-ctx.Done():
				return
			case snapshotChan <- snap:
			}
		}
	}()

	wg.Wait()

	stats.SnapshotsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SnapshotsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SnapshotsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SnapshotsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`snapshot submission completed:
   Successful: %d
   Duplicate: %d
   Failed: %d
`, stats.SnapshotsSuccessful, stats.SnapshotsDuplicate, stats.SnapshotsFailed)

	return nil
}

// submitSingleSnapshot submits one snapshot and classifies the outcome.
func submitSingleSnapshot(ctx context.Context, client *HTTPClient, url string, snap SnapshotRequest) string {
	resp, err := client.Post(ctx, url, snap)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Status == "accepted" {
			return "success"
		}
		return "success"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// fetchTimeline retrieves the cohort's computed timeline.
func fetchTimeline(ctx context.Context, client *HTTPClient, config *Config) ([]TimelineEvent, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/timeline?cohort="+config.Cohort)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("timeline request failed with status %d", resp.StatusCode)
	}

	var events []TimelineEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to decode timeline: %w", err)
	}
	return events, nil
}

// fetchValidation retrieves the cohort's validation report.
func fetchValidation(ctx context.Context, client *HTTPClient, config *Config) (*ValidationReport, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/validation?cohort="+config.Cohort)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch validation report: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read validation response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("validation request failed with status %d", resp.StatusCode)
	}

	var report ValidationReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode validation report: %w", err)
	}
	return &report, nil
}

// fetchAlerts retrieves the cohort's alerts.
func fetchAlerts(ctx context.Context, client *HTTPClient, config *Config) ([]Alert, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/alerts?cohort="+config.Cohort)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read alerts response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("alerts request failed with status %d", resp.StatusCode)
	}

	var alerts []Alert
	if err := json.Unmarshal(body, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}
