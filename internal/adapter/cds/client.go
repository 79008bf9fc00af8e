// Package cds implements a download client for the Copernicus Climate
// Data Store retrieval API.
//
// A retrieval is asynchronous on the CDS side: the client submits an
// execution for the dataset, polls the job until it completes, then
// fetches the result asset to the target path. No retry logic lives
// here; any failure is surfaced to the caller.
package cds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/era5vis/era5vis/internal/domain"
)

const (
	// DefaultBaseURL is the public CDS API endpoint.
	DefaultBaseURL = "https://cds.climate.copernicus.eu/api"

	// DatasetPressureLevels is the ERA5 pressure-level dataset identifier.
	DatasetPressureLevels = "reanalysis-era5-pressure-levels"

	defaultPollInterval = 2 * time.Second
)

// Client talks to the CDS retrieval API for a single dataset.
type Client struct {
	baseURL      string
	key          string
	dataset      string
	httpClient   *http.Client
	clock        clockwork.Clock
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewClient creates a CDS client. baseURL and key typically come from
// the environment or ~/.cdsapirc; see LoadCredentials.
func NewClient(baseURL, key string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      baseURL,
		key:          key,
		dataset:      DatasetPressureLevels,
		httpClient:   &http.Client{},
		clock:        clockwork.NewRealClock(),
		pollInterval: defaultPollInterval,
		logger:       logger,
	}
}

// WithPollInterval overrides how often the client polls a pending job.
// Intervals <= 0 are ignored.
func (c *Client) WithPollInterval(d time.Duration) *Client {
	if d > 0 {
		c.pollInterval = d
	}
	return c
}

// Job states reported by the CDS API.
const (
	statusAccepted   = "accepted"
	statusRunning    = "running"
	statusSuccessful = "successful"
	statusFailed     = "failed"
)

type executionResponse struct {
	JobID  string `json:"jobID"`
	Status string `json:"status"`
}

type jobStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type jobResultsResponse struct {
	Asset struct {
		Value struct {
			Href string `json:"href"`
		} `json:"value"`
	} `json:"asset"`
}

// Download submits the request, waits for the job to complete, and
// writes the result to target. The file appears at target only after a
// complete, successful transfer.
func (c *Client) Download(ctx context.Context, request domain.RequestMap, target string) error {
	jobID, err := c.submit(ctx, request)
	if err != nil {
		return err
	}
	c.logger.Info("CDS job submitted", "job_id", jobID, "dataset", c.dataset)

	if err := c.waitForJob(ctx, jobID); err != nil {
		return err
	}

	href, err := c.resultHref(ctx, jobID)
	if err != nil {
		return err
	}

	c.logger.Info("CDS job complete, fetching result", "job_id", jobID)
	return c.fetch(ctx, href, target)
}

func (c *Client) submit(ctx context.Context, request domain.RequestMap) (string, error) {
	payload, err := json.Marshal(map[string]any{"inputs": request})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/retrieve/v1/processes/%s/execution", c.baseURL, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var exec executionResponse
	if err := c.doJSON(req, &exec); err != nil {
		return "", fmt.Errorf("submit execution: %w", err)
	}
	if exec.JobID == "" {
		return "", fmt.Errorf("CDS API returned no job ID")
	}
	return exec.JobID, nil
}

func (c *Client) waitForJob(ctx context.Context, jobID string) error {
	for {
		url := fmt.Sprintf("%s/retrieve/v1/jobs/%s", c.baseURL, jobID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		var status jobStatusResponse
		if err := c.doJSON(req, &status); err != nil {
			return fmt.Errorf("poll job %s: %w", jobID, err)
		}

		switch status.Status {
		case statusSuccessful:
			return nil
		case statusFailed:
			return fmt.Errorf("CDS job %s failed: %s", jobID, status.Message)
		case statusAccepted, statusRunning:
			c.logger.Debug("CDS job pending", "job_id", jobID, "status", status.Status)
		default:
			return fmt.Errorf("CDS job %s in unknown state %q", jobID, status.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.clock.After(c.pollInterval):
		}
	}
}

func (c *Client) resultHref(ctx context.Context, jobID string) (string, error) {
	url := fmt.Sprintf("%s/retrieve/v1/jobs/%s/results", c.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	var results jobResultsResponse
	if err := c.doJSON(req, &results); err != nil {
		return "", fmt.Errorf("fetch results of job %s: %w", jobID, err)
	}
	if results.Asset.Value.Href == "" {
		return "", fmt.Errorf("CDS job %s returned no result asset", jobID)
	}
	return results.Asset.Value.Href, nil
}

// fetch streams the result asset to target via a temp file and a final
// rename, so a partial transfer never leaves a file at target.
func (c *Client) fetch(ctx context.Context, href, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("fetch result: status %d: %s", resp.StatusCode, body)
	}

	tmpPath := target + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpPath)

	_, err = io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("rename result file: %w", err)
	}
	return nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("CDS API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.key != "" {
		req.Header.Set("PRIVATE-TOKEN", c.key)
	}
}
