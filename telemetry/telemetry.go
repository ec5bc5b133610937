// Package telemetry publishes collected reports to a remote collector
package telemetry

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ramborogers/netninja/report"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	reportsEndpoint = "/api/reports"
	healthEndpoint  = "/health"
	authHeader      = "X-API-Token"
	queueSize       = 16
)

// Envelope is the body posted for every report
type Envelope struct {
	SystemID string         `json:"system_id"`
	Version  string         `json:"version"`
	Report   *report.Report `json:"report"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// Client posts reports to a collector endpoint
type Client struct {
	token     string
	version   string
	systemID  string
	serverURL string
	queue     chan *report.Report
	stopChan  chan struct{}
	stopOnce  sync.Once
	waitGroup sync.WaitGroup
	client    *http.Client
	logger    zerolog.Logger
}

// NewClient creates a new telemetry client
func NewClient(serverURL, token, version string) *Client {
	return &Client{
		token:     token,
		version:   version,
		serverURL: strings.TrimRight(serverURL, "/"),
		systemID:  generateSystemID(),
		queue:     make(chan *report.Report, queueSize),
		stopChan:  make(chan struct{}),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log.With().Str("component", "telemetry").Logger(),
	}
}

// Start verifies the collector is healthy and begins publishing queued reports
func (c *Client) Start(ctx context.Context) error {
	if err := c.checkHealth(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	c.waitGroup.Add(1)
	go c.publishLoop()

	c.logger.Info().Str("endpoint", c.serverURL).Msg("publishing reports")
	return nil
}

// Stop halts publishing and waits for the in-flight post
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.waitGroup.Wait()
}

// Enqueue schedules a report for publishing. When the queue is full the
// report is dropped.
func (c *Client) Enqueue(r *report.Report) {
	select {
	case c.queue <- r:
	default:
		c.logger.Warn().Str("id", r.ID.String()).Msg("publish queue full, dropping report")
	}
}

// checkHealth verifies the collector service is available
func (c *Client) checkHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+healthEndpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return err
	}

	if health.Status != "healthy" {
		return fmt.Errorf("unhealthy service status: %s", health.Status)
	}

	return nil
}

// Publish posts a single report
func (c *Client) Publish(ctx context.Context, r *report.Report) error {
	body, err := json.Marshal(Envelope{
		SystemID: c.systemID,
		Version:  c.version,
		Report:   r,
	})
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+reportsEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(authHeader, c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		c.logger.Debug().Err(err).Msg("failed to drain publish response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("publish failed with status: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) publishLoop() {
	defer c.waitGroup.Done()

	for {
		select {
		case r := <-c.queue:
			ctx, cancel := context.WithTimeout(context.Background(), c.client.Timeout)
			if err := c.Publish(ctx, r); err != nil {
				c.logger.Warn().Err(err).Str("id", r.ID.String()).Msg("failed to publish report")
			} else {
				c.logger.Debug().Str("id", r.ID.String()).Msg("report published")
			}
			cancel()
		case <-c.stopChan:
			return
		}
	}
}

// generateSystemID creates a stable anonymous host identifier
func generateSystemID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	h := sha256.New()
	io.WriteString(h, hostname)
	io.WriteString(h, runtime.GOOS)
	io.WriteString(h, runtime.GOARCH)

	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}
