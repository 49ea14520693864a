// Package backend pulls dashboard snapshots from the signal backend's REST API.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SignalDash/internal/domain/models"
	"SignalDash/internal/service/payload"
	httpx "SignalDash/pkg/http"
)

const (
	PathSignals     = "/api/signals"
	PathPerformance = "/api/performance"
	PathConnection  = "/api/connection"
	PathHealth      = "/health"
)

// Client implements repository.SnapshotSource over HTTP.
type Client struct {
	baseURL string
	http    *httpx.Client
}

// New creates a backend client rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithClient(baseURL, httpx.NewClient(httpx.WithTimeout(timeout)))
}

func NewWithClient(baseURL string, c *httpx.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    c,
	}
}

// FetchSignals returns the backend's recent signals, most recent first.
func (c *Client) FetchSignals(ctx context.Context) ([]models.SignalEvent, error) {
	b, err := c.get(ctx, PathSignals)
	if err != nil {
		return nil, err
	}
	return payload.Signals(b)
}

// FetchPerformance returns the current performance record.
func (c *Client) FetchPerformance(ctx context.Context) (models.PerformanceSnapshot, error) {
	b, err := c.get(ctx, PathPerformance)
	if err != nil {
		return models.PerformanceSnapshot{}, err
	}
	p, _, err := payload.Performance(b)
	return p, err
}

// FetchConnection returns the backend's upstream connection record.
func (c *Client) FetchConnection(ctx context.Context) (models.ConnectionState, error) {
	b, err := c.get(ctx, PathConnection)
	if err != nil {
		return models.ConnectionState{}, err
	}
	return payload.Connection(b)
}

// Ping checks the backend health endpoint.
func (c *Client) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := c.get(ctx, PathHealth)
	return err
}

// get wraps every network or status failure in models.ErrTransport.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	b, err := c.http.GetBytes(ctx, c.baseURL+path)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: GET %s: status %d", models.ErrTransport, path, se.Code)
		}
		return nil, fmt.Errorf("%w: GET %s: %v", models.ErrTransport, path, err)
	}
	return b, nil
}
