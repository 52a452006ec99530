// Package elastic implements the engine contract over Elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geocatalog/internal/domain"
	"github.com/kailas-cloud/geocatalog/internal/domain/search/response"
	"github.com/kailas-cloud/geocatalog/internal/engine"
	"github.com/kailas-cloud/geocatalog/internal/metrics"
)

// Compile-time check: Client implements engine.Engine.
var _ engine.Engine = (*Client)(nil)

// maxErrorBody caps how much of an engine error body is kept for diagnostics.
const maxErrorBody = 4 << 10

// Config holds connection parameters for the Elasticsearch cluster.
type Config struct {
	Addrs    []string
	Username string
	Password string
	CACert   []byte
	Logger   *zap.Logger
}

// Client is an Elasticsearch-backed engine.
type Client struct {
	es     *elasticsearch.Client
	logger *zap.Logger
}

// NewClient creates an Elasticsearch client.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		CACert:    cfg.CACert,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{es: es, logger: logger}, nil
}

// Search issues one payload against the index and decodes the raw response.
func (c *Client) Search(ctx context.Context, index string, payload map[string]any) (*response.Raw, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	start := time.Now()
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	metrics.EngineRequestDuration.WithLabelValues(index).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EngineRequestsTotal.WithLabelValues(index, "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		metrics.EngineRequestsTotal.WithLabelValues(index, "error").Inc()
		detail, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		c.logger.Warn("engine query rejected",
			zap.String("index", index),
			zap.String("status", res.Status()),
		)
		if res.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrEngineUnavailable, res.Status(), detail)
		}
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrEngineQuery, res.Status(), detail)
	}

	var raw response.Raw
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		metrics.EngineRequestsTotal.WithLabelValues(index, "error").Inc()
		return nil, fmt.Errorf("decode engine response: %w", err)
	}

	metrics.EngineRequestsTotal.WithLabelValues(index, "success").Inc()
	return &raw, nil
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("%w: %s", domain.ErrEngineUnavailable, res.Status())
	}
	return nil
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for engine: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
