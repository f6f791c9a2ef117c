// Package triplestore uploads converted graphs to a RESTful triplestore and
// composes SPARQL updates from conversion parts.
package triplestore

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/internal/httpclient"
	"github.com/teranos/standoff/logger"
	"github.com/teranos/standoff/metrics"
	"github.com/teranos/standoff/turtle"
)

// SPARQLUpdateMediaType is the content type of SPARQL update requests
const SPARQLUpdateMediaType = "application/sparql-update"

// maxErrorBody bounds how much of a rejected response is kept for reporting
const maxErrorBody = 512

// Client talks to one triplestore endpoint
type Client struct {
	endpoint string
	http     *httpclient.SaferClient
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithMetrics records uploads in m
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client's logger
func WithLogger(log *zap.SugaredLogger) ClientOption {
	return func(c *Client) { c.logger = log }
}

// NewClient creates a client for endpoint, the URL graph paths are appended to.
func NewClient(endpoint string, httpClient *httpclient.SaferClient, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(30*time.Second, httpclient.Options{})
	}
	if c.logger == nil {
		c.logger = logger.ComponentLogger("triplestore")
	}
	return c
}

// GraphURL joins the endpoint and a document's graph path
func (c *Client) GraphURL(graphPath string) string {
	return c.endpoint + graphPath
}

// PutGraph replaces the graph at graphPath with a Turtle document.
// Any status other than 200, 201 or 204 is an errors.ErrUploadFailed.
func (c *Client) PutGraph(ctx context.Context, graphPath, document string) error {
	start := time.Now()
	err := c.send(ctx, http.MethodPut, c.GraphURL(graphPath), turtle.MediaType, document)
	c.metrics.UploadFinished(err, time.Since(start))
	return err
}

// Update posts a SPARQL update to updateURL
func (c *Client) Update(ctx context.Context, updateURL, query string) error {
	return c.send(ctx, http.MethodPost, updateURL, SPARQLUpdateMediaType, query)
}

func (c *Client) send(ctx context.Context, method, url, contentType, body string) error {
	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "build %s request for %s", method, url)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debugw("Sending to triplestore",
		logger.FieldEndpoint, url,
		"method", method,
		"bytes", len(body),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "%s %s", method, url), errors.ErrUploadFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return errors.WithDetailf(
		errors.Mark(errors.Newf("%s %s: triplestore responded %s", method, url, resp.Status), errors.ErrUploadFailed),
		"response body: %s", strings.TrimSpace(string(snippet)),
	)
}
