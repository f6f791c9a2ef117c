package triplestore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/internal/httpclient"
	"github.com/teranos/standoff/metrics"
	"github.com/teranos/standoff/turtle"
)

type captured struct {
	method      string
	path        string
	query       string
	contentType string
	body        string
}

func recordingServer(t *testing.T, status int, reqs chan<- captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs <- captured{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		}
		w.WriteHeader(status)
		if status >= 400 {
			io.WriteString(w, "graph rejected\n")
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, endpoint string, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return NewClient(endpoint, httpclient.WrapClient(&http.Client{Timeout: 5 * time.Second}), opts...)
}

func TestPutGraph(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusNoContent} {
		reqs := make(chan captured, 1)
		srv := recordingServer(t, status, reqs)
		c := newTestClient(t, srv.URL)

		err := c.PutGraph(context.Background(), "/repositories/narrative/rdf-graphs/service?graph=user/alice/story", "<a> <b> <c> .\n")
		require.NoError(t, err, "status %d", status)

		got := <-reqs
		assert.Equal(t, http.MethodPut, got.method)
		assert.Equal(t, "/repositories/narrative/rdf-graphs/service", got.path)
		assert.Equal(t, "graph=user/alice/story", got.query)
		assert.Equal(t, turtle.MediaType, got.contentType)
		assert.Equal(t, "<a> <b> <c> .\n", got.body)
	}
}

func TestPutGraph_Rejected(t *testing.T) {
	reqs := make(chan captured, 1)
	srv := recordingServer(t, http.StatusBadRequest, reqs)
	c := newTestClient(t, srv.URL)

	err := c.PutGraph(context.Background(), "/graph", "bad turtle")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUploadFailed))
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, errors.GetAllDetails(err), "response body: graph rejected")
}

func TestPutGraph_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := newTestClient(t, endpoint)
	err := c.PutGraph(context.Background(), "/graph", "<a> <b> <c> .\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUploadFailed))
}

func TestPutGraph_BlockedScheme(t *testing.T) {
	c := newTestClient(t, "file:///etc")
	err := c.PutGraph(context.Background(), "/passwd", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUploadFailed))
}

func TestPutGraph_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	okSrv := recordingServer(t, http.StatusCreated, make(chan captured, 1))
	badSrv := recordingServer(t, http.StatusInternalServerError, make(chan captured, 1))

	require.NoError(t, newTestClient(t, okSrv.URL, WithMetrics(m)).PutGraph(context.Background(), "/g", "x"))
	require.Error(t, newTestClient(t, badSrv.URL, WithMetrics(m)).PutGraph(context.Background(), "/g", "x"))

	expected := `
# HELP standoff_triplestore_uploads_total Graph uploads by outcome
# TYPE standoff_triplestore_uploads_total counter
standoff_triplestore_uploads_total{status="failed"} 1
standoff_triplestore_uploads_total{status="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "standoff_triplestore_uploads_total"))
}

func TestUpdate(t *testing.T) {
	reqs := make(chan captured, 1)
	srv := recordingServer(t, http.StatusNoContent, reqs)
	c := newTestClient(t, srv.URL)

	require.NoError(t, c.Update(context.Background(), srv.URL+"/statements", "INSERT DATA {}"))

	got := <-reqs
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/statements", got.path)
	assert.Equal(t, SPARQLUpdateMediaType, got.contentType)
	assert.Equal(t, "INSERT DATA {}", got.body)
}

func TestGraphURL(t *testing.T) {
	c := NewClient("http://localhost:8000", nil)
	assert.Equal(t, "http://localhost:8000/rdf?graph=user/bob/ch1", c.GraphURL("/rdf?graph=user/bob/ch1"))
}
