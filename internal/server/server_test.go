package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msdashboard/internal/aggregator"
	"msdashboard/internal/config"
	"msdashboard/internal/graph"
)

type stubSource struct {
	lastAuthorization string
	result            *graph.Graph
}

func (s *stubSource) Aggregate(ctx context.Context, run *aggregator.Run) *graph.Graph {
	s.lastAuthorization = run.Authorization
	result := *s.result
	result.RunID = run.ID
	return &result
}

func testGraph() *graph.Graph {
	n := graph.NewNode("orders")
	n.SetDetail(graph.DetailStatus, "UP")
	n.SetDetail(graph.DetailType, graph.TypeMicroservice)
	return &graph.Graph{Nodes: []*graph.Node{n}}
}

func TestServer_GraphEndpoint(t *testing.T) {
	source := &stubSource{result: testGraph()}
	s := New(config.ServerConfig{Host: "localhost", Port: 8000}, source)

	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	req.Header.Set("Authorization", "Bearer caller-token")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Bearer caller-token", source.lastAuthorization,
		"caller identity must be captured onto the run")

	var decoded graph.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.Nodes, 1)
	assert.Equal(t, "orders", decoded.Nodes[0].ID)
	assert.Equal(t, "UP", decoded.Nodes[0].Details["status"])
	assert.NotEmpty(t, decoded.RunID)
}

func TestServer_GraphFieldNames(t *testing.T) {
	n := graph.NewNode("orders")
	n.LinkTo("db")
	source := &stubSource{result: &graph.Graph{Nodes: []*graph.Node{n}}}
	s := New(config.ServerConfig{Host: "localhost", Port: 8000}, source)

	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	nodes := raw["nodes"].([]any)
	first := nodes[0].(map[string]any)
	assert.Contains(t, first, "id")
	assert.Contains(t, first, "details")
	assert.Contains(t, first, "linkedToNodeIds")
}

func TestServer_Healthz(t *testing.T) {
	s := New(config.ServerConfig{Host: "localhost", Port: 8000}, &stubSource{result: testGraph()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP"}`, rec.Body.String())
}

func TestServer_SetSourceSwapsForSubsequentRequests(t *testing.T) {
	first := &stubSource{result: testGraph()}
	s := New(config.ServerConfig{Host: "localhost", Port: 8000}, first)

	second := &stubSource{result: &graph.Graph{Partial: true}}
	s.SetSource(second)

	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded graph.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.True(t, decoded.Partial)
	assert.Empty(t, first.lastAuthorization)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := New(config.ServerConfig{Host: "localhost", Port: 8000}, &stubSource{result: testGraph()})

	req := httptest.NewRequest(http.MethodPost, "/graph", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
