package aggregator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msdashboard/internal/graph"
)

type recordingReporter struct {
	mu      sync.Mutex
	reports []string
}

func (r *recordingReporter) Report(msg string, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, msg)
}

func TestMappingsConverter_RouteBecomesResourceNode(t *testing.T) {
	c := &MappingsConverter{IgnoredHandlers: []string{"org.springframework"}}
	payload := map[string]any{
		"{[/orders],methods=[GET],produces=[application/json]}": map[string]any{
			"bean":   "requestMappingHandlerMapping",
			"method": "public java.util.List com.example.OrderController.list()",
		},
	}

	nodes, err := c.Convert("order-service", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	top := findNode(t, nodes, "order-service")
	require.NotNil(t, top)
	assert.Equal(t, graph.TypeMicroservice, top.Details[graph.DetailType])

	route := findNode(t, nodes, "/orders")
	require.NotNil(t, route)
	assert.Equal(t, graph.TypeResource, route.Details[graph.DetailType])
	assert.Equal(t, "/orders", route.Details[graph.DetailURL])
	assert.Equal(t, []string{"GET"}, route.Details["methods"])

	assert.True(t, top.HasLinkTo("/orders"))
	assert.True(t, route.HasLinkFrom("order-service"))
}

func TestMappingsConverter_MultipleMethods(t *testing.T) {
	c := &MappingsConverter{}
	payload := map[string]any{
		"{[/orders],methods=[GET, POST]}": map[string]any{
			"method": "public void com.example.OrderController.create()",
		},
	}

	nodes, err := c.Convert("order-service", payload)
	require.NoError(t, err)

	route := findNode(t, nodes, "/orders")
	require.NotNil(t, route)
	assert.Equal(t, []string{"GET", "POST"}, route.Details["methods"])
}

func TestMappingsConverter_FrameworkHandlersAreSkipped(t *testing.T) {
	reporter := &recordingReporter{}
	c := &MappingsConverter{
		IgnoredHandlers: []string{"org.springframework"},
		Reporter:        reporter,
	}
	payload := map[string]any{
		"{[/error],methods=[GET]}": map[string]any{
			"method": "public org.springframework.http.ResponseEntity org.springframework.boot.autoconfigure.web.BasicErrorController.error()",
		},
		"{[/orders],methods=[GET]}": map[string]any{
			"method": "public java.util.List com.example.OrderController.list()",
		},
	}

	nodes, err := c.Convert("order-service", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Nil(t, findNode(t, nodes, "/error"))
	assert.NotNil(t, findNode(t, nodes, "/orders"))
	// Intentional skips are not failures.
	assert.Empty(t, reporter.reports)
}

func TestMappingsConverter_MalformedEntryFailsOnlyItself(t *testing.T) {
	reporter := &recordingReporter{}
	c := &MappingsConverter{Reporter: reporter}

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{
			name: "entry value is not an object",
			payload: map[string]any{
				"{[/broken],methods=[GET]}": "nope",
				"{[/orders],methods=[GET]}": map[string]any{
					"method": "public java.util.List com.example.OrderController.list()",
				},
			},
		},
		{
			name: "entry has no handler signature",
			payload: map[string]any{
				"{[/broken],methods=[GET]}": map[string]any{"bean": "x"},
				"{[/orders],methods=[GET]}": map[string]any{
					"method": "public java.util.List com.example.OrderController.list()",
				},
			},
		},
		{
			name: "key has no route signature",
			payload: map[string]any{
				"not-a-route": map[string]any{"method": "com.example.Handler.handle()"},
				"{[/orders],methods=[GET]}": map[string]any{
					"method": "public java.util.List com.example.OrderController.list()",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter.reports = nil

			nodes, err := c.Convert("order-service", tt.payload)
			require.NoError(t, err, "a malformed entry must not fail the conversion")
			assert.NotNil(t, findNode(t, nodes, "/orders"))
			assert.Len(t, nodes, 2)
			assert.Len(t, reporter.reports, 1)
		})
	}
}

func TestMappingsConverter_EmptyPayloadYieldsServiceNodeOnly(t *testing.T) {
	c := &MappingsConverter{}

	nodes, err := c.Convert("order-service", map[string]any{})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "order-service", nodes[0].ID)
	assert.Empty(t, nodes[0].LinkedToNodeIDs)
}
