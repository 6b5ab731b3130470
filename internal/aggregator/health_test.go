package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msdashboard/internal/graph"
)

func findNode(t *testing.T, nodes []*graph.Node, id string) *graph.Node {
	t.Helper()
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func TestHealthConverter_DependencyWithStatusBecomesLinkedNode(t *testing.T) {
	c := &HealthConverter{}
	payload := map[string]any{
		"status": "UP",
		"diskSpace": map[string]any{
			"status": "UP",
			"total":  float64(100),
		},
	}

	nodes, err := c.Convert("serviceA", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	top := findNode(t, nodes, "serviceA")
	require.NotNil(t, top)
	assert.Equal(t, "UP", top.Details[graph.DetailStatus])
	assert.Equal(t, graph.TypeMicroservice, top.Details[graph.DetailType])

	disk := findNode(t, nodes, "diskSpace")
	require.NotNil(t, disk)
	assert.Equal(t, "UP", disk.Details[graph.DetailStatus])
	assert.Equal(t, float64(100), disk.Details["total"])

	// The edge must be recorded on both ends.
	assert.True(t, top.HasLinkTo("diskSpace"))
	assert.True(t, disk.HasLinkFrom("serviceA"))
}

func TestHealthConverter_FilteredKeyIsDroppedEntirely(t *testing.T) {
	c := &HealthConverter{FilteredServices: []string{"diskSpace"}}
	payload := map[string]any{
		"status": "UP",
		"diskSpace": map[string]any{
			"status": "UP",
			"total":  float64(100),
		},
	}

	nodes, err := c.Convert("serviceA", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	top := nodes[0]
	assert.Equal(t, "serviceA", top.ID)
	assert.NotContains(t, top.Details, "diskSpace")
	assert.Empty(t, top.LinkedToNodeIDs)
}

func TestHealthConverter_NestedWithoutStatusFoldsIntoDetails(t *testing.T) {
	c := &HealthConverter{}
	payload := map[string]any{
		"status": "UP",
		"customInfo": map[string]any{
			"version": "1.2",
		},
	}

	nodes, err := c.Convert("serviceA", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	top := nodes[0]
	assert.Equal(t, "UP", top.Details[graph.DetailStatus])
	assert.Equal(t, graph.TypeMicroservice, top.Details[graph.DetailType])
	assert.Equal(t, map[string]any{"version": "1.2"}, top.Details["customInfo"])
}

func TestHealthConverter_ScalarEntryFoldsIntoDetails(t *testing.T) {
	c := &HealthConverter{}
	payload := map[string]any{
		"status":      "UP",
		"description": "order handling",
	}

	nodes, err := c.Convert("serviceA", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "order handling", nodes[0].Details["description"])
}

func TestHealthConverter_MissingRootStatusIsStructuralError(t *testing.T) {
	c := &HealthConverter{}

	nodes, err := c.Convert("serviceA", map[string]any{"diskSpace": map[string]any{"status": "UP"}})
	assert.Nil(t, nodes)

	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "serviceA", structural.ServiceID)
	assert.Equal(t, "status", structural.Field)
}

func TestHealthConverter_OneNestingLevelOnly(t *testing.T) {
	c := &HealthConverter{}
	payload := map[string]any{
		"status": "UP",
		"db": map[string]any{
			"status": "UP",
			"replica": map[string]any{
				"status": "DOWN",
			},
		},
	}

	nodes, err := c.Convert("serviceA", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	db := findNode(t, nodes, "db")
	require.NotNil(t, db)
	// The nested replica stays a detail of db, it never becomes a node.
	assert.Equal(t, map[string]any{"status": "DOWN"}, db.Details["replica"])
	assert.Nil(t, findNode(t, nodes, "replica"))
}

func TestHealthConverter_MultipleDependencies(t *testing.T) {
	c := &HealthConverter{}
	payload := map[string]any{
		"status":    "UP",
		"diskSpace": map[string]any{"status": "UP"},
		"db":        map[string]any{"status": "DOWN"},
	}

	nodes, err := c.Convert("serviceA", payload)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	top := findNode(t, nodes, "serviceA")
	require.NotNil(t, top)
	assert.ElementsMatch(t, []string{"diskSpace", "db"}, top.LinkedToNodeIDs)
}
