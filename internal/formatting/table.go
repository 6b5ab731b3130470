package formatting

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"msdashboard/internal/graph"
)

// RenderGraph renders the combined graph as a table for CLI output.
func RenderGraph(g *graph.Graph) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "TYPE", "STATUS", "LINKS TO", "LINKED FROM"})

	for _, node := range g.Nodes {
		tw.AppendRow(table.Row{
			node.ID,
			detailString(node, graph.DetailType),
			detailString(node, graph.DetailStatus),
			strings.Join(node.LinkedToNodeIDs, ", "),
			strings.Join(node.LinkedFromNodeIDs, ", "),
		})
	}

	summary := fmt.Sprintf("run %s: %d nodes", g.RunID, len(g.Nodes))
	if g.Partial {
		summary += fmt.Sprintf(" (partial, failed: %s)", strings.Join(g.Failed, ", "))
	}
	return tw.Render() + "\n" + summary
}

func detailString(node *graph.Node, key string) string {
	value, ok := node.Details[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
