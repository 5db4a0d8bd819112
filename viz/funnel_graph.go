// ABOUTME: GraphViz funnel and pipeline graph generation
// ABOUTME: Renders stage flow with conversion-labelled edges

package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/vsdcomms/salesdesk/metrics"
	"github.com/vsdcomms/salesdesk/models"
)

type GraphGenerator struct {
	leads []models.Lead
	deals []models.Deal
}

func NewGraphGenerator(leads []models.Lead, deals []models.Deal) *GraphGenerator {
	return &GraphGenerator{leads: leads, deals: deals}
}

// GenerateFunnelGraph renders the cumulative funnel: one box per stage with
// its stage-or-later count, edges labelled with conversion and drop-off.
// Critical leaks are filled red.
func (g *GraphGenerator) GenerateFunnelGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.TBRank)
	graph.SetLabel("Pipeline Funnel")

	funnel := metrics.ComputeCumulativeFunnel(g.deals)

	var prev *cgraph.Node
	for _, stage := range funnel.Stages {
		node, err := graph.CreateNodeByName(stage.Stage)
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d deals", stage.Label, stage.Cumulative))
		node.SetShape("box")
		node.SetStyle("filled")
		if stage.Critical {
			node.SetFillColor("lightcoral")
		} else {
			node.SetFillColor("lightblue")
		}

		if prev != nil {
			edge, err := graph.CreateEdgeByName("", prev, node)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel(fmt.Sprintf("%d%% (drop %d%%)", stage.Conversion, stage.DropOff))
		}
		prev = node
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

// GeneratePipelineGraph renders every deal grouped under its stage, with the
// lead pool feeding the first stage.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)
	graph.SetLabel("Sales Pipeline")

	leadPool, err := graph.CreateNodeByName("leads")
	if err != nil {
		return "", fmt.Errorf("failed to create lead node: %w", err)
	}
	leadPool.SetLabel(fmt.Sprintf("Leads\n%d contacts", len(g.leads)))
	leadPool.SetShape("ellipse")
	leadPool.SetStyle("filled")
	leadPool.SetFillColor("lightgreen")

	stageNodes := make(map[string]*cgraph.Node)
	prev := leadPool
	for _, status := range models.PipelineStatuses {
		if status == models.StatusClosed {
			continue
		}
		node, err := graph.CreateNodeByName(fmt.Sprintf("stage_%s", status))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(status)
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		stageNodes[status] = node

		if _, err := graph.CreateEdgeByName("", prev, node); err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		prev = node
	}

	for i, deal := range g.deals {
		stageNode, ok := stageNodes[deal.PipelineStatus]
		if !ok {
			continue
		}
		node, err := graph.CreateNodeByName(fmt.Sprintf("deal_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%.0f", deal.Description, deal.Value))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		edge, err := graph.CreateEdgeByName("", stageNode, node)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetStyle("dotted")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
