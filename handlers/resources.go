// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to leads, deals, and the pipeline via URI

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/metrics"
	"github.com/vsdcomms/salesdesk/state"
)

type ResourceHandlers struct {
	app *state.App
	db  *sql.DB
}

func NewResourceHandlers(app *state.App, database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{app: app, db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	path := strings.TrimPrefix(uri, "crm://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "leads":
		if len(parts) == 1 {
			return h.readAllLeads()
		}
		return h.readLead(parts[1])

	case "deals":
		if len(parts) == 1 {
			return h.readAllDeals()
		}
		return h.readDeal(parts[1])

	case "profile":
		return h.readProfile()

	case "competitors":
		return h.readCompetitors()

	case "pipeline":
		return h.readPipeline()

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAllLeads() (*mcp.ReadResourceResult, error) {
	return jsonResource("crm://leads", h.app.Leads.Current())
}

func (h *ResourceHandlers) readLead(id string) (*mcp.ReadResourceResult, error) {
	lead, ok := h.app.FindLead(id)
	if !ok {
		return nil, fmt.Errorf("lead not found: %s", id)
	}
	return jsonResource(fmt.Sprintf("crm://leads/%s", id), lead)
}

func (h *ResourceHandlers) readAllDeals() (*mcp.ReadResourceResult, error) {
	return jsonResource("crm://deals", h.app.Deals.Current())
}

func (h *ResourceHandlers) readDeal(id string) (*mcp.ReadResourceResult, error) {
	deal, ok := h.app.FindDeal(id)
	if !ok {
		return nil, fmt.Errorf("deal not found: %s", id)
	}
	return jsonResource(fmt.Sprintf("crm://deals/%s", id), deal)
}

func (h *ResourceHandlers) readProfile() (*mcp.ReadResourceResult, error) {
	return jsonResource("crm://profile", h.app.Profile.Current())
}

func (h *ResourceHandlers) readCompetitors() (*mcp.ReadResourceResult, error) {
	competitors, err := localstore.ListCompetitors(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitors: %w", err)
	}
	return jsonResource("crm://competitors", competitors)
}

func (h *ResourceHandlers) readPipeline() (*mcp.ReadResourceResult, error) {
	deals := h.app.Deals.Current()

	// Group by stage and calculate totals
	pipeline := make(map[string]struct {
		Count int     `json:"count"`
		Value float64 `json:"total_value"`
	})

	for _, deal := range deals {
		stage := deal.PipelineStatus
		if stage == "" {
			stage = "unknown"
		}
		p := pipeline[stage]
		p.Count++
		p.Value += deal.Value
		pipeline[stage] = p
	}

	summary := struct {
		Stages           any     `json:"stages"`
		WeightedForecast float64 `json:"weighted_forecast"`
		WinRate          int     `json:"win_rate_pct"`
	}{pipeline, metrics.WeightedForecast(deals), metrics.WinRate(deals)}

	return jsonResource("crm://pipeline", summary)
}
