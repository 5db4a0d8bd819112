// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for agent integration
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vsdcomms/salesdesk/handlers"
	"github.com/vsdcomms/salesdesk/state"
	"github.com/vsdcomms/salesdesk/tracker"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *state.App, db *sql.DB) error {
	log.Println("Starting SalesDesk MCP Server...")

	// Create handlers
	leadHandlers := handlers.NewLeadHandlers(app)
	dealHandlers := handlers.NewDealHandlers(app, tracker.NewPending())
	reportHandlers := handlers.NewReportHandlers(app)
	vizHandlers := handlers.NewVizHandlers(app)
	promptHandlers := handlers.NewPromptHandlers(app, db)
	resourceHandlers := handlers.NewResourceHandlers(app, db)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "salesdesk",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_lead",
		Description: "Add a new lead to the pipeline",
	}, leadHandlers.AddLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Search for leads by name, company, email, or industry",
	}, leadHandlers.FindLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_lead",
		Description: "Delete a lead and every deal whose contact is that lead",
	}, leadHandlers.DeleteLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_deal",
		Description: "Create a new deal with defaults, seeded history, and a re-engagement advisory for early stages",
	}, dealHandlers.AddDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal_status",
		Description: "Move a deal to a new pipeline status and append to its stage history",
	}, dealHandlers.UpdateDealStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Log an activity against a deal and update its latest-activity summary",
	}, dealHandlers.LogActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stage_forecast",
		Description: "Stage forecast edits (PO/invoice percentage and month) without committing them",
	}, dealHandlers.StageForecast)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "confirm_forecast",
		Description: "Commit or cancel the staged forecast edits for a deal",
	}, dealHandlers.ConfirmForecast)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_summary",
		Description: "Weighted forecast, raw pipeline, win rate, and funnel conversion by stage",
	}, reportHandlers.PipelineSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "forecast_report",
		Description: "Probable and confirmed forecast items grouped by month",
	}, reportHandlers.ForecastReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz funnel or pipeline graph as DOT source",
	}, vizHandlers.GenerateGraph)

	// Register prompts
	for _, prompt := range []*mcp.Prompt{
		{
			Name:        "deal-analysis",
			Description: "Analyze pipeline health, distribution, and drop-off",
		},
		{
			Name:        "re-engagement",
			Description: "Suggest outreach for early-stage deals going cold",
		},
		{
			Name:        "competitor-battlecard",
			Description: "Build a battlecard against a tracked competitor",
			Arguments: []*mcp.PromptArgument{
				{Name: "competitor_id", Description: "Competitor ID", Required: true},
			},
		},
	} {
		server.AddPrompt(prompt, promptHandlers.GetPrompt)
	}

	// Register resources
	for _, resource := range []*mcp.Resource{
		{URI: "crm://leads", Name: "leads", MIMEType: "application/json"},
		{URI: "crm://deals", Name: "deals", MIMEType: "application/json"},
		{URI: "crm://profile", Name: "profile", MIMEType: "application/json"},
		{URI: "crm://competitors", Name: "competitors", MIMEType: "application/json"},
		{URI: "crm://pipeline", Name: "pipeline", MIMEType: "application/json"},
	} {
		server.AddResource(resource, resourceHandlers.ReadResource)
	}

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
