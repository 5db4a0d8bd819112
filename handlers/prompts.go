// ABOUTME: MCP prompt handlers for reusable sales workflow templates
// ABOUTME: Provides standardized prompts for pipeline review and outreach

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vsdcomms/salesdesk/localstore"
	"github.com/vsdcomms/salesdesk/metrics"
	"github.com/vsdcomms/salesdesk/state"
)

type PromptHandlers struct {
	app *state.App
	db  *sql.DB
}

func NewPromptHandlers(app *state.App, database *sql.DB) *PromptHandlers {
	return &PromptHandlers{app: app, db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "deal-analysis":
		return h.getDealAnalysisPrompt(arguments)
	case "re-engagement":
		return h.getReEngagementPrompt(arguments)
	case "competitor-battlecard":
		return h.getCompetitorBattlecardPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getDealAnalysisPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	deals := h.app.Deals.Current()

	funnel := metrics.ComputeCumulativeFunnel(deals)

	var promptText strings.Builder
	promptText.WriteString("Please analyze the current deal pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Deals: %d\n", len(deals)))
	promptText.WriteString(fmt.Sprintf("Weighted Forecast: %.2f\n", metrics.WeightedForecast(deals)))
	promptText.WriteString(fmt.Sprintf("Raw Pipeline Value: %.2f\n", metrics.RawPipelineValue(deals)))
	promptText.WriteString(fmt.Sprintf("Total Won: %.2f\n", metrics.TotalWon(deals)))
	promptText.WriteString(fmt.Sprintf("Win Rate: %d%%\n\n", metrics.WinRate(deals)))

	promptText.WriteString("Funnel by Stage:\n")
	for _, stage := range funnel.Stages {
		promptText.WriteString(fmt.Sprintf("  - %s: %d deals, %d%% conversion, %d%% drop-off",
			stage.Label, stage.Cumulative, stage.Conversion, stage.DropOff))
		if stage.Critical {
			promptText.WriteString(" [CRITICAL LEAK]")
		}
		promptText.WriteString("\n")
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health and distribution")
	promptText.WriteString("\n2. Recommendations for deals that may need attention")
	promptText.WriteString("\n3. Suggestions for fixing the stages with the worst drop-off")

	return &mcp.GetPromptResult{
		Description: "Deal pipeline analysis",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{

					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getReEngagementPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	deals := h.app.Deals.Current()

	var promptText strings.Builder
	promptText.WriteString("Early-stage deals that may need re-engagement:\n\n")

	count := 0
	for _, deal := range deals {
		if deal.PipelineStatus != "Prospecting" && deal.PipelineStatus != "Potential" {
			continue
		}
		promptText.WriteString(fmt.Sprintf("- %s (%s) — %s", deal.Description, deal.CompanyName, deal.PipelineStatus))
		if deal.Date != "" {
			promptText.WriteString(fmt.Sprintf(", last activity %s", deal.Date))
		}
		promptText.WriteString("\n")
		count++
	}

	if count == 0 {
		promptText.WriteString("No early-stage deals in the pipeline.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which deals to reach out to first")
	promptText.WriteString("\n2. Suggest a personalized re-engagement approach for each")
	promptText.WriteString("\n3. Recommend a follow-up cadence to keep these deals warm")

	return &mcp.GetPromptResult{
		Description: "Re-engagement suggestions for early-stage deals",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{

					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getCompetitorBattlecardPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	competitorID, ok := args["competitor_id"]
	if !ok {
		return nil, fmt.Errorf("competitor_id is required")
	}

	competitor, err := localstore.GetCompetitor(h.db, competitorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitor: %w", err)
	}
	if competitor == nil {
		return nil, fmt.Errorf("competitor not found: %s", competitorID)
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Build a sales battlecard against: %s\n\n", competitor.Name))
	if competitor.Notes != "" {
		promptText.WriteString(fmt.Sprintf("Known intelligence:\n%s\n\n", competitor.Notes))
	}

	count := 0
	for _, deal := range h.app.Deals.Current() {
		if deal.LinkedCompetitorID != competitor.ID {
			continue
		}
		if count == 0 {
			promptText.WriteString("Contested deals:\n")
		}
		promptText.WriteString(fmt.Sprintf("  - %s (%s): %.2f, %s\n",
			deal.Description, deal.CompanyName, deal.Value, deal.PipelineStatus))
		count++
	}
	if count == 0 {
		promptText.WriteString("No deals are currently contested by this competitor.\n")
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Their likely strengths and weaknesses")
	promptText.WriteString("\n2. Objection-handling talk tracks for the contested deals")
	promptText.WriteString("\n3. Trap-setting questions that favor our solution")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Battlecard against %s", competitor.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{

					Text: promptText.String(),
				},
			},
		},
	}, nil
}
