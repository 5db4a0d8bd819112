// ABOUTME: Reporting MCP tool handlers
// ABOUTME: Pipeline summary and forecast report built on the metrics engine

package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vsdcomms/salesdesk/metrics"
	"github.com/vsdcomms/salesdesk/state"
)

type ReportHandlers struct {
	app *state.App
}

func NewReportHandlers(app *state.App) *ReportHandlers {
	return &ReportHandlers{app: app}
}

type PipelineSummaryInput struct{}

type StageSummary struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Value      float64 `json:"value"`
	Cumulative int     `json:"cumulative"`
	Conversion int     `json:"conversion_pct"`
	DropOff    int     `json:"drop_off_pct"`
	Critical   bool    `json:"critical,omitempty"`
}

type PipelineSummaryOutput struct {
	WeightedForecast float64        `json:"weighted_forecast"`
	RawPipelineValue float64        `json:"raw_pipeline_value"`
	TotalWon         float64        `json:"total_won"`
	WinRate          int            `json:"win_rate_pct"`
	GlobalWinRate    int            `json:"funnel_win_rate_pct"`
	TargetRevenue    float64        `json:"target_revenue"`
	Stages           []StageSummary `json:"stages"`
	CriticalStages   []string       `json:"critical_stages,omitempty"`
}

func (h *ReportHandlers) PipelineSummary(_ context.Context, request *mcp.CallToolRequest, input PipelineSummaryInput) (*mcp.CallToolResult, PipelineSummaryOutput, error) {
	deals := h.app.Deals.Current()
	leads := h.app.Leads.Current()
	profile := h.app.Profile.Current()

	perStage := metrics.FunnelStages(leads, deals)
	cumulative := metrics.ComputeCumulativeFunnel(deals)

	// Per-stage counts/values zipped with cumulative conversions; the lead
	// baseline row has no cumulative counterpart.
	stages := make([]StageSummary, 0, len(perStage))
	for _, s := range perStage {
		row := StageSummary{Stage: s.Name, Count: s.Count, Value: s.Value}
		for _, c := range cumulative.Stages {
			if c.Stage == s.ID {
				row.Cumulative = c.Cumulative
				row.Conversion = c.Conversion
				row.DropOff = c.DropOff
				row.Critical = c.Critical
			}
		}
		stages = append(stages, row)
	}

	return nil, PipelineSummaryOutput{
		WeightedForecast: metrics.WeightedForecast(deals),
		RawPipelineValue: metrics.RawPipelineValue(deals),
		TotalWon:         metrics.TotalWon(deals),
		WinRate:          metrics.WinRate(deals),
		GlobalWinRate:    cumulative.GlobalWinRate,
		TargetRevenue:    metrics.ParseTargetRevenue(profile.TargetRevenue),
		Stages:           stages,
		CriticalStages:   cumulative.CriticalStages(),
	}, nil
}

type ForecastReportInput struct{}

type ForecastLine struct {
	DealID      string  `json:"deal_id"`
	Description string  `json:"description"`
	Company     string  `json:"company,omitempty"`
	Value       float64 `json:"value"`
	Kind        string  `json:"kind"`
	Pct         int     `json:"pct"`
}

type MonthBucket struct {
	Month string         `json:"month"`
	Items []ForecastLine `json:"items"`
}

type ForecastReportOutput struct {
	Probable  []MonthBucket `json:"probable"`
	Confirmed []MonthBucket `json:"confirmed"`
}

func bucketize(items []metrics.ForecastItem) []MonthBucket {
	grouped := metrics.GroupByMonth(items)
	var out []MonthBucket
	for _, month := range metrics.MonthKeys(grouped) {
		bucket := MonthBucket{Month: month}
		for _, it := range grouped[month] {
			bucket.Items = append(bucket.Items, ForecastLine{
				DealID:      it.Deal.ID,
				Description: it.Deal.Description,
				Company:     it.Deal.CompanyName,
				Value:       it.Deal.Value,
				Kind:        string(it.Kind),
				Pct:         it.Pct,
			})
		}
		out = append(out, bucket)
	}
	return out
}

func (h *ReportHandlers) ForecastReport(_ context.Context, request *mcp.CallToolRequest, input ForecastReportInput) (*mcp.CallToolResult, ForecastReportOutput, error) {
	deals := h.app.Deals.Current()
	return nil, ForecastReportOutput{
		Probable:  bucketize(metrics.ProbableItems(deals)),
		Confirmed: bucketize(metrics.ConfirmedItems(deals)),
	}, nil
}
