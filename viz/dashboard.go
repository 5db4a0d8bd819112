// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII overview of pipeline health and forecast

package viz

import (
	"fmt"
	"strings"

	"github.com/vsdcomms/salesdesk/metrics"
	"github.com/vsdcomms/salesdesk/models"
)

type DashboardStats struct {
	WeightedForecast float64
	RawPipelineValue float64
	TotalWon         float64
	WinRate          int
	TargetRevenue    float64

	TotalLeads int
	TotalDeals int

	Funnel metrics.CumulativeFunnel

	// Early-stage deals flagged for re-engagement
	ReengageDeals []string
}

func GenerateDashboardStats(profile models.Profile, leads []models.Lead, deals []models.Deal) *DashboardStats {
	stats := &DashboardStats{
		WeightedForecast: metrics.WeightedForecast(deals),
		RawPipelineValue: metrics.RawPipelineValue(deals),
		TotalWon:         metrics.TotalWon(deals),
		WinRate:          metrics.WinRate(deals),
		TargetRevenue:    metrics.ParseTargetRevenue(profile.TargetRevenue),
		TotalLeads:       len(leads),
		TotalDeals:       len(deals),
		Funnel:           metrics.ComputeCumulativeFunnel(deals),
	}

	for _, deal := range deals {
		if deal.PipelineStatus == models.StatusProspecting || deal.PipelineStatus == models.StatusPotential {
			stats.ReengageDeals = append(stats.ReengageDeals, deal.Description)
		}
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SALESDESK DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("FORECAST\n")
	out.WriteString(fmt.Sprintf("  Weighted forecast  %12.2f\n", stats.WeightedForecast))
	out.WriteString(fmt.Sprintf("  Raw pipeline       %12.2f\n", stats.RawPipelineValue))
	out.WriteString(fmt.Sprintf("  Closed won         %12.2f\n", stats.TotalWon))
	if stats.TargetRevenue > 0 {
		progress := stats.TotalWon / stats.TargetRevenue * 100
		out.WriteString(fmt.Sprintf("  Target progress    %11.1f%%\n", progress))
	}
	out.WriteString(fmt.Sprintf("  Win rate           %11d%%\n\n", stats.WinRate))

	out.WriteString("FUNNEL\n")
	renderFunnel(&out, stats.Funnel)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d leads  💼 %d deals\n", stats.TotalLeads, stats.TotalDeals))

	if len(stats.ReengageDeals) > 0 {
		out.WriteString("\nNEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d early-stage deals - schedule a re-engagement touch\n", len(stats.ReengageDeals)))
	}

	return out.String()
}

func renderFunnel(out *strings.Builder, funnel metrics.CumulativeFunnel) {
	maxCount := 0
	for _, stage := range funnel.Stages {
		if stage.Cumulative > maxCount {
			maxCount = stage.Cumulative
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, stage := range funnel.Stages {
		barLength := (stage.Cumulative * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-13s %s  %2d  %3d%%",
			stage.Label, bar, stage.Cumulative, stage.Conversion))
		if stage.Critical {
			out.WriteString("  ⚠️ leak")
		}
		out.WriteString("\n")
	}
	out.WriteString(fmt.Sprintf("  Win rate through funnel: %d%%\n", funnel.GlobalWinRate))
}
