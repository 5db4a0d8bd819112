package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/vsdcomms/salesdesk/metrics"
	"github.com/vsdcomms/salesdesk/models"
)

func (m Model) renderFunnelView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("SALESDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	leads := m.app.Leads.Current()
	deals := m.app.Deals.Current()

	s.WriteString("Stage composition\n")
	s.WriteString(m.renderStageTable(leads, deals))
	s.WriteString("\n\nFlow-through\n")
	s.WriteString(m.renderFlowTable(deals))

	funnel := metrics.ComputeCumulativeFunnel(deals)
	s.WriteString(fmt.Sprintf("\n\nWin rate through funnel: %d%%", funnel.GlobalWinRate))
	if critical := funnel.CriticalStages(); len(critical) > 0 {
		s.WriteString("\n")
		s.WriteString(warnStyle.Render(fmt.Sprintf("⚠️  Critical leak: %s", strings.Join(critical, ", "))))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Tab: Switch tabs • q: Quit"))
	return s.String()
}

func (m Model) renderStageTable(leads []models.Lead, deals []models.Deal) string {
	columns := []table.Column{
		{Title: "Stage", Width: 18},
		{Title: "Count", Width: 7},
		{Title: "Value", Width: 12},
		{Title: "Vs prev", Width: 8},
	}

	var rows []table.Row
	for _, stage := range metrics.FunnelStages(leads, deals) {
		rows = append(rows, table.Row{
			stage.Name,
			fmt.Sprintf("%d", stage.Count),
			fmt.Sprintf("%.2f", stage.Value),
			fmt.Sprintf("%.0f%%", stage.Conversion),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	return t.View()
}

func (m Model) renderFlowTable(deals []models.Deal) string {
	columns := []table.Column{
		{Title: "Stage", Width: 18},
		{Title: "Reached", Width: 8},
		{Title: "Conv", Width: 6},
		{Title: "Drop", Width: 12},
	}

	var rows []table.Row
	for _, stage := range metrics.ComputeCumulativeFunnel(deals).Stages {
		drop := fmt.Sprintf("%d%%", stage.DropOff)
		if stage.Critical {
			drop += " ⚠️"
		}
		rows = append(rows, table.Row{
			stage.Label,
			fmt.Sprintf("%d", stage.Cumulative),
			fmt.Sprintf("%d%%", stage.Conversion),
			drop,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	return t.View()
}
