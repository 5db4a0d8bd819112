package tui

import (
	"strings"

	"github.com/vsdcomms/salesdesk/viz"
)

func (m Model) renderDashboardView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("SALESDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	stats := viz.GenerateDashboardStats(m.app.Profile.Current(), m.app.Leads.Current(), m.app.Deals.Current())
	s.WriteString(viz.RenderDashboard(stats))

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Tab: Switch tabs • q: Quit"))
	return s.String()
}
