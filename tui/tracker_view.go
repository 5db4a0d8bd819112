package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vsdcomms/salesdesk/models"
)

// Forecast selector cycles, in keypress order.
var poPctCycle = []int{0, 25, 50, 75, 100}
var invPctCycle = []int{0, 50, 100}

func (m Model) renderTrackerView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("SALESDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	deals := m.app.Deals.Current()
	if len(deals) == 0 {
		s.WriteString("No deals in the pipeline yet\n")
		s.WriteString(helpStyle.Render("Tab: Switch tabs • q: Quit"))
		return s.String()
	}

	columns := []table.Column{
		{Title: "Deal", Width: 26},
		{Title: "Status", Width: 12},
		{Title: "Value", Width: 10},
		{Title: "PO%", Width: 6},
		{Title: "PO month", Width: 11},
		{Title: "Inv%", Width: 6},
		{Title: "Inv month", Width: 11},
	}

	var rows []table.Row
	for _, deal := range deals {
		poPct := m.displayPoPct(deal)
		poMonth := m.displayPoMonth(deal)
		invPct := m.displayInvPct(deal)
		invMonth := m.displayInvMonth(deal)

		rows = append(rows, table.Row{
			deal.Description,
			deal.PipelineStatus,
			fmt.Sprintf("%.0f", deal.Value),
			poPct,
			poMonth,
			invPct,
			invMonth,
		})
	}

	height := m.height - 12
	if height < len(rows)+1 {
		height = len(rows) + 1
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	s.WriteString(t.View())

	if m.statusLine != "" {
		s.WriteString("\n")
		s.WriteString(warnStyle.Render(m.statusLine))
	}
	if ids := m.pending.PendingIDs(); len(ids) > 0 {
		s.WriteString("\n")
		s.WriteString(stagedStyle.Render(fmt.Sprintf("%d deal(s) with staged edits - Enter commits, Esc discards", len(ids))))
	}

	s.WriteString("\n")
	s.WriteString(m.renderTrackerHelp())
	return s.String()
}

// Staged values render with a * suffix until they are committed.

func (m Model) displayPoPct(deal models.Deal) string {
	if c, ok := m.pending.Staged(deal.ID); ok && c.PoPct != nil {
		return fmt.Sprintf("%d*", *c.PoPct)
	}
	if deal.ForecastedPoPercentage == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *deal.ForecastedPoPercentage)
}

func (m Model) displayPoMonth(deal models.Deal) string {
	if c, ok := m.pending.Staged(deal.ID); ok && c.PoMonth != nil {
		return *c.PoMonth + "*"
	}
	if deal.ForecastedPoMonth == "" {
		return "-"
	}
	return deal.ForecastedPoMonth
}

func (m Model) displayInvPct(deal models.Deal) string {
	if c, ok := m.pending.Staged(deal.ID); ok && c.InvPct != nil {
		return fmt.Sprintf("%d*", *c.InvPct)
	}
	if deal.ForecastedInvoicePercentage == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *deal.ForecastedInvoicePercentage)
}

func (m Model) displayInvMonth(deal models.Deal) string {
	if c, ok := m.pending.Staged(deal.ID); ok && c.InvMonth != nil {
		return *c.InvMonth + "*"
	}
	if deal.EstimatedInvoiceMonth == "" {
		return "-"
	}
	return deal.EstimatedInvoiceMonth
}

func (m Model) renderTrackerHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"s: Cycle status",
		"p: PO%",
		"o: PO month",
		"i: Inv%",
		"u: Inv month",
		"Enter: Commit",
		"Esc: Discard",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleTrackerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	deals := m.app.Deals.Current()
	if len(deals) == 0 {
		return m, nil
	}
	if m.selectedRow >= len(deals) {
		m.selectedRow = len(deals) - 1
	}
	deal := deals[m.selectedRow]

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(deals)-1 {
			m.selectedRow++
		}

	case "s":
		// Status changes commit immediately, unlike forecast edits
		next := nextStatus(deal.PipelineStatus)
		advisory, err := m.app.UpdateDealStatus(deal.ID, next)
		if err != nil {
			m.statusLine = err.Error()
			break
		}
		m.statusLine = fmt.Sprintf("%s moved to %s", deal.Description, next)
		if advisory {
			m.statusLine += " - ⚠️ schedule a re-engagement touch"
		}

	case "p":
		current := deal.ForecastedPoPercentage
		if c, ok := m.pending.Staged(deal.ID); ok && c.PoPct != nil {
			current = c.PoPct
		}
		if err := m.pending.StagePoPercentage(deal.ID, nextInCycle(poPctCycle, current)); err != nil {
			m.statusLine = err.Error()
		}

	case "o":
		current := deal.ForecastedPoMonth
		if c, ok := m.pending.Staged(deal.ID); ok && c.PoMonth != nil {
			current = *c.PoMonth
		}
		if err := m.pending.StagePoMonth(deal.ID, nextMonth(current)); err != nil {
			m.statusLine = err.Error()
		}

	case "i":
		current := deal.ForecastedInvoicePercentage
		if c, ok := m.pending.Staged(deal.ID); ok && c.InvPct != nil {
			current = c.InvPct
		}
		if err := m.pending.StageInvoicePercentage(deal.ID, nextInCycle(invPctCycle, current)); err != nil {
			m.statusLine = err.Error()
		}

	case "u":
		current := deal.EstimatedInvoiceMonth
		if c, ok := m.pending.Staged(deal.ID); ok && c.InvMonth != nil {
			current = *c.InvMonth
		}
		if err := m.pending.StageInvoiceMonth(deal.ID, nextMonth(current)); err != nil {
			m.statusLine = err.Error()
		}

	case "enter":
		if err := m.pending.Confirm(deal.ID, m.app); err != nil {
			m.statusLine = err.Error()
			break
		}
		m.statusLine = fmt.Sprintf("Forecast committed for %s", deal.Description)

	case "esc":
		m.pending.Cancel(deal.ID)
		m.statusLine = "Staged edits discarded"
	}

	return m, nil
}

func nextStatus(current string) string {
	for i, status := range models.PipelineStatuses {
		if status == current {
			return models.PipelineStatuses[(i+1)%len(models.PipelineStatuses)]
		}
	}
	return models.StatusProspecting
}

func nextInCycle(cycle []int, current *int) int {
	if current == nil {
		return cycle[0]
	}
	for i, v := range cycle {
		if v == *current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func nextMonth(current string) string {
	if current == "" || current == models.UnscheduledBucket {
		return models.Months[0]
	}
	for i, name := range models.Months {
		if name == current {
			if i == len(models.Months)-1 {
				return models.UnscheduledBucket
			}
			return models.Months[i+1]
		}
	}
	return models.Months[0]
}
