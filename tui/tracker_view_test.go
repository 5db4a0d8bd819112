// ABOUTME: Tests for tracker view functionality
// ABOUTME: Verifies staging keys, commit/discard, and selector cycling
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vsdcomms/salesdesk/docstore"
	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
)

func setupTestModel(t *testing.T) (Model, models.Deal) {
	t.Helper()
	store := docstore.NewTestStore(t)
	app, err := state.Open(store)
	if err != nil {
		t.Fatalf("Failed to open app: %v", err)
	}
	t.Cleanup(app.Close)

	deal, _, err := app.AddDeal(models.Deal{
		Description:       "Fiber rollout",
		ContactPersonName: "Jo",
		Value:             5000,
	})
	if err != nil {
		t.Fatalf("Failed to add deal: %v", err)
	}

	m := NewModel(app)
	m.tab = TabTracker
	return m, deal
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTrackerStagingDoesNotTouchDeal(t *testing.T) {
	m, deal := setupTestModel(t)

	next, _ := m.Update(key("p"))
	m = next.(Model)

	got, _ := m.app.FindDeal(deal.ID)
	if got.ForecastedPoPercentage != nil {
		t.Error("Staging must not write through before Enter")
	}

	view := m.renderTrackerView()
	if !strings.Contains(view, "0*") {
		t.Errorf("Expected staged marker in view, got:\n%s", view)
	}
}

func TestTrackerCommitWritesStagedFields(t *testing.T) {
	m, deal := setupTestModel(t)

	for _, k := range []string{"p", "p", "o", "enter"} {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}

	got, _ := m.app.FindDeal(deal.ID)
	if got.ForecastedPoPercentage == nil || *got.ForecastedPoPercentage != 25 {
		t.Errorf("Expected PO 25 after two cycles, got %v", got.ForecastedPoPercentage)
	}
	if got.ForecastedPoMonth != "January" {
		t.Errorf("Expected January, got %q", got.ForecastedPoMonth)
	}
}

func TestTrackerDiscardKeepsDealUntouched(t *testing.T) {
	m, deal := setupTestModel(t)

	for _, k := range []string{"i", "u", "esc"} {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}

	got, _ := m.app.FindDeal(deal.ID)
	if got.ForecastedInvoicePercentage != nil || got.EstimatedInvoiceMonth != "" {
		t.Error("Esc must discard every staged edit")
	}
	if len(m.pending.PendingIDs()) != 0 {
		t.Error("Pending entry must be cleared on discard")
	}
}

func TestTrackerStatusCyclesImmediately(t *testing.T) {
	m, deal := setupTestModel(t)

	next, _ := m.Update(key("s"))
	m = next.(Model)

	got, _ := m.app.FindDeal(deal.ID)
	if got.PipelineStatus != models.StatusPotential {
		t.Errorf("Expected immediate move to Potential, got %s", got.PipelineStatus)
	}
	if !strings.Contains(m.statusLine, "re-engagement") {
		t.Errorf("Expected advisory in status line, got %q", m.statusLine)
	}
}

func TestSelectorCycles(t *testing.T) {
	if got := nextInCycle(poPctCycle, nil); got != 0 {
		t.Errorf("nil starts the cycle, got %d", got)
	}
	hundred := 100
	if got := nextInCycle(poPctCycle, &hundred); got != 0 {
		t.Errorf("cycle wraps to 0, got %d", got)
	}

	if got := nextMonth("December"); got != models.UnscheduledBucket {
		t.Errorf("December advances to Unscheduled, got %s", got)
	}
	if got := nextMonth(models.UnscheduledBucket); got != "January" {
		t.Errorf("Unscheduled wraps to January, got %s", got)
	}

	if got := nextStatus(models.StatusClosed); got != models.StatusProspecting {
		t.Errorf("status cycle wraps, got %s", got)
	}
}
