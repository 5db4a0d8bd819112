// ABOUTME: Tests for MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"testing"

	"github.com/vsdcomms/salesdesk/docstore"
	"github.com/vsdcomms/salesdesk/state"
	"github.com/vsdcomms/salesdesk/tracker"
)

func setupTestApp(t *testing.T) *state.App {
	t.Helper()
	store := docstore.NewTestStore(t)
	app, err := state.Open(store)
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestAddLead(t *testing.T) {
	app := setupTestApp(t)
	handler := NewLeadHandlers(app)

	_, out, err := handler.AddLead(context.Background(), nil, AddLeadInput{
		Name:        "John Doe",
		CompanyName: "Acme Corp",
		Email:       "john@example.com",
	})
	if err != nil {
		t.Fatalf("AddLead failed: %v", err)
	}
	if out.ID == "" {
		t.Error("ID was not set")
	}
	if out.Name != "John Doe" {
		t.Errorf("Expected name 'John Doe', got %v", out.Name)
	}

	// Missing company must be rejected
	_, _, err = handler.AddLead(context.Background(), nil, AddLeadInput{Name: "No Company"})
	if err == nil {
		t.Error("Expected error for missing company name")
	}
}

func TestFindLeads(t *testing.T) {
	app := setupTestApp(t)
	handler := NewLeadHandlers(app)

	for _, in := range []AddLeadInput{
		{Name: "Alice", CompanyName: "Northwind Telecom"},
		{Name: "Bob", CompanyName: "Contoso"},
	} {
		if _, _, err := handler.AddLead(context.Background(), nil, in); err != nil {
			t.Fatalf("AddLead failed: %v", err)
		}
	}

	_, out, err := handler.FindLeads(context.Background(), nil, FindLeadsInput{Query: "northwind"})
	if err != nil {
		t.Fatalf("FindLeads failed: %v", err)
	}
	if len(out.Leads) != 1 {
		t.Fatalf("Expected 1 lead, got %d", len(out.Leads))
	}
	if out.Leads[0].Name != "Alice" {
		t.Errorf("Expected Alice, got %v", out.Leads[0].Name)
	}

	_, out, err = handler.FindLeads(context.Background(), nil, FindLeadsInput{})
	if err != nil {
		t.Fatalf("FindLeads failed: %v", err)
	}
	if len(out.Leads) != 2 {
		t.Errorf("Expected 2 leads with empty query, got %d", len(out.Leads))
	}
}

func TestDeleteLeadCascades(t *testing.T) {
	app := setupTestApp(t)
	leadHandler := NewLeadHandlers(app)
	dealHandler := NewDealHandlers(app, tracker.NewPending())

	_, lead, err := leadHandler.AddLead(context.Background(), nil, AddLeadInput{
		Name: "Carol", CompanyName: "Fabrikam",
	})
	if err != nil {
		t.Fatalf("AddLead failed: %v", err)
	}

	_, _, err = dealHandler.AddDeal(context.Background(), nil, AddDealInput{
		Description:       "Fiber backhaul",
		ContactPersonID:   lead.ID,
		ContactPersonName: "Carol",
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}

	_, out, err := leadHandler.DeleteLead(context.Background(), nil, DeleteLeadInput{ID: lead.ID})
	if err != nil {
		t.Fatalf("DeleteLead failed: %v", err)
	}
	if out.DealsRemoved != 1 {
		t.Errorf("Expected 1 cascaded deal, got %d", out.DealsRemoved)
	}
	if len(app.Deals.Current()) != 0 {
		t.Errorf("Expected no deals after cascade, got %d", len(app.Deals.Current()))
	}
}

func TestAddDealDefaults(t *testing.T) {
	app := setupTestApp(t)
	handler := NewDealHandlers(app, tracker.NewPending())

	_, out, err := handler.AddDeal(context.Background(), nil, AddDealInput{
		Description:       "Managed SD-WAN",
		ContactPersonName: "Dave",
		Value:             50000,
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}
	if out.PipelineStatus != "Prospecting" {
		t.Errorf("Expected default status Prospecting, got %v", out.PipelineStatus)
	}
	if out.Activity != "Opportunity identified" {
		t.Errorf("Expected default activity, got %v", out.Activity)
	}
	if !out.ReengageAdvised {
		t.Error("Expected re-engagement advisory for an early-stage deal")
	}
}

func TestUpdateDealStatus(t *testing.T) {
	app := setupTestApp(t)
	handler := NewDealHandlers(app, tracker.NewPending())

	_, deal, err := handler.AddDeal(context.Background(), nil, AddDealInput{
		Description:       "Voice trunk renewal",
		ContactPersonName: "Erin",
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}

	_, out, err := handler.UpdateDealStatus(context.Background(), nil, UpdateDealStatusInput{
		ID: deal.ID, Status: "Won",
	})
	if err != nil {
		t.Fatalf("UpdateDealStatus failed: %v", err)
	}
	if out.PipelineStatus != "Won" {
		t.Errorf("Expected status Won, got %v", out.PipelineStatus)
	}
	if out.ReengageAdvised {
		t.Error("Won deals must not trigger the re-engagement advisory")
	}

	_, _, err = handler.UpdateDealStatus(context.Background(), nil, UpdateDealStatusInput{
		ID: deal.ID, Status: "Imaginary",
	})
	if err == nil {
		t.Error("Expected error for invalid status")
	}
}

func TestLogActivity(t *testing.T) {
	app := setupTestApp(t)
	handler := NewDealHandlers(app, tracker.NewPending())

	_, deal, err := handler.AddDeal(context.Background(), nil, AddDealInput{
		Description:       "Data center cabling",
		ContactPersonName: "Frank",
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}

	_, out, err := handler.LogActivity(context.Background(), nil, LogActivityInput{
		DealID: deal.ID,
		Type:   "Phone",
		Notes:  "Discussed rack layout",
	})
	if err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}
	if out.Activity != "Discussed rack layout" {
		t.Errorf("Expected summary to track latest notes, got %v", out.Activity)
	}

	_, _, err = handler.LogActivity(context.Background(), nil, LogActivityInput{DealID: deal.ID})
	if err == nil {
		t.Error("Expected error for empty notes")
	}
}

func TestForecastStagingFlow(t *testing.T) {
	app := setupTestApp(t)
	handler := NewDealHandlers(app, tracker.NewPending())

	_, deal, err := handler.AddDeal(context.Background(), nil, AddDealInput{
		Description:       "GPON upgrade",
		ContactPersonName: "Grace",
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}

	pct := 75
	month := "March"
	_, staged, err := handler.StageForecast(context.Background(), nil, StageForecastInput{
		DealID: deal.ID, PoPercentage: &pct, PoMonth: &month,
	})
	if err != nil {
		t.Fatalf("StageForecast failed: %v", err)
	}
	if !staged.Staged {
		t.Error("Expected staged edits to be reported")
	}

	// Staged edits must not touch the deal before confirm
	if got, _ := app.FindDeal(deal.ID); got.ForecastedPoPercentage != nil {
		t.Errorf("Deal changed before confirm: po %d", *got.ForecastedPoPercentage)
	}

	_, out, err := handler.ConfirmForecast(context.Background(), nil, ConfirmForecastInput{DealID: deal.ID})
	if err != nil {
		t.Fatalf("ConfirmForecast failed: %v", err)
	}
	got, _ := app.FindDeal(out.ID)
	if got.ForecastedPoPercentage == nil || *got.ForecastedPoPercentage != 75 || got.ForecastedPoMonth != "March" {
		t.Errorf("Expected 75/March after confirm, got %v/%s", got.ForecastedPoPercentage, got.ForecastedPoMonth)
	}

	bad := 33
	_, _, err = handler.StageForecast(context.Background(), nil, StageForecastInput{
		DealID: deal.ID, PoPercentage: &bad,
	})
	if err == nil {
		t.Error("Expected error for invalid PO percentage")
	}
}

func TestCancelForecast(t *testing.T) {
	app := setupTestApp(t)
	handler := NewDealHandlers(app, tracker.NewPending())

	_, deal, err := handler.AddDeal(context.Background(), nil, AddDealInput{
		Description:       "Microwave link",
		ContactPersonName: "Heidi",
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}

	pct := 50
	if _, _, err := handler.StageForecast(context.Background(), nil, StageForecastInput{
		DealID: deal.ID, InvPercentage: &pct,
	}); err != nil {
		t.Fatalf("StageForecast failed: %v", err)
	}

	_, _, err = handler.ConfirmForecast(context.Background(), nil, ConfirmForecastInput{
		DealID: deal.ID, Cancel: true,
	})
	if err != nil {
		t.Fatalf("ConfirmForecast cancel failed: %v", err)
	}
	if got, _ := app.FindDeal(deal.ID); got.ForecastedInvoicePercentage != nil {
		t.Errorf("Cancel must discard staged edits, got inv %d", *got.ForecastedInvoicePercentage)
	}
}

func TestPipelineSummary(t *testing.T) {
	app := setupTestApp(t)
	dealHandler := NewDealHandlers(app, tracker.NewPending())
	reports := NewReportHandlers(app)

	for _, in := range []AddDealInput{
		{Description: "Deal A", ContactPersonName: "A", Value: 1000, PipelineStatus: "Prospecting"},
		{Description: "Deal B", ContactPersonName: "B", Value: 2000, PipelineStatus: "Negotiation"},
		{Description: "Deal C", ContactPersonName: "C", Value: 3000, PipelineStatus: "Won"},
	} {
		if _, _, err := dealHandler.AddDeal(context.Background(), nil, in); err != nil {
			t.Fatalf("AddDeal failed: %v", err)
		}
	}

	_, out, err := reports.PipelineSummary(context.Background(), nil, PipelineSummaryInput{})
	if err != nil {
		t.Fatalf("PipelineSummary failed: %v", err)
	}
	// 1000*0.1 + 2000*0.9 + 3000*1.0
	if out.WeightedForecast != 4900 {
		t.Errorf("Expected weighted forecast 4900, got %v", out.WeightedForecast)
	}
	if out.TotalWon != 3000 {
		t.Errorf("Expected total won 3000, got %v", out.TotalWon)
	}
	if out.WinRate != 33 {
		t.Errorf("Expected win rate 33, got %d", out.WinRate)
	}
	if out.TargetRevenue != 100000 {
		t.Errorf("Expected default target revenue, got %v", out.TargetRevenue)
	}
	if len(out.Stages) == 0 {
		t.Fatal("Expected funnel stages in the summary")
	}
}

func TestForecastReport(t *testing.T) {
	app := setupTestApp(t)
	dealHandler := NewDealHandlers(app, tracker.NewPending())
	reports := NewReportHandlers(app)

	_, deal, err := dealHandler.AddDeal(context.Background(), nil, AddDealInput{
		Description:       "Fiber ring",
		ContactPersonName: "Ivan",
		Value:             8000,
	})
	if err != nil {
		t.Fatalf("AddDeal failed: %v", err)
	}

	pending := tracker.NewPending()
	pct := 75
	month := "May"
	if err := pending.StagePoPercentage(deal.ID, pct); err != nil {
		t.Fatal(err)
	}
	if err := pending.StagePoMonth(deal.ID, month); err != nil {
		t.Fatal(err)
	}
	if err := pending.Confirm(deal.ID, app); err != nil {
		t.Fatal(err)
	}

	_, out, err := reports.ForecastReport(context.Background(), nil, ForecastReportInput{})
	if err != nil {
		t.Fatalf("ForecastReport failed: %v", err)
	}
	if len(out.Probable) != 1 {
		t.Fatalf("Expected 1 probable month bucket, got %d", len(out.Probable))
	}
	if out.Probable[0].Month != "May" {
		t.Errorf("Expected May bucket, got %v", out.Probable[0].Month)
	}
	if len(out.Confirmed) != 0 {
		t.Errorf("Expected no confirmed items, got %d buckets", len(out.Confirmed))
	}
}
