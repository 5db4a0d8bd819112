// ABOUTME: Tests for the optimistic mirrors and entity operations
// ABOUTME: Covers setter fold ordering, cascade delete, and history rules

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsdcomms/salesdesk/docstore"
	"github.com/vsdcomms/salesdesk/models"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store := docstore.NewTestStore(t)
	app, err := Open(store)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestOpenBootstrapsDefaults(t *testing.T) {
	app := newTestApp(t)

	assert.True(t, app.Loaded(), "all three documents deliver a snapshot during Open")
	assert.Equal(t, "VSD Communications", app.Profile.Current().CompanyName)
	assert.Equal(t, "Sales Channel Consultant", app.Profile.Current().Role)
	assert.Empty(t, app.Leads.Current())
	assert.Empty(t, app.Deals.Current())
}

func TestUpdateFoldsInOrder(t *testing.T) {
	app := newTestApp(t)

	// Each update must see the result of the previous one, never a stale
	// snapshot, regardless of remote write latency.
	for i := 0; i < 50; i++ {
		app.Leads.Update(func(leads []models.Lead) []models.Lead {
			return append(leads, models.Lead{ID: models.NewID(), Name: "n", CompanyName: "c"})
		})
	}
	assert.Len(t, app.Leads.Current(), 50)
}

func TestRemoteSnapshotWins(t *testing.T) {
	store := docstore.NewTestStore(t)
	app, err := Open(store)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	_, err = app.AddLead(models.Lead{Name: "Local", CompanyName: "LocalCo"})
	require.NoError(t, err)
	app.Flush()

	remote := []models.Lead{{ID: "r1", Name: "Remote", CompanyName: "RemoteCo"}}
	store.PushRemote(t, docstore.DocLeads, remote)

	leads := app.Leads.Current()
	require.Len(t, leads, 1)
	assert.Equal(t, "Remote", leads[0].Name)
}

func TestAddLeadValidatesAndPrepends(t *testing.T) {
	app := newTestApp(t)

	_, err := app.AddLead(models.Lead{Name: "  ", CompanyName: "Acme"})
	assert.Error(t, err)
	_, err = app.AddLead(models.Lead{Name: "Jo", CompanyName: ""})
	assert.Error(t, err)

	first, err := app.AddLead(models.Lead{Name: "First", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := app.AddLead(models.Lead{Name: "Second", CompanyName: "Beta"})
	require.NoError(t, err)

	leads := app.Leads.Current()
	require.Len(t, leads, 2)
	assert.Equal(t, second.ID, leads[0].ID, "newest lead displays first")
	assert.Equal(t, first.ID, leads[1].ID)
}

func TestDeleteLeadCascadesToDeals(t *testing.T) {
	app := newTestApp(t)

	lead, err := app.AddLead(models.Lead{Name: "Jo", CompanyName: "Acme"})
	require.NoError(t, err)
	other, err := app.AddLead(models.Lead{Name: "Sam", CompanyName: "Beta"})
	require.NoError(t, err)

	_, _, err = app.AddDeal(models.Deal{Description: "Fiber rollout", ContactPersonID: lead.ID, ContactPersonName: lead.Name})
	require.NoError(t, err)
	_, _, err = app.AddDeal(models.Deal{Description: "Second rollout", ContactPersonID: lead.ID, ContactPersonName: lead.Name})
	require.NoError(t, err)
	kept, _, err := app.AddDeal(models.Deal{Description: "Unrelated", ContactPersonID: other.ID, ContactPersonName: other.Name})
	require.NoError(t, err)

	require.NoError(t, app.DeleteLead(lead.ID))

	for _, d := range app.Deals.Current() {
		assert.NotEqual(t, lead.ID, d.ContactPersonID, "no deal may outlive its contact")
	}
	deals := app.Deals.Current()
	require.Len(t, deals, 1)
	assert.Equal(t, kept.ID, deals[0].ID)

	assert.ErrorIs(t, app.DeleteLead("missing"), ErrNotFound)
}

func TestAddDealFillsDefaultsAndSeedsHistory(t *testing.T) {
	app := newTestApp(t)

	deal, advisory, err := app.AddDeal(models.Deal{
		Description:       "PBX upgrade",
		ContactPersonName: "Jo",
	})
	require.NoError(t, err)
	assert.True(t, advisory, "new Prospecting deals prompt a follow-up reminder")

	assert.Equal(t, "Unknown", deal.DecisionMaker)
	assert.Equal(t, "Opportunity identified", deal.Activity)
	assert.Equal(t, models.StatusProspecting, deal.PipelineStatus)
	assert.NotEmpty(t, deal.Date)

	require.Len(t, deal.ActivityHistory, 1)
	assert.Equal(t, "Deal Created", deal.ActivityHistory[0].Notes)
	assert.Equal(t, models.ActivityOther, deal.ActivityHistory[0].Type)

	require.Len(t, deal.StageHistory, 1)
	assert.Equal(t, models.StatusProspecting, deal.StageHistory[0].Stage)
}

func TestAddDealKeepsProvidedActivity(t *testing.T) {
	app := newTestApp(t)

	deal, advisory, err := app.AddDeal(models.Deal{
		Description:       "Router refresh",
		ContactPersonName: "Jo",
		Activity:          "Intro call held",
		PipelineStatus:    models.StatusNegotiation,
	})
	require.NoError(t, err)
	assert.False(t, advisory)
	assert.Equal(t, "Intro call held", deal.Activity)
	require.Len(t, deal.ActivityHistory, 1)
	assert.Equal(t, "Intro call held", deal.ActivityHistory[0].Notes)
}

func TestAddDealValidation(t *testing.T) {
	app := newTestApp(t)

	_, _, err := app.AddDeal(models.Deal{ContactPersonName: "Jo"})
	assert.Error(t, err)
	_, _, err = app.AddDeal(models.Deal{Description: "x"})
	assert.Error(t, err)
	_, _, err = app.AddDeal(models.Deal{Description: "x", ContactPersonName: "Jo", PipelineStatus: "Limbo"})
	assert.Error(t, err)
	assert.Empty(t, app.Deals.Current(), "validation failures must not touch the collection")
}

func TestUpdateDealStatusAppendsHistory(t *testing.T) {
	app := newTestApp(t)

	deal, _, err := app.AddDeal(models.Deal{Description: "PBX upgrade", ContactPersonName: "Jo"})
	require.NoError(t, err)

	advisory, err := app.UpdateDealStatus(deal.ID, models.StatusNegotiation)
	require.NoError(t, err)
	assert.False(t, advisory)

	advisory, err = app.UpdateDealStatus(deal.ID, models.StatusPotential)
	require.NoError(t, err)
	assert.True(t, advisory, "moving back to an early stage prompts re-engagement")

	got, ok := app.FindDeal(deal.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusPotential, got.PipelineStatus)

	// Append-only: the original entry plus one per transition.
	require.Len(t, got.StageHistory, 3)
	assert.Equal(t, models.StatusProspecting, got.StageHistory[0].Stage)
	assert.Equal(t, models.StatusNegotiation, got.StageHistory[1].Stage)
	assert.Equal(t, models.StatusPotential, got.StageHistory[2].Stage)

	_, err = app.UpdateDealStatus(deal.ID, "Limbo")
	assert.Error(t, err)
	_, err = app.UpdateDealStatus("missing", models.StatusWon)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendActivityUpdatesSummary(t *testing.T) {
	app := newTestApp(t)

	deal, _, err := app.AddDeal(models.Deal{Description: "PBX upgrade", ContactPersonName: "Jo"})
	require.NoError(t, err)

	err = app.AppendActivity(deal.ID, models.ActivityLogEntry{
		Date:  "2026-08-20",
		Type:  models.ActivityPhone,
		Notes: "Discussed pricing",
	})
	require.NoError(t, err)

	got, ok := app.FindDeal(deal.ID)
	require.True(t, ok)
	assert.Equal(t, "Discussed pricing", got.Activity)
	assert.Equal(t, "2026-08-20", got.Date)
	require.Len(t, got.ActivityHistory, 2)
	assert.Equal(t, "Discussed pricing", got.ActivityHistory[0].Notes, "newest entry first")

	assert.Error(t, app.AppendActivity(deal.ID, models.ActivityLogEntry{Notes: "  "}))
}

func TestSaveInlineEdit(t *testing.T) {
	app := newTestApp(t)

	deal, _, err := app.AddDeal(models.Deal{Description: "PBX upgrade", ContactPersonName: "Jo"})
	require.NoError(t, err)

	require.NoError(t, app.SaveInlineEdit(deal.ID, "CFO", "Q-1042", 25000))
	got, _ := app.FindDeal(deal.ID)
	assert.Equal(t, "CFO", got.DecisionMaker)
	assert.Equal(t, "Q-1042", got.QuotationNo)
	assert.Equal(t, float64(25000), got.Value)
}

func TestCompetitorLinking(t *testing.T) {
	app := newTestApp(t)

	d1, _, err := app.AddDeal(models.Deal{Description: "Deal one", ContactPersonName: "Jo"})
	require.NoError(t, err)
	d2, _, err := app.AddDeal(models.Deal{Description: "Deal two", ContactPersonName: "Sam"})
	require.NoError(t, err)

	require.NoError(t, app.LinkCompetitor(d1.ID, "comp-1"))
	require.NoError(t, app.LinkCompetitor(d2.ID, "comp-1"))

	app.UnlinkCompetitorEverywhere("comp-1")
	for _, d := range app.Deals.Current() {
		assert.Empty(t, d.LinkedCompetitorID)
	}
}

func TestProductAssets(t *testing.T) {
	app := newTestApp(t)

	asset := app.AddProductAsset(models.ProductAsset{Name: "Datasheet", Type: models.AssetDatasheet})
	require.NotEmpty(t, asset.ID)
	assert.Len(t, app.Profile.Current().ProductAssets, 1)

	app.RemoveProductAsset(asset.ID)
	assert.Empty(t, app.Profile.Current().ProductAssets)

	app.SetIdealClientProfile("Mid-market telecoms buyers")
	assert.Equal(t, "Mid-market telecoms buyers", app.Profile.Current().IdealClientProfile)
}
