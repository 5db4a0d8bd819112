// ABOUTME: Tests for the pending forecast staging area
// ABOUTME: Cancel must leave deals byte-identical; confirm applies staged fields only

package tracker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsdcomms/salesdesk/docstore"
	"github.com/vsdcomms/salesdesk/models"
	"github.com/vsdcomms/salesdesk/state"
)

func newAppWithDeal(t *testing.T) (*state.App, models.Deal) {
	t.Helper()
	store := docstore.NewTestStore(t)
	app, err := state.Open(store)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	deal, _, err := app.AddDeal(models.Deal{
		Description:       "PBX upgrade",
		ContactPersonName: "Jo",
		Value:             40000,
	})
	require.NoError(t, err)
	return app, deal
}

func snapshot(t *testing.T, app *state.App, id string) []byte {
	t.Helper()
	d, ok := app.FindDeal(id)
	require.True(t, ok)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	return data
}

func TestCancelLeavesDealUntouched(t *testing.T) {
	app, deal := newAppWithDeal(t)
	before := snapshot(t, app, deal.ID)

	p := NewPending()
	require.NoError(t, p.StagePoPercentage(deal.ID, 75))
	require.NoError(t, p.StagePoMonth(deal.ID, "March"))
	require.NoError(t, p.StageInvoicePercentage(deal.ID, 50))

	// Staging alone writes nothing through.
	assert.Equal(t, before, snapshot(t, app, deal.ID))

	p.Cancel(deal.ID)
	assert.Equal(t, before, snapshot(t, app, deal.ID))

	_, ok := p.Staged(deal.ID)
	assert.False(t, ok)
}

func TestConfirmAppliesExactlyStagedFields(t *testing.T) {
	app, deal := newAppWithDeal(t)

	p := NewPending()
	require.NoError(t, p.StagePoPercentage(deal.ID, 75))
	require.NoError(t, p.StagePoMonth(deal.ID, "March"))
	require.NoError(t, p.Confirm(deal.ID, app))

	got, ok := app.FindDeal(deal.ID)
	require.True(t, ok)
	require.NotNil(t, got.ForecastedPoPercentage)
	assert.Equal(t, 75, *got.ForecastedPoPercentage)
	assert.Equal(t, "March", got.ForecastedPoMonth)
	assert.Nil(t, got.ForecastedInvoicePercentage, "unstaged fields stay untouched")
	assert.Empty(t, got.EstimatedInvoiceMonth)

	_, still := p.Staged(deal.ID)
	assert.False(t, still, "confirm clears the staged entry")
}

func TestFieldsStageIndependentlyBeforeOneConfirm(t *testing.T) {
	app, deal := newAppWithDeal(t)

	p := NewPending()
	require.NoError(t, p.StagePoPercentage(deal.ID, 100))
	require.NoError(t, p.StageInvoicePercentage(deal.ID, 100))
	require.NoError(t, p.StageInvoiceMonth(deal.ID, "June"))
	require.NoError(t, p.Confirm(deal.ID, app))

	got, _ := app.FindDeal(deal.ID)
	assert.Equal(t, 100, *got.ForecastedPoPercentage)
	assert.Equal(t, 100, *got.ForecastedInvoicePercentage)
	assert.Equal(t, "June", got.EstimatedInvoiceMonth)
}

func TestStageValidation(t *testing.T) {
	p := NewPending()
	assert.Error(t, p.StagePoPercentage("d1", 80))
	assert.Error(t, p.StageInvoicePercentage("d1", 25))
	assert.Error(t, p.StagePoMonth("d1", "Febtober"))
	assert.NoError(t, p.StagePoMonth("d1", models.UnscheduledBucket))
}

func TestConfirmWithNothingStagedIsNoop(t *testing.T) {
	app, deal := newAppWithDeal(t)
	before := snapshot(t, app, deal.ID)

	p := NewPending()
	require.NoError(t, p.Confirm(deal.ID, app))
	assert.Equal(t, before, snapshot(t, app, deal.ID))
}

func TestFailedConfirmKeepsEntry(t *testing.T) {
	app, _ := newAppWithDeal(t)

	p := NewPending()
	require.NoError(t, p.StagePoPercentage("missing", 75))
	assert.Error(t, p.Confirm("missing", app))

	_, ok := p.Staged("missing")
	assert.True(t, ok, "a failed apply must not drop the staged edit")
}
