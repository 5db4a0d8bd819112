// ABOUTME: Tests for dashboard metrics, forecast buckets, and funnels
// ABOUTME: Fixtures mirror the figures users reconcile their reports against

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsdcomms/salesdesk/models"
)

func intPtr(v int) *int { return &v }

func TestWeightedForecastAndRawPipeline(t *testing.T) {
	deals := []models.Deal{
		{Value: 100000, PipelineStatus: models.StatusProspecting},
		{Value: 50000, PipelineStatus: models.StatusNegotiation},
		{Value: 20000, PipelineStatus: models.StatusWon},
	}

	// 100000*0.1 + 50000*0.9; the Won deal is out of the forecast.
	assert.InDelta(t, 55000, WeightedForecast(deals), 0.001)
	assert.InDelta(t, 150000, RawPipelineValue(deals), 0.001)
	assert.InDelta(t, 20000, TotalWon(deals), 0.001)
}

func TestClosedDealsCarryNoValue(t *testing.T) {
	deals := []models.Deal{
		{Value: 80000, PipelineStatus: models.StatusClosed},
		{Value: 10000, PipelineStatus: models.StatusPotential},
	}
	assert.InDelta(t, 3000, WeightedForecast(deals), 0.001)
	assert.InDelta(t, 10000, RawPipelineValue(deals), 0.001)
}

func TestWinRate(t *testing.T) {
	deals := []models.Deal{
		{PipelineStatus: models.StatusWon},
		{PipelineStatus: models.StatusProspecting},
		{PipelineStatus: models.StatusClosed},
		{PipelineStatus: models.StatusNegotiation},
	}
	assert.Equal(t, 25, WinRate(deals))
	assert.Equal(t, 0, WinRate(nil), "empty collection must not divide by zero")
}

func TestParseTargetRevenue(t *testing.T) {
	assert.InDelta(t, 100000, ParseTargetRevenue("100,000"), 0.001)
	assert.InDelta(t, 250000.50, ParseTargetRevenue("RM 250,000.50"), 0.001)
	assert.InDelta(t, DefaultTargetRevenue, ParseTargetRevenue(""), 0.001)
	assert.InDelta(t, DefaultTargetRevenue, ParseTargetRevenue("tbd"), 0.001)
}

func TestProbableAndConfirmedBuckets(t *testing.T) {
	deals := []models.Deal{
		{ID: "a", PipelineStatus: models.StatusNegotiation, ForecastedPoPercentage: intPtr(75), ForecastedPoMonth: "March"},
		{ID: "b", PipelineStatus: models.StatusClosed, ForecastedPoPercentage: intPtr(75)},
		{ID: "c", PipelineStatus: models.StatusSolutioning, ForecastedInvoicePercentage: intPtr(50)},
		{ID: "d", PipelineStatus: models.StatusClosed, ForecastedPoPercentage: intPtr(100), ForecastedPoMonth: "January"},
		{ID: "e", PipelineStatus: models.StatusWon, ForecastedInvoicePercentage: intPtr(100), EstimatedInvoiceMonth: "March"},
		{ID: "f", PipelineStatus: models.StatusNegotiation, ForecastedPoPercentage: intPtr(50)},
	}

	probable := ProbableItems(deals)
	require.Len(t, probable, 2, "Closed deals stay out of the probable bucket")
	assert.Equal(t, "a", probable[0].Deal.ID)
	assert.Equal(t, KindPO, probable[0].Kind)
	assert.Equal(t, "c", probable[1].Deal.ID)
	assert.Equal(t, KindInvoice, probable[1].Kind)

	confirmed := ConfirmedItems(deals)
	require.Len(t, confirmed, 2)
	assert.Equal(t, "d", confirmed[0].Deal.ID, "Closed deals do appear in the confirmed bucket")
	assert.Equal(t, "e", confirmed[1].Deal.ID)

	grouped := GroupByMonth(confirmed)
	assert.Len(t, grouped["January"], 1)
	assert.Len(t, grouped["March"], 1)

	unscheduled := GroupByMonth(probable)
	assert.Len(t, unscheduled[models.UnscheduledBucket], 1, "missing month falls into Unscheduled")
}

func TestDealInBothBucketsAppearsTwice(t *testing.T) {
	deals := []models.Deal{{
		ID:                          "x",
		PipelineStatus:              models.StatusNegotiation,
		ForecastedPoPercentage:      intPtr(75),
		ForecastedInvoicePercentage: intPtr(50),
	}}
	assert.Len(t, ProbableItems(deals), 2)
}

func TestSortMonths(t *testing.T) {
	got := SortMonths([]string{"March", "Unscheduled", "January"})
	assert.Equal(t, []string{"January", "March", "Unscheduled"}, got)
}

func TestFunnelStagesPerStage(t *testing.T) {
	leads := []models.Lead{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	deals := []models.Deal{
		{Value: 1000, PipelineStatus: models.StatusProspecting},
		{Value: 2000, PipelineStatus: models.StatusProspecting},
		{Value: 3000, PipelineStatus: models.StatusPotential},
		{Value: 4000, PipelineStatus: models.StatusWon},
	}

	stages := FunnelStages(leads, deals)
	require.Len(t, stages, 6)

	assert.Equal(t, 4, stages[0].Count, "stage zero is the lead database")
	assert.Equal(t, 2, stages[1].Count)
	assert.InDelta(t, 3000, stages[1].Value, 0.001)
	assert.InDelta(t, 50, stages[1].Conversion, 0.001) // 2 deals from 4 leads
	assert.Equal(t, 1, stages[2].Count)
	assert.InDelta(t, 50, stages[2].Conversion, 0.001)
	assert.Equal(t, 0, stages[3].Count)
	assert.InDelta(t, 0, stages[3].Conversion, 0.001)
	assert.InDelta(t, 0, stages[4].Conversion, 0.001, "zero denominator yields zero, not a panic")

	assert.InDelta(t, 6000, ActiveFunnelValue(stages), 0.001)
}

func TestCumulativeFunnel(t *testing.T) {
	deals := []models.Deal{
		{PipelineStatus: models.StatusProspecting},
		{PipelineStatus: models.StatusPotential},
		{PipelineStatus: models.StatusNegotiation},
		{PipelineStatus: models.StatusWon},
	}

	f := ComputeCumulativeFunnel(deals)
	require.Len(t, f.Stages, 5)

	// A deal counts toward its own stage and every earlier one.
	assert.Equal(t, 4, f.Stages[0].Cumulative)
	assert.Equal(t, 3, f.Stages[1].Cumulative)
	assert.Equal(t, 2, f.Stages[2].Cumulative, "Negotiation and Won both count toward Solutioning")
	assert.Equal(t, 2, f.Stages[3].Cumulative)
	assert.Equal(t, 1, f.Stages[4].Cumulative)

	assert.Equal(t, 75, f.Stages[1].Conversion)
	assert.Equal(t, 67, f.Stages[2].Conversion)
	assert.Equal(t, 33, f.Stages[2].DropOff)
	assert.Equal(t, 50, f.Stages[4].Conversion)
	assert.Equal(t, 50, f.Stages[4].DropOff)
	assert.False(t, f.Stages[4].Critical, "exactly 50 drop-off is not critical")
	assert.False(t, f.Stages[0].Critical, "the baseline stage never flags critical")

	assert.Equal(t, 25, f.GlobalWinRate)
	assert.Empty(t, f.CriticalStages())
}

func TestCumulativeFunnelIgnoresClosed(t *testing.T) {
	deals := []models.Deal{
		{PipelineStatus: models.StatusClosed},
		{PipelineStatus: models.StatusProspecting},
	}
	f := ComputeCumulativeFunnel(deals)
	assert.Equal(t, 1, f.Stages[0].Cumulative)
	assert.Equal(t, 0, f.GlobalWinRate)
}
