// ABOUTME: Both funnel algorithms over the deal collection
// ABOUTME: Per-stage exact counts and the cumulative stage-or-later variant

package metrics

import (
	"math"

	"github.com/vsdcomms/salesdesk/models"
)

// The two funnels intentionally disagree: the per-stage funnel counts each
// deal once at its exact stage (with the lead database as stage zero),
// while the cumulative funnel counts a deal toward every stage it has
// passed through. Users reconcile each view against its own numbers, so
// neither algorithm may be "fixed" to match the other.

// FunnelStage is one row of the per-stage funnel.
type FunnelStage struct {
	ID         string
	Name       string
	Count      int
	Value      float64
	Conversion float64 // percent of the previous stage; 100 for the baseline
}

var funnelOrder = []string{
	models.StatusProspecting,
	models.StatusPotential,
	models.StatusSolutioning,
	models.StatusNegotiation,
	models.StatusWon,
}

// FunnelStages computes the per-stage funnel. Stage zero is the lead
// database itself; the remaining five stages count deals at exactly that
// status and sum their values.
func FunnelStages(leads []models.Lead, deals []models.Deal) []FunnelStage {
	stages := make([]FunnelStage, 0, 6)
	stages = append(stages, FunnelStage{
		ID:         "leads",
		Name:       "Leads Generation",
		Count:      len(leads),
		Conversion: 100,
	})
	for _, status := range funnelOrder {
		var count int
		var value float64
		for _, d := range deals {
			if d.PipelineStatus == status {
				count++
				value += d.Value
			}
		}
		stages = append(stages, FunnelStage{ID: status, Name: status, Count: count, Value: value})
	}
	for i := 1; i < len(stages); i++ {
		if prev := stages[i-1].Count; prev > 0 {
			stages[i].Conversion = float64(stages[i].Count) / float64(prev) * 100
		}
	}
	return stages
}

// ActiveFunnelValue sums the deal values of the four open stages,
// Prospecting through Negotiation.
func ActiveFunnelValue(stages []FunnelStage) float64 {
	total := 0.0
	for _, s := range stages {
		switch s.ID {
		case models.StatusProspecting, models.StatusPotential,
			models.StatusSolutioning, models.StatusNegotiation:
			total += s.Value
		}
	}
	return total
}

// CumulativeStage is one row of the cumulative funnel.
type CumulativeStage struct {
	Stage      string
	Label      string
	Cumulative int
	Conversion int // rounded percent of the previous cumulative count
	DropOff    int
	Critical   bool // drop-off above 50% on a non-initial stage
}

// CumulativeFunnel is the tracker's pipeline analysis.
type CumulativeFunnel struct {
	Stages        []CumulativeStage
	GlobalWinRate int // Won cumulative as a percentage of Prospecting cumulative
}

var cumulativeLabels = map[string]string{
	models.StatusProspecting: "Prospecting",
	models.StatusPotential:   "Qualified",
	models.StatusSolutioning: "Solutioning",
	models.StatusNegotiation: "Negotiation",
	models.StatusWon:         "Closed Won",
}

func calcConv(current, previous int) int {
	if previous == 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(previous) * 100))
}

// ComputeCumulativeFunnel counts each deal toward its stage and every
// earlier stage in the ordered sequence, so a Negotiation deal still counts
// as Prospecting, Potential, and Solutioning volume.
func ComputeCumulativeFunnel(deals []models.Deal) CumulativeFunnel {
	stageIndex := make(map[string]int, len(funnelOrder))
	for i, s := range funnelOrder {
		stageIndex[s] = i
	}

	counts := make([]int, len(funnelOrder))
	for _, d := range deals {
		idx, ok := stageIndex[d.PipelineStatus]
		if !ok {
			continue // Closed deals are not part of the funnel
		}
		for i := 0; i <= idx; i++ {
			counts[i]++
		}
	}

	stages := make([]CumulativeStage, len(funnelOrder))
	for i, status := range funnelOrder {
		conv := 100
		dropOff := 0
		if i > 0 {
			conv = calcConv(counts[i], counts[i-1])
			dropOff = 100 - conv
		}
		stages[i] = CumulativeStage{
			Stage:      status,
			Label:      cumulativeLabels[status],
			Cumulative: counts[i],
			Conversion: conv,
			DropOff:    dropOff,
			Critical:   i > 0 && dropOff > 50,
		}
	}

	return CumulativeFunnel{
		Stages:        stages,
		GlobalWinRate: calcConv(counts[len(counts)-1], counts[0]),
	}
}

// CriticalStages lists the labels of stages leaking more than half their
// volume, for the pipeline-health advisory.
func (f CumulativeFunnel) CriticalStages() []string {
	var out []string
	for _, s := range f.Stages {
		if s.Critical {
			out = append(out, s.Label)
		}
	}
	return out
}
