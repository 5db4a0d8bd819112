// ABOUTME: Derived pipeline metrics for the dashboard
// ABOUTME: Pure functions over the deal collection, no store access

package metrics

import (
	"math"
	"strconv"
	"strings"

	"github.com/vsdcomms/salesdesk/models"
)

// StageWeights maps pipeline status to its revenue-probability weight.
// Closed carries weight zero so a closed-lost deal never forecasts revenue.
var StageWeights = map[string]float64{
	models.StatusProspecting: 0.1,
	models.StatusPotential:   0.3,
	models.StatusSolutioning: 0.6,
	models.StatusNegotiation: 0.9,
	models.StatusWon:         1.0,
	models.StatusClosed:      0.0,
}

// DefaultTargetRevenue is used when the profile target cannot be parsed.
const DefaultTargetRevenue = 100000

func isActive(d models.Deal) bool {
	return d.PipelineStatus != models.StatusWon && d.PipelineStatus != models.StatusClosed
}

// WeightedForecast sums value*weight over active deals. Won and Closed
// deals are excluded entirely; an unmapped status weighs zero.
func WeightedForecast(deals []models.Deal) float64 {
	total := 0.0
	for _, d := range deals {
		if !isActive(d) {
			continue
		}
		total += d.Value * StageWeights[d.PipelineStatus]
	}
	return total
}

// RawPipelineValue sums value over active deals.
func RawPipelineValue(deals []models.Deal) float64 {
	total := 0.0
	for _, d := range deals {
		if isActive(d) {
			total += d.Value
		}
	}
	return total
}

// TotalWon sums value over Won deals.
func TotalWon(deals []models.Deal) float64 {
	total := 0.0
	for _, d := range deals {
		if d.PipelineStatus == models.StatusWon {
			total += d.Value
		}
	}
	return total
}

// WinRate is the rounded percentage of deals that are Won, 0 when the
// collection is empty.
func WinRate(deals []models.Deal) int {
	if len(deals) == 0 {
		return 0
	}
	won := 0
	for _, d := range deals {
		if d.PipelineStatus == models.StatusWon {
			won++
		}
	}
	return int(math.Round(float64(won) / float64(len(deals)) * 100))
}

// ParseTargetRevenue parses a free-text currency string like "RM 100,000"
// by stripping everything except digits and the decimal point. Unparseable
// input falls back to the default target.
func ParseTargetRevenue(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v == 0 {
		return DefaultTargetRevenue
	}
	return v
}
