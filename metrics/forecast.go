// ABOUTME: Forecast bucketing for PO and invoice projections
// ABOUTME: Probable and confirmed item filters with month grouping and sort

package metrics

import (
	"sort"

	"github.com/vsdcomms/salesdesk/models"
)

// ForecastKind distinguishes purchase-order projections from invoice ones.
type ForecastKind string

const (
	KindPO      ForecastKind = "PO"
	KindInvoice ForecastKind = "Invoice"
)

// ForecastItem is one deal's appearance in a forecast bucket. A deal with
// both a PO and an invoice percentage staged appears twice, once per kind.
type ForecastItem struct {
	Deal models.Deal
	Kind ForecastKind
	Pct  int
}

// ProbableItems returns deals forecast at 75% PO or 50% invoice.
// Closed deals are skipped for both kinds here; the confirmed filter below
// deliberately does not skip them, matching the numbers users already
// reconcile against.
func ProbableItems(deals []models.Deal) []ForecastItem {
	var items []ForecastItem
	for _, d := range deals {
		if d.PipelineStatus == models.StatusClosed {
			continue
		}
		if d.ForecastedPoPercentage != nil && *d.ForecastedPoPercentage == 75 {
			items = append(items, ForecastItem{Deal: d, Kind: KindPO, Pct: 75})
		}
		if d.ForecastedInvoicePercentage != nil && *d.ForecastedInvoicePercentage == 50 {
			items = append(items, ForecastItem{Deal: d, Kind: KindInvoice, Pct: 50})
		}
	}
	return items
}

// ConfirmedItems returns deals forecast at 100% PO or 100% invoice,
// including Closed deals.
func ConfirmedItems(deals []models.Deal) []ForecastItem {
	var items []ForecastItem
	for _, d := range deals {
		if d.ForecastedPoPercentage != nil && *d.ForecastedPoPercentage == 100 {
			items = append(items, ForecastItem{Deal: d, Kind: KindPO, Pct: 100})
		}
		if d.ForecastedInvoicePercentage != nil && *d.ForecastedInvoicePercentage == 100 {
			items = append(items, ForecastItem{Deal: d, Kind: KindInvoice, Pct: 100})
		}
	}
	return items
}

// Month returns the grouping bucket for the item: the PO month for PO
// items, the invoice month for invoice items, "Unscheduled" when unset.
func (it ForecastItem) Month() string {
	m := it.Deal.EstimatedInvoiceMonth
	if it.Kind == KindPO {
		m = it.Deal.ForecastedPoMonth
	}
	if m == "" {
		return models.UnscheduledBucket
	}
	return m
}

// GroupByMonth buckets items under their month labels.
func GroupByMonth(items []ForecastItem) map[string][]ForecastItem {
	grouped := make(map[string][]ForecastItem)
	for _, it := range items {
		m := it.Month()
		grouped[m] = append(grouped[m], it)
	}
	return grouped
}

// SortMonths orders bucket keys by calendar position. Keys outside the
// canonical month list ("Unscheduled" included) sort last at index 99.
func SortMonths(keys []string) []string {
	idx := func(m string) int {
		for i, name := range models.Months {
			if name == m {
				return i
			}
		}
		return 99
	}
	out := make([]string, len(keys))
	copy(out, keys)
	sort.SliceStable(out, func(i, j int) bool {
		return idx(out[i]) < idx(out[j])
	})
	return out
}

// MonthKeys returns the sorted bucket labels of a grouped forecast.
func MonthKeys(grouped map[string][]ForecastItem) []string {
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	return SortMonths(keys)
}
