package analytics

import (
	"fmt"
	"sort"
)

// Alert rule thresholds. Fixed business rules, not tuned parameters.
const (
	// HighAlertRatio: waste over allowance beyond 100% usage.
	HighAlertRatio = 1.0
	// MediumAlertRatio: returns above 8% of deliveries.
	MediumAlertRatio = 0.08
	// LowAlertRatio: waste comfortably below 60% of allowance.
	LowAlertRatio = 0.6
)

// AlertFilter restricts the deduplicated alert list. The zero value (or the
// "ALL" sentinel at the request layer) disables each filter. Filters never
// affect the summary counts, only the returned list.
type AlertFilter struct {
	Severity      Severity
	DistributorID int64 // 0 disables
	State         string
}

type alertGroup struct {
	distributorID int64
	state         string
	deliveries    float64
	returns       float64
	allowance     float64
	waste         float64
}

// groupByDistributorState sums the four measures per (distributor, state)
// pair over the raw records, ignoring the time axis entirely. Groups come
// back in sorted key order so the alert list is deterministic.
func groupByDistributorState(records []Record) []alertGroup {
	type key struct {
		id    int64
		state string
	}
	groups := make(map[key]*alertGroup)
	for _, rec := range records {
		k := key{rec.DistributorID, rec.State}
		g, ok := groups[k]
		if !ok {
			g = &alertGroup{distributorID: k.id, state: k.state}
			groups[k] = g
		}
		g.deliveries += rec.Deliveries.Or(0)
		g.returns += rec.Returns.Or(0)
		g.allowance += rec.Allowance.Or(0)
		g.waste += rec.Waste.Or(0)
	}

	out := make([]alertGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].distributorID != out[j].distributorID {
			return out[i].distributorID < out[j].distributorID
		}
		return out[i].state < out[j].state
	})
	return out
}

// BuildAlerts derives the full, non-deduplicated alert set from raw records.
// A group with a zero denominator is excluded from that rule's evaluation
// entirely: no alert and no error. The HIGH and LOW rules share the
// waste/allowance grouping and their thresholds are disjoint, so a group
// never triggers both.
func BuildAlerts(records []Record) []Alert {
	groups := groupByDistributorState(records)
	var alerts []Alert

	for _, g := range groups {
		if g.allowance <= 0 {
			continue
		}
		usage := g.waste / g.allowance
		if usage > HighAlertRatio {
			alerts = append(alerts, Alert{
				Severity:      SeverityHigh,
				Title:         "Waste Threshold Exceeded",
				Description:   fmt.Sprintf("Waste exceeded allowance by %.1f%%", (usage-1)*100),
				DistributorID: g.distributorID,
				State:         g.state,
				Category:      "Stale Inventory",
				TimeRef:       "Recent",
			})
		}
	}

	for _, g := range groups {
		if g.deliveries <= 0 {
			continue
		}
		returnRate := g.returns / g.deliveries
		if returnRate > MediumAlertRatio {
			alerts = append(alerts, Alert{
				Severity:      SeverityMedium,
				Title:         "High Return Rate",
				Description:   fmt.Sprintf("Returns at %.1f%% of deliveries", returnRate*100),
				DistributorID: g.distributorID,
				State:         g.state,
				Category:      "Returns",
				TimeRef:       "Recent",
			})
		}
	}

	for _, g := range groups {
		if g.allowance <= 0 {
			continue
		}
		if g.waste/g.allowance < LowAlertRatio {
			alerts = append(alerts, Alert{
				Severity:      SeverityLow,
				Title:         "Good Inventory Control",
				Description:   "Waste well within allowed limits",
				DistributorID: g.distributorID,
				State:         g.state,
				Category:      "Positive Signal",
				TimeRef:       "Recent",
			})
		}
	}

	return alerts
}

// SummarizeAlerts counts distinct distributors per severity bucket over the
// pre-dedup alert set.
func SummarizeAlerts(alerts []Alert) AlertSummary {
	distinct := map[Severity]map[int64]bool{
		SeverityHigh:   {},
		SeverityMedium: {},
		SeverityLow:    {},
	}
	for _, a := range alerts {
		distinct[a.Severity][a.DistributorID] = true
	}
	return AlertSummary{
		High:   len(distinct[SeverityHigh]),
		Medium: len(distinct[SeverityMedium]),
		Low:    len(distinct[SeverityLow]),
	}
}

// DedupeAlerts keeps exactly one alert per distributor, the highest-priority
// one. The sort by priority descending is stable, so ties within a priority
// keep the first encountered.
func DedupeAlerts(alerts []Alert) []Alert {
	ordered := make([]Alert, len(alerts))
	copy(ordered, alerts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.priority() > ordered[j].Severity.priority()
	})

	seen := make(map[int64]bool)
	deduped := ordered[:0]
	for _, a := range ordered {
		if seen[a.DistributorID] {
			continue
		}
		seen[a.DistributorID] = true
		deduped = append(deduped, a)
	}
	return deduped
}

// FilterAlerts applies the optional equality filters after deduplication.
func FilterAlerts(alerts []Alert, filter AlertFilter) []Alert {
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.DistributorID != 0 && a.DistributorID != filter.DistributorID {
			continue
		}
		if filter.State != "" && a.State != filter.State {
			continue
		}
		out = append(out, a)
	}
	return out
}

// AlertsReport runs the full alert computation: rule evaluation, pre-dedup
// summary, priority deduplication, then the optional filters.
func AlertsReport(records []Record, filter AlertFilter) AlertReport {
	all := BuildAlerts(records)
	return AlertReport{
		Summary: SummarizeAlerts(all),
		Alerts:  FilterAlerts(DedupeAlerts(all), filter),
	}
}
