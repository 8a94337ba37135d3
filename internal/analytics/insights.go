package analytics

import (
	"fmt"
	"sort"
	"time"
)

// StateWaste is one state's total waste for the overview chart.
type StateWaste struct {
	State string  `json:"state"`
	Value float64 `json:"value"`
}

// OverviewRisk is one distributor's normalized 0-100 risk entry on the
// overview tab. Its status is the coarse UI scale, not the five-way
// classification.
type OverviewRisk struct {
	DistributorID int64   `json:"distributor_id"`
	State         string  `json:"state"`
	RiskPct       float64 `json:"risk_pct"`
	Status        string  `json:"status"`
}

// RiskOverview is the global summary for the overview tab.
type RiskOverview struct {
	StateWiseWaste       []StateWaste   `json:"state_wise_waste"`
	HighRiskDistributors []OverviewRisk `json:"high_risk_distributors"`
	KeyInsights          []string       `json:"key_insights"`
}

// OverviewFilter restricts the overview to selected years and month names.
// Empty slices disable a filter. State and distributor filters are accepted
// by the request layer but deliberately ignored for the global charts.
type OverviewFilter struct {
	Years  []int
	Months []string // abbreviated names, e.g. "Feb"
}

func monthName(m int) string {
	return time.Month(m).String()[:3]
}

func (f OverviewFilter) keep(t *TimeKey) bool {
	if t == nil {
		return false
	}
	if len(f.Years) > 0 {
		ok := false
		for _, y := range f.Years {
			if t.Year == y {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Months) > 0 {
		ok := false
		for _, m := range f.Months {
			if monthName(t.Month) == m {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (f OverviewFilter) keepYear(year int) bool {
	if len(f.Years) == 0 {
		return true
	}
	for _, y := range f.Years {
		if year == y {
			return true
		}
	}
	return false
}

// BuildRiskOverview assembles the overview tab: top-10 state-wise waste over
// the time-filtered raw records, top-5 risky distributors from the aggregate
// table (year filter only), and the key-insight strings derived from both.
func BuildRiskOverview(records []Record, table []QuarterAggregate, filter OverviewFilter) RiskOverview {
	totalWaste := 0.0
	stateTotals := make(map[string]float64)
	for _, rec := range records {
		if !filter.keep(rec.Time) {
			continue
		}
		w := rec.Waste.Or(0)
		totalWaste += w
		stateTotals[rec.State] += w
	}

	states := make([]StateWaste, 0, len(stateTotals))
	for state, v := range stateTotals {
		states = append(states, StateWaste{State: state, Value: Round2(v)})
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].Value != states[j].Value {
			return states[i].Value > states[j].Value
		}
		return states[i].State < states[j].State
	})
	if len(states) > 10 {
		states = states[:10]
	}

	risky, riskyWaste := rankOverviewRisk(table, filter)

	var insights []string
	if len(states) > 0 && totalWaste > 0 {
		top := states[0]
		insights = append(insights, fmt.Sprintf(
			"%s accounts for %.0f%% of total stale inventory losses.",
			top.State, top.Value/totalWaste*100,
		))
	}
	pctTop5 := 0.0
	if totalWaste > 0 {
		pctTop5 = riskyWaste / totalWaste * 100
	}
	insights = append(insights, fmt.Sprintf(
		"Top 5 distributors contribute to %.0f%% of total waste.", pctTop5,
	))

	return RiskOverview{
		StateWiseWaste:       states,
		HighRiskDistributors: risky,
		KeyInsights:          insights,
	}
}

// rankOverviewRisk groups the aggregate table by (distributor, state),
// normalizes the mean pct_from_limit to a 0-100 scale, and returns the five
// riskiest entries plus their combined waste.
func rankOverviewRisk(table []QuarterAggregate, filter OverviewFilter) ([]OverviewRisk, float64) {
	type key struct {
		id    int64
		state string
	}
	type acc struct {
		waste  float64
		pctSum float64
		count  int
	}
	groups := make(map[key]*acc)
	for _, row := range table {
		if !filter.keepYear(row.Year) {
			continue
		}
		k := key{row.DistributorID, row.State}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.waste += row.TotalWaste
		g.pctSum += row.PctFromLimit
		g.count++
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}
		return keys[i].state < keys[j].state
	})

	entries := make([]OverviewRisk, 0, len(keys))
	wasteByID := make(map[int64]float64)
	for _, k := range keys {
		g := groups[k]
		riskPct := g.pctSum / float64(g.count)
		if riskPct < 0 {
			riskPct = 0
		}
		if riskPct > 100 {
			riskPct = 100
		}
		status := "OK"
		switch {
		case riskPct >= 80:
			status = "High Risk"
		case riskPct >= 60:
			status = "Risk"
		}
		entries = append(entries, OverviewRisk{
			DistributorID: k.id,
			State:         k.state,
			RiskPct:       Round1(riskPct),
			Status:        status,
		})
		wasteByID[k.id] += g.waste
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RiskPct > entries[j].RiskPct
	})
	if len(entries) > 5 {
		entries = entries[:5]
	}

	topWaste := 0.0
	counted := make(map[int64]bool)
	for _, e := range entries {
		if !counted[e.DistributorID] {
			counted[e.DistributorID] = true
			topWaste += wasteByID[e.DistributorID]
		}
	}
	return entries, topWaste
}

// InventoryKPIs are the headline inventory figures.
type InventoryKPIs struct {
	TotalWaste     float64 `json:"total_waste"`
	TotalAllowance float64 `json:"total_allowance"`
	UtilizationPct float64 `json:"utilization_rate"`
	HighRiskStates int     `json:"high_risk_states"`
}

// BuildInventoryKPIs sums waste and allowance over all raw records, with a
// zero total allowance yielding a 0% utilization, and counts states at or
// above 80% utilization. States with zero allowance are excluded from the
// high-risk count since their utilization is undefined.
func BuildInventoryKPIs(records []Record) InventoryKPIs {
	totalWaste, totalAllowance := 0.0, 0.0
	type acc struct{ waste, allowance float64 }
	states := make(map[string]*acc)
	for _, rec := range records {
		w, a := rec.Waste.Or(0), rec.Allowance.Or(0)
		totalWaste += w
		totalAllowance += a
		g, ok := states[rec.State]
		if !ok {
			g = &acc{}
			states[rec.State] = g
		}
		g.waste += w
		g.allowance += a
	}

	utilization := 0.0
	if totalAllowance > 0 {
		utilization = totalWaste / totalAllowance * 100
	}

	highRisk := 0
	for _, g := range states {
		if g.allowance > 0 && g.waste/g.allowance*100 >= 80 {
			highRisk++
		}
	}

	return InventoryKPIs{
		TotalWaste:     Round2(totalWaste),
		TotalAllowance: Round2(totalAllowance),
		UtilizationPct: Round1(utilization),
		HighRiskStates: highRisk,
	}
}

// MonthlyUsage is one month of allowed-vs-actual waste.
type MonthlyUsage struct {
	Month   string  `json:"month"`
	Allowed float64 `json:"allowed"`
	Actual  float64 `json:"actual"`
}

// BuildMonthlyUsage aggregates allowance and waste per observed month,
// ordered chronologically, returning the last n months. Rows without a
// parsed time key are dropped.
func BuildMonthlyUsage(records []Record, n int) []MonthlyUsage {
	type key struct{ year, month int }
	type acc struct{ allowed, actual float64 }
	groups := make(map[key]*acc)
	for _, rec := range records {
		if rec.Time == nil {
			continue
		}
		k := key{rec.Time.Year, rec.Time.Month}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.allowed += rec.Allowance.Or(0)
		g.actual += rec.Waste.Or(0)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	if len(keys) > n {
		keys = keys[len(keys)-n:]
	}

	out := make([]MonthlyUsage, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, MonthlyUsage{
			Month:   monthName(k.month),
			Allowed: Round2(g.allowed),
			Actual:  Round2(g.actual),
		})
	}
	return out
}

// DistributorStatusRow is one row of the stale-allowance status table.
type DistributorStatusRow struct {
	DistributorID  int64   `json:"distributor_id"`
	Allowance      float64 `json:"allowance"`
	ActualWaste    float64 `json:"actual_waste"`
	UtilizationPct float64 `json:"utilization_pct"`
	Status         string  `json:"status"`
}

// BuildDistributorStatus aggregates allowance and waste per distributor with
// median imputation for missing measures, classifies each row on its
// deviation from the limit, and collapses the status to the UI badge. A
// zero-allowance distributor falls back to the median allowance as
// denominator. Rows come back sorted by utilization descending.
func BuildDistributorStatus(records []Record) []DistributorStatusRow {
	medAllowance := medianOf(records, func(r Record) Number { return r.Allowance })
	medWaste := medianOf(records, func(r Record) Number { return r.Waste })

	type acc struct{ allowance, waste float64 }
	groups := make(map[int64]*acc)
	ids := make([]int64, 0)
	for _, rec := range records {
		g, ok := groups[rec.DistributorID]
		if !ok {
			g = &acc{}
			groups[rec.DistributorID] = g
			ids = append(ids, rec.DistributorID)
		}
		g.allowance += rec.Allowance.Or(medAllowance)
		g.waste += rec.Waste.Or(medWaste)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]DistributorStatusRow, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		denom := g.allowance
		if denom == 0 {
			denom = medAllowance
		}
		utilization, pctFromLimit := 0.0, 0.0
		if denom != 0 {
			utilization = g.waste / denom * 100
			pctFromLimit = (g.waste - g.allowance) / denom * 100
		}
		status := Classify(Num(pctFromLimit), None())
		rows = append(rows, DistributorStatusRow{
			DistributorID:  id,
			Allowance:      Round2(g.allowance),
			ActualWaste:    Round2(g.waste),
			UtilizationPct: Round1(utilization),
			Status:         status.Badge(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UtilizationPct > rows[j].UtilizationPct
	})
	return rows
}

func medianOf(records []Record, pick func(Record) Number) float64 {
	var values []float64
	for _, rec := range records {
		if v := pick(rec); v.Valid {
			values = append(values, v.Value)
		}
	}
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}
