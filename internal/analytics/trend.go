package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// applyQuarterChange computes pct_change_from_prior_quarter for each
// distributor over its rows in chronological (year, quarter) order. State is
// not part of that ordering, so a distributor active in several states still
// chains against its true prior quarter. Rows for one distributor must be
// contiguous in the table. The first quarter for a distributor has no prior
// and stays null, never zero; a zero-waste prior quarter also yields null
// since the ratio is undefined.
func applyQuarterChange(table []QuarterAggregate) {
	for i := range table {
		table[i].PctChange = None()
	}

	for start := 0; start < len(table); {
		end := start
		for end < len(table) && table[end].DistributorID == table[start].DistributorID {
			end++
		}

		idx := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			idx = append(idx, i)
		}
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := table[idx[a]], table[idx[b]]
			if ra.Year != rb.Year {
				return ra.Year < rb.Year
			}
			return ra.Quarter < rb.Quarter
		})

		for n := 1; n < len(idx); n++ {
			prior := table[idx[n-1]].TotalWaste
			if prior == 0 {
				continue
			}
			row := &table[idx[n]]
			row.PctChange = Num(Round2((row.TotalWaste/prior - 1) * 100))
		}

		start = end
	}
}

// DistributorTrend returns the quarter-ordered waste trend for one
// distributor, across all of its states.
func DistributorTrend(table []QuarterAggregate, distributorID int64) ([]TrendPoint, error) {
	var rows []QuarterAggregate
	for _, row := range table {
		if row.DistributorID == distributorID {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrDistributorNotFound
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Quarter < rows[j].Quarter
	})

	points := make([]TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, TrendPoint{
			Quarter:   row.QuarterLabel(),
			Waste:     row.TotalWaste,
			PctChange: row.PctChange,
			Status:    row.Status,
		})
	}
	return points, nil
}

// ParseQuarterLabel parses a quarter label of the form "2022 Q2". The legacy
// "2022 2022Q2" form, where the year is repeated inside the quarter part,
// is accepted too.
func ParseQuarterLabel(label string) (QuarterRef, error) {
	parts := strings.Fields(strings.TrimSpace(label))
	if len(parts) != 2 {
		return QuarterRef{}, fmt.Errorf("invalid quarter label %q", label)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return QuarterRef{}, fmt.Errorf("invalid quarter label %q: %w", label, err)
	}

	q := strings.TrimPrefix(strings.ToUpper(parts[1]), parts[0])
	if len(q) != 2 || q[0] != 'Q' || q[1] < '1' || q[1] > '4' {
		return QuarterRef{}, fmt.Errorf("invalid quarter label %q", label)
	}

	return QuarterRef{Year: year, Quarter: int(q[1] - '0')}, nil
}

// CompareQuarters compares 1-2 distributors' waste between two quarters
// within one state. Identical quarters short-circuit to a self-comparison
// with delta 0 instead of a self-join. Otherwise the two quarter subsets are
// outer-joined on distributor id: a distributor present in only one quarter
// keeps a null waste on the missing side while the delta arithmetic treats
// it as 0, and its status renders as "Unknown" in the transition.
func CompareQuarters(table []QuarterAggregate, state string, qa, qb QuarterRef, distributorIDs []int64) ([]ComparisonRow, error) {
	var stateRows []QuarterAggregate
	for _, row := range table {
		if row.State == state {
			stateRows = append(stateRows, row)
		}
	}
	if len(stateRows) == 0 {
		return nil, ErrStateNotFound
	}

	wanted := make(map[int64]bool, len(distributorIDs))
	for _, id := range distributorIDs {
		wanted[id] = true
	}

	selectQuarter := func(ref QuarterRef) map[int64]QuarterAggregate {
		rows := make(map[int64]QuarterAggregate)
		for _, row := range stateRows {
			if row.Year == ref.Year && row.Quarter == ref.Quarter && wanted[row.DistributorID] {
				if _, seen := rows[row.DistributorID]; !seen {
					rows[row.DistributorID] = row
				}
			}
		}
		return rows
	}

	rowsA := selectQuarter(qa)

	if qa == qb {
		rows := make([]ComparisonRow, 0, len(rowsA))
		for _, id := range distributorIDs {
			row, ok := rowsA[id]
			if !ok {
				continue
			}
			rows = append(rows, ComparisonRow{
				DistributorID: id,
				WasteQ1:       Num(row.TotalWaste),
				WasteQ2:       Num(row.TotalWaste),
				Delta:         0,
				Trend:         "flat",
				StatusChange:  fmt.Sprintf("%s → %s", row.Status, row.Status),
			})
		}
		return rows, nil
	}

	rowsB := selectQuarter(qb)

	rows := make([]ComparisonRow, 0, len(distributorIDs))
	for _, id := range distributorIDs {
		a, inA := rowsA[id]
		b, inB := rowsB[id]
		if !inA && !inB {
			continue
		}

		wasteA, wasteB := None(), None()
		statusA, statusB := "Unknown", "Unknown"
		if inA {
			wasteA = Num(a.TotalWaste)
			statusA = string(a.Status)
		}
		if inB {
			wasteB = Num(b.TotalWaste)
			statusB = string(b.Status)
		}

		delta := Round2(wasteB.Or(0) - wasteA.Or(0))
		trend := "flat"
		if delta > 0 {
			trend = "up"
		} else if delta < 0 {
			trend = "down"
		}

		rows = append(rows, ComparisonRow{
			DistributorID: id,
			WasteQ1:       wasteA,
			WasteQ2:       wasteB,
			Delta:         delta,
			Trend:         trend,
			StatusChange:  fmt.Sprintf("%s → %s", statusA, statusB),
		})
	}
	return rows, nil
}

// TopRisky ranks all aggregate rows by pct_from_limit descending and returns
// the top n. The sort is stable so ties keep input order.
func TopRisky(table []QuarterAggregate, n int) []RiskyDistributor {
	ranked := make([]QuarterAggregate, len(table))
	copy(ranked, table)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PctFromLimit > ranked[j].PctFromLimit
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]RiskyDistributor, 0, n)
	for _, row := range ranked[:n] {
		top = append(top, RiskyDistributor{
			DistributorID: row.DistributorID,
			State:         row.State,
			RiskPct:       Round1(row.PctFromLimit),
			Status:        row.Status,
		})
	}
	return top
}
