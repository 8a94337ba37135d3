package analytics

import (
	"sort"
)

// Input schema required for the distributor-quarter aggregation. The upload
// boundary hands the core these exact column names.
const (
	ColDistributorID = "Distributor ID"
	ColState         = "US States"
	ColMonths        = "Months"
	ColDeliveries    = "Deliveries_Quantity"
	ColReturns       = "Returns_Quantity"
	ColAllowance     = "Waste_Allowance_Quantity"
	ColWaste         = "Waste_Quantity_Sum"
)

// RequiredColumns lists every column the aggregation depends on.
var RequiredColumns = []string{
	ColDistributorID,
	ColState,
	ColMonths,
	ColDeliveries,
	ColReturns,
	ColAllowance,
	ColWaste,
}

// ValidateSchema checks the input schema once, before any aggregation, and
// reports every absent required column in a single SchemaError.
func ValidateSchema(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

type quarterKey struct {
	distributorID int64
	state         string
	year          int
	quarter       int
}

// BuildQuarterTable groups records by (distributor, state, year, quarter) and
// sums the four measures within each group, producing one row per observed
// key. Rows without a parsed time key are dropped before grouping, sums are
// rounded to 2 decimals, and no unobserved key is zero-filled. The table is
// then ordered by (distributor, state, year, quarter) and annotated with the
// quarter-over-quarter change and risk status.
func BuildQuarterTable(records []Record) []QuarterAggregate {
	groups := make(map[quarterKey]*QuarterAggregate)
	order := make([]quarterKey, 0)

	for _, rec := range records {
		if rec.Time == nil {
			continue
		}
		key := quarterKey{rec.DistributorID, rec.State, rec.Time.Year, rec.Time.Quarter}
		agg, ok := groups[key]
		if !ok {
			agg = &QuarterAggregate{
				DistributorID: key.distributorID,
				State:         key.state,
				Year:          key.year,
				Quarter:       key.quarter,
			}
			groups[key] = agg
			order = append(order, key)
		}
		// Missing measures contribute nothing to the sum; a group whose
		// measures are all missing still aggregates to 0.
		if rec.Deliveries.Valid {
			agg.TotalDeliveries += rec.Deliveries.Value
		}
		if rec.Returns.Valid {
			agg.TotalReturns += rec.Returns.Value
		}
		if rec.Allowance.Valid {
			agg.TotalAllowance += rec.Allowance.Value
		}
		if rec.Waste.Valid {
			agg.TotalWaste += rec.Waste.Value
		}
	}

	table := make([]QuarterAggregate, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		agg.TotalDeliveries = Round2(agg.TotalDeliveries)
		agg.TotalReturns = Round2(agg.TotalReturns)
		agg.TotalAllowance = Round2(agg.TotalAllowance)
		agg.TotalWaste = Round2(agg.TotalWaste)
		agg.PctFromLimit = PctFromLimit(agg.TotalWaste, agg.TotalAllowance)
		table = append(table, *agg)
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.DistributorID != b.DistributorID {
			return a.DistributorID < b.DistributorID
		}
		if a.State != b.State {
			return a.State < b.State
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Quarter < b.Quarter
	})

	applyQuarterChange(table)

	for i := range table {
		table[i].Status = Classify(Num(table[i].PctFromLimit), table[i].PctChange)
	}

	return table
}
