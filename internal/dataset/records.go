package dataset

import (
	"strconv"
	"strings"

	"wastesense/internal/analytics"
)

// BuildRecords converts a Frame into typed records for the analytics
// pipeline. The required schema is validated once, up front; after that
// every row is handled tolerantly: rows with a missing distributor id or
// state are dropped (they cannot participate in any aggregation), numeric
// measures coerce to missing, and an unparseable month label leaves the
// record without a time key instead of failing the batch.
func BuildRecords(f *Frame) ([]analytics.Record, error) {
	if err := analytics.ValidateSchema(f.Columns()); err != nil {
		return nil, err
	}

	ids, _ := f.Column(analytics.ColDistributorID)
	states, _ := f.Column(analytics.ColState)
	months, _ := f.Column(analytics.ColMonths)
	deliveries, _ := f.Column(analytics.ColDeliveries)
	returns, _ := f.Column(analytics.ColReturns)
	allowances, _ := f.Column(analytics.ColAllowance)
	wastes, _ := f.Column(analytics.ColWaste)

	records := make([]analytics.Record, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		id, ok := parseDistributorID(ids[i])
		state := strings.TrimSpace(states[i])
		if !ok || state == "" {
			continue
		}

		rec := analytics.Record{
			DistributorID: id,
			State:         state,
			Deliveries:    ParseNumber(deliveries[i]),
			Returns:       ParseNumber(returns[i]),
			Allowance:     ParseNumber(allowances[i]),
			Waste:         ParseNumber(wastes[i]),
		}
		if tk, ok := analytics.ParseMonthLabel(months[i]); ok {
			rec.Time = &tk
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseDistributorID accepts integer ids, also in float spellings such as
// "101.0" that spreadsheet exports produce.
func parseDistributorID(cell string) (int64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int64(v)) {
		return 0, false
	}
	return int64(v), true
}
