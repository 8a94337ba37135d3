package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyQuarterChange(t *testing.T) {
	t.Run("zero prior waste leaves change null", func(t *testing.T) {
		table := []QuarterAggregate{
			{DistributorID: 101, Year: 2023, Quarter: 1, TotalWaste: 0},
			{DistributorID: 101, Year: 2023, Quarter: 2, TotalWaste: 50},
		}

		applyQuarterChange(table)

		assert.False(t, table[0].PctChange.Valid)
		assert.False(t, table[1].PctChange.Valid, "ratio against zero prior is undefined")
	})

	t.Run("change chains across states chronologically", func(t *testing.T) {
		// Display order sorts Ohio before Texas, but the prior quarter for
		// the Ohio 2023 Q2 row is the Texas 2023 Q1 row.
		table := []QuarterAggregate{
			{DistributorID: 101, State: "Ohio", Year: 2023, Quarter: 2, TotalWaste: 200},
			{DistributorID: 101, State: "Texas", Year: 2023, Quarter: 1, TotalWaste: 100},
		}

		applyQuarterChange(table)

		require.True(t, table[0].PctChange.Valid)
		assert.Equal(t, 100.0, table[0].PctChange.Value)
		assert.False(t, table[1].PctChange.Valid, "2023 Q1 is the distributor's first quarter")
	})

	t.Run("distributor boundary resets the prior", func(t *testing.T) {
		table := []QuarterAggregate{
			{DistributorID: 101, Year: 2023, Quarter: 1, TotalWaste: 100},
			{DistributorID: 101, Year: 2023, Quarter: 2, TotalWaste: 80},
			{DistributorID: 202, Year: 2023, Quarter: 1, TotalWaste: 40},
		}

		applyQuarterChange(table)

		assert.False(t, table[0].PctChange.Valid)
		require.True(t, table[1].PctChange.Valid)
		assert.Equal(t, -20.0, table[1].PctChange.Value)
		assert.False(t, table[2].PctChange.Valid, "first row of a new distributor has no prior")
	})
}

func TestParseQuarterLabel(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		want    QuarterRef
		wantErr bool
	}{
		{"plain form", "2022 Q2", QuarterRef{Year: 2022, Quarter: 2}, false},
		{"legacy year-repeated form", "2022 2022Q2", QuarterRef{Year: 2022, Quarter: 2}, false},
		{"lowercase quarter", "2023 q4", QuarterRef{Year: 2023, Quarter: 4}, false},
		{"surrounding whitespace", "  2023 Q1  ", QuarterRef{Year: 2023, Quarter: 1}, false},
		{"missing quarter part", "2022", QuarterRef{}, true},
		{"non-numeric year", "twenty Q1", QuarterRef{}, true},
		{"quarter out of range", "2022 Q5", QuarterRef{}, true},
		{"garbage quarter", "2022 QX", QuarterRef{}, true},
		{"empty", "", QuarterRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuarterLabel(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistributorTrend(t *testing.T) {
	table := []QuarterAggregate{
		{DistributorID: 101, State: "Texas", Year: 2023, Quarter: 2, TotalWaste: 60, PctChange: Num(20), Status: StatusGood},
		{DistributorID: 101, State: "Texas", Year: 2022, Quarter: 4, TotalWaste: 50, Status: StatusVeryGood},
		{DistributorID: 202, State: "Ohio", Year: 2023, Quarter: 1, TotalWaste: 10},
	}

	t.Run("quarters come back in chronological order", func(t *testing.T) {
		trend, err := DistributorTrend(table, 101)

		require.NoError(t, err)
		require.Len(t, trend, 2)
		assert.Equal(t, "2022 Q4", trend[0].Quarter)
		assert.Equal(t, 50.0, trend[0].Waste)
		assert.False(t, trend[0].PctChange.Valid)
		assert.Equal(t, "2023 Q2", trend[1].Quarter)
		assert.Equal(t, Num(20), trend[1].PctChange)
		assert.Equal(t, StatusGood, trend[1].Status)
	})

	t.Run("unknown distributor", func(t *testing.T) {
		_, err := DistributorTrend(table, 999)
		assert.ErrorIs(t, err, ErrDistributorNotFound)
	})
}

func TestCompareQuarters(t *testing.T) {
	table := []QuarterAggregate{
		{DistributorID: 101, State: "Texas", Year: 2022, Quarter: 2, TotalWaste: 100, Status: StatusGood},
		{DistributorID: 101, State: "Texas", Year: 2022, Quarter: 3, TotalWaste: 150, Status: StatusRisk},
		{DistributorID: 202, State: "Texas", Year: 2022, Quarter: 2, TotalWaste: 80, Status: StatusVeryGood},
		{DistributorID: 303, State: "Texas", Year: 2022, Quarter: 3, TotalWaste: 40, Status: StatusGood},
	}
	q2 := QuarterRef{Year: 2022, Quarter: 2}
	q3 := QuarterRef{Year: 2022, Quarter: 3}

	t.Run("unknown state", func(t *testing.T) {
		_, err := CompareQuarters(table, "Nowhere", q2, q3, []int64{101})
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("waste increase trends up", func(t *testing.T) {
		rows, err := CompareQuarters(table, "Texas", q2, q3, []int64{101})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		row := rows[0]
		assert.Equal(t, int64(101), row.DistributorID)
		assert.Equal(t, Num(100), row.WasteQ1)
		assert.Equal(t, Num(150), row.WasteQ2)
		assert.Equal(t, 50.0, row.Delta)
		assert.Equal(t, "up", row.Trend)
		assert.Equal(t, "Good → Risk", row.StatusChange)
	})

	t.Run("reversed quarters trend down", func(t *testing.T) {
		rows, err := CompareQuarters(table, "Texas", q3, q2, []int64{101})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, -50.0, rows[0].Delta)
		assert.Equal(t, "down", rows[0].Trend)
	})

	t.Run("distributor missing from one quarter keeps a null side", func(t *testing.T) {
		rows, err := CompareQuarters(table, "Texas", q2, q3, []int64{202})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		row := rows[0]
		assert.Equal(t, Num(80), row.WasteQ1)
		assert.False(t, row.WasteQ2.Valid, "no Q3 row for this distributor")
		assert.Equal(t, -80.0, row.Delta)
		assert.Equal(t, "down", row.Trend)
		assert.Equal(t, "Very Good → Unknown", row.StatusChange)
	})

	t.Run("distributor absent from both quarters is skipped", func(t *testing.T) {
		rows, err := CompareQuarters(table, "Texas", q2, q3, []int64{101, 999})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(101), rows[0].DistributorID)
	})

	t.Run("identical quarters self-compare per distributor", func(t *testing.T) {
		rows, err := CompareQuarters(table, "Texas", q2, q2, []int64{101, 202})

		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.Equal(t, row.WasteQ1, row.WasteQ2)
			assert.Equal(t, 0.0, row.Delta)
			assert.Equal(t, "flat", row.Trend)
		}
		assert.Equal(t, "Good → Good", rows[0].StatusChange)
		assert.Equal(t, "Very Good → Very Good", rows[1].StatusChange)
	})
}

func TestTopRisky(t *testing.T) {
	table := []QuarterAggregate{
		{DistributorID: 101, State: "Texas", PctFromLimit: 30.26, Status: StatusVeryGood},
		{DistributorID: 202, State: "Ohio", PctFromLimit: 130, Status: StatusHighRisk},
		{DistributorID: 303, State: "Iowa", PctFromLimit: 105, Status: StatusRisk},
	}

	t.Run("ranked by pct from limit descending", func(t *testing.T) {
		top := TopRisky(table, 2)

		require.Len(t, top, 2)
		assert.Equal(t, int64(202), top[0].DistributorID)
		assert.Equal(t, 130.0, top[0].RiskPct)
		assert.Equal(t, StatusHighRisk, top[0].Status)
		assert.Equal(t, int64(303), top[1].DistributorID)
	})

	t.Run("risk pct rounds to 1 decimal", func(t *testing.T) {
		top := TopRisky(table, 3)
		assert.Equal(t, 30.3, top[2].RiskPct)
	})

	t.Run("n larger than table", func(t *testing.T) {
		assert.Len(t, TopRisky(table, 10), 3)
	})

	t.Run("input order untouched", func(t *testing.T) {
		TopRisky(table, 3)
		assert.Equal(t, int64(101), table[0].DistributorID)
	})
}
