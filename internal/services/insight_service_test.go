package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastesense/internal/analytics"
	"wastesense/internal/dataset"
)

const sampleCSV = `Distributor ID,US States,Months,Deliveries_Quantity,Returns_Quantity,Waste_Allowance_Quantity,Waste_Quantity_Sum
101,Texas,Jan-23,1000,50,100,40
101,Texas,Feb-23,1000,50,100,40
101,Texas,Apr-23,1000,120,100,250
202,Ohio,Jan-23,500,10,200,30
`

func newTestService(t *testing.T) *InsightService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInsightService(dataset.NewStore(), logger)
}

func uploadSample(t *testing.T, svc *InsightService) *UploadResult {
	t.Helper()
	result, err := svc.Upload(context.Background(), "sample.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return result
}

func TestInsightServiceUpload(t *testing.T) {
	t.Run("builds records and the quarter table", func(t *testing.T) {
		svc := newTestService(t)

		result := uploadSample(t, svc)

		assert.Equal(t, 4, result.Rows)
		assert.Len(t, result.Columns, 7)
		// 101 Texas Q1+Q2 and 202 Ohio Q1
		assert.Equal(t, 3, result.QuarterRows)
	})

	t.Run("broken schema surfaces a schema error", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Upload(context.Background(), "bad.csv", strings.NewReader("a,b\n1,2\n"))

		var schemaErr *analytics.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("new upload replaces the previous dataset", func(t *testing.T) {
		svc := newTestService(t)
		uploadSample(t, svc)

		smaller := "Distributor ID,US States,Months,Deliveries_Quantity,Returns_Quantity,Waste_Allowance_Quantity,Waste_Quantity_Sum\n" +
			"303,Iowa,Jan-23,10,1,10,5\n"
		result, err := svc.Upload(context.Background(), "v2.csv", strings.NewReader(smaller))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Rows)

		top, err := svc.TopRisky(context.Background())
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, int64(303), top[0].DistributorID)
	})
}

func TestInsightServiceRequiresDataset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.RiskOverview(ctx, analytics.OverviewFilter{})
	assert.ErrorIs(t, err, dataset.ErrNoDataset)

	_, err = svc.DistributorTrend(ctx, 101)
	assert.ErrorIs(t, err, dataset.ErrNoDataset)

	_, err = svc.Alerts(ctx, analytics.AlertFilter{})
	assert.ErrorIs(t, err, dataset.ErrNoDataset)

	_, err = svc.Correlation(ctx)
	assert.ErrorIs(t, err, dataset.ErrNoDataset)

	_, err = svc.QuarterTable(ctx)
	assert.ErrorIs(t, err, dataset.ErrNoDataset)
}

func TestInsightServiceQueries(t *testing.T) {
	svc := newTestService(t)
	uploadSample(t, svc)
	ctx := context.Background()

	t.Run("distributor trend", func(t *testing.T) {
		trend, err := svc.DistributorTrend(ctx, 101)

		require.NoError(t, err)
		assert.Equal(t, int64(101), trend.DistributorID)
		require.Len(t, trend.Trend, 2)
		assert.Equal(t, "2023 Q1", trend.Trend[0].Quarter)
		assert.Equal(t, 80.0, trend.Trend[0].Waste)
		assert.Equal(t, "2023 Q2", trend.Trend[1].Quarter)
		require.True(t, trend.Trend[1].PctChange.Valid)
		assert.Equal(t, 212.5, trend.Trend[1].PctChange.Value)
	})

	t.Run("quarter comparison", func(t *testing.T) {
		comparison, err := svc.CompareQuarters(ctx, ComparisonRequest{
			State:        "Texas",
			QuarterA:     analytics.QuarterRef{Year: 2023, Quarter: 1},
			QuarterB:     analytics.QuarterRef{Year: 2023, Quarter: 2},
			Distributors: []int64{101},
		})

		require.NoError(t, err)
		assert.Equal(t, "2023 Q1", comparison.QuarterA)
		assert.Equal(t, "2023 Q2", comparison.QuarterB)
		require.Len(t, comparison.Comparison, 1)
		assert.Equal(t, "up", comparison.Comparison[0].Trend)
	})

	t.Run("alerts", func(t *testing.T) {
		report, err := svc.Alerts(ctx, analytics.AlertFilter{})

		require.NoError(t, err)
		// 101: waste 330 vs allowance 300 raises HIGH; 202 is well under.
		assert.Equal(t, 1, report.Summary.High)
		assert.Equal(t, 1, report.Summary.Low)
	})

	t.Run("correlation over numeric columns", func(t *testing.T) {
		result, err := svc.Correlation(ctx)

		require.NoError(t, err)
		assert.Contains(t, result.Features, "Deliveries_Quantity")
		assert.Contains(t, result.Features, "Waste_Quantity_Sum")
		assert.NotContains(t, result.Features, "US States")
		assert.NotContains(t, result.Features, "Months")
	})

	t.Run("root cause requires importances first", func(t *testing.T) {
		_, err := svc.RootCause(ctx)
		assert.ErrorIs(t, err, analytics.ErrNoImportances)

		svc.SetImportances(ctx, []analytics.FeatureImportance{
			{Feature: "returns_rate", Importance: 0.7},
			{Feature: "storage_days", Importance: 0.3},
		})

		report, err := svc.RootCause(ctx)
		require.NoError(t, err)
		assert.Equal(t, "returns_rate", report.PrimaryCause.Feature)
	})

	t.Run("inventory kpis and charts", func(t *testing.T) {
		kpis, err := svc.InventoryKPIs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 360.0, kpis.TotalWaste)
		assert.Equal(t, 500.0, kpis.TotalAllowance)

		charts, err := svc.InventoryCharts(ctx)
		require.NoError(t, err)
		require.Len(t, charts.AllowedVsActual, 3)
		assert.Equal(t, "Jan", charts.AllowedVsActual[0].Month)
		require.Len(t, charts.LossTrend, 3)
		assert.Equal(t, charts.AllowedVsActual[2].Actual, charts.LossTrend[2].Value)
	})

	t.Run("dataset info", func(t *testing.T) {
		rows, uploadedAt, loaded := svc.DatasetInfo()
		assert.True(t, loaded)
		assert.Equal(t, 4, rows)
		assert.False(t, uploadedAt.IsZero())
	})
}
