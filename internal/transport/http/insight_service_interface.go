package http

import (
	"context"
	"io"
	"time"

	"wastesense/internal/analytics"
	"wastesense/internal/services"
)

// InsightProvider is the service surface the handlers depend on.
type InsightProvider interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*services.UploadResult, error)
	RiskOverview(ctx context.Context, filter analytics.OverviewFilter) (*analytics.RiskOverview, error)
	DistributorTrend(ctx context.Context, distributorID int64) (*services.DistributorTrendResult, error)
	CompareQuarters(ctx context.Context, req services.ComparisonRequest) (*services.QuarterComparison, error)
	TopRisky(ctx context.Context) ([]analytics.RiskyDistributor, error)
	QuarterTable(ctx context.Context) ([]analytics.QuarterAggregate, error)
	Alerts(ctx context.Context, filter analytics.AlertFilter) (*analytics.AlertReport, error)
	Correlation(ctx context.Context) (*analytics.CorrelationResult, error)
	SetImportances(ctx context.Context, importances []analytics.FeatureImportance)
	RootCause(ctx context.Context) (*analytics.RootCauseReport, error)
	InventoryKPIs(ctx context.Context) (*analytics.InventoryKPIs, error)
	InventoryCharts(ctx context.Context) (*services.InventoryCharts, error)
	DistributorStatus(ctx context.Context) ([]analytics.DistributorStatusRow, error)
	DatasetInfo() (rows int, uploadedAt time.Time, loaded bool)
}
