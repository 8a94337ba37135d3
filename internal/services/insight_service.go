package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"wastesense/internal/analytics"
	"wastesense/internal/dataset"
)

// UploadResult reports what an upload produced.
type UploadResult struct {
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
	QuarterRows int      `json:"quarter_rows"`
}

// ComparisonRequest is a validated two-quarter comparison query.
type ComparisonRequest struct {
	State        string
	QuarterA     analytics.QuarterRef
	QuarterB     analytics.QuarterRef
	Distributors []int64
}

// QuarterComparison is the comparison payload returned to the dashboard.
type QuarterComparison struct {
	State      string                    `json:"state"`
	QuarterA   string                    `json:"quarter_a"`
	QuarterB   string                    `json:"quarter_b"`
	Comparison []analytics.ComparisonRow `json:"comparison"`
}

// InventoryCharts is the monthly allowed-vs-actual payload.
type InventoryCharts struct {
	AllowedVsActual []analytics.MonthlyUsage `json:"allowed_vs_actual"`
	LossTrend       []LossPoint              `json:"loss_trend"`
}

// LossPoint is one month of the loss trend line.
type LossPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// DistributorTrendResult pairs a distributor with its quarter-wise trend.
type DistributorTrendResult struct {
	DistributorID int64                  `json:"distributor_id"`
	Trend         []analytics.TrendPoint `json:"trend"`
}

// InsightService runs every analytics query against the current dataset
// snapshot. Each call takes one consistent snapshot reference up front, so
// a concurrent upload can never tear a computation in half.
type InsightService struct {
	store  *dataset.Store
	logger *slog.Logger
}

// NewInsightService creates the service with an injected store and logger.
func NewInsightService(store *dataset.Store, logger *slog.Logger) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightService{
		store:  store,
		logger: logger.With(slog.String("component", "insight_service")),
	}
}

// Upload parses the uploaded file, rebuilds the distributor-quarter table,
// and atomically publishes the new snapshot. The previous snapshot stays
// intact for readers that already hold it.
func (s *InsightService) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	start := time.Now()

	frame, err := dataset.Load(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse upload %q: %w", filename, err)
	}

	records, err := dataset.BuildRecords(frame)
	if err != nil {
		return nil, fmt.Errorf("build records: %w", err)
	}

	quarters := analytics.BuildQuarterTable(records)

	s.store.Replace(&dataset.Snapshot{
		Frame:      frame,
		Records:    records,
		Quarters:   quarters,
		UploadedAt: time.Now(),
	})

	s.logger.InfoContext(ctx, "dataset uploaded",
		slog.String("filename", filename),
		slog.Int("rows", frame.Len()),
		slog.Int("records", len(records)),
		slog.Int("quarter_rows", len(quarters)),
		slog.Duration("duration", time.Since(start)),
	)

	return &UploadResult{
		Rows:        frame.Len(),
		Columns:     frame.Columns(),
		QuarterRows: len(quarters),
	}, nil
}

// RiskOverview builds the overview tab from one snapshot.
func (s *InsightService) RiskOverview(ctx context.Context, filter analytics.OverviewFilter) (*analytics.RiskOverview, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	overview := analytics.BuildRiskOverview(snap.Records, snap.Quarters, filter)
	return &overview, nil
}

// DistributorTrend returns one distributor's quarter-wise waste trend.
func (s *InsightService) DistributorTrend(ctx context.Context, distributorID int64) (*DistributorTrendResult, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	trend, err := analytics.DistributorTrend(snap.Quarters, distributorID)
	if err != nil {
		return nil, err
	}
	return &DistributorTrendResult{DistributorID: distributorID, Trend: trend}, nil
}

// CompareQuarters runs the two-quarter comparison.
func (s *InsightService) CompareQuarters(ctx context.Context, req ComparisonRequest) (*QuarterComparison, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	rows, err := analytics.CompareQuarters(snap.Quarters, req.State, req.QuarterA, req.QuarterB, req.Distributors)
	if err != nil {
		return nil, err
	}
	return &QuarterComparison{
		State:      req.State,
		QuarterA:   fmt.Sprintf("%d Q%d", req.QuarterA.Year, req.QuarterA.Quarter),
		QuarterB:   fmt.Sprintf("%d Q%d", req.QuarterB.Year, req.QuarterB.Quarter),
		Comparison: rows,
	}, nil
}

// QuarterTable returns the full distributor-quarter table, used by the
// CSV export.
func (s *InsightService) QuarterTable(ctx context.Context) ([]analytics.QuarterAggregate, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Quarters, nil
}

// TopRisky returns the five riskiest aggregate rows.
func (s *InsightService) TopRisky(ctx context.Context) ([]analytics.RiskyDistributor, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.TopRisky(snap.Quarters, 5), nil
}

// Alerts runs the alert engine and applies the optional filters.
func (s *InsightService) Alerts(ctx context.Context, filter analytics.AlertFilter) (*analytics.AlertReport, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	report := analytics.AlertsReport(snap.Records, filter)
	s.logger.DebugContext(ctx, "alerts computed",
		slog.Int("high", report.Summary.High),
		slog.Int("medium", report.Summary.Medium),
		slog.Int("low", report.Summary.Low),
		slog.Int("returned", len(report.Alerts)),
	)
	return &report, nil
}

// Correlation computes the correlation heatmap over the snapshot's
// numeric-typed columns.
func (s *InsightService) Correlation(ctx context.Context) (*analytics.CorrelationResult, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	features := snap.Frame.NumericColumns()
	columns := make([][]analytics.Number, 0, len(features))
	for _, name := range features {
		col, _ := snap.Frame.NumericColumn(name)
		columns = append(columns, col)
	}
	return analytics.Correlate(features, columns)
}

// SetImportances stores the model collaborator's ranked importance list.
func (s *InsightService) SetImportances(ctx context.Context, importances []analytics.FeatureImportance) {
	s.store.SetImportances(importances)
	s.logger.InfoContext(ctx, "feature importances updated",
		slog.Int("features", len(importances)),
	)
}

// RootCause renormalizes the stored importances into the root-cause report.
func (s *InsightService) RootCause(ctx context.Context) (*analytics.RootCauseReport, error) {
	importances, err := s.store.Importances()
	if err != nil {
		return nil, err
	}
	return analytics.RootCause(importances)
}

// InventoryKPIs returns the headline inventory figures.
func (s *InsightService) InventoryKPIs(ctx context.Context) (*analytics.InventoryKPIs, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	kpis := analytics.BuildInventoryKPIs(snap.Records)
	return &kpis, nil
}

// InventoryCharts returns the last six months of allowed-vs-actual waste.
func (s *InsightService) InventoryCharts(ctx context.Context) (*InventoryCharts, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	monthly := analytics.BuildMonthlyUsage(snap.Records, 6)
	loss := make([]LossPoint, 0, len(monthly))
	for _, m := range monthly {
		loss = append(loss, LossPoint{Month: m.Month, Value: m.Actual})
	}
	return &InventoryCharts{AllowedVsActual: monthly, LossTrend: loss}, nil
}

// DistributorStatus returns the stale-allowance status table.
func (s *InsightService) DistributorStatus(ctx context.Context) ([]analytics.DistributorStatusRow, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.BuildDistributorStatus(snap.Records), nil
}

// DatasetInfo reports whether a dataset is loaded, for the health endpoint.
func (s *InsightService) DatasetInfo() (rows int, uploadedAt time.Time, loaded bool) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return 0, time.Time{}, false
	}
	return snap.Frame.Len(), snap.UploadedAt, true
}
