package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"wastesense/internal/analytics"
)

// WriteOptions configures CSV rendering behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

var quarterTableHeaders = []string{
	"distributor_id",
	"state",
	"quarter",
	"total_deliveries",
	"total_returns",
	"total_waste_allowance",
	"total_waste",
	"pct_from_limit",
	"pct_change_from_prior_quarter",
	"status",
}

// WriteQuarterTable streams the distributor-quarter table as CSV. Null
// change percentages render as empty cells.
func WriteQuarterTable(w io.Writer, rows []analytics.QuarterAggregate, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(quarterTableHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range rows {
		record := []string{
			formatInt(row.DistributorID),
			row.State,
			row.QuarterLabel(),
			formatFloat(row.TotalDeliveries),
			formatFloat(row.TotalReturns),
			formatFloat(row.TotalAllowance),
			formatFloat(row.TotalWaste),
			formatFloat(row.PctFromLimit),
			formatNumber(row.PctChange),
			string(row.Status),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatFloat renders a value with exactly 2 decimal places so that 13.4
// appears as 13.40 in the export.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

func formatNumber(n analytics.Number) string {
	if !n.Valid {
		return ""
	}
	return formatFloat(n.Value)
}
