package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load parses an uploaded file into a Frame. Files named *.csv are read as
// CSV; everything else goes through the Excel reader, mirroring the upload
// boundary's original behavior.
func Load(filename string, r io.Reader) (*Frame, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return LoadCSV(r)
	}
	return LoadExcel(r)
}

// LoadCSV reads a header row plus data rows. Ragged rows are tolerated;
// the Frame pads or truncates them against the header.
func LoadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv file has no header row")
	}
	return NewFrame(rows[0], rows[1:]), nil
}

// LoadExcel reads the first sheet of a workbook, first row as header.
func LoadExcel(r io.Reader) (*Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}
	return NewFrame(rows[0], rows[1:]), nil
}
