package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	t.Run("header plus rows", func(t *testing.T) {
		input := "a,b,c\n1,Texas,2.5\n2,Ohio,3.5\n"

		f, err := LoadCSV(strings.NewReader(input))

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, f.Columns())
		assert.Equal(t, 2, f.Len())
	})

	t.Run("ragged rows are tolerated", func(t *testing.T) {
		input := "a,b\n1\n2,3,4\n"

		f, err := LoadCSV(strings.NewReader(input))

		require.NoError(t, err)
		require.Equal(t, 2, f.Len())
		b, _ := f.Column("b")
		assert.Equal(t, []string{"", "3"}, b)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader(""))
		assert.Error(t, err)
	})
}

func TestLoadExcel(t *testing.T) {
	workbook := func(t *testing.T, rows [][]interface{}) *bytes.Reader {
		t.Helper()
		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		return bytes.NewReader(buf.Bytes())
	}

	t.Run("first sheet first row as header", func(t *testing.T) {
		r := workbook(t, [][]interface{}{
			{"a", "b"},
			{1, "Texas"},
			{2, "Ohio"},
		})

		f, err := LoadExcel(r)

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, f.Columns())
		assert.Equal(t, 2, f.Len())
		assert.Equal(t, []string{"a"}, f.NumericColumns())
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := LoadExcel(strings.NewReader("plain text"))
		assert.Error(t, err)
	})
}

func TestLoadDispatch(t *testing.T) {
	t.Run("csv extension routes to the csv reader", func(t *testing.T) {
		f, err := Load("upload.CSV", strings.NewReader("a\n1\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, f.Columns())
	})

	t.Run("anything else goes through the excel reader", func(t *testing.T) {
		_, err := Load("upload.xlsx", strings.NewReader("a\n1\n"))
		assert.Error(t, err, "csv bytes are not a workbook")
	})
}
