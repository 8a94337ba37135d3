package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastesense/internal/analytics"
)

func TestNewFrame(t *testing.T) {
	t.Run("header names are trimmed", func(t *testing.T) {
		f := NewFrame([]string{" a ", "b"}, [][]string{{"1", "2"}})

		assert.Equal(t, []string{"a", "b"}, f.Columns())
		assert.True(t, f.HasColumn("a"))
		assert.False(t, f.HasColumn(" a "))
	})

	t.Run("short rows pad and long rows truncate", func(t *testing.T) {
		f := NewFrame([]string{"a", "b"}, [][]string{
			{"1"},
			{"2", "3", "extra"},
		})

		require.Equal(t, 2, f.Len())
		b, ok := f.Column("b")
		require.True(t, ok)
		assert.Equal(t, []string{"", "3"}, b)
	})

	t.Run("numeric column detection", func(t *testing.T) {
		f := NewFrame(
			[]string{"id", "state", "qty", "mixed", "blank"},
			[][]string{
				{"1", "Texas", "10.5", "5", ""},
				{"2", "Ohio", "", "oops", ""},
			},
		)

		assert.Equal(t, []string{"id", "qty"}, f.NumericColumns())

		qty, ok := f.NumericColumn("qty")
		require.True(t, ok)
		assert.Equal(t, analytics.Num(10.5), qty[0])
		assert.False(t, qty[1].Valid, "empty cell stays missing inside a numeric column")

		_, ok = f.NumericColumn("mixed")
		assert.False(t, ok, "a single non-numeric cell keeps the column text-typed")

		_, ok = f.NumericColumn("blank")
		assert.False(t, ok, "an all-empty column is not numeric")
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want analytics.Number
	}{
		{"integer", "42", analytics.Num(42)},
		{"decimal", "3.14", analytics.Num(3.14)},
		{"negative", "-7.5", analytics.Num(-7.5)},
		{"whitespace trimmed", "  12 ", analytics.Num(12)},
		{"empty is missing", "", analytics.None()},
		{"whitespace only is missing", "   ", analytics.None()},
		{"garbage is missing", "n/a", analytics.None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.cell))
		})
	}
}
