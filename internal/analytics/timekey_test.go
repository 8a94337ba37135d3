package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthLabel(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		want   TimeKey
		wantOK bool
	}{
		{
			name:   "february maps to Q1",
			label:  "Feb-23",
			want:   TimeKey{Year: 2023, Month: 2, Quarter: 1},
			wantOK: true,
		},
		{
			name:   "march stays in Q1",
			label:  "Mar-23",
			want:   TimeKey{Year: 2023, Month: 3, Quarter: 1},
			wantOK: true,
		},
		{
			name:   "april starts Q2",
			label:  "Apr-23",
			want:   TimeKey{Year: 2023, Month: 4, Quarter: 2},
			wantOK: true,
		},
		{
			name:   "october maps to Q4",
			label:  "Oct-22",
			want:   TimeKey{Year: 2022, Month: 10, Quarter: 4},
			wantOK: true,
		},
		{
			name:   "december closes Q4",
			label:  "Dec-24",
			want:   TimeKey{Year: 2024, Month: 12, Quarter: 4},
			wantOK: true,
		},
		{
			name:   "surrounding whitespace is trimmed",
			label:  "  Jun-24  ",
			want:   TimeKey{Year: 2024, Month: 6, Quarter: 2},
			wantOK: true,
		},
		{
			name:   "numeric format rejected",
			label:  "2023-02",
			wantOK: false,
		},
		{
			name:   "unknown month rejected",
			label:  "Foo-23",
			wantOK: false,
		},
		{
			name:   "empty label rejected",
			label:  "",
			wantOK: false,
		},
		{
			name:   "full month name rejected",
			label:  "February-23",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMonthLabel(tt.label)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTimeKeyQuarterLabel(t *testing.T) {
	k := TimeKey{Year: 2023, Month: 8, Quarter: 3}
	assert.Equal(t, "Q3", k.QuarterLabel())
}
