package analytics

import (
	"strings"
	"time"
)

// monthLabelLayout matches abbreviated-month + two-digit-year labels such as
// "Feb-23", the only format the upload boundary emits.
const monthLabelLayout = "Jan-06"

// ParseMonthLabel derives the TimeKey for a Mon-YY month label. Any label
// that does not match the expected pattern yields ok=false for that row
// rather than aborting the batch; such rows are excluded from quarter-keyed
// aggregation but still participate in computations that need no time axis.
func ParseMonthLabel(label string) (TimeKey, bool) {
	t, err := time.Parse(monthLabelLayout, strings.TrimSpace(label))
	if err != nil {
		return TimeKey{}, false
	}

	month := int(t.Month())
	return TimeKey{
		Year:  t.Year(),
		Month: month,
		// Integer arithmetic on the 1-based month, not a calendar lookup:
		// 1-3 -> Q1, 4-6 -> Q2, 7-9 -> Q3, 10-12 -> Q4.
		Quarter: (month-1)/3 + 1,
	}, true
}
