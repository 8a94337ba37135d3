package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPctFromLimit(t *testing.T) {
	tests := []struct {
		name      string
		waste     float64
		allowance float64
		want      float64
	}{
		{"zero allowance short-circuits", 500, 0, 0},
		{"zero waste short-circuits", 0, 100, 0},
		{"both zero", 0, 0, 0},
		{"under the limit goes negative", 25, 100, -75},
		{"at the limit", 100, 100, 0},
		{"over the limit", 220, 100, 120},
		{"rounded to 2 decimals", 100.555, 100, 0.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PctFromLimit(tt.waste, tt.allowance))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		pctFromLimit Number
		pctChange    Number
		want         RiskStatus
	}{
		{"limit at 120 is high risk", Num(120), None(), StatusHighRisk},
		{"limit above 120 is high risk", Num(250), None(), StatusHighRisk},
		{"limit at 100 is risk", Num(100), None(), StatusRisk},
		{"limit just under 120 is risk", Num(119.99), None(), StatusRisk},
		{"limit below 80 is very good", Num(-75), None(), StatusVeryGood},
		{"limit just under 80 is very good", Num(79.99), None(), StatusVeryGood},
		{"limit between 80 and 100 is good", Num(90), None(), StatusGood},
		{"limit at 80 is good", Num(80), None(), StatusGood},
		{"limit rule wins over trend", Num(90), Num(50), StatusGood},
		{"trend fallback above 10 is high risk", None(), Num(10.01), StatusHighRisk},
		{"trend fallback positive is risk", None(), Num(5), StatusRisk},
		{"trend fallback below -10 is very good", None(), Num(-11), StatusVeryGood},
		{"trend fallback mild decline is good", None(), Num(-5), StatusGood},
		{"trend fallback zero is good", None(), Num(0), StatusGood},
		{"no signal at all", None(), None(), StatusNotClassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.pctFromLimit, tt.pctChange))
		})
	}
}

func TestRiskStatusBadge(t *testing.T) {
	assert.Equal(t, "Exceeded", StatusHighRisk.Badge())
	assert.Equal(t, "At Risk", StatusRisk.Badge())
	assert.Equal(t, "OK", StatusGood.Badge())
	assert.Equal(t, "OK", StatusVeryGood.Badge())
	assert.Equal(t, "OK", StatusNotClassified.Badge())
}
