package analytics

import (
	"encoding/json"
	"fmt"
	"math"
)

// RiskStatus is the five-way classification of a distributor-quarter row.
type RiskStatus string

const (
	StatusHighRisk      RiskStatus = "High Risk"
	StatusRisk          RiskStatus = "Risk"
	StatusGood          RiskStatus = "Good"
	StatusVeryGood      RiskStatus = "Very Good"
	StatusNotClassified RiskStatus = "Not Classified"
)

// Badge collapses the five-way status to the three-way UI badge.
func (s RiskStatus) Badge() string {
	switch s {
	case StatusHighRisk:
		return "Exceeded"
	case StatusRisk:
		return "At Risk"
	default:
		return "OK"
	}
}

// Number is an optional float64. Missing values stay missing instead of
// propagating as NaN; arithmetic on them is decided explicitly at each branch.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a present Number.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// None returns a missing Number.
func None() Number {
	return Number{}
}

// Or returns the value when present, otherwise the fallback.
func (n Number) Or(fallback float64) float64 {
	if n.Valid {
		return n.Value
	}
	return fallback
}

// MarshalJSON serializes a missing Number as an explicit null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts null for a missing value.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Num(v)
	return nil
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// TimeKey is the (year, month, quarter) derived from a Mon-YY month label.
type TimeKey struct {
	Year    int
	Month   int // 1-12
	Quarter int // 1-4
}

// QuarterLabel renders the quarter as Q1..Q4.
func (k TimeKey) QuarterLabel() string {
	return fmt.Sprintf("Q%d", k.Quarter)
}

// Record is one transactional row after the upload boundary has parsed it.
// Time is nil when the month label did not parse; such rows are excluded
// from quarter-keyed aggregation but still feed the alert rules.
type Record struct {
	DistributorID int64
	State         string
	Time          *TimeKey
	Deliveries    Number
	Returns       Number
	Allowance     Number
	Waste         Number
}

// QuarterAggregate is one row of the distributor-quarter table, keyed by
// (distributor, state, year, quarter). The table is rebuilt wholesale on
// every dataset update and never mutated in place.
type QuarterAggregate struct {
	DistributorID   int64      `json:"distributor_id"`
	State           string     `json:"state"`
	Year            int        `json:"year"`
	Quarter         int        `json:"quarter"`
	TotalDeliveries float64    `json:"total_deliveries"`
	TotalReturns    float64    `json:"total_returns"`
	TotalAllowance  float64    `json:"total_waste_allowance"`
	TotalWaste      float64    `json:"total_waste"`
	PctFromLimit    float64    `json:"pct_from_limit"`
	PctChange       Number     `json:"pct_change_from_prior_quarter"`
	Status          RiskStatus `json:"status"`
}

// QuarterLabel renders the row's period as "2023 Q1".
func (a QuarterAggregate) QuarterLabel() string {
	return fmt.Sprintf("%d Q%d", a.Year, a.Quarter)
}

// Severity is the alert priority tier.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// priority orders severities for deduplication: HIGH(3) > MEDIUM(2) > LOW(1).
func (s Severity) priority() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Alert is an ephemeral severity-tagged signal, recomputed on every query.
type Alert struct {
	Severity      Severity `json:"severity"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	DistributorID int64    `json:"distributor_id"`
	State         string   `json:"state"`
	Category      string   `json:"category"`
	TimeRef       string   `json:"time_ref"`
}

// AlertSummary counts distinct distributors per severity, computed before
// deduplication. A distributor can appear in more than one bucket here even
// though it keeps a single alert in the final list.
type AlertSummary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// AlertReport is the full alert computation: pre-dedup summary plus the
// deduplicated, filtered alert list.
type AlertReport struct {
	Summary AlertSummary `json:"summary"`
	Alerts  []Alert      `json:"alerts"`
}

// Relationship is one directed feature pair with its correlation value.
// Each unordered pair appears twice in the flattened list, once per direction.
type Relationship struct {
	Feature1 string  `json:"f1"`
	Feature2 string  `json:"f2"`
	Value    float64 `json:"value"`
	Abs      float64 `json:"abs"`
}

// CorrelationResult is the heatmap payload plus bucketed key relationships.
type CorrelationResult struct {
	Features []string       `json:"features"`
	Matrix   [][]Number     `json:"matrix"`
	Strong   []Relationship `json:"strong"`
	Moderate []Relationship `json:"moderate"`
	Inverse  []Relationship `json:"inverse"`
}

// TrendPoint is one quarter of a single distributor's waste trend.
type TrendPoint struct {
	Quarter   string     `json:"quarter"`
	Waste     float64    `json:"waste"`
	PctChange Number     `json:"pct_change"`
	Status    RiskStatus `json:"status"`
}

// QuarterRef identifies one quarter, e.g. the "2022 Q2" half of a comparison.
type QuarterRef struct {
	Year    int
	Quarter int
}

// ComparisonRow is one distributor's two-quarter comparison. WasteQ1/WasteQ2
// stay null when the distributor has no row in that quarter, which is distinct
// from a recorded zero-waste quarter; the delta arithmetic treats the missing
// side as 0.
type ComparisonRow struct {
	DistributorID int64   `json:"distributor_id"`
	WasteQ1       Number  `json:"total_waste_q1"`
	WasteQ2       Number  `json:"total_waste_q2"`
	Delta         float64 `json:"delta"`
	Trend         string  `json:"trend"`
	StatusChange  string  `json:"status_change"`
}

// RiskyDistributor is one entry of the top-risky ranking.
type RiskyDistributor struct {
	DistributorID int64      `json:"distributor_id"`
	State         string     `json:"state"`
	RiskPct       float64    `json:"risk_pct"`
	Status        RiskStatus `json:"status"`
}

// FeatureImportance is one entry of the ranked importance list supplied by
// the externally trained model.
type FeatureImportance struct {
	Feature    string  `json:"feature" validate:"required"`
	Importance float64 `json:"importance" validate:"gte=0"`
}

// ContributingFactor is a feature's share of the total model importance.
type ContributingFactor struct {
	Feature         string  `json:"feature"`
	ContributionPct float64 `json:"contribution_pct"`
}

// CauseDriver names a feature with a fixed explanatory reason.
type CauseDriver struct {
	Feature string `json:"feature"`
	Reason  string `json:"reason"`
}

// RootCauseReport renormalizes model importances to percentages and surfaces
// the leading drivers with fixed recommended actions.
type RootCauseReport struct {
	TopFactors         []ContributingFactor `json:"top_factors"`
	PrimaryCause       CauseDriver          `json:"primary_cause"`
	SecondaryDrivers   []CauseDriver        `json:"secondary_drivers"`
	RecommendedActions []string             `json:"recommended_actions"`
}
