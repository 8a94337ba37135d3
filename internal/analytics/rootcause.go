package analytics

import "sort"

// rootCauseActions is fixed presentation text, not derived data.
var rootCauseActions = []string{
	"Improve return handling for top-risk distributors",
	"Optimize delivery quantities using demand signals",
	"Reduce storage duration for slow-moving inventory",
}

// RootCause renormalizes the externally trained model's importance list to
// percentages summing to 100 and surfaces the top 5: the single highest as
// primary cause and the next two as secondary drivers. The importance list
// itself comes from the out-of-scope model collaborator.
func RootCause(importances []FeatureImportance) (*RootCauseReport, error) {
	if len(importances) == 0 {
		return nil, ErrNoImportances
	}

	total := 0.0
	for _, fi := range importances {
		total += fi.Importance
	}
	if total == 0 {
		return nil, ErrNoImportances
	}

	factors := make([]ContributingFactor, 0, len(importances))
	for _, fi := range importances {
		factors = append(factors, ContributingFactor{
			Feature:         fi.Feature,
			ContributionPct: Round2(fi.Importance / total * 100),
		})
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].ContributionPct > factors[j].ContributionPct
	})
	if len(factors) > 5 {
		factors = factors[:5]
	}

	report := &RootCauseReport{
		TopFactors: factors,
		PrimaryCause: CauseDriver{
			Feature: factors[0].Feature,
			Reason:  "Primary driver based on highest model contribution",
		},
		SecondaryDrivers:   []CauseDriver{},
		RecommendedActions: rootCauseActions,
	}
	for _, f := range factors[1:min(3, len(factors))] {
		report.SecondaryDrivers = append(report.SecondaryDrivers, CauseDriver{
			Feature: f.Feature,
			Reason:  "Secondary contributor to inventory loss",
		})
	}
	return report, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
