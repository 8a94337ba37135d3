package analytics

import (
	"math"
	"sort"
)

// Relationship strength thresholds.
const (
	StrongThreshold   = 0.75
	ModerateThreshold = 0.4
	// InverseThreshold only catches negative correlations at or below -0.4.
	// The asymmetry with the absolute-value buckets is deliberate and kept.
	InverseThreshold = -0.4
)

// relationshipBucketSize caps each bucket at its top entries.
const relationshipBucketSize = 5

// Correlate computes the full pairwise Pearson correlation matrix over the
// given numeric columns, rounded to 2 decimals, plus the bucketed key
// relationships. Fewer than two features is an ErrInsufficientFeatures.
// Cells whose correlation is undefined (constant column, no overlapping
// observations) are explicit nulls, never NaN, and feed no bucket.
func Correlate(features []string, columns [][]Number) (*CorrelationResult, error) {
	if len(features) < 2 {
		return nil, ErrInsufficientFeatures
	}

	n := len(features)
	matrix := make([][]Number, n)
	for i := range matrix {
		matrix[i] = make([]Number, n)
		matrix[i][i] = Num(1.0)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(columns[i], columns[j])
			if r.Valid {
				r = Num(Round2(r.Value))
			}
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	// Flatten all off-diagonal pairs. Each unordered pair appears twice,
	// once per direction, so bucket selection is symmetric regardless of
	// iteration order.
	var relationships []Relationship
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || !matrix[i][j].Valid {
				continue
			}
			v := matrix[i][j].Value
			relationships = append(relationships, Relationship{
				Feature1: features[i],
				Feature2: features[j],
				Value:    v,
				Abs:      math.Abs(v),
			})
		}
	}

	return &CorrelationResult{
		Features: features,
		Matrix:   matrix,
		Strong: topByAbs(filterRelationships(relationships, func(r Relationship) bool {
			return r.Abs >= StrongThreshold
		})),
		Moderate: topByAbs(filterRelationships(relationships, func(r Relationship) bool {
			return r.Abs >= ModerateThreshold && r.Abs < StrongThreshold
		})),
		Inverse: topByMostNegative(filterRelationships(relationships, func(r Relationship) bool {
			return r.Value <= InverseThreshold
		})),
	}, nil
}

// pearson computes the correlation over pairwise-complete observations:
// rows where either side is missing are skipped for that pair.
func pearson(x, y []Number) Number {
	var sx, sy, sxx, syy, sxy float64
	count := 0
	for k := range x {
		if !x[k].Valid || !y[k].Valid {
			continue
		}
		a, b := x[k].Value, y[k].Value
		sx += a
		sy += b
		sxx += a * a
		syy += b * b
		sxy += a * b
		count++
	}
	if count < 2 {
		return None()
	}

	fn := float64(count)
	cov := sxy - sx*sy/fn
	varX := sxx - sx*sx/fn
	varY := syy - sy*sy/fn
	if varX <= 0 || varY <= 0 {
		return None()
	}
	return Num(cov / math.Sqrt(varX*varY))
}

func filterRelationships(rels []Relationship, keep func(Relationship) bool) []Relationship {
	out := []Relationship{}
	for _, r := range rels {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func topByAbs(rels []Relationship) []Relationship {
	sort.SliceStable(rels, func(i, j int) bool {
		return rels[i].Abs > rels[j].Abs
	})
	if len(rels) > relationshipBucketSize {
		rels = rels[:relationshipBucketSize]
	}
	return rels
}

// topByMostNegative ranks by signed value ascending, so the strongest
// negative correlations come first.
func topByMostNegative(rels []Relationship) []Relationship {
	sort.SliceStable(rels, func(i, j int) bool {
		return rels[i].Value < rels[j].Value
	})
	if len(rels) > relationshipBucketSize {
		rels = rels[:relationshipBucketSize]
	}
	return rels
}
