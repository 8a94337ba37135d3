package analytics

// PctFromLimit computes how far waste overshoots the allowance, in percent.
// A zero allowance or zero waste short-circuits to 0: both are treated as
// "no risk signal" rather than clamped, which also keeps division by zero
// out of the arithmetic. This quirk is intentional and must be preserved.
func PctFromLimit(waste, allowance float64) float64 {
	if allowance == 0 || waste == 0 {
		return 0
	}
	return Round2((waste - allowance) / allowance * 100)
}

// Classify maps an aggregate row's signals to its risk status. The decision
// is two-tier: the limit-based rule always wins when pct_from_limit is
// defined; the trend-based rule is only a fallback for rows lacking a limit
// signal, never a secondary vote.
func Classify(pctFromLimit, pctChange Number) RiskStatus {
	if pctFromLimit.Valid {
		switch {
		case pctFromLimit.Value >= 120:
			return StatusHighRisk
		case pctFromLimit.Value >= 100:
			return StatusRisk
		case pctFromLimit.Value < 80:
			return StatusVeryGood
		default:
			return StatusGood
		}
	}

	if pctChange.Valid {
		switch {
		case pctChange.Value > 10:
			return StatusHighRisk
		case pctChange.Value > 0:
			return StatusRisk
		case pctChange.Value < -10:
			return StatusVeryGood
		default:
			return StatusGood
		}
	}

	return StatusNotClassified
}
