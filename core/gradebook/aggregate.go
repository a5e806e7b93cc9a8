package gradebook

// Grade bucket lower bounds, closed-above: exactly 90.0 is an A.
const (
	bucketA = 90
	bucketB = 80
	bucketC = 70
	bucketD = 60
)

// Summarize converts a list of scores into summary statistics.
// A score with Total <= 0 or no obtained marks is excluded from all
// aggregates: not counted, not summed, not bucketed.
func Summarize(scores []Score) GradeSummary {
	summary := GradeSummary{
		HighestGrade: 0,
		LowestGrade:  100,
	}

	var sum float64
	for _, s := range scores {
		if s.Obtained == nil || s.Total <= 0 {
			continue
		}
		pct := *s.Obtained / s.Total * 100

		summary.Count++
		sum += pct
		if pct > summary.HighestGrade {
			summary.HighestGrade = pct
		}
		if pct < summary.LowestGrade {
			summary.LowestGrade = pct
		}

		switch {
		case pct >= bucketA:
			summary.Distribution.A++
		case pct >= bucketB:
			summary.Distribution.B++
		case pct >= bucketC:
			summary.Distribution.C++
		case pct >= bucketD:
			summary.Distribution.D++
		default:
			summary.Distribution.F++
		}
	}

	if summary.Count > 0 {
		summary.ClassAverage = sum / float64(summary.Count)
	}
	return summary
}
