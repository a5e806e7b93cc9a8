package attendance

import "sort"

// Weekly converts per-day records into per-ISO-week attendance percentages,
// sorted chronologically. A week with zero recorded days never appears; a
// present count of zero yields 0%.
func Weekly(records []Record) []WeekStat {
	type weekKey struct {
		year int
		week int
	}

	stats := make(map[weekKey]*WeekStat)
	for _, rec := range records {
		year, week := rec.Date.ISOWeek()
		key := weekKey{year, week}
		stat, ok := stats[key]
		if !ok {
			stat = &WeekStat{Year: year, Week: week}
			stats[key] = stat
		}
		stat.Recorded++
		if rec.Present {
			stat.Present++
		}
	}

	out := make([]WeekStat, 0, len(stats))
	for _, stat := range stats {
		if stat.Recorded > 0 {
			stat.Percentage = float64(stat.Present) / float64(stat.Recorded) * 100
		}
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}
