package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_Weekly(t *testing.T) {
	// 2026-01-05 is a Monday (ISO week 2); 2026-01-12 starts week 3
	mon := day(2026, time.January, 5)
	tue := day(2026, time.January, 6)
	nextMon := day(2026, time.January, 12)

	tests := []struct {
		name    string
		records []Record
		want    []WeekStat
	}{
		{name: "no records", records: nil, want: []WeekStat{}},
		{
			name: "single week",
			records: []Record{
				{StudentID: "s1", Date: mon, Present: true},
				{StudentID: "s2", Date: mon, Present: false},
				{StudentID: "s1", Date: tue, Present: true},
				{StudentID: "s2", Date: tue, Present: true},
			},
			want: []WeekStat{
				{Year: 2026, Week: 2, Recorded: 4, Present: 3, Percentage: 75},
			},
		},
		{
			name: "weeks sorted, all absent yields 0%",
			records: []Record{
				{StudentID: "s1", Date: nextMon, Present: false},
				{StudentID: "s1", Date: mon, Present: true},
			},
			want: []WeekStat{
				{Year: 2026, Week: 2, Recorded: 1, Present: 1, Percentage: 100},
				{Year: 2026, Week: 3, Recorded: 1, Present: 0, Percentage: 0},
			},
		},
		{
			name: "year boundary", // 2025-12-29 falls in ISO week 1 of 2026
			records: []Record{
				{StudentID: "s1", Date: day(2025, time.December, 22), Present: true},
				{StudentID: "s1", Date: day(2025, time.December, 29), Present: true},
			},
			want: []WeekStat{
				{Year: 2025, Week: 52, Recorded: 1, Present: 1, Percentage: 100},
				{Year: 2026, Week: 1, Recorded: 1, Present: 1, Percentage: 100},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Weekly(tt.records))
		})
	}
}
