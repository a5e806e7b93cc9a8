package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fPtr(f float64) *float64 { return &f }

func Test_Summarize(t *testing.T) {
	tests := []struct {
		name   string
		scores []Score
		want   GradeSummary
	}{
		{
			// boundary case: the lowest-grade sentinel (100) is returned
			// unchanged; it must not be read as "everyone scored 100%".
			name:   "no submissions",
			scores: nil,
			want:   GradeSummary{Count: 0, ClassAverage: 0, HighestGrade: 0, LowestGrade: 100},
		},
		{
			name:   "single submission 95/100",
			scores: []Score{{Obtained: fPtr(95), Total: 100}},
			want: GradeSummary{
				Count: 1, ClassAverage: 95, HighestGrade: 95, LowestGrade: 95,
				Distribution: Distribution{A: 1},
			},
		},
		{
			name: "zero total excluded from count, sum and buckets",
			scores: []Score{
				{Obtained: fPtr(80), Total: 100},
				{Obtained: fPtr(10), Total: 0},
			},
			want: GradeSummary{
				Count: 1, ClassAverage: 80, HighestGrade: 80, LowestGrade: 80,
				Distribution: Distribution{B: 1},
			},
		},
		{
			name: "ungraded excluded",
			scores: []Score{
				{Obtained: fPtr(70), Total: 100},
				{Obtained: nil, Total: 100},
			},
			want: GradeSummary{
				Count: 1, ClassAverage: 70, HighestGrade: 70, LowestGrade: 70,
				Distribution: Distribution{C: 1},
			},
		},
		{
			name:   "only excluded submissions keeps sentinels",
			scores: []Score{{Obtained: nil, Total: 100}, {Obtained: fPtr(50), Total: 0}},
			want:   GradeSummary{Count: 0, ClassAverage: 0, HighestGrade: 0, LowestGrade: 100},
		},
		{
			// bucket boundaries are closed-above
			name: "bucket boundaries",
			scores: []Score{
				{Obtained: fPtr(90), Total: 100},     // exactly 90.0 -> A
				{Obtained: fPtr(89.999), Total: 100}, // -> B
				{Obtained: fPtr(80), Total: 100},     // -> B
				{Obtained: fPtr(79.999), Total: 100}, // -> C
				{Obtained: fPtr(70), Total: 100},     // -> C
				{Obtained: fPtr(60), Total: 100},     // -> D
				{Obtained: fPtr(59.999), Total: 100}, // -> F
				{Obtained: fPtr(0), Total: 100},      // -> F
			},
			want: GradeSummary{
				Count:        8,
				ClassAverage: (90 + 89.999 + 80 + 79.999 + 70 + 60 + 59.999 + 0) / 8,
				HighestGrade: 90,
				LowestGrade:  0,
				Distribution: Distribution{A: 1, B: 2, C: 2, D: 1, F: 2},
			},
		},
		{
			name: "non-100 totals",
			scores: []Score{
				{Obtained: fPtr(18), Total: 20}, // 90% -> A
				{Obtained: fPtr(7), Total: 10},  // 70% -> C
			},
			want: GradeSummary{
				Count: 2, ClassAverage: 80, HighestGrade: 90, LowestGrade: 70,
				Distribution: Distribution{A: 1, C: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.scores)
			assert.InDelta(t, tt.want.ClassAverage, got.ClassAverage, 1e-9)
			assert.InDelta(t, tt.want.HighestGrade, got.HighestGrade, 1e-9)
			assert.InDelta(t, tt.want.LowestGrade, got.LowestGrade, 1e-9)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.Equal(t, tt.want.Distribution, got.Distribution)
		})
	}
}
