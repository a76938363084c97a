package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatings_Add(t *testing.T) {
	tests := []struct {
		name    string
		start   Ratings
		rating  int
		wantAvg float64
		wantCnt int
	}{
		{"first review", Ratings{}, 4, 4, 1},
		{"existing average", Ratings{Average: 4.0, Count: 2}, 5, 13.0 / 3.0, 3},
		{"lowers average", Ratings{Average: 5, Count: 1}, 1, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Add(tt.rating)
			assert.InDelta(t, tt.wantAvg, got.Average, 1e-9)
			assert.Equal(t, tt.wantCnt, got.Count)
		})
	}
}

func TestRatings_AddIsPure(t *testing.T) {
	start := Ratings{Average: 3, Count: 4}
	_ = start.Add(5)
	assert.Equal(t, Ratings{Average: 3, Count: 4}, start)
}

func TestRatings_MatchesFullRecompute(t *testing.T) {
	samples := []int{5, 3, 4, 1, 2, 5, 5, 4, 3, 3, 2, 1, 5}
	var r Ratings
	sum := 0
	for _, s := range samples {
		r = r.Add(s)
		sum += s
	}
	assert.Equal(t, len(samples), r.Count)
	assert.InDelta(t, float64(sum)/float64(len(samples)), r.Average, 1e-9)
}

func TestValidRating(t *testing.T) {
	for r := -1; r <= 7; r++ {
		assert.Equal(t, r >= 1 && r <= 5, ValidRating(r), "rating %d", r)
	}
}
