package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 0, Score(0, 0))
	assert.Equal(t, 10, Score(5, 0))
	assert.Equal(t, 9, Score(4, 1))
	assert.Equal(t, 30, Score(10, 10))
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		name         string
		postCount    int
		commentCount int
		want         int
	}{
		{"zero activity starts at level 1", 0, 0, 1},
		{"just below first threshold", 4, 1, 1},
		{"exactly at level 2 threshold", 5, 0, 2},
		{"exactly at level 3 threshold", 10, 0, 3},
		{"exactly at level 4 threshold", 10, 10, 4},
		{"exactly at level 5 threshold", 25, 0, 5},
		{"far beyond the terminal threshold stays clamped", 1000, 1000, 5},
		{"comments alone can level up", 0, 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForScore(Score(tt.postCount, tt.commentCount)))
		})
	}
}

func TestLevelMonotonicity(t *testing.T) {
	// Growing either counter never lowers the level.
	for p := 0; p <= 30; p++ {
		for c := 0; c <= 30; c++ {
			level := LevelForScore(Score(p, c))
			assert.GreaterOrEqual(t, LevelForScore(Score(p+1, c)), level)
			assert.GreaterOrEqual(t, LevelForScore(Score(p, c+1)), level)
		}
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, float64(0), Progress(10, 2), "entering a level starts at 0%%")
	assert.InDelta(t, 90, Progress(19, 2), 0.001)
	assert.Equal(t, float64(100), Progress(50, 5))
	assert.Equal(t, float64(100), Progress(9999, 5), "terminal level is always 100%%")
	assert.Equal(t, float64(0), Progress(0, 1))
	assert.InDelta(t, 50, Progress(5, 1), 0.001)
	// Score at the next threshold but level not yet raised clamps to 100.
	assert.Equal(t, float64(100), Progress(25, 2))
}
