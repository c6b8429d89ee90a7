// Package growth derives a companion's level from the owner's activity
// counters and detects level transitions.
package growth

// MaxLevel is the terminal companion level; there is no decay or demotion.
const MaxLevel = 5

// levelThresholds[i] is the score at which level i+1 is entered.
var levelThresholds = [MaxLevel]int{0, 10, 20, 30, 50}

// Score computes the activity score: a post is worth twice a comment.
func Score(postCount, commentCount int) int {
	return postCount*2 + commentCount
}

// LevelForScore maps a score onto a level, highest threshold first.
func LevelForScore(score int) int {
	switch {
	case score >= 50:
		return 5
	case score >= 30:
		return 4
	case score >= 20:
		return 3
	case score >= 10:
		return 2
	default:
		return 1
	}
}

// Progress reports how far the score has moved from the current level's
// entering threshold toward the next level's, as a percentage clamped to
// [0, 100]. At the terminal level progress is fixed at 100.
func Progress(score, currentLevel int) float64 {
	if currentLevel >= MaxLevel {
		return 100
	}
	if currentLevel < 1 {
		currentLevel = 1
	}

	current := levelThresholds[currentLevel-1]
	next := levelThresholds[currentLevel]

	progress := float64(score-current) / float64(next-current) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
