package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity     float64 // 时间重力 (1.5)
	ScaleFactor float64 // 放大系数 (100)
}

var DefaultConfig = RankConfig{
	Gravity:     1.5,
	ScaleFactor: 100.0,
}

// HotScore ranks a post by its net score decayed by age. Negative scores are
// clamped to zero before the log so they cannot blow up the numerator; heavily
// downvoted posts all land at the bottom together and fall back to recency.
func HotScore(score int, createdAt time.Time) float64 {
	return HotScoreAt(score, createdAt, time.Now())
}

// HotScoreAt is HotScore against an explicit clock, so the ranking worker can
// compute a whole batch against one snapshot instant.
func HotScoreAt(score int, createdAt time.Time, now time.Time) float64 {
	s := float64(score)
	if s < 0 {
		s = 0
	}

	// log10(s + 1) -> s=0 maps to 0
	numerator := math.Log10(s+1) * DefaultConfig.ScaleFactor

	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	decay := math.Pow(hours+2, DefaultConfig.Gravity)

	return numerator / decay
}

// HotRankMicros converts the float hot score to the int64 column value.
// Storing micros keeps ordering stable and comparable across recomputations.
func HotRankMicros(score int, createdAt time.Time, now time.Time) int64 {
	return int64(HotScoreAt(score, createdAt, now) * 1e6)
}
