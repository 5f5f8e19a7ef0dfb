package service

import (
	"math"

	"github.com/tubepulse/standout/internal/model"
)

// Composite score weights. Fixed policy; existing exports depend on them.
const (
	velocityWeight   = 0.4
	engagementWeight = 0.3
	reachWeight      = 0.3
)

// Score computes the composite standout score of a normalized video:
//
//	score = 0.4 * views / max(age_days, 1)
//	      + 0.3 * engagement_rate * 100
//	      + 0.3 * views / 1000
//
// rounded to 2 decimals. A video published today is scored as one day old.
func Score(v model.Video) float64 {
	days := max(v.AgeDays, 1)
	views := float64(v.Views)

	viewsPerDay := views / float64(days)

	score := (viewsPerDay * velocityWeight) +
		(v.EngagementRate * 100 * engagementWeight) +
		(views / 1000 * reachWeight)

	return round2(score)
}

// EngagementRate is (likes + comments) per view, as a percentage.
func EngagementRate(views, likes, comments int64) float64 {
	return float64(likes+comments) / float64(max(views, 1)) * 100
}

// MeanScore averages the scores of videos, rounded to 2 decimals.
// An empty slice yields 0.
func MeanScore(videos []model.Video) float64 {
	if len(videos) == 0 {
		return 0
	}
	var sum float64
	for _, v := range videos {
		sum += v.Score
	}
	return round2(sum / float64(len(videos)))
}

// VsMeanPct is how far score sits above (or below) the channel mean, in
// percent with one decimal. It is 0 when the mean is not positive.
func VsMeanPct(score, mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	return round1(((score / mean) - 1) * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
