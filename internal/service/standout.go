package service

import (
	"strings"

	"github.com/tubepulse/standout/internal/model"
)

// Standout reasons, in the order they are reported.
const (
	ReasonHighReach             = "high reach"
	ReasonExceptionalEngagement = "exceptional engagement"
	ReasonGoodEngagement        = "good engagement"
	ReasonRecentViral           = "recent viral"
	ReasonOutlier               = "significant outlier"
	ReasonConsistent            = "consistent performance"
)

// Standout thresholds.
const (
	highReachViews        = 10000
	exceptionalEngagement = 5.0
	goodEngagement        = 3.0
	recentDays            = 7
	recentViralViews      = 1000
	outlierFactor         = 2.0
)

// Explain says why a video stands out against the channel mean score.
// Every applicable reason is listed; only the two engagement tiers exclude
// each other.
func Explain(v model.Video, meanScore float64) string {
	var reasons []string

	if v.Views > highReachViews {
		reasons = append(reasons, ReasonHighReach)
	}

	if v.EngagementRate > exceptionalEngagement {
		reasons = append(reasons, ReasonExceptionalEngagement)
	} else if v.EngagementRate > goodEngagement {
		reasons = append(reasons, ReasonGoodEngagement)
	}

	if v.AgeDays < recentDays && v.Views > recentViralViews {
		reasons = append(reasons, ReasonRecentViral)
	}

	if meanScore > 0 && v.Score > meanScore*outlierFactor {
		reasons = append(reasons, ReasonOutlier)
	}

	if len(reasons) == 0 {
		return ReasonConsistent
	}
	return strings.Join(reasons, ", ")
}
