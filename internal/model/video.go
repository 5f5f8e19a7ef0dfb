package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawVideo is one item of the scraper's dataset. Only the fields the
// analyzer reads are decoded; counts tolerate null, strings and floats.
type RawVideo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Date          string `json:"date"`
	ViewCount     Count  `json:"viewCount"`
	Likes         Count  `json:"likes"`
	CommentsCount Count  `json:"commentsCount"`
	Duration      string `json:"duration"`
	ChannelName   string `json:"channelName"`
	ChannelURL    string `json:"channelUrl"`
}

// Count is a non-negative counter decoded leniently from upstream JSON.
// Anything that is not a usable number decodes to 0.
type Count int64

// UnmarshalJSON never fails: malformed values become 0.
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var n json.Number
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		n = json.Number(s)
	} else {
		n = json.Number(data)
	}

	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*c = clampCount(i)
		return nil
	}
	if f, err := strconv.ParseFloat(n.String(), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		*c = countFromFloat(f)
	}
	return nil
}

// countFromFloat saturates at MaxInt64; converting a larger float to int64
// is implementation-defined.
func countFromFloat(f float64) Count {
	if f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return Count(math.MaxInt64)
	}
	return clampCount(int64(f))
}

func clampCount(v int64) Count {
	if v < 0 {
		return 0
	}
	return Count(v)
}

// Video is a normalized, scored video of one channel.
type Video struct {
	ID             string  `json:"videoId"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	PublishedAt    string  `json:"publishedAt"`
	Duration       string  `json:"duration,omitempty"`
	AgeDays        int     `json:"ageDays"`
	Views          int64   `json:"views"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	EngagementRate float64 `json:"engagementRate"`
	Score          float64 `json:"score"`

	// Set only on a channel's top videos.
	VsMeanPct      float64 `json:"vsMeanPct,omitempty"`
	StandoutReason string  `json:"standoutReason,omitempty"`
}

// WatchURL returns the video URL, falling back to the canonical watch link
// when the scraper did not provide one.
func (v Video) WatchURL() string {
	if v.URL != "" {
		return v.URL
	}
	return "https://youtube.com/watch?v=" + v.ID
}
