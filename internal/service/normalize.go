package service

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/model"
)

const untitled = "Untitled"

// Normalizer turns raw scraper items into scored videos. It never fails:
// missing or malformed fields fall back to safe defaults.
type Normalizer struct {
	now func() time.Time
	log zerolog.Logger
}

// NewNormalizer creates a Normalizer. A nil now uses the wall clock.
func NewNormalizer(now func() time.Time, log zerolog.Logger) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now, log: log}
}

// Normalize converts one raw record and assigns its score.
func (n *Normalizer) Normalize(raw model.RawVideo) model.Video {
	title := raw.Title
	if title == "" {
		title = untitled
	}

	views := int64(raw.ViewCount)
	likes := int64(raw.Likes)
	comments := int64(raw.CommentsCount)

	v := model.Video{
		ID:             raw.ID,
		Title:          title,
		URL:            raw.URL,
		PublishedAt:    raw.Date,
		Duration:       raw.Duration,
		AgeDays:        n.ageDays(raw),
		Views:          views,
		Likes:          likes,
		Comments:       comments,
		EngagementRate: EngagementRate(views, likes, comments),
	}
	v.Score = Score(v)
	return v
}

// ageDays returns whole days since publication. Unknown or unparsable
// timestamps count as age 0.
func (n *Normalizer) ageDays(raw model.RawVideo) int {
	if raw.Date == "" {
		return 0
	}

	published, err := ParsePublished(raw.Date)
	if err != nil {
		n.log.Debug().
			Str("video_id", raw.ID).
			Str("date", raw.Date).
			Err(err).
			Msg("unparsable publish date, age defaults to 0")
		return 0
	}

	days := int(n.now().UTC().Sub(published) / (24 * time.Hour))
	return max(days, 0)
}

// ParsePublished parses an ISO-8601 timestamp with an explicit offset or a
// trailing Z. Timestamps without an offset are rejected.
func ParsePublished(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	return time.Parse(time.RFC3339Nano, s)
}
