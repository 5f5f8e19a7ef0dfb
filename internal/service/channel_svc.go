package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/metrics"
	"github.com/tubepulse/standout/internal/model"
)

const (
	// MaxRecentVideos is the size of the per-channel analysis window.
	MaxRecentVideos = 10
	// TopN is the number of standout videos kept per channel.
	TopN = 5
)

var (
	// ErrChannelUnresolvable means the scraper returned nothing for the
	// channel URL, so its name and canonical URL are unknown.
	ErrChannelUnresolvable = errors.New("channel could not be resolved")
	// ErrNoVideos means the channel resolved but has no recent videos.
	ErrNoVideos = errors.New("no videos found")
)

// VideoFetcher is the scraping collaborator.
type VideoFetcher interface {
	// FetchChannelInfo resolves a channel (or video) URL to its channel.
	// It fails with ErrChannelUnresolvable when nothing is found.
	FetchChannelInfo(ctx context.Context, url string) (model.ChannelInfo, error)
	// FetchRecentVideos returns up to max recent videos. An empty result is
	// not an error.
	FetchRecentVideos(ctx context.Context, channelURL string, max int) ([]model.RawVideo, error)
}

// ChannelAnalyzer runs fetch, normalize, score and rank for one channel.
type ChannelAnalyzer struct {
	fetcher    VideoFetcher
	normalizer *Normalizer
	log        zerolog.Logger
}

// NewChannelAnalyzer creates a ChannelAnalyzer.
func NewChannelAnalyzer(fetcher VideoFetcher, normalizer *Normalizer, log zerolog.Logger) *ChannelAnalyzer {
	return &ChannelAnalyzer{
		fetcher:    fetcher,
		normalizer: normalizer,
		log:        log.With().Str("component", "channel-analyzer").Logger(),
	}
}

// Analyze produces the result for one channel URL. It never returns an
// error: every failure is carried in ChannelResult.Error so sibling
// channels are unaffected.
func (a *ChannelAnalyzer) Analyze(ctx context.Context, channelURL string) (result model.ChannelResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Str("channel_url", channelURL).Interface("panic", r).Msg("analysis panicked")
			result = failedResult(channelURL, model.ChannelInfo{}, fmt.Errorf("analysis panicked: %v", r))
		}

		outcome := "ok"
		if result.Failed() {
			outcome = "error"
		}
		metrics.ChannelsAnalyzed.WithLabelValues(outcome).Inc()
		metrics.ChannelDuration.Observe(time.Since(start).Seconds())
	}()

	info, err := a.fetcher.FetchChannelInfo(ctx, channelURL)
	if err != nil {
		a.log.Warn().Str("channel_url", channelURL).Err(err).Msg("channel resolution failed")
		return failedResult(channelURL, model.ChannelInfo{}, err)
	}
	if info.URL == "" {
		info.URL = channelURL
	}

	raws, err := a.fetcher.FetchRecentVideos(ctx, info.URL, MaxRecentVideos)
	if err != nil {
		a.log.Warn().Str("channel", info.Name).Err(err).Msg("video fetch failed")
		return failedResult(channelURL, info, fmt.Errorf("fetch videos: %w", err))
	}
	if len(raws) == 0 {
		a.log.Info().Str("channel", info.Name).Msg("channel has no videos")
		return failedResult(channelURL, info, ErrNoVideos)
	}

	result = a.rank(channelURL, info, raws)
	a.log.Info().
		Str("channel", result.ChannelName).
		Int("videos", result.VideoCount).
		Float64("mean_score", result.MeanScore).
		Dur("duration_ms", time.Since(start)).
		Msg("channel analyzed")
	return result
}

// rank normalizes and scores raws, orders them by score (stable, so ties
// keep fetch order) and annotates the top videos against the mean.
func (a *ChannelAnalyzer) rank(channelURL string, info model.ChannelInfo, raws []model.RawVideo) model.ChannelResult {
	if len(raws) > MaxRecentVideos {
		raws = raws[:MaxRecentVideos]
	}

	videos := make([]model.Video, 0, len(raws))
	for _, raw := range raws {
		videos = append(videos, a.normalizer.Normalize(raw))
	}

	slices.SortStableFunc(videos, func(x, y model.Video) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		}
		return 0
	})

	mean := MeanScore(videos)

	n := min(TopN, len(videos))
	for i := range videos[:n] {
		videos[i].VsMeanPct = VsMeanPct(videos[i].Score, mean)
		videos[i].StandoutReason = Explain(videos[i], mean)
	}
	top := slices.Clone(videos[:n])

	return model.ChannelResult{
		ChannelName:  info.Name,
		ChannelURL:   channelURL,
		CanonicalURL: info.URL,
		Videos:       videos,
		Top:          top,
		MeanScore:    mean,
		VideoCount:   len(videos),
	}
}

func failedResult(channelURL string, info model.ChannelInfo, err error) model.ChannelResult {
	return model.ChannelResult{
		ChannelName:  info.Name,
		ChannelURL:   channelURL,
		CanonicalURL: info.URL,
		Videos:       []model.Video{},
		Top:          []model.Video{},
		Error:        err.Error(),
	}
}
