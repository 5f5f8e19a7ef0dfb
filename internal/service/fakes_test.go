package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/model"
)

var testNow = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

// fakeFetcher serves canned channels keyed by URL.
type fakeFetcher struct {
	mu       sync.Mutex
	channels map[string]fakeChannel
	calls    []string
}

type fakeChannel struct {
	info      model.ChannelInfo
	infoErr   error
	videos    []model.RawVideo
	videosErr error
	panics    bool
}

func (f *fakeFetcher) FetchChannelInfo(_ context.Context, url string) (model.ChannelInfo, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "info "+url)
	f.mu.Unlock()

	ch, ok := f.channels[url]
	if !ok {
		return model.ChannelInfo{}, fmt.Errorf("%w: %s", ErrChannelUnresolvable, url)
	}
	if ch.panics {
		panic("scraper exploded")
	}
	return ch.info, ch.infoErr
}

func (f *fakeFetcher) FetchRecentVideos(_ context.Context, url string, max int) ([]model.RawVideo, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("videos %s %d", url, max))
	f.mu.Unlock()

	for key, ch := range f.channels {
		if ch.info.URL == url || key == url {
			return ch.videos, ch.videosErr
		}
	}
	return nil, errors.New("unknown channel")
}

func newTestAnalyzer(f VideoFetcher) *ChannelAnalyzer {
	return NewChannelAnalyzer(f, NewNormalizer(func() time.Time { return testNow }, zerolog.Nop()), zerolog.Nop())
}

// rawVideo builds a record published ageDays before testNow.
func rawVideo(id string, views, likes, comments int64, ageDays int) model.RawVideo {
	return model.RawVideo{
		ID:            id,
		Title:         "Video " + id,
		URL:           "https://youtube.com/watch?v=" + id,
		Date:          testNow.AddDate(0, 0, -ageDays).Format(time.RFC3339),
		ViewCount:     model.Count(views),
		Likes:         model.Count(likes),
		CommentsCount: model.Count(comments),
	}
}

// channelFixture is a resolvable channel with the given videos.
func channelFixture(name string, videos ...model.RawVideo) fakeChannel {
	return fakeChannel{
		info:   model.ChannelInfo{Name: name, URL: "https://www.youtube.com/@" + name},
		videos: videos,
	}
}
