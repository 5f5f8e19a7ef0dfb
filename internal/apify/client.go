// Package apify fetches YouTube channel data through the Apify
// youtube-scraper actor.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tubepulse/standout/internal/model"
	"github.com/tubepulse/standout/internal/service"
)

const (
	DefaultBaseURL = "https://api.apify.com"
	DefaultActor   = "streamers/youtube-scraper"

	// unknownChannel names a channel whose dataset item carries no name.
	unknownChannel = "Unknown"
)

// StatusError is returned when the actor run endpoint answers non-2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("apify: status %d", e.StatusCode)
	}
	return fmt.Sprintf("apify: status %d: %s", e.StatusCode, e.Body)
}

// Config holds the client settings.
type Config struct {
	Token   string
	Actor   string
	BaseURL string
	// Timeout bounds one synchronous actor run.
	Timeout time.Duration
	// RatePerSec limits actor runs started per second; 0 disables limiting.
	RatePerSec float64
}

// Client runs the scraper actor synchronously and decodes its dataset.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

var _ service.VideoFetcher = (*Client)(nil)

// NewClient creates a Client, filling in defaults for empty settings.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Actor == "" {
		cfg.Actor = DefaultActor
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		log:     log.With().Str("component", "apify").Logger(),
	}
}

// FetchChannelInfo resolves url (a channel or a video) to its channel using
// the first dataset item.
func (c *Client) FetchChannelInfo(ctx context.Context, channelURL string) (model.ChannelInfo, error) {
	items, err := c.run(ctx, channelURL, 1)
	if err != nil {
		return model.ChannelInfo{}, err
	}
	if len(items) == 0 {
		return model.ChannelInfo{}, fmt.Errorf("%w: %s", service.ErrChannelUnresolvable, channelURL)
	}

	info := model.ChannelInfo{Name: items[0].ChannelName, URL: items[0].ChannelURL}
	if info.Name == "" {
		info.Name = unknownChannel
	}
	if info.URL == "" {
		info.URL = channelURL
	}
	return info, nil
}

// FetchRecentVideos returns up to max of the channel's most recent videos,
// excluding shorts and streams.
func (c *Client) FetchRecentVideos(ctx context.Context, channelURL string, max int) ([]model.RawVideo, error) {
	return c.run(ctx, channelURL, max)
}

type startURL struct {
	URL string `json:"url"`
}

type runInput struct {
	StartURLs        []startURL `json:"startUrls"`
	MaxResults       int        `json:"maxResults"`
	MaxResultsShorts int        `json:"maxResultsShorts"`
	MaxResultStreams int        `json:"maxResultStreams"`
}

func (c *Client) run(ctx context.Context, channelURL string, maxResults int) ([]model.RawVideo, error) {
	if c.cfg.Token == "" {
		return nil, errors.New("apify: API token is not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("apify: rate limit wait: %w", err)
	}

	body, err := json.Marshal(runInput{
		StartURLs:  []startURL{{URL: channelURL}},
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("apify: marshal input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.cfg.BaseURL, actorPath(c.cfg.Actor), url.QueryEscape(c.cfg.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("apify: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// The request URL carries the token; keep it out of the error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("apify: run actor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var items []model.RawVideo
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("apify: decode dataset: %w", err)
	}

	c.log.Debug().
		Str("url", channelURL).
		Int("max_results", maxResults).
		Int("items", len(items)).
		Dur("duration_ms", time.Since(start)).
		Msg("actor run finished")

	return items, nil
}

// actorPath converts "user/actor" to the "user~actor" form used in API paths.
func actorPath(actor string) string {
	return strings.ReplaceAll(actor, "/", "~")
}
