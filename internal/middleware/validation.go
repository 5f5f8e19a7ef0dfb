package middleware

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Request limits.
const (
	MaxChannelsPerJob = 50
	MaxChannelURLLen  = 512
	MaxVideoIDLen     = 16
	JobIDLen          = 8
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// jobIDRe matches the 8-char job id prefix of a UUID.
	jobIDRe = regexp.MustCompile(`^[0-9a-f-]{8}$`)

	youtubeHosts = map[string]bool{
		"youtube.com":       true,
		"www.youtube.com":   true,
		"m.youtube.com":     true,
		"music.youtube.com": true,
		"youtu.be":          true,
	}
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 16 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId contains invalid characters"
	}
	return id, ""
}

// ValidateChannelURL checks that raw is an http(s) YouTube channel or video
// URL. Video URLs are accepted because the scraper resolves them to their
// channel.
func ValidateChannelURL(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "channel URL is required"
	}
	if len(raw) > MaxChannelURLLen {
		return "", "channel URL is too long"
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", "channel URL must be an http(s) URL"
	}
	if !youtubeHosts[strings.ToLower(u.Hostname())] {
		return "", "channel URL must point to youtube.com or youtu.be"
	}
	if strings.Trim(u.Path, "/") == "" {
		return "", "channel URL must name a channel or video"
	}
	if strings.HasPrefix(u.Path, "/watch") {
		if _, msg := ValidateVideoID(u.Query().Get("v")); msg != "" {
			return "", "watch URL has an invalid video id"
		}
	}
	return raw, ""
}

// ValidateChannelURLs checks a job's channel list and returns the trimmed
// URLs.
func ValidateChannelURLs(raws []string) ([]string, string) {
	if len(raws) == 0 {
		return nil, "at least one channel URL is required"
	}
	if len(raws) > MaxChannelsPerJob {
		return nil, "too many channels (max 50)"
	}
	urls := make([]string, 0, len(raws))
	for _, raw := range raws {
		u, msg := ValidateChannelURL(raw)
		if msg != "" {
			return nil, msg + ": " + raw
		}
		urls = append(urls, u)
	}
	return urls, ""
}

// ValidateJobID checks the job id path parameter.
func ValidateJobID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if !jobIDRe.MatchString(id) {
		return "", "jobId must be 8 hexadecimal characters"
	}
	return id, ""
}
