package model

import "time"

// ChannelInfo is the resolved identity of a channel.
type ChannelInfo struct {
	Name string `json:"channelName"`
	URL  string `json:"channelUrl"`
}

// ChannelResult is the analysis outcome for one requested channel.
// Either Error is set, or Videos is non-empty and MeanScore is consistent
// with it. A channel without videos sets Error and leaves the slices empty.
type ChannelResult struct {
	ChannelName  string  `json:"channelName"`
	ChannelURL   string  `json:"channelUrl"`
	CanonicalURL string  `json:"canonicalUrl,omitempty"`
	Videos       []Video `json:"videos"`
	Top          []Video `json:"top"`
	MeanScore    float64 `json:"meanScore"`
	VideoCount   int     `json:"videoCount"`
	Error        string  `json:"error,omitempty"`
}

// Failed reports whether the channel could not be analyzed.
func (r ChannelResult) Failed() bool {
	return r.Error != ""
}

// DisplayName is the channel name, or the requested URL when the channel
// never resolved.
func (r ChannelResult) DisplayName() string {
	if r.ChannelName != "" {
		return r.ChannelName
	}
	return r.ChannelURL
}

// Report is the multi-channel analysis, one entry per requested channel in
// request order.
type Report struct {
	Channels    []ChannelResult `json:"channels"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Failures counts the channels that carry an error.
func (r Report) Failures() int {
	n := 0
	for _, ch := range r.Channels {
		if ch.Failed() {
			n++
		}
	}
	return n
}
