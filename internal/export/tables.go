package export

import (
	"context"
	"math"

	"github.com/tubepulse/standout/internal/model"
)

// Exporter writes a finished report to a destination and returns a locator
// (URL or path) for the written result.
type Exporter interface {
	// Target names the export backend (sheets, csv, postgres).
	Target() string
	Export(ctx context.Context, report model.Report, destination string) (string, error)
}

// Table titles, also used as spreadsheet tab names.
const (
	SummaryTable   = "Channel Summary"
	TopTable       = "Top 5 per Channel"
	AllVideosTable = "All Videos"
)

// Table is one tab of the export: a header row followed by data rows.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// Values returns the header and rows as a single grid.
func (t Table) Values() [][]any {
	grid := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	grid = append(grid, header)
	return append(grid, t.Rows...)
}

// BuildTables lays the report out as the three export tables: a per-channel
// summary, each channel's top videos, and every analyzed video. Failed
// channels appear only in the summary.
func BuildTables(report model.Report) []Table {
	summary := Table{
		Title: SummaryTable,
		Header: []string{
			"Channel", "Videos Analyzed", "Mean Score",
			"Best Video", "Best Score", "Best Views",
			"Best Engagement %", "Best Video URL",
		},
	}
	top := Table{
		Title: TopTable,
		Header: []string{
			"Channel", "Rank", "Title", "Score", "vs Mean %",
			"Views", "Likes", "Engagement %", "Why It Stands Out", "URL",
		},
	}
	all := Table{
		Title: AllVideosTable,
		Header: []string{
			"Channel", "Title", "Views", "Likes", "Comments",
			"Days Published", "Engagement %", "Score", "URL",
		},
	}

	for _, ch := range report.Channels {
		name := ch.DisplayName()

		if ch.Failed() {
			summary.Rows = append(summary.Rows, []any{name, "Error", ch.Error, "", "", "", "", ""})
			continue
		}

		if len(ch.Top) > 0 {
			best := ch.Top[0]
			summary.Rows = append(summary.Rows, []any{
				name, ch.VideoCount, ch.MeanScore,
				best.Title, best.Score, best.Views,
				displayRate(best.EngagementRate), best.WatchURL(),
			})
		} else {
			summary.Rows = append(summary.Rows, []any{name, ch.VideoCount, ch.MeanScore, "N/A", 0.0, int64(0), 0.0, ""})
		}

		for i, v := range ch.Top {
			top.Rows = append(top.Rows, []any{
				name, i + 1, v.Title, v.Score, v.VsMeanPct,
				v.Views, v.Likes, displayRate(v.EngagementRate), v.StandoutReason, v.WatchURL(),
			})
		}

		for _, v := range ch.Videos {
			all.Rows = append(all.Rows, []any{
				name, v.Title, v.Views, v.Likes, v.Comments,
				v.AgeDays, displayRate(v.EngagementRate), v.Score, v.WatchURL(),
			})
		}
	}

	return []Table{summary, top, all}
}

// displayRate rounds an engagement percentage to 2 decimals for display.
func displayRate(rate float64) float64 {
	return math.Round(rate*100) / 100
}
