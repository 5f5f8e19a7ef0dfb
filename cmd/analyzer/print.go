package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/tubepulse/standout/internal/model"
)

// printReport writes the human-readable report: per channel the mean
// score, the top videos with why they stand out, then every video.
func printReport(w io.Writer, report model.Report) {
	for i, ch := range report.Channels {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printChannel(w, ch)
	}

	fmt.Fprintf(w, "\n%d channels analyzed, %d failed\n", len(report.Channels), report.Failures())
}

func printChannel(w io.Writer, ch model.ChannelResult) {
	header := ch.DisplayName()
	fmt.Fprintf(w, "%s\n%s\n", header, strings.Repeat("=", len([]rune(header))))

	if ch.Failed() {
		fmt.Fprintf(w, "error: %s\n", ch.Error)
		return
	}

	fmt.Fprintf(w, "%s\n", ch.CanonicalURL)
	fmt.Fprintf(w, "Videos analyzed: %d    Mean score: %.2f\n", ch.VideoCount, ch.MeanScore)

	fmt.Fprintf(w, "\nTop %d\n", len(ch.Top))
	for i, v := range ch.Top {
		fmt.Fprintf(w, "%2d. %s\n", i+1, v.Title)
		fmt.Fprintf(w, "    score %.2f (%s vs mean) | %s views | %s likes | %.2f%% engagement\n",
			v.Score, signedPct(v.VsMeanPct), humanize.Comma(v.Views), humanize.Comma(v.Likes), v.EngagementRate)
		fmt.Fprintf(w, "    %s\n", v.StandoutReason)
		fmt.Fprintf(w, "    %s\n", v.WatchURL())
	}

	fmt.Fprintln(w, "\nAll videos")
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Score", "Views", "Likes", "Comments", "Days", "Eng %", "Title"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetColumnSeparator("")
	tw.SetHeaderLine(false)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})
	for _, v := range ch.Videos {
		tw.Append([]string{
			fmt.Sprintf("%.2f", v.Score),
			humanize.Comma(v.Views),
			humanize.Comma(v.Likes),
			humanize.Comma(v.Comments),
			strconv.Itoa(v.AgeDays),
			fmt.Sprintf("%.2f", v.EngagementRate),
			v.Title,
		})
	}
	tw.Render()
}

// signedPct formats a percentage with an explicit sign, e.g. "+45.3%".
func signedPct(p float64) string {
	if p >= 0 {
		return fmt.Sprintf("+%.1f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}
