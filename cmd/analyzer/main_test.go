package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubepulse/standout/internal/model"
)

// fakeApify serves the same two-video dataset for every actor run.
func fakeApify(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Now().UTC()
	items := []map[string]any{
		{
			"id": "v1", "title": "Big Launch", "url": "https://www.youtube.com/watch?v=v1",
			"date": now.AddDate(0, 0, -2).Format(time.RFC3339), "viewCount": 250000, "likes": 12000,
			"commentsCount": 800, "channelName": "Gadgets", "channelUrl": "https://www.youtube.com/@gadgets",
		},
		{
			"id": "v2", "title": "Quick Tip", "url": "https://www.youtube.com/watch?v=v2",
			"date": now.AddDate(0, 0, -20).Format(time.RFC3339), "viewCount": "9,000", "likes": 150,
			"commentsCount": nil, "channelName": "Gadgets", "channelUrl": "https://www.youtube.com/@gadgets",
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setEnv(t *testing.T, apifyURL string) {
	t.Helper()
	for _, k := range []string{
		"ANALYZER_CONFIG", "LOG_LEVEL", "APIFY_ACTOR", "FETCH_TIMEOUT", "FETCH_RATE_PER_SEC",
		"CHANNEL_CONCURRENCY", "EXPORT_TARGET", "GOOGLE_SHEETS_ID", "GOOGLE_TOKEN_JSON",
		"GOOGLE_TOKEN_FILE", "CSV_DIR", "DATABASE_URL", "REDIS_URL", "CACHE_TTL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("APIFY_API_TOKEN", "test-token")
	t.Setenv("APIFY_BASE_URL", apifyURL)
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "usage: analyzer")
}

func TestRun_MissingToken(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")
	t.Setenv("APIFY_API_TOKEN", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-export", "none", "https://www.youtube.com/@gadgets"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "APIFY_API_TOKEN")
}

func TestRun_SheetsNeedsSpreadsheet(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"https://www.youtube.com/@gadgets"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "-sheet")
}

func TestRun_TextAndCSVExport(t *testing.T) {
	srv := fakeApify(t)
	setEnv(t, srv.URL)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"-export", "csv", "-csv-dir", dir, "https://www.youtube.com/@gadgets"},
		&stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Gadgets")
	assert.Contains(t, out, "Big Launch")
	assert.Contains(t, out, "250,000 views")
	assert.Contains(t, out, "1 channels analyzed, 0 failed")
	assert.Contains(t, stderr.String(), "Report exported to")

	for _, name := range []string{"channel_summary.csv", "top_5_per_channel.csv", "all_videos.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_JSON(t *testing.T) {
	srv := fakeApify(t)
	setEnv(t, srv.URL)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"-json", "-export", "none", "https://www.youtube.com/@gadgets"},
		&stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var report model.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	require.Len(t, report.Channels, 1)
	ch := report.Channels[0]
	assert.Equal(t, "Gadgets", ch.ChannelName)
	assert.Equal(t, 2, ch.VideoCount)
	assert.Equal(t, "v1", ch.Top[0].ID)
	assert.Equal(t, int64(9000), ch.Videos[1].Views)
}

func TestRun_ExportFailureExitsOne(t *testing.T) {
	srv := fakeApify(t)
	setEnv(t, srv.URL)

	// A regular file where the CSV directory should go.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"-export", "csv", "-csv-dir", blocker, "https://www.youtube.com/@gadgets"},
		&stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Big Launch", "results are printed before the export error")
	assert.Contains(t, stderr.String(), "export to csv failed")
}
