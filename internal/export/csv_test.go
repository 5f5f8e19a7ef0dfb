package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{SummaryTable, "channel_summary.csv"},
		{TopTable, "top_5_per_channel.csv"},
		{AllVideosTable, "all_videos.csv"},
	}
	for _, tt := range tests {
		if got := FileName(tt.title); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCSVExporter_WritesAllTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	exp := NewCSVExporter(dir)

	loc, err := exp.Export(context.Background(), sampleReport(), "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(loc))

	f, err := os.Open(filepath.Join(dir, "top_5_per_channel.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Why It Stands Out", records[0][8])
	assert.Equal(t, "Big One", records[1][2])
	assert.Equal(t, "10526.6", records[1][3])
	assert.Equal(t, "50000", records[1][5])

	for _, name := range []string{"channel_summary.csv", "all_videos.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestCSVExporter_ExplicitDirectoryWins(t *testing.T) {
	def := t.TempDir()
	explicit := t.TempDir()

	_, err := NewCSVExporter(def).Export(context.Background(), sampleReport(), explicit)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(explicit, "channel_summary.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(def, "channel_summary.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestCSVExporter_NoDirectory(t *testing.T) {
	_, err := NewCSVExporter("").Export(context.Background(), sampleReport(), "")
	assert.Error(t, err)
}

func TestCSVExporter_RelativeDestinationUnderRoot(t *testing.T) {
	root := t.TempDir()

	loc, err := NewCSVExporter(root).Export(context.Background(), sampleReport(), "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a1b2c3d4"), loc)

	_, err = os.Stat(filepath.Join(root, "a1b2c3d4", "all_videos.csv"))
	assert.NoError(t, err)
}
