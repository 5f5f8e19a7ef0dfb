package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tubepulse/standout/internal/model"
)

// CSVExporter writes each export table to its own file in a directory.
type CSVExporter struct {
	defaultDir string
}

var _ Exporter = (*CSVExporter)(nil)

// NewCSVExporter creates an exporter rooted at dir. Export writes to dir
// itself when called without a destination, and resolves relative
// destinations (such as a job id) under it.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{defaultDir: dir}
}

func (e *CSVExporter) Target() string { return "csv" }

// Export writes channel_summary.csv, top_5_per_channel.csv and
// all_videos.csv into dir, overwriting earlier files, and returns the
// absolute directory path.
func (e *CSVExporter) Export(ctx context.Context, report model.Report, dest string) (string, error) {
	dir := e.resolve(dest)
	if dir == "" {
		return "", fmt.Errorf("csv export directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	for _, t := range BuildTables(report) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		path := filepath.Join(dir, FileName(t.Title))
		if err := writeCSV(path, t); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir, nil
	}
	return abs, nil
}

func (e *CSVExporter) resolve(dest string) string {
	switch {
	case dest == "":
		return e.defaultDir
	case filepath.IsAbs(dest) || e.defaultDir == "":
		return dest
	default:
		return filepath.Join(e.defaultDir, dest)
	}
}

// FileName maps a table title to its CSV file name.
func FileName(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String() + ".csv"
}

func writeCSV(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
