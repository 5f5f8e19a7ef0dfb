package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tubepulse/standout/internal/model"
)

// ReportSaver persists a report and returns its run id.
// *repository.RunRepo implements it.
type ReportSaver interface {
	SaveReport(ctx context.Context, label string, report model.Report) (int64, error)
}

// PostgresExporter stores reports as analysis runs.
type PostgresExporter struct {
	runs ReportSaver
}

var _ Exporter = (*PostgresExporter)(nil)

func NewPostgresExporter(runs ReportSaver) *PostgresExporter {
	return &PostgresExporter{runs: runs}
}

func (e *PostgresExporter) Target() string { return "postgres" }

// Export saves the report under label and returns the run locator.
func (e *PostgresExporter) Export(ctx context.Context, report model.Report, label string) (string, error) {
	id, err := e.runs.SaveReport(ctx, label, report)
	if err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return RunLocator(id), nil
}

// RunLocator identifies a stored run.
func RunLocator(id int64) string {
	return "postgres://analysis_runs/" + strconv.FormatInt(id, 10)
}
