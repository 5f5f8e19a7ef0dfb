package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/api/sheets/v4"

	"github.com/tubepulse/standout/internal/model"
)

// SpreadsheetURL is the browser URL of a spreadsheet.
func SpreadsheetURL(spreadsheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID
}

// SheetsExporter writes the export tables into tabs of a Google spreadsheet.
// Each tab is created if missing and cleared before writing.
type SheetsExporter struct {
	opts OptionsFunc
	log  zerolog.Logger

	mu  sync.Mutex
	svc *sheets.Service
}

var _ Exporter = (*SheetsExporter)(nil)

// NewSheetsExporter creates an exporter. The Sheets client is built on
// first use, so missing credentials surface as an export error.
func NewSheetsExporter(opts OptionsFunc, log zerolog.Logger) *SheetsExporter {
	return &SheetsExporter{
		opts: opts,
		log:  log.With().Str("component", "sheets").Logger(),
	}
}

func (e *SheetsExporter) Target() string { return "sheets" }

func (e *SheetsExporter) service(ctx context.Context) (*sheets.Service, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.svc != nil {
		return e.svc, nil
	}

	// The token source outlives this call, so it must not inherit a
	// request-scoped context.
	opts, err := e.opts(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	svc, err := sheets.NewService(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets.NewService: %w", err)
	}
	e.svc = svc
	return svc, nil
}

// Export replaces the contents of the three report tabs.
func (e *SheetsExporter) Export(ctx context.Context, report model.Report, spreadsheetID string) (string, error) {
	if spreadsheetID == "" {
		return "", errors.New("spreadsheet id is required")
	}

	svc, err := e.service(ctx)
	if err != nil {
		return "", err
	}

	tables := BuildTables(report)

	ss, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	existing := make(map[string]bool, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	var adds []*sheets.Request
	for _, t := range tables {
		if existing[t.Title] {
			continue
		}
		adds = append(adds, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: t.Title,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(max(len(t.Rows)+1, 100)),
						ColumnCount: int64(max(len(t.Header), 15)),
					},
				},
			},
		})
	}
	if len(adds) > 0 {
		_, err := svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: adds,
		}).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("add tabs: %w", err)
		}
		e.log.Info().Int("tabs", len(adds)).Str("spreadsheet_id", spreadsheetID).Msg("created missing tabs")
	}

	ranges := make([]string, 0, len(tables))
	data := make([]*sheets.ValueRange, 0, len(tables))
	for _, t := range tables {
		ranges = append(ranges, a1Sheet(t.Title))
		data = append(data, &sheets.ValueRange{
			Range:  a1Sheet(t.Title) + "!A1",
			Values: t.Values(),
		})
	}

	_, err = svc.Spreadsheets.Values.BatchClear(spreadsheetID, &sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("clear tabs: %w", err)
	}

	_, err = svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write tabs: %w", err)
	}

	e.log.Info().
		Str("spreadsheet_id", spreadsheetID).
		Int("channels", len(report.Channels)).
		Msg("report exported")

	return SpreadsheetURL(spreadsheetID), nil
}

// a1Sheet quotes a tab title for A1 notation.
func a1Sheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
