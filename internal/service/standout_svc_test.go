package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubepulse/standout/internal/model"
)

type fakeExporter struct {
	target   string
	locator  string
	err      error
	gotDest  string
	exported int
}

func (e *fakeExporter) Target() string { return e.target }

func (e *fakeExporter) Export(_ context.Context, report model.Report, dest string) (string, error) {
	e.gotDest = dest
	e.exported = len(report.Channels)
	return e.locator, e.err
}

func TestAnalyzeAndExport_Success(t *testing.T) {
	exp := &fakeExporter{target: "sheets", locator: "https://docs.google.com/spreadsheets/d/s1"}
	svc := NewStandoutService(newTestAnalyzer(threeChannelFetcher()), 2, exp, zerolog.Nop())

	report, loc, err := svc.AnalyzeAndExport(context.Background(), threeURLs, "s1", nil)

	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/s1", loc)
	assert.Equal(t, "s1", exp.gotDest)
	assert.Equal(t, 3, exp.exported)
	assert.Len(t, report.Channels, 3)
	assert.Equal(t, 1, report.Failures())
}

func TestAnalyzeAndExport_ExportFailureIsFatal(t *testing.T) {
	boom := errors.New("quota exceeded")
	exp := &fakeExporter{target: "sheets", err: boom}
	svc := NewStandoutService(newTestAnalyzer(threeChannelFetcher()), 1, exp, zerolog.Nop())

	report, loc, err := svc.AnalyzeAndExport(context.Background(), threeURLs, "s1", nil)

	require.Error(t, err)
	assert.Empty(t, loc)

	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "sheets", exportErr.Target)
	assert.True(t, errors.Is(err, boom))
	assert.Len(t, exportErr.Report.Channels, 3)
	assert.Equal(t, "export to sheets failed: quota exceeded", err.Error())

	// The per-channel error stays in the report, apart from the export error.
	assert.Len(t, report.Channels, 3)
	assert.NotContains(t, report.Channels[1].Error, "quota")
}

func TestAnalyzeAndExport_NoExporter(t *testing.T) {
	svc := NewStandoutService(newTestAnalyzer(threeChannelFetcher()), 1, nil, zerolog.Nop())

	report, loc, err := svc.AnalyzeAndExport(context.Background(), threeURLs, "", nil)

	require.NoError(t, err)
	assert.Empty(t, loc)
	assert.Len(t, report.Channels, 3)
	assert.Empty(t, svc.ExportTarget())

	_, err = svc.Export(context.Background(), report, "")
	assert.ErrorIs(t, err, ErrExportDisabled)
}

func TestAnalyzeChannel_Single(t *testing.T) {
	svc := NewStandoutService(newTestAnalyzer(threeChannelFetcher()), 1, nil, zerolog.Nop())

	res := svc.AnalyzeChannel(context.Background(), "https://www.youtube.com/@gamma")

	assert.False(t, res.Failed())
	assert.Equal(t, "gamma", res.ChannelName)
}
