package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/export"
	"github.com/tubepulse/standout/internal/metrics"
	"github.com/tubepulse/standout/internal/model"
)

// ErrExportDisabled is returned by Export when no exporter is configured.
var ErrExportDisabled = errors.New("export is disabled")

// ExportError reports that every channel was analyzed but writing the
// report failed. The report is kept so callers can still show it.
type ExportError struct {
	Target string
	Report model.Report
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Target, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// StandoutService is the entry point used by the API and the CLI: single
// and multi-channel analysis, plus analysis followed by export.
type StandoutService struct {
	analyzer   *ChannelAnalyzer
	aggregator *Aggregator
	exporter   export.Exporter
	log        zerolog.Logger
}

// NewStandoutService creates the service. exporter may be nil, in which
// case AnalyzeAndExport only analyzes.
func NewStandoutService(analyzer *ChannelAnalyzer, parallelism int, exporter export.Exporter, log zerolog.Logger) *StandoutService {
	return &StandoutService{
		analyzer:   analyzer,
		aggregator: NewAggregator(analyzer, parallelism),
		exporter:   exporter,
		log:        log,
	}
}

// ExportTarget names the configured exporter, or "" when export is off.
func (s *StandoutService) ExportTarget() string {
	if s.exporter == nil {
		return ""
	}
	return s.exporter.Target()
}

// AnalyzeChannel analyzes one channel.
func (s *StandoutService) AnalyzeChannel(ctx context.Context, url string) model.ChannelResult {
	return s.analyzer.Analyze(ctx, url)
}

// AnalyzeChannels analyzes every URL and returns one result per URL in
// request order.
func (s *StandoutService) AnalyzeChannels(ctx context.Context, urls []string, progress ProgressFunc) model.Report {
	return s.aggregator.AnalyzeAll(ctx, urls, progress)
}

// Export writes report to destination. Failures are returned as
// *ExportError.
func (s *StandoutService) Export(ctx context.Context, report model.Report, destination string) (string, error) {
	if s.exporter == nil {
		return "", ErrExportDisabled
	}

	target := s.exporter.Target()
	start := time.Now()
	locator, err := s.exporter.Export(ctx, report, destination)
	metrics.ExportDuration.WithLabelValues(target).Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error().Err(err).Str("target", target).Msg("export failed")
		return "", &ExportError{Target: target, Report: report, Err: err}
	}

	s.log.Info().
		Str("target", target).
		Str("locator", locator).
		Int("channels", len(report.Channels)).
		Int("failed", report.Failures()).
		Dur("duration_ms", time.Since(start)).
		Msg("report exported")
	return locator, nil
}

// AnalyzeAndExport analyzes urls and exports the report. Per-channel
// failures stay inside the report; only an export failure makes the whole
// operation fail, as an *ExportError. With export disabled the locator is
// empty and err is nil.
func (s *StandoutService) AnalyzeAndExport(ctx context.Context, urls []string, destination string, progress ProgressFunc) (model.Report, string, error) {
	report := s.AnalyzeChannels(ctx, urls, progress)
	if s.exporter == nil {
		return report, "", nil
	}

	locator, err := s.Export(ctx, report, destination)
	if err != nil {
		return report, "", err
	}
	return report, locator, nil
}
