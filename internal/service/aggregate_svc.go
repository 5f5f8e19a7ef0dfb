package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tubepulse/standout/internal/model"
)

// Analyzer analyzes a single channel. *ChannelAnalyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, channelURL string) model.ChannelResult
}

// ProgressFunc is told how many channels have finished out of total. Calls
// are serialized and processed only increases.
type ProgressFunc func(processed, total int)

// Aggregator runs channel analyses over a list of URLs.
type Aggregator struct {
	analyzer    Analyzer
	parallelism int
	now         func() time.Time
}

// NewAggregator creates an Aggregator running at most parallelism channel
// analyses at once. parallelism < 1 means sequential.
func NewAggregator(analyzer Analyzer, parallelism int) *Aggregator {
	return &Aggregator{
		analyzer:    analyzer,
		parallelism: max(parallelism, 1),
		now:         time.Now,
	}
}

// AnalyzeAll returns one result per URL, in input order. A channel that
// fails is reported in place with its error; the batch always completes.
func (a *Aggregator) AnalyzeAll(ctx context.Context, urls []string, progress ProgressFunc) model.Report {
	results := make([]model.ChannelResult, len(urls))

	var (
		mu        sync.Mutex
		processed int
	)

	var g errgroup.Group
	g.SetLimit(a.parallelism)

	for i, url := range urls {
		g.Go(func() error {
			results[i] = a.analyzeOne(ctx, url)

			mu.Lock()
			processed++
			if progress != nil {
				progress(processed, len(urls))
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return model.Report{
		Channels:    results,
		GeneratedAt: a.now().UTC(),
	}
}

func (a *Aggregator) analyzeOne(ctx context.Context, url string) (result model.ChannelResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failedResult(url, model.ChannelInfo{}, fmt.Errorf("analysis panicked: %v", r))
		}
	}()
	return a.analyzer.Analyze(ctx, url)
}
