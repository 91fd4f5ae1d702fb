// Package worker schedules per-URL work in bounded-width batches with
// layered timeouts. Batches run sequentially; items within a batch run
// concurrently. Every scheduling entry point is total: one output per
// input, in input order, stubs substituted for anything that failed or
// ran out of time.
package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/trackevents/trackevents/internal/model"
	"github.com/trackevents/trackevents/internal/score"
)

// Extractor defines the detail-extraction capability the scheduler
// drives. Implementations are total and never return an error.
type Extractor interface {
	Extract(ctx context.Context, url string) model.ExtractedRecord
}

// Scheduler runs extraction and scoring over many items with bounded
// concurrency.
type Scheduler struct {
	batchSize    int
	itemTimeout  time.Duration
	batchTimeout time.Duration
	verbose      bool
}

// NewScheduler creates a scheduler. batchSize bounds peak memory and
// connection usage; the batch timeout is deliberately shorter than
// batchSize times the item timeout so a handful of slow items cannot
// stall the run.
func NewScheduler(batchSize int, itemTimeout, batchTimeout time.Duration, verbose bool) *Scheduler {
	if batchSize <= 0 {
		batchSize = 2
	}
	if itemTimeout <= 0 {
		itemTimeout = 60 * time.Second
	}
	if batchTimeout <= 0 {
		batchTimeout = 90 * time.Second
	}
	return &Scheduler{
		batchSize:    batchSize,
		itemTimeout:  itemTimeout,
		batchTimeout: batchTimeout,
		verbose:      verbose,
	}
}

// extractJob wraps one extraction with its position and item deadline.
type extractJob struct {
	index     int
	url       string
	extractor Extractor
	timeout   time.Duration
}

// extractResult carries the record back with its input position.
type extractResult struct {
	index  int
	record model.ExtractedRecord
}

func (r *extractResult) GetError() error { return nil }

func (j *extractJob) Execute(ctx context.Context) Result {
	itemCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	record := safeExtract(itemCtx, j.extractor, j.url)
	return &extractResult{index: j.index, record: record}
}

// safeExtract converts a panicking or failing extraction into the stub
// record; the scheduler itself never raises.
func safeExtract(ctx context.Context, e Extractor, url string) (record model.ExtractedRecord) {
	record = model.StubRecord(url)
	defer func() {
		if r := recover(); r != nil {
			record = model.StubRecord(url)
		}
	}()
	record = e.Extract(ctx, url)
	if record.URL == "" {
		record.URL = url
	}
	return record
}

// ExtractAll runs the extractor over every URL and returns exactly one
// record per input URL, in input order.
func (s *Scheduler) ExtractAll(ctx context.Context, urls []string, extractor Extractor) []model.ExtractedRecord {
	results := make([]model.ExtractedRecord, len(urls))
	for i, url := range urls {
		results[i] = model.StubRecord(url)
	}

	totalBatches := (len(urls) + s.batchSize - 1) / s.batchSize

	for start := 0; start < len(urls); start += s.batchSize {
		end := start + s.batchSize
		if end > len(urls) {
			end = len(urls)
		}
		batch := urls[start:end]
		batchNum := start/s.batchSize + 1
		s.logf("extracting batch %d/%d (%d items)", batchNum, totalBatches, len(batch))

		jobs := make([]Job, len(batch))
		for i, url := range batch {
			jobs[i] = &extractJob{
				index:     start + i,
				url:       url,
				extractor: extractor,
				timeout:   s.itemTimeout,
			}
		}

		for _, r := range s.runBatch(ctx, jobs) {
			if er, ok := r.(*extractResult); ok {
				results[er.index] = er.record
			}
		}
	}

	return results
}

// scoreJob wraps one relevance scoring call with its position.
type scoreJob struct {
	index    int
	record   model.ExtractedRecord
	strategy score.Strategy
	profile  *model.Profile
	timeout  time.Duration
}

type scoreResult struct {
	index   int
	verdict model.RelevanceVerdict
}

func (r *scoreResult) GetError() error { return nil }

func (j *scoreJob) Execute(ctx context.Context) Result {
	itemCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	return &scoreResult{index: j.index, verdict: j.strategy.Score(itemCtx, j.record, j.profile)}
}

// ScoreAll scores every record independently with the same batching and
// timeout discipline as extraction. Strategies are pure per record, so
// concurrent scoring needs no coordination beyond positional
// re-assembly.
func (s *Scheduler) ScoreAll(ctx context.Context, records []model.ExtractedRecord, strategy score.Strategy, profile *model.Profile) []model.RelevanceVerdict {
	verdicts := make([]model.RelevanceVerdict, len(records))
	for i := range verdicts {
		verdicts[i] = model.NotRelevant("not scored")
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}

		jobs := make([]Job, end-start)
		for i := 0; i < end-start; i++ {
			jobs[i] = &scoreJob{
				index:    start + i,
				record:   records[start+i],
				strategy: strategy,
				profile:  profile,
				timeout:  s.itemTimeout,
			}
		}

		for _, r := range s.runBatch(ctx, jobs) {
			if sr, ok := r.(*scoreResult); ok {
				verdicts[sr.index] = sr.verdict
			}
		}
	}

	return verdicts
}

// runBatch executes one batch on a fresh pool and collects whatever
// completes before the aggregate deadline. Items still in flight when
// the deadline fires are abandoned; their slots keep the pre-filled
// stub values.
func (s *Scheduler) runBatch(ctx context.Context, jobs []Job) []Result {
	batchCtx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	defer cancel()

	pool := NewPool(batchCtx, len(jobs), len(jobs))
	pool.Start()
	for _, job := range jobs {
		pool.Submit(job)
	}
	pool.Finish()

	var collected []Result
	for len(collected) < len(jobs) {
		select {
		case r, ok := <-pool.Results():
			if !ok {
				return collected
			}
			collected = append(collected, r)
		case <-batchCtx.Done():
			s.logf("batch timed out after %s, substituting stubs for %d unfinished items",
				s.batchTimeout, len(jobs)-len(collected))
			pool.Shutdown()
			return collected
		}
	}
	return collected
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
