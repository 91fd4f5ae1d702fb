package worker

import (
	"context"
	"testing"
	"time"
)

type sleepJob struct {
	id    int
	sleep time.Duration
}

type sleepResult struct {
	id  int
	err error
}

func (r *sleepResult) GetError() error { return r.err }

func (j *sleepJob) Execute(ctx context.Context) Result {
	if j.sleep > 0 {
		select {
		case <-time.After(j.sleep):
		case <-ctx.Done():
			return &sleepResult{id: j.id, err: ctx.Err()}
		}
	}
	return &sleepResult{id: j.id}
}

func TestPool_AllJobsComplete(t *testing.T) {
	pool := NewPool(context.Background(), 3, 10)
	pool.Start()

	for i := 0; i < 10; i++ {
		pool.Submit(&sleepJob{id: i})
	}
	pool.Finish()

	seen := make(map[int]bool)
	for r := range pool.Results() {
		sr := r.(*sleepResult)
		if sr.err != nil {
			t.Errorf("Job %d returned error: %v", sr.id, sr.err)
		}
		seen[sr.id] = true
	}

	if len(seen) != 10 {
		t.Errorf("Expected 10 distinct results, got %d", len(seen))
	}
}

func TestPool_ResultsChannelClosesAfterFinish(t *testing.T) {
	pool := NewPool(context.Background(), 2, 2)
	pool.Start()
	pool.Submit(&sleepJob{id: 1})
	pool.Finish()

	done := make(chan struct{})
	go func() {
		for range pool.Results() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Results channel never closed after Finish")
	}
}

func TestPool_ShutdownAbandonsInFlightWork(t *testing.T) {
	pool := NewPool(context.Background(), 1, 2)
	pool.Start()
	pool.Submit(&sleepJob{id: 1, sleep: 10 * time.Second})
	pool.Submit(&sleepJob{id: 2, sleep: 10 * time.Second})
	pool.Finish()

	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		for range pool.Results() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pool did not wind down after Shutdown")
	}
}

func TestPool_ZeroWorkersClamped(t *testing.T) {
	pool := NewPool(context.Background(), 0, 0)
	pool.Start()
	pool.Submit(&sleepJob{id: 1})
	pool.Finish()

	count := 0
	for range pool.Results() {
		count++
	}
	if count != 1 {
		t.Errorf("Expected 1 result, got %d", count)
	}
}
