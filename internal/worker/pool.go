package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a pool of workers that execute jobs concurrently. The
// results channel is buffered to capacity so an abandoned batch never
// blocks a worker mid-send.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a worker pool with the given width and result
// capacity.
func NewPool(ctx context.Context, workers int, capacity int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if capacity < workers {
		capacity = workers
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, capacity),
		results:    make(chan Result, capacity),
		ctx:        poolCtx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

// worker processes jobs until the queue closes or the pool is shut down.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool for execution.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Finish signals that no more jobs will be submitted. Workers exit when
// the queue drains, which closes the results channel.
func (p *Pool) Finish() {
	close(p.jobQueue)
}

// Results returns the stream of completed results. The channel closes
// after Finish once every in-flight job has completed, or after
// Shutdown.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Shutdown abandons remaining work. In-flight jobs observe the canceled
// context and wind down on their own schedule.
func (p *Pool) Shutdown() {
	p.cancelFunc()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
