// worker/pool.go
package worker

import "sync"

type Job[T any] func() T

type Result[T any] struct {
	JobID  string
	Output T
}

type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]

	wg        sync.WaitGroup
	closeOnce sync.Once
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

// NewPool starts workerCount workers. Results must be drained by the
// caller or the workers block once bufferSize results are waiting.
func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output := job.fn()
		p.results <- Result[T]{
			JobID:  job.id,
			Output: output,
		}
	}
}

// Submit queues a job. It must not be called after Close.
func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close runs the queued jobs to completion and then closes Results.
func (p *Pool[T]) Close() {
	p.closeOnce.Do(func() {
		close(p.jobs)
		p.wg.Wait()
		close(p.results)
	})
}
