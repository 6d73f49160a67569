package canvasrender

import (
	"context"
	"sync"
)

// taskQueue runs work off the caller's goroutine and hands the result back
// as a closure that is applied later from drain. Only the work function
// runs concurrently; every closure runs on the goroutine calling drain.
type taskQueue struct {
	mu   sync.Mutex
	done []func()
	wg   sync.WaitGroup
}

// goWork starts work on a new goroutine. A nil closure result is ignored.
func (q *taskQueue) goWork(ctx context.Context, work func(ctx context.Context) func()) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		apply := work(ctx)
		if apply == nil || ctx.Err() != nil {
			return
		}
		q.mu.Lock()
		q.done = append(q.done, apply)
		q.mu.Unlock()
	}()
}

// drain applies every finished closure in completion order and returns how
// many ran.
func (q *taskQueue) drain() int {
	q.mu.Lock()
	fns := q.done
	q.done = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func (q *taskQueue) wait() { q.wg.Wait() }

func (q *taskQueue) discard() {
	q.mu.Lock()
	q.done = nil
	q.mu.Unlock()
}
