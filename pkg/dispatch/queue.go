// Package dispatch provides serial execution contexts. Each Queue runs the
// closures handed to it one at a time, in submission order, on a single
// goroutine.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// ErrClosed is returned by Do once the queue has been closed.
var ErrClosed = errors.New("dispatch: queue closed")

type Queue struct {
	name string
	log  logger.Logger

	mu      sync.Mutex
	wake    *sync.Cond
	pending []func()
	closed  bool

	done chan struct{}
}

// New starts a queue. name only shows up in logs.
func New(name string) *Queue {
	q := &Queue{
		name: name,
		log:  logger.New().Root(logger.Data{"queue": name}),
		done: make(chan struct{}),
	}
	q.wake = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Async enqueues fn without waiting for it. It returns false if the queue is
// closed and fn was dropped.
func (q *Queue) Async(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, fn)
	q.wake.Signal()
	return true
}

// Do runs fn on the queue and waits for its result. If ctx is done before fn
// starts, fn is skipped and Do returns ctx's error. Once fn has started it
// runs to completion on a context that is never cancelled, and Do reports
// its result, so a caller that sees an error knows the work did not commit.
// Do must not be called from a closure that is itself running on q.
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	const (
		pending int32 = iota
		started
		abandoned
	)
	var state atomic.Int32
	result := make(chan error, 1)
	ok := q.Async(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- errors.Errorf("dispatch: panic in %s: %v", q.name, r)
			}
		}()
		if ctx.Err() != nil || !state.CompareAndSwap(pending, started) {
			result <- errors.WithStack(ctx.Err())
			return
		}
		result <- fn(context.WithoutCancel(ctx))
	})
	if !ok {
		return errors.WithStack(ErrClosed)
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(pending, abandoned) {
			return errors.WithStack(ctx.Err())
		}
		return <-result
	}
}

// Close stops accepting work, runs whatever is already queued, and returns
// once the queue goroutine has exited. Calling it more than once is fine.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.wake.Broadcast()
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.wake.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.exec(fn)
	}
}

func (q *Queue) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Err(errors.Errorf("%v", r)).Error("task panicked")
		}
	}()
	fn()
}
