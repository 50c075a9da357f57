// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrPoolClosed is returned by futures submitted to a closed WorkerPool.
var ErrPoolClosed = errors.New("kanboard: worker pool closed")

// Executor runs blocking calls off the caller's goroutine. Submit must be
// safe for concurrent use. It reports false if the task was not accepted.
type Executor interface {
	Submit(task func()) bool
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(task func()) bool

func (f ExecutorFunc) Submit(task func()) bool { return f(task) }

// DefaultExecutor starts one goroutine per task. It is shared by every
// Client that was not given WithExecutor.
var DefaultExecutor Executor = ExecutorFunc(func(task func()) bool {
	go task()
	return true
})

// WorkerPool is an Executor with a fixed number of workers.
type WorkerPool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts n workers. n < 1 is treated as 1.
func NewWorkerPool(n int) *WorkerPool {
	if n < 1 {
		n = 1
	}
	p := &WorkerPool{tasks: make(chan func())}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *WorkerPool) work() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit blocks until a worker takes the task.
func (p *WorkerPool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.tasks <- task
	return true
}

// Stop stops accepting tasks without waiting. Workers exit once their
// current task is done.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
}

// Close stops accepting tasks and waits for running ones to finish.
func (p *WorkerPool) Close() {
	p.Stop()
	p.wg.Wait()
}

// Future is the pending result of a call.
type Future struct {
	done   chan struct{}
	result json.RawMessage
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(result json.RawMessage, err error) {
	f.result, f.err = result, err
	close(f.done)
}

// Done is closed once the call has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Raw blocks until the call finishes and returns the raw result.
func (f *Future) Raw() (json.RawMessage, error) {
	<-f.done
	return f.result, f.err
}

// Wait blocks until the call finishes or ctx ends and returns the raw
// result. A finished call always wins over an ended ctx; if ctx ends first,
// Wait returns ctx.Err() while the call keeps running.
func (f *Future) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-f.done:
		return f.result, f.err
	default:
	}
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await is Wait with the result decoded into a generic value.
func (f *Future) Await(ctx context.Context) (any, error) {
	raw, err := f.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return decodeResult(raw)
}

// Decode is Wait with the result unmarshalled into out.
func (f *Future) Decode(ctx context.Context, out any) error {
	raw, err := f.Wait(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ClientError{Message: msgParseFailure + err.Error(), Err: err}
	}
	return nil
}

// Go runs Execute for method on the client's executor. The call is detached
// from ctx cancellation: once submitted it always runs to completion.
func (c *Client) Go(ctx context.Context, method string, params Params) *Future {
	f := newFuture()
	ctx = context.WithoutCancel(ctx)
	if !c.executor.Submit(func() { f.resolve(c.Execute(ctx, method, params)) }) {
		f.resolve(nil, newClientError(ErrPoolClosed))
	}
	return f
}
