package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// luaCall is one operation on the executor's Lua state.
type luaCall struct {
	fn     func(L *lua.LState) error
	result chan error
}

// executor serializes every operation on a Lua state through one
// goroutine. LState is not safe for concurrent use.
type executor struct {
	L      *lua.LState
	queue  chan *luaCall
	closed atomic.Bool
	done   chan struct{}

	closeOnce sync.Once
}

func newExecutor(L *lua.LState, queueSize int) *executor {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &executor{
		L:     L,
		queue: make(chan *luaCall, queueSize),
		done:  make(chan struct{}),
	}
}

// run processes calls until ctx is cancelled or close is called. It must
// run on the goroutine that owns the state.
func (e *executor) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.close()
			e.drain()
			return
		case <-e.done:
			e.drain()
			return
		case call := <-e.queue:
			call.result <- e.exec(call)
			close(call.result)
		}
	}
}

func (e *executor) exec(call *luaCall) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return call.fn(e.L)
}

// drain fails every queued call. Queued calls were never started.
func (e *executor) drain() {
	for {
		select {
		case call := <-e.queue:
			call.result <- ErrDestinationGone
			close(call.result)
		default:
			return
		}
	}
}

// execute queues fn and waits for it. A call that was queued is run at
// most once; if ctx ends first the result is abandoned.
func (e *executor) execute(ctx context.Context, fn func(L *lua.LState) error) error {
	if e.closed.Load() {
		return ErrDestinationGone
	}

	call := &luaCall{fn: fn, result: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrDestinationGone
	case e.queue <- call:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		select {
		case err, ok := <-call.result:
			if ok {
				return err
			}
		default:
		}
		return ErrDestinationGone
	case err, ok := <-call.result:
		if !ok {
			return ErrDestinationGone
		}
		return err
	}
}

func (e *executor) close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
	})
}
