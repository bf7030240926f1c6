package rpc

//
// Cross-goroutine request bridge (spec.md §4.10, §5).
//

import (
	"context"
	"sync"
	"sync/atomic"
)

// Func is a unit of work the simulator goroutine executes on behalf of an
// RPC handler, returning whatever result the handler should see.
type Func func() (any, error)

type call struct {
	tag  uint64
	fn   Func
	resp chan result
}

type result struct {
	value any
	err   error
}

// Bridge carries [Func] calls from gRPC handler goroutines into the
// simulator goroutine and their results back, mirroring the reference
// implementation's GRPC_REQUEST/GRPC_RESPONSE two-queue design (see the
// package doc comment) as a mutex-guarded FIFO of calls drained by
// [Bridge.Pump], and a per-call response channel.
type Bridge struct {
	mu      sync.Mutex
	queue   []*call
	ready   chan struct{}
	nextTag uint64
}

// NewBridge creates an empty Bridge.
func NewBridge() *Bridge {
	return &Bridge{ready: make(chan struct{}, 1)}
}

// Ready is signaled whenever a call is enqueued; register it with an
// [IOMux]-style multiplexer (see iomux.go) paired with [Bridge.Pump] as the
// readiness callback.
func (b *Bridge) Ready() <-chan struct{} {
	return b.ready
}

// Call enqueues fn for execution on the simulator goroutine and blocks
// until it runs (or ctx is canceled first). Safe to call concurrently from
// any number of gRPC handler goroutines.
func (b *Bridge) Call(ctx context.Context, fn Func) (any, error) {
	c := &call{
		tag:  atomic.AddUint64(&b.nextTag, 1),
		fn:   fn,
		resp: make(chan result, 1),
	}
	b.mu.Lock()
	b.queue = append(b.queue, c)
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}

	select {
	case res := <-c.resp:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pump drains and executes every call queued since the last Pump, in FIFO
// order. Call this only from the simulator goroutine (spec.md §5).
func (b *Bridge) Pump() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.mu.Unlock()
			return
		}
		c := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		value, err := c.fn()
		c.resp <- result{value: value, err: err}
	}
}

// Pending reports how many calls are queued but not yet pumped, for tests
// and metrics.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}
