package invoke

import "context"

// Pool is a fixed-size, FIFO collection of identically configured invokers
// shared across concurrent pipeline steps. It bounds the number of expensive
// client handles held at once, trading wait-for-availability latency for a
// hard resource ceiling. Sizing is fixed at creation; there is no growth or
// shrink.
//
// Usage invariant: release exactly the instances acquired from this pool,
// exactly once each. The pool does not validate provenance; releasing a
// foreign instance or double-releasing corrupts the in-circulation bound.
type Pool struct {
	queue chan Invoker
}

// NewPool creates an empty pool with capacity size. Instances are added via
// Release; Factory.CreatePool is the usual way to build a populated pool.
func NewPool(size int) *Pool {
	return &Pool{queue: make(chan Invoker, size)}
}

// Acquire removes and returns the invoker at the front of the queue. When
// the pool is exhausted the caller blocks until another goroutine releases
// an instance. There is no timeout: an Acquire against a pool whose
// instances are never released waits forever. Callers needing cancellation
// should use Do.
func (p *Pool) Acquire() Invoker {
	return <-p.queue
}

// Release returns an invoker to the back of the queue, waking the
// longest-waiting acquirer if any.
func (p *Pool) Release(inv Invoker) {
	p.queue <- inv
}

// Size returns the pool's fixed capacity.
func (p *Pool) Size() int {
	return cap(p.queue)
}

// Available returns the number of instances currently idle in the queue.
func (p *Pool) Available() int {
	return len(p.queue)
}

// Do acquires an invoker, runs fn with it, and releases it on every exit
// path, so an instance is never lost to a failure during use. Acquisition
// itself can be abandoned through ctx.
func (p *Pool) Do(ctx context.Context, fn func(Invoker) error) error {
	select {
	case inv := <-p.queue:
		defer p.Release(inv)
		return fn(inv)
	case <-ctx.Done():
		return ctx.Err()
	}
}
