// Package debounce coalesces bursts of calls per key into a single trailing
// execution.
//
// Every Do call for a key restarts that key's window and replaces the
// function to run; when the window elapses without another call, the last
// function runs once and every caller that joined the burst receives its
// result. Executions for the same key never overlap and run in the order
// their windows closed.
package debounce

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrClosed = errors.New("debouncer closed")

// Func is the work scheduled for a key.
type Func[T any] func(ctx context.Context) (T, error)

// Observer receives event names: scheduled, coalesced, flushed.
type Observer interface {
	IncDebounce(event string)
}

// Result is delivered to every waiter of a burst.
type Result[T any] struct {
	Value T
	Err   error
	// Seq orders executions; a later execution always has a larger Seq.
	Seq uint64
}

type pending[T any] struct {
	timer   *time.Timer
	gen     uint64
	ctx     context.Context
	fn      Func[T]
	waiters []chan Result[T]
}

type keyState struct {
	tail chan struct{}
	refs int
}

type Debouncer[T any] struct {
	window   time.Duration
	observer Observer

	mu      sync.Mutex
	pending map[string]*pending[T]
	keys    map[string]*keyState
	seq     uint64
	closed  bool
	wg      sync.WaitGroup
}

func New[T any](window time.Duration, observer Observer) *Debouncer[T] {
	return &Debouncer[T]{
		window:   window,
		observer: observer,
		pending:  make(map[string]*pending[T]),
		keys:     make(map[string]*keyState),
	}
}

// Do schedules fn for key and blocks until the burst it joined has executed.
// If ctx ends first Do returns ctx.Err(), but the scheduled work still runs;
// it executes with a context detached from cancellation.
func (d *Debouncer[T]) Do(ctx context.Context, key string, fn Func[T]) (T, error) {
	var zero T
	ch := make(chan Result[T], 1)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return zero, ErrClosed
	}
	p, ok := d.pending[key]
	if ok {
		p.timer.Stop()
		d.observe("coalesced")
	} else {
		p = &pending[T]{}
		d.pending[key] = p
		d.observe("scheduled")
	}
	p.ctx = ctx
	p.fn = fn
	p.waiters = append(p.waiters, ch)
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(d.window, func() { d.fire(key, p, gen) })
	d.mu.Unlock()

	select {
	case res := <-ch:
		return res.Value, res.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops accepting work, runs every pending burst immediately and waits
// for in-flight executions or ctx, whichever comes first.
func (d *Debouncer[T]) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for key, p := range d.pending {
		p.timer.Stop()
		d.startLocked(key, p)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports how many keys have an open window.
func (d *Debouncer[T]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Debouncer[T]) waiters(key string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		return len(p.waiters)
	}
	return 0
}

func (d *Debouncer[T]) fire(key string, p *pending[T], gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// A Do call that raced the timer has already rescheduled this burst.
	if cur, ok := d.pending[key]; !ok || cur != p || p.gen != gen {
		return
	}
	d.startLocked(key, p)
}

// startLocked detaches p from the pending set and chains its execution
// behind any earlier execution for the same key. d.mu must be held.
func (d *Debouncer[T]) startLocked(key string, p *pending[T]) {
	delete(d.pending, key)

	ks, ok := d.keys[key]
	if !ok {
		ks = &keyState{}
		d.keys[key] = ks
	}
	ks.refs++
	d.seq++
	seq := d.seq
	prev := ks.tail
	done := make(chan struct{})
	ks.tail = done

	d.wg.Add(1)
	go d.run(key, p, seq, prev, done)
}

func (d *Debouncer[T]) run(key string, p *pending[T], seq uint64, prev <-chan struct{}, done chan struct{}) {
	defer d.wg.Done()
	if prev != nil {
		<-prev
	}

	value, err := execute(context.WithoutCancel(p.ctx), p.fn)
	close(done)

	d.mu.Lock()
	if ks, ok := d.keys[key]; ok {
		ks.refs--
		if ks.refs == 0 {
			delete(d.keys, key)
		}
	}
	d.mu.Unlock()

	res := Result[T]{Value: value, Err: err, Seq: seq}
	for _, w := range p.waiters {
		w <- res
	}
	d.observe("flushed")
}

func execute[T any](ctx context.Context, fn Func[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("debounced func panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (d *Debouncer[T]) observe(event string) {
	if d.observer != nil {
		d.observer.IncDebounce(event)
	}
}
