// logsink is a small log pipeline: messages are queued by Submit and
// handed, in order, to a write function by a single background worker.
// Writing can be paused with Disable and resumed with Enable; messages
// submitted meanwhile stay queued.
package logsink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sa6mwa/consink/internal/app/gate"
	"github.com/sa6mwa/consink/internal/app/model"
)

var ErrClosed = errors.New("log sink is closed")

// WriteFunc delivers one message to its destination.
type WriteFunc func(ctx context.Context, msg model.LogMessage) error

type OverflowStrategy int

const (
	// OverflowBlock makes Submit wait for room in the queue.
	OverflowBlock OverflowStrategy = iota
	// OverflowDrop discards the submitted message when the queue is full.
	OverflowDrop
)

// ParseOverflow maps the configuration names block and drop.
func ParseOverflow(s string) (OverflowStrategy, error) {
	switch s {
	case "", model.OverflowBlock:
		return OverflowBlock, nil
	case model.OverflowDrop:
		return OverflowDrop, nil
	}
	return OverflowBlock, fmt.Errorf("unknown overflow strategy %q", s)
}

type Options struct {
	BufferSize int
	Overflow   OverflowStrategy
	// ShutdownTimeout bounds how long Close keeps writing queued
	// messages.
	ShutdownTimeout time.Duration
	// OnError receives every error returned by the write function.
	OnError func(error)
	Logger  *slog.Logger
}

type item struct {
	msg model.LogMessage
	// flushed, when set, marks a Flush request and receives its result.
	flushed chan error
}

type Base struct {
	write   WriteFunc
	options Options
	gate    *gate.Gate
	items   chan item

	// mu is held shared by Submit and Flush while they enqueue and
	// exclusively by Close to wait them out.
	mu     sync.RWMutex
	closed bool

	// stop is closed first on Close and cancels run, shutdown is closed
	// once no more items can be enqueued.
	stop      chan struct{}
	shutdown  chan struct{}
	run       context.Context
	cancelRun context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	unwritten int

	written atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

func New(write WriteFunc, options Options) *Base {
	if options.BufferSize <= 0 {
		options.BufferSize = 1024
	}
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = 5 * time.Second
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.OnError == nil {
		l := options.Logger
		options.OnError = func(err error) {
			l.Error("Unable to write log message", "error", err)
		}
	}
	run, cancel := context.WithCancel(context.Background())
	b := &Base{
		write:     write,
		options:   options,
		gate:      gate.New(),
		items:     make(chan item, options.BufferSize),
		stop:      make(chan struct{}),
		shutdown:  make(chan struct{}),
		run:       run,
		cancelRun: cancel,
		done:      make(chan struct{}),
	}
	go b.worker()
	return b
}

// Submit queues msg for writing.
func (b *Base) Submit(ctx context.Context, msg model.LogMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	it := item{msg: msg}
	select {
	case b.items <- it:
		return nil
	default:
	}
	if b.options.Overflow == OverflowDrop {
		b.dropped.Add(1)
		return nil
	}
	select {
	case b.items <- it:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrClosed
	}
}

// Flush waits until every message submitted before the call has been
// passed to the write function. While writing is disabled Flush waits
// for it to be enabled again, or for ctx to be done.
func (b *Base) Flush(ctx context.Context) error {
	flushed := make(chan error, 1)
	if err := b.enqueueFlush(ctx, flushed); err != nil {
		return err
	}
	select {
	case err := <-flushed:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Base) enqueueFlush(ctx context.Context, flushed chan error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	select {
	case b.items <- item{flushed: flushed}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrClosed
	}
}

// Disable stops messages from being written, waiting for a write in
// progress to finish first. Calls nest: writing resumes when every
// Disable has been matched by an Enable.
func (b *Base) Disable(ctx context.Context) error {
	select {
	case <-b.stop:
		return ErrClosed
	default:
	}
	return b.gate.Disable(ctx)
}

// Enable undoes one Disable.
func (b *Base) Enable() error {
	return b.gate.Enable()
}

func (b *Base) Disabled() bool {
	return b.gate.Disabled()
}

// Close stops accepting messages and writes what is queued, giving up
// after ShutdownTimeout (for example while writing is disabled).
// Messages left unwritten are counted as dropped.
func (b *Base) Close() error {
	b.closeOnce.Do(func() {
		close(b.stop)
		b.cancelRun()
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
		close(b.shutdown)
	})
	<-b.done
	if b.unwritten > 0 {
		return fmt.Errorf("closed with %d unwritten log messages", b.unwritten)
	}
	return nil
}

func (b *Base) worker() {
	defer close(b.done)
	for {
		select {
		case it := <-b.items:
			if !b.process(b.run, it) {
				b.drain(&it)
				return
			}
		case <-b.shutdown:
			b.drain(nil)
			return
		}
	}
}

// drain writes everything still queued once Close has shut intake,
// starting with pending if the worker was interrupted holding it.
func (b *Base) drain(pending *item) {
	<-b.shutdown
	ctx, cancel := context.WithTimeout(context.Background(), b.options.ShutdownTimeout)
	defer cancel()
	if pending != nil && !b.process(ctx, *pending) {
		b.abandon(*pending)
		return
	}
	for {
		select {
		case it := <-b.items:
			if !b.process(ctx, it) {
				b.abandon(it)
				return
			}
		default:
			return
		}
	}
}

func (b *Base) abandon(first item) {
	n := 0
	for it, ok := first, true; ok; {
		if it.flushed != nil {
			it.flushed <- ErrClosed
		} else {
			n++
		}
		select {
		case it = <-b.items:
		default:
			ok = false
		}
	}
	b.unwritten = n
	b.dropped.Add(uint64(n))
	b.options.Logger.Warn("Gave up on queued log messages", "count", n)
}

// process returns false when ctx ended before the item was written.
func (b *Base) process(ctx context.Context, it item) bool {
	if it.flushed != nil {
		it.flushed <- nil
		return true
	}
	err := b.gate.Do(ctx, func() error {
		return b.write(ctx, it.msg)
	})
	switch {
	case err == nil:
		b.written.Add(1)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return false
	default:
		b.failed.Add(1)
		b.options.OnError(err)
	}
	return true
}

type Metrics struct {
	Written uint64
	Dropped uint64
	Failed  uint64
	Queued  int
}

func (b *Base) Metrics() Metrics {
	return Metrics{
		Written: b.written.Load(),
		Dropped: b.dropped.Load(),
		Failed:  b.failed.Load(),
		Queued:  len(b.items),
	}
}
