// gate serializes writes to a console and lets any number of
// overlapping callers pause them. Pausing is reference counted: the
// gate stays disabled until every Disable has been matched by an
// Enable.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotDisabled = errors.New("gate is not disabled")
	ErrWriteFailed = errors.New("in-flight write failed")
)

type Gate struct {
	mu    sync.Mutex
	count int
	// open is closed while count is zero and replaced on the 0 -> 1
	// transition.
	open chan struct{}
	// slot is held by a write for its whole duration.
	slot chan struct{}

	// Both guarded by mu. started counts writes that have passed the
	// enabled check, lastErr is the result of write number lastSeq.
	started  uint64
	finished uint64
	lastSeq  uint64
	lastErr  error
}

func New() *Gate {
	g := &Gate{
		open: make(chan struct{}),
		slot: make(chan struct{}, 1),
	}
	close(g.open)
	return g
}

// Disable stops writes from starting and waits for a write already in
// progress to complete. If ctx is done first, or the in-progress write
// fails, the gate is left as it was and an error is returned.
func (g *Gate) Disable(ctx context.Context) error {
	g.mu.Lock()
	if g.count == 0 {
		g.open = make(chan struct{})
	}
	g.count++
	inflight := g.started > g.finished
	seq := g.started
	g.mu.Unlock()

	select {
	case g.slot <- struct{}{}:
	case <-ctx.Done():
		g.release()
		return ctx.Err()
	}
	<-g.slot

	if !inflight {
		return nil
	}
	g.mu.Lock()
	var err error
	if g.lastSeq == seq {
		err = g.lastErr
	}
	g.mu.Unlock()
	if err != nil {
		g.release()
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Enable undoes one Disable. Writes resume when the last outstanding
// Disable has been undone.
func (g *Gate) Enable() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.count == 0 {
		return ErrNotDisabled
	}
	g.count--
	if g.count == 0 {
		close(g.open)
	}
	return nil
}

func (g *Gate) release() {
	_ = g.Enable()
}

// Do waits until the gate is enabled and runs write while holding the
// write slot, so a concurrent Disable waits for write to return.
func (g *Gate) Do(ctx context.Context, write func() error) error {
	for {
		g.mu.Lock()
		open := g.open
		g.mu.Unlock()
		select {
		case <-open:
		case <-ctx.Done():
			return ctx.Err()
		}

		select {
		case g.slot <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		g.mu.Lock()
		if g.count > 0 {
			g.mu.Unlock()
			<-g.slot
			continue
		}
		g.started++
		seq := g.started
		g.mu.Unlock()

		return g.run(seq, write)
	}
}

func (g *Gate) run(seq uint64, write func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during write: %v", r)
		}
		g.mu.Lock()
		g.finished = seq
		g.lastSeq = seq
		g.lastErr = err
		g.mu.Unlock()
		<-g.slot
	}()
	return write()
}

// Disabled reports whether at least one Disable is outstanding.
func (g *Gate) Disabled() bool {
	return g.Count() > 0
}

// Count returns the number of outstanding Disable calls.
func (g *Gate) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}
