package logsink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sa6mwa/consink/internal/app/model"
)

type recorder struct {
	mu       sync.Mutex
	payloads []any
	err      error
}

func (r *recorder) write(ctx context.Context, msg model.LogMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, msg.Payload)
	return nil
}

func (r *recorder) got() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.payloads...)
}

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSubmitFlushPreservesOrder(t *testing.T) {
	r := &recorder{}
	b := New(r.write, quietOptions())
	defer b.Close()
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		if err := b.Submit(ctx, model.LogMessage{Payload: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	got := r.got()
	if len(got) != 100 {
		t.Fatalf("expected 100 writes, got %d", len(got))
	}
	for i, p := range got {
		if p != i {
			t.Fatalf("write %d has payload %v", i, p)
		}
	}
	if m := b.Metrics(); m.Written != 100 || m.Failed != 0 || m.Dropped != 0 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestDisabledMessagesStayQueued(t *testing.T) {
	r := &recorder{}
	b := New(r.write, quietOptions())
	defer b.Close()
	ctx := context.Background()
	if err := b.Disable(ctx); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := b.Submit(ctx, model.LogMessage{Payload: i}); err != nil {
			t.Fatal(err)
		}
	}
	flushCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := b.Flush(flushCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected Flush to time out while disabled, got %v", err)
	}
	if n := len(r.got()); n != 0 {
		t.Fatalf("%d messages written while disabled", n)
	}
	if err := b.Enable(); err != nil {
		t.Fatal(err)
	}
	if err := b.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if got := r.got(); fmt.Sprint(got) != "[0 1 2]" {
		t.Fatalf("unexpected writes after Enable: %v", got)
	}
}

func TestWriteErrorsAreReported(t *testing.T) {
	boom := errors.New("boom")
	r := &recorder{err: boom}
	var mu sync.Mutex
	var reported []error
	opts := quietOptions()
	opts.OnError = func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}
	b := New(r.write, opts)
	defer b.Close()
	ctx := context.Background()
	_ = b.Submit(ctx, model.LogMessage{})
	if err := b.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 || !errors.Is(reported[0], boom) {
		t.Fatalf("expected boom to be reported once, got %v", reported)
	}
	if m := b.Metrics(); m.Failed != 1 {
		t.Errorf("expected 1 failed write, got %+v", m)
	}
}

func TestOverflowDrop(t *testing.T) {
	r := &recorder{}
	opts := quietOptions()
	opts.BufferSize = 2
	opts.Overflow = OverflowDrop
	b := New(r.write, opts)
	defer b.Close()
	ctx := context.Background()
	if err := b.Disable(ctx); err != nil {
		t.Fatal(err)
	}
	// The worker holds at most one message while disabled, the queue
	// two more; the rest is dropped.
	for i := 0; i < 10; i++ {
		if err := b.Submit(ctx, model.LogMessage{Payload: i}); err != nil {
			t.Fatal(err)
		}
	}
	if m := b.Metrics(); m.Dropped < 7 {
		t.Errorf("expected at least 7 dropped messages, got %+v", m)
	}
	_ = b.Enable()
}

func TestOverflowBlockHonoursContext(t *testing.T) {
	r := &recorder{}
	opts := quietOptions()
	opts.BufferSize = 1
	b := New(r.write, opts)
	defer b.Close()
	if err := b.Disable(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = b.Submit(ctx, model.LogMessage{Payload: i})
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected Submit to block until the deadline, got %v", err)
	}
	_ = b.Enable()
}

func TestCloseDrainsQueue(t *testing.T) {
	r := &recorder{}
	b := New(r.write, quietOptions())
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = b.Submit(ctx, model.LogMessage{Payload: i})
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if n := len(r.got()); n != 5 {
		t.Fatalf("expected 5 writes after Close, got %d", n)
	}
	if err := b.Submit(ctx, model.LogMessage{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := b.Disable(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Disable, got %v", err)
	}
}

func TestCloseWhileDisabledGivesUp(t *testing.T) {
	r := &recorder{}
	opts := quietOptions()
	opts.ShutdownTimeout = 50 * time.Millisecond
	b := New(r.write, opts)
	ctx := context.Background()
	if err := b.Disable(ctx); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		_ = b.Submit(ctx, model.LogMessage{Payload: i})
	}
	if err := b.Close(); err == nil {
		t.Fatal("expected an error for unwritten messages")
	}
	if m := b.Metrics(); m.Dropped != 3 || m.Written != 0 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestParseOverflow(t *testing.T) {
	table := []struct {
		in      string
		want    OverflowStrategy
		wantErr bool
	}{
		{"", OverflowBlock, false},
		{"block", OverflowBlock, false},
		{"drop", OverflowDrop, false},
		{"spill", OverflowBlock, true},
	}
	for _, tt := range table {
		got, err := ParseOverflow(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOverflow(%q) = %v, %v", tt.in, got, err)
		}
	}
}
