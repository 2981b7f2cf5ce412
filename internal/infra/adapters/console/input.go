package console

import (
	"context"
	"io"
	"sync"
)

// input reads in from a single goroutine and hands what it reads to one
// session at a time. Bytes a closed session did not consume stay queued
// for the next one.
type input struct {
	in       io.Reader
	fd       uintptr
	pumpOnce sync.Once
	chunks   chan []byte
	// err is set before chunks is closed.
	err error

	mu   sync.Mutex
	rest []byte

	// turn is held by the session in use.
	turn chan struct{}
}

func newInput(in io.Reader) *input {
	fd := ^uintptr(0)
	if f, ok := in.(interface{ Fd() uintptr }); ok {
		fd = f.Fd()
	}
	return &input{
		in:     in,
		fd:     fd,
		chunks: make(chan []byte),
		turn:   make(chan struct{}, 1),
	}
}

func (i *input) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := i.in.Read(buf)
		if n > 0 {
			i.chunks <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			i.err = err
			close(i.chunks)
			return
		}
	}
}

// session waits for the previous session to be closed. The returned
// session must be closed.
func (i *input) session(ctx context.Context) (*session, error) {
	select {
	case i.turn <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	i.pumpOnce.Do(func() {
		go i.pump()
	})
	return &session{input: i, done: make(chan struct{})}, nil
}

// session is the stdin handed to a single prompt run. Close makes a
// pending Read return io.ErrClosedPipe, which ends the run.
type session struct {
	input     *input
	done      chan struct{}
	closeOnce sync.Once
}

func (s *session) Read(p []byte) (int, error) {
	i := s.input
	select {
	case <-s.done:
		return 0, io.ErrClosedPipe
	default:
	}
	i.mu.Lock()
	if len(i.rest) > 0 {
		n := copy(p, i.rest)
		i.rest = i.rest[n:]
		i.mu.Unlock()
		return n, nil
	}
	i.mu.Unlock()
	select {
	case b, ok := <-i.chunks:
		if !ok {
			return 0, i.err
		}
		i.mu.Lock()
		defer i.mu.Unlock()
		select {
		case <-s.done:
			i.rest = append(b, i.rest...)
			return 0, io.ErrClosedPipe
		default:
		}
		n := copy(p, b)
		i.rest = append(b[n:], i.rest...)
		return n, nil
	case <-s.done:
		return 0, io.ErrClosedPipe
	}
}

func (s *session) Fd() uintptr {
	return s.input.fd
}

func (s *session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// release closes the session and lets the next one start.
func (s *session) release() {
	s.Close()
	<-s.input.turn
}
