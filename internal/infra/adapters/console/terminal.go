// console implements the ports.ForConsole interface on top of a
// terminal (plain line input, survey or promptui) and in memory for
// tests.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sa6mwa/consink/internal/app/ports"
	"golang.org/x/term"
)

// ErrInterrupted is returned by Prompt when the user hits Ctrl-C.
var ErrInterrupted = errors.New("prompt interrupted")

var _ ports.ForConsole = (*Terminal)(nil)

type Option func(*Terminal)

// WithInteractive overrides terminal detection.
func WithInteractive(interactive bool) Option {
	return func(t *Terminal) {
		t.interactive = interactive
	}
}

// Terminal reads answers line by line from in and writes to out.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	mu          sync.Mutex
	interactive bool

	readOnce sync.Once
	lines    chan string
	// readErr is set before lines is closed.
	readErr error
}

// NewTerminal is interactive when both in and out are terminals unless
// WithInteractive says otherwise.
func NewTerminal(in io.Reader, out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		in:          in,
		out:         out,
		interactive: isTerminal(in) && isTerminal(out),
		lines:       make(chan string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewStdio returns a Terminal on os.Stdin and os.Stdout.
func NewStdio(opts ...Option) *Terminal {
	return NewTerminal(os.Stdin, os.Stdout, opts...)
}

func (t *Terminal) Write(message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.out, message); err != nil {
		return fmt.Errorf("unable to write to console: %w", err)
	}
	return nil
}

func (t *Terminal) WriteLine(message string) error {
	return t.Write(message + "\n")
}

func (t *Terminal) IsInteractive() bool {
	return t.interactive
}

// Prompt reads from a goroutine of its own, so a prompt abandoned
// through ctx leaves the next line for the next prompt.
func (t *Terminal) Prompt(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := t.Write(question + " "); err != nil {
		return "", err
	}
	t.readOnce.Do(func() {
		go t.readLines()
	})
	select {
	case line, ok := <-t.lines:
		if !ok {
			return "", t.readErr
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *Terminal) readLines() {
	scanner := bufio.NewScanner(t.in)
	for scanner.Scan() {
		t.lines <- scanner.Text()
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	t.readErr = fmt.Errorf("unable to read answer: %w", err)
	close(t.lines)
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
