package ports

import "context"

// ForConsole is the minimal terminal capability a console sink writes
// log lines to and asks questions through. Confirm and ask semantics
// are built on top of Prompt by the prompt package.
type ForConsole interface {
	// Write writes message as is.
	Write(message string) error
	// WriteLine writes message followed by a line terminator. An empty
	// message writes just the terminator.
	WriteLine(message string) error
	// IsInteractive reports whether a human is able to answer a
	// prompt, i.e. a terminal is attached.
	IsInteractive() bool
	// Prompt writes question and reads one line of input without the
	// line terminator. It returns ctx.Err() if ctx is done before a line
	// arrives and an error wrapping io.EOF when input is exhausted.
	Prompt(ctx context.Context, question string) (string, error)
}
