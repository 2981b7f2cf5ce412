package ports

import "context"

type ForAsking interface {
	// WithConsole pauses log output, runs fn with exclusive use of the
	// console and resumes log output when fn returns, whatever the
	// outcome. If log output can not be paused fn is never called and
	// the error is returned.
	WithConsole(ctx context.Context, fn func(console ForConsole) error) error
}
