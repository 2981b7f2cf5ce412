package consolesink

import (
	"context"

	"github.com/sa6mwa/consink/internal/app/ports"
	"github.com/sa6mwa/consink/internal/app/prompt"
)

// The functions below pause log output on s, ask through its console
// and resume log output before returning. They return the default
// answer without touching the console when it is not interactive.

// Ask asks question and converts the answer with parse, asking again
// until parse succeeds. An empty answer yields defaultAnswer.
func Ask[T any](ctx context.Context, s ports.ForAsking, question string, parse prompt.ParseFunc[T], defaultAnswer T) (T, error) {
	var answer T
	err := s.WithConsole(ctx, func(c ports.ForConsole) error {
		var err error
		answer, err = prompt.Ask(ctx, c, question, parse, defaultAnswer)
		return err
	})
	return answer, err
}

// AskDefault is Ask using prompt.Convert.
func AskDefault[T prompt.Scalar](ctx context.Context, s ports.ForAsking, question string, defaultAnswer T) (T, error) {
	return Ask(ctx, s, question, prompt.Convert[T], defaultAnswer)
}

// AskValue is AskDefault with the zero value of T as default. Beware
// that a non-interactive console always yields that zero value.
func AskValue[T prompt.Scalar](ctx context.Context, s ports.ForAsking, question string) (T, error) {
	var zero T
	return AskDefault(ctx, s, question, zero)
}

// Confirm asks a yes/no question, defaulting to yes.
func Confirm(ctx context.Context, s ports.ForAsking, question string) (bool, error) {
	return ConfirmDefault(ctx, s, question, true)
}

func ConfirmDefault(ctx context.Context, s ports.ForAsking, question string, defaultAnswer bool) (bool, error) {
	var answer bool
	err := s.WithConsole(ctx, func(c ports.ForConsole) error {
		var err error
		answer, err = prompt.ConfirmDefault(ctx, c, question, defaultAnswer)
		return err
	})
	return answer, err
}
