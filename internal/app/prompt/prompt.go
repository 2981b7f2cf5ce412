// prompt implements confirm and ask questions on top of the
// ports.ForConsole Prompt primitive. Every function returns its default
// answer immediately, without any console I/O, when the console is not
// interactive.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/sa6mwa/consink/internal/app/ports"
)

// ParseFunc converts a line of input into a T. A non-nil error makes
// Ask report the problem and ask again.
type ParseFunc[T any] func(input string) (T, error)

// Ask asks question until the answer can be parsed by parse. An empty
// answer returns defaultAnswer without calling parse.
func Ask[T any](ctx context.Context, c ports.ForConsole, question string, parse ParseFunc[T], defaultAnswer T) (T, error) {
	if !c.IsInteractive() {
		return defaultAnswer, nil
	}
	var zero T
	for {
		line, err := c.Prompt(ctx, question)
		if err != nil {
			return zero, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultAnswer, nil
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		if err := c.WriteLine(fmt.Sprintf("Invalid answer %q: %v", line, err)); err != nil {
			return zero, err
		}
	}
}

// AskDefault is Ask using Convert.
func AskDefault[T Scalar](ctx context.Context, c ports.ForConsole, question string, defaultAnswer T) (T, error) {
	return Ask(ctx, c, question, Convert[T], defaultAnswer)
}

// AskValue is Ask using Convert and the zero value of T as default
// answer. Note that a non-interactive console therefore silently
// yields 0, "" or false; use AskDefault when that is not acceptable.
func AskValue[T Scalar](ctx context.Context, c ports.ForConsole, question string) (T, error) {
	var zero T
	return Ask(ctx, c, question, Convert[T], zero)
}

// Confirm is ConfirmDefault with yes as default answer.
func Confirm(ctx context.Context, c ports.ForConsole, question string) (bool, error) {
	return ConfirmDefault(ctx, c, question, true)
}

// ConfirmDefault asks a yes/no question until it is answered with y,
// yes, n or no (any case). An empty answer returns defaultAnswer.
func ConfirmDefault(ctx context.Context, c ports.ForConsole, question string, defaultAnswer bool) (bool, error) {
	hint := "[y/N]"
	if defaultAnswer {
		hint = "[Y/n]"
	}
	return Ask(ctx, c, question+" "+hint, ParseYesNo, defaultAnswer)
}

// ParseYesNo is the ParseFunc used by Confirm.
func ParseYesNo(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("please answer y or n")
}
