package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Survey writes like a Terminal but asks questions with
// github.com/AlecAivazis/survey.
type Survey struct {
	*Terminal
	input  *input
	stdout terminal.FileWriter
}

func NewSurvey(in terminal.FileReader, out terminal.FileWriter, opts ...Option) *Survey {
	return &Survey{
		Terminal: NewTerminal(in, out, opts...),
		input:    newInput(in),
		stdout:   out,
	}
}

type answer struct {
	text string
	err  error
}

// run asks on a session of its own. When ctx is done the session is
// closed and run returns only after ask has given up the terminal.
func run(ctx context.Context, in *input, ask func(stdin *session) (string, error)) (answer, error) {
	if err := ctx.Err(); err != nil {
		return answer{}, err
	}
	stdin, err := in.session(ctx)
	if err != nil {
		return answer{}, err
	}
	defer stdin.release()
	ch := make(chan answer, 1)
	go func() {
		text, err := ask(stdin)
		ch <- answer{text: text, err: err}
	}()
	select {
	case a := <-ch:
		return a, nil
	case <-ctx.Done():
		stdin.Close()
		<-ch
		return answer{}, ctx.Err()
	}
}

func (s *Survey) Prompt(ctx context.Context, question string) (string, error) {
	a, err := run(ctx, s.input, func(stdin *session) (string, error) {
		var text string
		err := survey.AskOne(&survey.Input{Message: question}, &text, survey.WithStdio(stdin, s.stdout, s.stdout))
		return text, err
	})
	if err != nil {
		return "", err
	}
	switch {
	case a.err == nil:
		return a.text, nil
	case errors.Is(a.err, terminal.InterruptErr):
		return "", ErrInterrupted
	case errors.Is(a.err, io.EOF):
		return "", fmt.Errorf("unable to read answer: %w", io.EOF)
	}
	return "", fmt.Errorf("unable to read answer: %w", a.err)
}
