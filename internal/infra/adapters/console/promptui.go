package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// PromptUI writes like a Terminal but asks questions with
// github.com/manifoldco/promptui.
type PromptUI struct {
	*Terminal
	input  *input
	stdout io.WriteCloser
}

func NewPromptUI(in io.ReadCloser, out io.WriteCloser, opts ...Option) *PromptUI {
	return &PromptUI{
		Terminal: NewTerminal(in, out, opts...),
		input:    newInput(in),
		stdout:   out,
	}
}

func (p *PromptUI) Prompt(ctx context.Context, question string) (string, error) {
	a, err := run(ctx, p.input, func(stdin *session) (string, error) {
		prompt := promptui.Prompt{
			Label:  question,
			Stdin:  stdin,
			Stdout: p.stdout,
		}
		return prompt.Run()
	})
	if err != nil {
		return "", err
	}
	switch {
	case a.err == nil:
		return a.text, nil
	case errors.Is(a.err, promptui.ErrInterrupt):
		return "", ErrInterrupted
	case errors.Is(a.err, promptui.ErrEOF):
		return "", fmt.Errorf("unable to read answer: %w", io.EOF)
	}
	return "", fmt.Errorf("unable to read answer: %w", a.err)
}
