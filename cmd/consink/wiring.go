package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sa6mwa/consink/internal/app/consolesink"
	"github.com/sa6mwa/consink/internal/app/logsink"
	"github.com/sa6mwa/consink/internal/app/model"
	"github.com/sa6mwa/consink/internal/app/ports"
	"github.com/sa6mwa/consink/internal/infra/adapters/console"
	"github.com/sa6mwa/consink/internal/infra/adapters/formatter"
	"github.com/sa6mwa/consink/internal/infra/adapters/logger"
)

// newConsole returns the console adapter selected by cfg on the
// process' stdin and stdout.
func newConsole(cfg model.ConsoleConfig) (ports.ForConsole, error) {
	var opts []console.Option
	switch cfg.Interactive {
	case "", model.InteractiveAuto:
	case model.InteractiveAlways:
		opts = append(opts, console.WithInteractive(true))
	case model.InteractiveNever:
		opts = append(opts, console.WithInteractive(false))
	default:
		return nil, fmt.Errorf("unknown interactive mode %q, expected auto, always or never", cfg.Interactive)
	}
	switch cfg.Kind {
	case "", model.ConsoleTerminal:
		return console.NewStdio(opts...), nil
	case model.ConsoleSurvey:
		return console.NewSurvey(os.Stdin, os.Stdout, opts...), nil
	case model.ConsolePromptUI:
		return console.NewPromptUI(os.Stdin, os.Stdout, opts...), nil
	}
	return nil, fmt.Errorf("unknown console kind %q, expected terminal, survey or promptui", cfg.Kind)
}

// newSink wires a console sink from cfg. The sink reports its own
// problems through the logger in ctx.
func newSink[C ports.ForConsole](ctx context.Context, cfg *model.Config, c C) (*consolesink.ConsoleSink[C], error) {
	overflow, err := logsink.ParseOverflow(cfg.Sink.Overflow)
	if err != nil {
		return nil, err
	}
	w, err := formatter.New[C](cfg.Format)
	if err != nil {
		return nil, err
	}
	return consolesink.New(c, w, consolesink.WithPipelineOptions(logsink.Options{
		BufferSize:      cfg.Sink.BufferSize,
		Overflow:        overflow,
		ShutdownTimeout: cfg.Sink.ShutdownTimeout,
		Logger:          logger.FromContext(ctx),
	}))
}

// sinkLogger returns an slog.Logger writing through the sink.
func sinkLogger(sink ports.ForSubmitting, cfg *model.Config, senders ...string) *slog.Logger {
	return slog.New(logger.NewSinkHandler(sink, &logger.SinkHandlerOptions{
		Level:   logger.SlogLevel(cfg.Format.MinimumLevel),
		Senders: senders,
	}))
}
