// consolesink writes log messages to a console and lets callers ask
// the user questions on that same console without log lines getting in
// the way: while a question is outstanding nothing is written, and the
// messages logged meanwhile follow once it has been answered.
package consolesink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/sa6mwa/consink/internal/app/logsink"
	"github.com/sa6mwa/consink/internal/app/model"
	"github.com/sa6mwa/consink/internal/app/ports"
)

var (
	ErrNilConsole = errors.New("console sink requires a console")
	ErrNilWriter  = errors.New("console sink requires a message writer")
)

// Services is what a ConsoleSink hands to the components registered
// with it.
type Services[C ports.ForConsole] struct {
	Sink    *ConsoleSink[C]
	Console C
	Logger  *slog.Logger
}

// Binder is implemented by components that want references to the
// sink, its console and its logger.
type Binder[C ports.ForConsole] interface {
	Bind(services Services[C])
}

type ConsoleSink[C ports.ForConsole] struct {
	*logsink.Base
	console C
	writer  ports.ForWriting[C]
	logger  *slog.Logger
}

type Option func(*options)

type options struct {
	base logsink.Options
}

// WithLogger sets the logger for the sink's own diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.base.Logger = l }
}

// WithBuffer sets the queue size and what to do when it is full.
func WithBuffer(size int, overflow logsink.OverflowStrategy) Option {
	return func(o *options) {
		o.base.BufferSize = size
		o.base.Overflow = overflow
	}
}

// WithPipelineOptions replaces all pipeline options at once.
func WithPipelineOptions(opts logsink.Options) Option {
	return func(o *options) { o.base = opts }
}

// New returns a started sink writing through writer to console. If
// writer implements Binder it is bound before New returns.
func New[C ports.ForConsole](console C, writer ports.ForWriting[C], opts ...Option) (*ConsoleSink[C], error) {
	if isNil(console) {
		return nil, ErrNilConsole
	}
	if isNil(writer) {
		return nil, ErrNilWriter
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.base.Logger == nil {
		o.base.Logger = slog.Default()
	}
	s := &ConsoleSink[C]{
		console: console,
		writer:  writer,
		logger:  o.base.Logger,
	}
	s.Base = logsink.New(s.write, o.base)
	s.Register(writer)
	return s, nil
}

// Console returns the console the sink writes to.
func (s *ConsoleSink[C]) Console() C {
	return s.console
}

func (s *ConsoleSink[C]) Logger() *slog.Logger {
	return s.logger
}

func (s *ConsoleSink[C]) Services() Services[C] {
	return Services[C]{
		Sink:    s,
		Console: s.console,
		Logger:  s.logger,
	}
}

// Register binds every component implementing Binder[C] to this sink's
// services. Other components are ignored.
func (s *ConsoleSink[C]) Register(components ...any) {
	services := s.Services()
	for _, c := range components {
		if b, ok := c.(Binder[C]); ok {
			b.Bind(services)
		}
	}
}

func (s *ConsoleSink[C]) write(ctx context.Context, msg model.LogMessage) error {
	return s.writer.WriteMessage(ctx, msg, s.console)
}

// WithConsole implements ports.ForAsking.
func (s *ConsoleSink[C]) WithConsole(ctx context.Context, fn func(console ports.ForConsole) error) error {
	if err := s.Disable(ctx); err != nil {
		return fmt.Errorf("unable to pause log output: %w", err)
	}
	defer func() {
		if err := s.Enable(); err != nil {
			s.logger.Error("Unable to resume log output", "error", err)
		}
	}()
	return fn(s.console)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
