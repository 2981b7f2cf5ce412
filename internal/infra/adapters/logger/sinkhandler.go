package logger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/sa6mwa/consink/internal/app/model"
	"github.com/sa6mwa/consink/internal/app/ports"
)

// SenderKey is the attribute key whose string value becomes a sender
// of the bridged message instead of an attribute.
const SenderKey = "sender"

// SinkHandler is an slog.Handler submitting every record as a
// model.LogMessage with a model.Event payload.
type SinkHandler struct {
	sink    ports.ForSubmitting
	level   slog.Leveler
	senders []string
	attrs   []slog.Attr
	group   string
}

type SinkHandlerOptions struct {
	// Level is the minimum level submitted, slog.LevelInfo if nil.
	Level slog.Leveler
	// Senders are put in front of any sender attribute.
	Senders []string
}

func NewSinkHandler(sink ports.ForSubmitting, opts *SinkHandlerOptions) *SinkHandler {
	h := &SinkHandler{sink: sink, level: slog.LevelInfo}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.senders = slices.Clone(opts.Senders)
	}
	return h
}

func (h *SinkHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *SinkHandler) Handle(ctx context.Context, r slog.Record) error {
	senders := slices.Clone(h.senders)
	attrs := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == SenderKey && h.group == "" {
			senders = append(senders, a.Value.String())
			return true
		}
		attrs = append(attrs, h.qualify(a))
		return true
	})
	return h.sink.Submit(ctx, model.LogMessage{
		Timestamp: r.Time,
		Level:     Level(r.Level),
		Senders:   senders,
		Payload:   model.Event{Message: r.Message, Attrs: attrs},
	})
}

func (h *SinkHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		if a.Key == SenderKey && h.group == "" {
			c.senders = append(c.senders, a.Value.String())
			continue
		}
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return c
}

func (h *SinkHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	if c.group == "" {
		c.group = name
	} else {
		c.group = c.group + "." + name
	}
	return c
}

func (h *SinkHandler) clone() *SinkHandler {
	return &SinkHandler{
		sink:    h.sink,
		level:   h.level,
		senders: slices.Clone(h.senders),
		attrs:   slices.Clone(h.attrs),
		group:   h.group,
	}
}

func (h *SinkHandler) qualify(a slog.Attr) slog.Attr {
	if h.group == "" {
		return a
	}
	return slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
}

// Level maps slog levels onto model levels. Anything below debug is
// verbose.
func Level(l slog.Level) model.Level {
	switch {
	case l < slog.LevelDebug:
		return model.VerboseLevel
	case l < slog.LevelInfo:
		return model.DebugLevel
	case l < slog.LevelWarn:
		return model.InformationLevel
	case l < slog.LevelError:
		return model.WarningLevel
	case l < slog.LevelError+4:
		return model.ErrorLevel
	}
	return model.FatalLevel
}

// SlogLevel is the inverse of Level.
func SlogLevel(l model.Level) slog.Level {
	switch l {
	case model.VerboseLevel:
		return slog.LevelDebug - 4
	case model.DebugLevel:
		return slog.LevelDebug
	case model.InformationLevel:
		return slog.LevelInfo
	case model.WarningLevel:
		return slog.LevelWarn
	case model.ErrorLevel:
		return slog.LevelError
	}
	return slog.LevelError + 4
}
