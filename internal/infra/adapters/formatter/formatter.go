// formatter renders log messages as single console lines using
// github.com/charmbracelet/log and implements ports.ForWriting.
package formatter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sa6mwa/consink/internal/app/model"
	"github.com/sa6mwa/consink/internal/app/ports"
)

type Writer[C ports.ForConsole] struct {
	formatter    log.Formatter
	timeFormat   string
	minimumLevel model.Level
}

// New returns a Writer configured by cfg. Unset fields fall back to
// text output and time.TimeOnly timestamps.
func New[C ports.ForConsole](cfg model.FormatConfig) (*Writer[C], error) {
	f, err := parseFormatter(cfg.Formatter)
	if err != nil {
		return nil, err
	}
	w := &Writer[C]{
		formatter:    f,
		timeFormat:   cfg.TimeFormat,
		minimumLevel: cfg.MinimumLevel,
	}
	if w.timeFormat == "" {
		w.timeFormat = time.TimeOnly
	}
	return w, nil
}

func parseFormatter(name string) (log.Formatter, error) {
	switch strings.ToLower(name) {
	case "", model.FormatText:
		return log.TextFormatter, nil
	case model.FormatJSON:
		return log.JSONFormatter, nil
	case model.FormatLogfmt:
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("unknown formatter %q", name)
}

// WriteMessage writes msg as one line, skipping messages below the
// minimum level.
func (w *Writer[C]) WriteMessage(ctx context.Context, msg model.LogMessage, console C) error {
	if msg.Level < w.minimumLevel {
		return nil
	}
	return console.WriteLine(w.Format(msg))
}

// Format renders msg without the trailing newline.
func (w *Writer[C]) Format(msg model.LogMessage) string {
	buf := &bytes.Buffer{}
	l := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: !msg.Timestamp.IsZero(),
		TimeFormat:      w.timeFormat,
		TimeFunction:    func(time.Time) time.Time { return msg.Timestamp },
		Level:           log.DebugLevel,
		Prefix:          strings.Join(msg.Senders, "/"),
		Formatter:       w.formatter,
	})
	text, keyvals := payload(msg.Payload)
	l.Log(level(msg.Level), text, keyvals...)
	return strings.TrimRight(buf.String(), "\n")
}

func level(l model.Level) log.Level {
	switch l {
	case model.VerboseLevel, model.DebugLevel:
		return log.DebugLevel
	case model.InformationLevel:
		return log.InfoLevel
	case model.WarningLevel:
		return log.WarnLevel
	case model.ErrorLevel:
		return log.ErrorLevel
	}
	return log.FatalLevel
}

func payload(p any) (string, []any) {
	switch v := p.(type) {
	case nil:
		return "", nil
	case model.Event:
		keyvals := make([]any, 0, 2*len(v.Attrs))
		for _, a := range v.Attrs {
			keyvals = append(keyvals, a.Key, a.Value.Resolve().Any())
		}
		return v.Message, keyvals
	case string:
		return v, nil
	case error:
		return v.Error(), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return fmt.Sprint(p), nil
}
