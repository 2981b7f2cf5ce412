package model

import (
	"log/slog"
	"time"
)

// LogMessage is a single message handed to a sink by the logging
// pipeline. It is passed by value and sinks must not keep it beyond the
// write call that received it.
type LogMessage struct {
	Timestamp time.Time
	Level     Level
	// Senders identify the source(s) of the message, outermost first.
	Senders []string
	Payload any
}

// Event is the payload produced when a log/slog record is bridged into
// the pipeline.
type Event struct {
	Message string
	Attrs   []slog.Attr
}

func (e Event) String() string {
	return e.Message
}
