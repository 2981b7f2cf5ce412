package ports

import (
	"context"

	"github.com/sa6mwa/consink/internal/app/model"
)

// ForWriting renders one log message to a console of type C.
type ForWriting[C ForConsole] interface {
	WriteMessage(ctx context.Context, msg model.LogMessage, console C) error
}

// ForSubmitting is the intake side of a log pipeline.
type ForSubmitting interface {
	Submit(ctx context.Context, msg model.LogMessage) error
}
