// asker decorates a ports.ForAsking with the answer policy of the
// command line: with force set no question is put to the user and
// every prompt returns its default answer.
package asker

import (
	"context"

	"github.com/sa6mwa/consink/internal/app/ports"
	"github.com/sa6mwa/consink/internal/infra/adapters/logger"
)

type forAsking struct {
	inner ports.ForAsking
	force bool
}

func New(inner ports.ForAsking, force bool) ports.ForAsking {
	return &forAsking{
		inner: inner,
		force: force,
	}
}

func (p *forAsking) WithConsole(ctx context.Context, fn func(console ports.ForConsole) error) error {
	l := logger.FromContext(ctx)
	return p.inner.WithConsole(ctx, func(c ports.ForConsole) error {
		if p.force {
			l.Debug("Force is set, will use default answers")
			return fn(nonInteractive{c})
		}
		if !c.IsInteractive() {
			l.Warn("Console is not a terminal, will use default answers")
		}
		return fn(c)
	})
}

type nonInteractive struct {
	ports.ForConsole
}

func (nonInteractive) IsInteractive() bool {
	return false
}
