package asker

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/sa6mwa/consink/internal/app/consolesink"
	"github.com/sa6mwa/consink/internal/app/ports"
	"github.com/sa6mwa/consink/internal/infra/adapters/console"
	"github.com/sa6mwa/consink/internal/infra/adapters/logger"
)

type direct struct {
	console ports.ForConsole
}

func (d direct) WithConsole(ctx context.Context, fn func(ports.ForConsole) error) error {
	return fn(d.console)
}

func TestForceUsesDefaults(t *testing.T) {
	c := console.NewMemory(true)
	a := New(direct{c}, true)
	got, err := consolesink.ConfirmDefault(context.Background(), a, "Delete everything?", false)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Fatal("expected the default answer no")
	}
	if c.Questions() != 0 {
		t.Fatal("force must not ask")
	}
}

func TestWithoutForceAsks(t *testing.T) {
	c := console.NewMemory(true)
	c.Feed("y")
	a := New(direct{c}, false)
	got, err := consolesink.ConfirmDefault(context.Background(), a, "Delete everything?", false)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Fatal("expected yes")
	}
}

func TestWarnsWhenNotInteractive(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := logger.WithLogger(context.Background(), logger.New(buf, log.DebugLevel))
	a := New(direct{console.NewMemory(false)}, false)
	if _, err := consolesink.AskDefault(ctx, a, "Port?", 8080); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "not a terminal") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}
