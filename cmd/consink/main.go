package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sa6mwa/consink/internal/app/consolesink"
	"github.com/sa6mwa/consink/internal/app/model"
	"github.com/sa6mwa/consink/internal/app/ports"
	"github.com/sa6mwa/consink/internal/infra/adapters/asker"
	"github.com/sa6mwa/consink/internal/infra/adapters/configurator"
	"github.com/sa6mwa/consink/internal/infra/adapters/logger"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConfig   string        = "consink.yaml"
	defaultInterval time.Duration = 500 * time.Millisecond
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   defaultConfig,
			Usage:   "Configuration file, defaults are used if it does not exist",
		},
		&cli.StringFlag{
			Name:  "console",
			Usage: "Console to use: terminal, survey or promptui (overrides the configuration file)",
		},
		&cli.BoolFlag{
			Name:    "non-interactive",
			Aliases: []string{"n"},
			Usage:   "Never ask, always use the default answer",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Do not ask questions, use default answers but still detect the terminal",
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "consink",
		Usage: "Log to the console and ask questions without log lines getting in the way.",
		Commands: []*cli.Command{
			{
				Name:   "demo",
				Usage:  "Log in the background while asking a few questions",
				Action: demo,
				Flags: append([]cli.Flag{
					&cli.DurationFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Value:   defaultInterval,
						Usage:   "Time between background log messages",
					},
				}, commonFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question and print the answer",
				ArgsUsage: "QUESTION",
				Action:    ask,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "default",
						Aliases: []string{"d"},
						Usage:   "Answer used on empty input or when not interactive",
					},
				}, commonFlags()...),
			},
			{
				Name:      "confirm",
				Usage:     "Ask a yes/no question, exit status 0 means yes",
				ArgsUsage: "QUESTION",
				Action:    confirm,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "default-no",
						Usage: "Make no the default answer",
					},
				}, commonFlags()...),
			},
			{
				Name:   "init",
				Usage:  "Write a configuration file with default values",
				Action: initConfig,
				Flags:  commonFlags()[:1],
			},
		},
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.WithDefaultLogger(ctx)
	if err := app.RunContext(ctx, os.Args); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		log.Fatal("consink failed", "error", err)
	}
}

func loadConfig(c *cli.Context) (*model.Config, error) {
	cfg, err := configurator.New(c.String("config")).Load(c.Context)
	if err != nil {
		return nil, err
	}
	if kind := c.String("console"); kind != "" {
		cfg.Console.Kind = kind
	}
	if c.Bool("non-interactive") {
		cfg.Console.Interactive = model.InteractiveNever
	}
	return cfg, nil
}

// setup returns the sink and the asking port for the command in c. The
// caller closes the sink.
func setup(c *cli.Context) (*model.Config, *consolesink.ConsoleSink[ports.ForConsole], ports.ForAsking, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}
	con, err := newConsole(cfg.Console)
	if err != nil {
		return nil, nil, nil, err
	}
	sink, err := newSink(c.Context, cfg, con)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, sink, asker.New(sink, c.Bool("force")), nil
}

func demo(c *cli.Context) error {
	cfg, sink, asking, err := setup(c)
	if err != nil {
		return err
	}
	defer sink.Close()
	l := sinkLogger(sink, cfg, "demo")
	interval := c.Duration("interval")
	if interval <= 0 {
		interval = defaultInterval
	}

	g, ctx := errgroup.WithContext(c.Context)
	done := make(chan struct{})
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case <-ticker.C:
				l.InfoContext(ctx, "Tick", "n", n, "sender", "ticker")
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	g.Go(func() error {
		defer close(done)
		if err := sleep(ctx, 3*interval); err != nil {
			return err
		}
		proceed, err := consolesink.Confirm(ctx, asking, "Continue the demo?")
		if err != nil {
			return err
		}
		if !proceed {
			l.WarnContext(ctx, "Stopping on request")
			return nil
		}
		name, err := consolesink.AskDefault(ctx, asking, "What is your name?", "anonymous")
		if err != nil {
			return err
		}
		more, err := consolesink.Ask(ctx, asking, "How many more ticks? [3]", parsePositive, 3)
		if err != nil {
			return err
		}
		l.InfoContext(ctx, "Thank you", "name", name, "ticks", more)
		return sleep(ctx, time.Duration(more)*interval)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return sink.Flush(c.Context)
}

func ask(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return cli.Exit("You need to specify a question as argument", 2)
	}
	_, sink, asking, err := setup(c)
	if err != nil {
		return err
	}
	defer sink.Close()
	answer, err := consolesink.AskDefault(c.Context, asking, c.Args().First(), c.String("default"))
	if err != nil {
		return err
	}
	return sink.Console().WriteLine(answer)
}

func confirm(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return cli.Exit("You need to specify a question as argument", 2)
	}
	_, sink, asking, err := setup(c)
	if err != nil {
		return err
	}
	defer sink.Close()
	yes, err := consolesink.ConfirmDefault(c.Context, asking, c.Args().First(), !c.Bool("default-no"))
	if err != nil {
		return err
	}
	if !yes {
		return cli.Exit("", 1)
	}
	return nil
}

func initConfig(c *cli.Context) error {
	cfg := model.DefaultConfig()
	if err := configurator.New(c.String("config")).Save(c.Context, cfg); err != nil {
		return err
	}
	logger.FromContext(c.Context).Info("Wrote configuration", "file", c.String("config"))
	return nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
