// Command statecache-demo hosts tabbed panes whose scroll offsets survive
// unmount and remount through a component state store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/jonwraymond/componentstate/cache"
	"github.com/jonwraymond/componentstate/health"
	"github.com/jonwraymond/componentstate/observe"
)

const serviceName = "statecache-demo"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  serviceName,
		Usage: "Scroll panes, switch tabs, and watch offsets come back",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error), empty disables logging",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "file receiving logs and stdout exporter output",
				Value: serviceName + ".log",
			},
			&cli.StringFlag{
				Name:  "trace-exporter",
				Usage: "trace exporter (otlp|jaeger|stdout|none)",
				Value: "none",
			},
			&cli.StringFlag{
				Name:  "metrics-exporter",
				Usage: "metrics exporter (otlp|prometheus|stdout|none)",
				Value: "none",
			},
			&cli.StringFlag{
				Name:  "codec",
				Usage: "value codec (graph|json)",
				Value: cache.DefaultConfig().Codec,
			},
			&cli.IntFlag{
				Name:  "max-value-bytes",
				Usage: "reject serialized values above this size, 0 for no limit",
			},
			&cli.StringFlag{
				Name:    "script",
				Aliases: []string{"s"},
				Usage:   "run headless with comma separated keys, e.g. j,j,tab,tab,tab",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "print the store contents on exit",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) (err error) {
	script := cmd.String("script")

	var out io.Writer = io.Discard
	if path := cmd.String("log-file"); cmd.String("log-level") != "" && path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}

	obsCfg := observe.DefaultConfig(serviceName)
	obsCfg.Output = out
	obsCfg.Logging.Enabled = cmd.String("log-level") != ""
	obsCfg.Logging.Level = cmd.String("log-level")
	obsCfg.Tracing.Exporter = cmd.String("trace-exporter")
	obsCfg.Tracing.Enabled = obsCfg.Tracing.Exporter != "none"
	obsCfg.Metrics.Exporter = cmd.String("metrics-exporter")
	obsCfg.Metrics.Enabled = obsCfg.Metrics.Exporter != "none"

	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, obs.Shutdown(shutdownCtx))
	}()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}
	logger := obs.Logger()

	store, err := cache.NewStoreFromConfig(cache.Config{
		Codec:         cmd.String("codec"),
		MaxValueBytes: cmd.Int("max-value-bytes"),
	}, cache.WithLogger(logger), cache.WithMiddleware(mw))
	if err != nil {
		return err
	}
	defer store.Close()

	checker, err := newChecker(store)
	if err != nil {
		return err
	}

	session := uuid.NewString()
	if err := store.Set("session", "id", session); err != nil {
		return err
	}
	logger.Info(ctx, "session started", observe.Field{Key: "session_id", Value: session})

	m := newModel(ctx, store, checker, logger, session)
	if script != "" {
		err = runScript(m, script, os.Stdout)
	} else {
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	}
	if err != nil {
		return err
	}

	if cmd.Bool("dump") {
		return store.Dump(os.Stdout)
	}
	return nil
}

// newChecker aggregates store and process memory health.
func newChecker(store *cache.Store) (health.Checker, error) {
	storeChecker, err := health.NewStoreChecker("", store, health.DefaultStoreCheckerConfig())
	if err != nil {
		return nil, err
	}
	memChecker := health.NewMemoryChecker(health.MemoryCheckerConfig{})

	agg := health.NewAggregator(health.AggregatorConfig{Timeout: time.Second})
	agg.Register(storeChecker.Name(), storeChecker)
	agg.Register(memChecker.Name(), memChecker)
	return agg.Checker(), nil
}

// runScript drives the model without a terminal and reports each pane's
// offset after every key.
func runScript(m *model, script string, w io.Writer) error {
	m.Init()
	for _, k := range keys(script) {
		m.Update(k)
		if m.err != nil {
			return m.err
		}
		if m.current != nil {
			fmt.Fprintf(w, "%-10s %-8s offset=%d\n", k.String(), m.current.name, m.current.vp.YOffset)
		}
	}
	m.unmountActive()
	return m.err
}
