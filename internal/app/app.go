// Package app wires event sources, the queue and the dispatch engine into one
// running instance.
package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"keyremap/internal/config"
	"keyremap/internal/dispatch"
	"keyremap/internal/event"
	"keyremap/internal/hotkey"
	"keyremap/internal/hotkey/uiohook"
	"keyremap/internal/logging"
	"keyremap/internal/spool"
)

// Source produces raw events until its context is cancelled. Returning
// before that is an error unless the returned error is nil and ctx is done.
type Source interface {
	Name() string
	Run(ctx context.Context, emit func(event.RawEvent)) error
}

type App struct {
	cfg     config.Config
	sink    dispatch.Sink
	sources []Source
	queue   *event.Queue
	engine  *dispatch.Engine
}

func New(cfg config.Config, sink dispatch.Sink, sources ...Source) (*App, error) {
	if sink == nil {
		return nil, fmt.Errorf("no action sink")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no event source")
	}
	return &App{
		cfg:     cfg,
		sink:    sink,
		sources: sources,
		queue:   event.NewQueue(),
		engine:  dispatch.New(cfg, sink),
	}, nil
}

// Queue exposes the pending-event queue, mostly for tests and local injection.
func (a *App) Queue() *event.Queue {
	return a.queue
}

// Run blocks until ctx is cancelled or a source fails. A clean shutdown
// returns nil.
func (a *App) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	for _, c := range a.cfg.DuplicateTriggers() {
		log.Warn().Str("trigger", string(c)).Msg("trigger declared more than once, only the first shortcut is used")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.engine.Run(gctx, a.queue)
		return nil
	})
	for _, src := range a.sources {
		g.Go(func() error {
			sctx := logging.WithComponent(gctx, "source")
			logging.FromContext(sctx).Debug().Str("source", src.Name()).Msg("source starting")
			err := src.Run(sctx, a.queue.Push)
			if err != nil && gctx.Err() == nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			if err == nil && gctx.Err() == nil {
				return fmt.Errorf("source %s: stopped unexpectedly", src.Name())
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// BuildSources creates the event sources selected by cfg.Source.Kind.
func BuildSources(cfg config.Config) ([]Source, error) {
	src := cfg.Source
	switch src.EffectiveKind() {
	case config.SourceHook:
		svc, err := uiohook.NewService(uiohook.Options{
			ActivationKey: src.Activation(),
			LeaderKey:     src.Leader(),
			LeaderWindow:  src.LeaderTimeout(),
		})
		if err != nil {
			return nil, err
		}
		return []Source{&hotkey.Source{Service: svc}}, nil
	case config.SourceSpool:
		return []Source{newSpoolSource(cfg)}, nil
	case config.SourceAppleScript:
		return []Source{spool.NewAppleScriptSource(newSpoolSource(cfg))}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

func newSpoolSource(cfg config.Config) *spool.Source {
	return &spool.Source{
		Path:         cfg.Source.Spool(),
		PollInterval: cfg.PollInterval(),
	}
}
