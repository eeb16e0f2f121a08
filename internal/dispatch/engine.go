// Package dispatch turns raw key events into actions.
//
// The Engine is stateless across events: each event is classified and
// handled on its own, and at most one action runs for it. Failures of an
// action are logged and never stop the loop.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"keyremap/internal/config"
	"keyremap/internal/event"
	"keyremap/internal/logging"
)

const DefaultPollInterval = config.DefaultPollIntervalMS * time.Millisecond

// Sink performs the effects the engine asks for.
type Sink interface {
	Open(ctx context.Context, uri string) error
	InjectText(ctx context.Context, text string) error
}

// Source is the engine's view of the event queue.
type Source interface {
	Drain() []event.RawEvent
	Ready() <-chan struct{}
}

type Engine struct {
	cfg          config.Config
	sink         Sink
	pollInterval time.Duration
}

func New(cfg config.Config, sink Sink) *Engine {
	return &Engine{cfg: cfg, sink: sink, pollInterval: cfg.PollInterval()}
}

func (e *Engine) PollInterval() time.Duration {
	return e.pollInterval
}

// HandleActivation opens the configured activation target.
func (e *Engine) HandleActivation(ctx context.Context) {
	log := logging.FromContext(ctx)
	target := e.cfg.ActivationTarget
	if err := e.invoke(func() error { return e.sink.Open(ctx, target) }); err != nil {
		log.Error().Err(err).Str("target", target).Msg("open failed")
		return
	}
	log.Debug().Str("target", target).Msg("opened activation target")
}

// HandleTrigger injects the expansion of the first shortcut bound to c.
// Characters without a shortcut are ignored.
func (e *Engine) HandleTrigger(ctx context.Context, c rune) {
	log := logging.FromContext(ctx)
	shortcut, ok := e.cfg.Lookup(c)
	if !ok {
		log.Debug().Str("trigger", string(c)).Msg("no shortcut for trigger")
		return
	}
	if err := e.invoke(func() error { return e.sink.InjectText(ctx, shortcut.Text) }); err != nil {
		log.Error().Err(err).Str("trigger", string(c)).Msg("inject failed")
		return
	}
	log.Debug().Str("trigger", string(c)).Int("len", len(shortcut.Text)).Msg("injected expansion")
}

// Handle routes one event to its handler.
func (e *Engine) Handle(ctx context.Context, ev event.RawEvent) {
	switch ev.Kind {
	case event.KindActivation:
		e.HandleActivation(ctx)
	case event.KindTrigger:
		e.HandleTrigger(ctx, ev.Char)
	default:
		logging.FromContext(ctx).Debug().Str("raw", ev.Raw).Msg("ignoring unrecognized signal")
	}
}

// Run consumes events from src until ctx is cancelled. Each wakeup drains
// the source and handles the batch in order. Cancellation is checked at
// least once per poll interval and between events; an effect already in
// progress is allowed to finish.
func (e *Engine) Run(ctx context.Context, src Source) {
	ctx = logging.WithComponent(ctx, "dispatch")
	log := logging.FromContext(ctx)

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	log.Debug().Dur("poll_interval", e.pollInterval).Msg("dispatch loop running")
	for {
		select {
		case <-ctx.Done():
			e.discard(ctx, src.Drain())
			log.Debug().Msg("dispatch loop stopped")
			return
		case <-ticker.C:
		case <-src.Ready():
		}

		batch := src.Drain()
		for i, ev := range batch {
			if ctx.Err() != nil {
				e.discard(ctx, batch[i:])
				break
			}
			e.Handle(ctx, ev)
		}
	}
}

func (e *Engine) discard(ctx context.Context, rest []event.RawEvent) {
	if len(rest) == 0 {
		return
	}
	logging.FromContext(ctx).Debug().Int("count", len(rest)).Msg("discarding events after cancellation")
}

// invoke runs one effect, turning a panic into an error so a misbehaving
// sink cannot take the loop down.
func (e *Engine) invoke(effect func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("effect panicked: %v", r)
		}
	}()
	return effect()
}
