package hotkey

import (
	"context"
	"errors"

	"keyremap/internal/event"
	"keyremap/internal/logging"
)

// ErrUnsupported is returned by backends that cannot run on this build.
var ErrUnsupported = errors.New("keyboard hook is not supported in this build")

// Service is a platform keyboard hook. Start begins delivering classified
// events to emit and returns once the hook is installed.
type Service interface {
	Start(emit func(event.RawEvent)) error
	Close() error
}

// Source adapts a Service to the run-until-cancelled shape used by the app.
type Source struct {
	Service Service
}

func (s *Source) Name() string {
	return "hook"
}

func (s *Source) Run(ctx context.Context, emit func(event.RawEvent)) error {
	log := logging.FromContext(ctx)
	if err := s.Service.Start(emit); err != nil {
		return err
	}
	log.Debug().Msg("keyboard hook installed")
	<-ctx.Done()
	if err := s.Service.Close(); err != nil {
		log.Warn().Err(err).Msg("keyboard hook close failed")
	}
	return nil
}
