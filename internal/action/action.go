// Package action implements the effects the dispatch engine can request.
package action

import (
	"context"
	"errors"

	"keyremap/internal/clipboard"
	"keyremap/internal/opener"
)

const (
	EffectOpen   = "open"
	EffectInject = "inject"
)

// ErrEffect matches every EffectError.
var ErrEffect = errors.New("effect failed")

// EffectError reports an action that could not be carried out. It is never
// fatal to the caller.
type EffectError struct {
	Effect string
	Target string
	Err    error
}

func (e *EffectError) Error() string {
	if e.Target == "" {
		return e.Effect + " failed: " + e.Err.Error()
	}
	return e.Effect + " " + e.Target + " failed: " + e.Err.Error()
}

func (e *EffectError) Unwrap() error { return e.Err }

func (e *EffectError) Is(target error) bool { return target == ErrEffect }

type TextInjector interface {
	InjectText(ctx context.Context, text string) error
}

// System performs effects against the local desktop.
type System struct {
	Opener   opener.Opener
	Injector TextInjector
}

func NewSystem() *System {
	return &System{
		Opener:   opener.NewBrowser(),
		Injector: clipboard.NewSystemInjector(),
	}
}

func (s *System) Open(ctx context.Context, uri string) error {
	if err := s.Opener.Open(uri); err != nil {
		return &EffectError{Effect: EffectOpen, Target: uri, Err: err}
	}
	return nil
}

func (s *System) InjectText(ctx context.Context, text string) error {
	if err := s.Injector.InjectText(ctx, text); err != nil {
		return &EffectError{Effect: EffectInject, Err: err}
	}
	return nil
}
