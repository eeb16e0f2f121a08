//go:build cgo

package uiohook

import (
	"fmt"
	"sync"
	"time"

	hook "github.com/robotn/gohook"

	"keyremap/internal/event"
	"keyremap/internal/hotkey"
)

// charUndefined is what libuiohook reports as the character of a key press
// that produced no text.
const charUndefined = 0xFFFF

const closeTimeout = time.Second

// Supported reports whether this build carries a real keyboard hook.
const Supported = true

type platformService struct {
	classifier *hotkey.Classifier

	mu      sync.Mutex
	events  chan hook.Event
	done    chan struct{}
	started bool
}

func NewService(opts Options) (hotkey.Service, error) {
	c, err := hotkey.NewClassifier(opts.classifierOptions())
	if err != nil {
		return nil, err
	}
	return &platformService{classifier: c}, nil
}

func (s *platformService) Start(emit func(event.RawEvent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("keyboard hook already started")
	}
	s.events = hook.Start()
	s.done = make(chan struct{})
	s.started = true
	go s.dispatch(s.events, s.done, emit)
	return nil
}

func (s *platformService) dispatch(events <-chan hook.Event, done chan struct{}, emit func(event.RawEvent)) {
	defer close(done)
	for ev := range events {
		var (
			out event.RawEvent
			ok  bool
		)
		switch ev.Kind {
		case hook.KeyHold:
			out, ok = s.classifier.Pressed(ev.Keycode)
		case hook.KeyDown:
			if ev.Keychar != charUndefined {
				out, ok = s.classifier.Typed(ev.Keychar)
			}
		}
		if ok {
			emit(out)
		}
	}
}

func (s *platformService) Close() error {
	s.mu.Lock()
	started, done := s.started, s.done
	s.started = false
	s.mu.Unlock()
	if !started {
		return nil
	}
	hook.End()
	select {
	case <-done:
	case <-time.After(closeTimeout):
		return fmt.Errorf("keyboard hook did not stop within %s", closeTimeout)
	}
	return nil
}
