package hotkey

import (
	"fmt"
	"time"
	"unicode"

	"keyremap/internal/event"
)

// Classifier turns low-level key activity into raw events. Pressing the
// activation key yields an Activation. Pressing the leader key arms capture;
// the next printable character typed within the window yields a Trigger.
type Classifier struct {
	activation uint16
	leader     uint16
	window     time.Duration
	now        func() time.Time

	armed   bool
	armedAt time.Time
}

type ClassifierOptions struct {
	ActivationKey string
	LeaderKey     string
	LeaderWindow  time.Duration
	Now           func() time.Time
}

func NewClassifier(opts ClassifierOptions) (*Classifier, error) {
	activation, err := ParseKey(opts.ActivationKey)
	if err != nil {
		return nil, err
	}
	leader, err := ParseKey(opts.LeaderKey)
	if err != nil {
		return nil, err
	}
	if activation == leader {
		return nil, fmt.Errorf("leader key %q is the activation key", opts.LeaderKey)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Classifier{
		activation: activation,
		leader:     leader,
		window:     opts.LeaderWindow,
		now:        opts.Now,
	}, nil
}

// Pressed handles a key press identified by its libuiohook code.
func (c *Classifier) Pressed(code uint16) (event.RawEvent, bool) {
	switch code {
	case c.activation:
		c.armed = false
		return event.Activation(), true
	case c.leader:
		c.armed = true
		c.armedAt = c.now()
	case VC_ESCAPE:
		c.armed = false
	}
	return event.RawEvent{}, false
}

// Typed handles a character produced by the keyboard.
func (c *Classifier) Typed(ch rune) (event.RawEvent, bool) {
	if !c.Armed() {
		return event.RawEvent{}, false
	}
	if !unicode.IsPrint(ch) {
		return event.RawEvent{}, false
	}
	c.armed = false
	return event.Trigger(ch), true
}

// Armed reports whether a trigger character is currently being awaited.
func (c *Classifier) Armed() bool {
	if c.armed && c.window > 0 && c.now().Sub(c.armedAt) > c.window {
		c.armed = false
	}
	return c.armed
}
