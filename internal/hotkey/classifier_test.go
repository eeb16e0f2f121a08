package hotkey

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyremap/internal/event"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestClassifier(t *testing.T, clock *fakeClock) *Classifier {
	t.Helper()
	c, err := NewClassifier(ClassifierOptions{
		ActivationKey: "capslock",
		LeaderKey:     "rctrl",
		LeaderWindow:  time.Second,
		Now:           clock.now,
	})
	require.NoError(t, err)
	return c
}

func TestClassifierActivation(t *testing.T) {
	c := newTestClassifier(t, &fakeClock{t: time.Unix(0, 0)})

	ev, ok := c.Pressed(VC_CAPS_LOCK)
	require.True(t, ok)
	assert.Equal(t, event.Activation(), ev)

	_, ok = c.Pressed(0x1E)
	assert.False(t, ok)
}

func TestClassifierLeaderThenCharacter(t *testing.T) {
	c := newTestClassifier(t, &fakeClock{t: time.Unix(0, 0)})

	_, ok := c.Typed('h')
	assert.False(t, ok, "typing without the leader is ignored")

	_, ok = c.Pressed(VC_CONTROL_R)
	assert.False(t, ok)
	assert.True(t, c.Armed())

	ev, ok := c.Typed('h')
	require.True(t, ok)
	assert.Equal(t, event.Trigger('h'), ev)

	_, ok = c.Typed('i')
	assert.False(t, ok, "capture disarms after one character")
}

func TestClassifierIgnoresNonPrintable(t *testing.T) {
	c := newTestClassifier(t, &fakeClock{t: time.Unix(0, 0)})
	c.Pressed(VC_CONTROL_R)

	_, ok := c.Typed('\x08')
	assert.False(t, ok)
	assert.True(t, c.Armed(), "still waiting for a printable character")

	ev, ok := c.Typed('t')
	require.True(t, ok)
	assert.Equal(t, event.Trigger('t'), ev)
}

func TestClassifierWindowExpires(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := newTestClassifier(t, clock)
	c.Pressed(VC_CONTROL_R)

	clock.t = clock.t.Add(1500 * time.Millisecond)
	_, ok := c.Typed('h')
	assert.False(t, ok)
	assert.False(t, c.Armed())
}

func TestClassifierEscapeDisarms(t *testing.T) {
	c := newTestClassifier(t, &fakeClock{t: time.Unix(0, 0)})
	c.Pressed(VC_CONTROL_R)
	c.Pressed(VC_ESCAPE)

	_, ok := c.Typed('h')
	assert.False(t, ok)
}

func TestNewClassifierRejectsUnknownKeys(t *testing.T) {
	_, err := NewClassifier(ClassifierOptions{ActivationKey: "nope", LeaderKey: "rctrl"})
	assert.Error(t, err)
	_, err = NewClassifier(ClassifierOptions{ActivationKey: "capslock", LeaderKey: ""})
	assert.Error(t, err)
}

func TestNewClassifierRejectsLeaderEqualToActivation(t *testing.T) {
	_, err := NewClassifier(ClassifierOptions{ActivationKey: "F5", LeaderKey: "f5"})
	assert.Error(t, err)
}

type fakeService struct {
	startErr error
	started  chan struct{}
	closed   chan struct{}
	emit     func(event.RawEvent)
}

func (f *fakeService) Start(emit func(event.RawEvent)) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.emit = emit
	close(f.started)
	return nil
}

func (f *fakeService) Close() error {
	close(f.closed)
	return nil
}

func TestSourceRunClosesServiceOnCancel(t *testing.T) {
	svc := &fakeService{started: make(chan struct{}), closed: make(chan struct{})}
	src := &Source{Service: svc}
	assert.Equal(t, "hook", src.Name())

	var got []event.RawEvent
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, func(ev event.RawEvent) { got = append(got, ev) }) }()

	<-svc.started
	svc.emit(event.Activation())
	cancel()

	require.NoError(t, <-done)
	<-svc.closed
	assert.Equal(t, []event.RawEvent{event.Activation()}, got)
}

func TestSourceRunStartFailure(t *testing.T) {
	src := &Source{Service: &fakeService{startErr: ErrUnsupported}}
	err := src.Run(context.Background(), func(event.RawEvent) {})
	assert.True(t, errors.Is(err, ErrUnsupported))
}
