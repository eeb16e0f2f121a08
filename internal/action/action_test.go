package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	uris []string
	err  error
}

func (f *fakeOpener) Open(uri string) error {
	f.uris = append(f.uris, uri)
	return f.err
}

type fakeInjector struct {
	texts []string
	err   error
}

func (f *fakeInjector) InjectText(ctx context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

func TestSystemDelegates(t *testing.T) {
	op, inj := &fakeOpener{}, &fakeInjector{}
	s := &System{Opener: op, Injector: inj}

	require.NoError(t, s.Open(context.Background(), "https://example.com"))
	require.NoError(t, s.InjectText(context.Background(), "Hello"))

	assert.Equal(t, []string{"https://example.com"}, op.uris)
	assert.Equal(t, []string{"Hello"}, inj.texts)
}

func TestSystemWrapsFailures(t *testing.T) {
	cause := errors.New("boom")
	s := &System{Opener: &fakeOpener{err: cause}, Injector: &fakeInjector{err: cause}}

	err := s.Open(context.Background(), "bad://target")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEffect)
	assert.ErrorIs(t, err, cause)
	var ee *EffectError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, EffectOpen, ee.Effect)
	assert.Equal(t, "bad://target", ee.Target)
	assert.Contains(t, err.Error(), "open bad://target failed")

	err = s.InjectText(context.Background(), "secret")
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, EffectInject, ee.Effect)
	assert.NotContains(t, err.Error(), "secret", "expansion text stays out of error messages")
}
