package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsDeterministic(t *testing.T) {
	a, b := Default(), Default()
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.ActivationTarget)
	require.NotEmpty(t, a.Shortcuts)
	assert.Equal(t, SourceHook, a.Source.Kind)
	assert.Equal(t, DefaultPollIntervalMS, a.PollIntervalMS)
	assert.NoError(t, Validate(a))
}

func TestLoadAbsentWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), info2.ModTime(), "second load must not rewrite the file")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.ActivationTarget = "https://example.com"
	cfg.Shortcuts = []Shortcut{
		{Trigger: 'z', Text: "last"},
		{Trigger: 'a', Text: "first"},
		{Trigger: 'é', Text: "accent <&>"},
		{Trigger: 'z', Text: "dup"},
	}
	cfg.Source.Kind = SourceSpool
	cfg.PollIntervalMS = 50

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveWritesStableFieldOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, Default()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	order := []string{`"activation_target"`, `"shortcuts"`, `"trigger"`, `"text"`, `"source"`, `"poll_interval_ms"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.GreaterOrEqual(t, idx, 0, "missing %s", key)
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}
	assert.Contains(t, text, "\n  \"activation_target\"")
}

func TestLoadFillsMissingOptionalFields(t *testing.T) {
	path := writeFile(t, `{"activation_target":"https://example.com","shortcuts":[{"trigger":"h","text":"Hello, World!"}]}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.ActivationTarget)
	assert.Equal(t, []Shortcut{{Trigger: 'h', Text: "Hello, World!"}}, cfg.Shortcuts)
	assert.Equal(t, Source{}, cfg.Source, "unset fields stay unset")
	assert.Equal(t, SourceHook, cfg.Source.EffectiveKind())
	assert.Equal(t, DefaultActivationKey, cfg.Source.Activation())
	assert.Equal(t, DefaultLeaderKey, cfg.Source.Leader())
	assert.Equal(t, DefaultLeaderTimeoutMS*time.Millisecond, cfg.Source.LeaderTimeout())
	assert.Equal(t, DefaultSpoolPath(), cfg.Source.Spool())
	assert.Equal(t, DefaultPollIntervalMS*time.Millisecond, cfg.PollInterval())
}

func TestSaveLoadRoundTripSparseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Config{
		ActivationTarget: "https://example.com",
		Shortcuts:        []Shortcut{{Trigger: 'h', Text: "Hello, World!"}},
	}

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveLoadKeepsKindAsWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Source.Kind = "Spool"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, SourceSpool, got.Source.EffectiveKind())
}

func TestReadDoesNotCreateMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_, err := Read(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, ErrConfigIO)

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestLoadMalformedIsParseError(t *testing.T) {
	cases := map[string]string{
		"not json":                      `{"activation_target":`,
		"wrong type":                    `{"activation_target":42}`,
		"empty target":                  `{"activation_target":"  ","shortcuts":[]}`,
		"long trigger":                  `{"activation_target":"x","shortcuts":[{"trigger":"hi","text":"a"}]}`,
		"empty trigger":                 `{"activation_target":"x","shortcuts":[{"trigger":"","text":"a"}]}`,
		"missing trigger":               `{"activation_target":"x","shortcuts":[{"text":"a"}]}`,
		"numeric trigger":               `{"activation_target":"x","shortcuts":[{"trigger":7,"text":"a"}]}`,
		"unknown source":                `{"activation_target":"x","source":{"kind":"telepathy"}}`,
		"unknown hook key":              `{"activation_target":"x","source":{"kind":"hook","activation_key":"hyperdrive"}}`,
		"leader is activation":          `{"activation_target":"x","source":{"kind":"hook","activation_key":"F5","leader_key":"f5"}}`,
		"leader defaults to activation": `{"activation_target":"x","source":{"activation_key":"rctrl"}}`,
		"unknown mixed case":            `{"activation_target":"x","source":{"kind":"Telepathy"}}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, content)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigParse), "got %v", err)
			assert.False(t, errors.Is(err, ErrConfigIO))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, path, pe.Path)

			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, content, string(data), "corrupt file must not be overwritten")
		})
	}
}

func TestLoadUnreachableStorageIsIOError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	_, err := Load(filepath.Join(dir, "sub", "config.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigIO), "got %v", err)
}

func TestLoadPathIsDirectoryIsIOError(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigIO), "got %v", err)
}

func TestLookupFirstMatchWins(t *testing.T) {
	cfg := Default()
	cfg.Shortcuts = []Shortcut{
		{Trigger: 'a', Text: "one"},
		{Trigger: 'b', Text: "two"},
		{Trigger: 'a', Text: "three"},
	}
	s, ok := cfg.Lookup('a')
	require.True(t, ok)
	assert.Equal(t, "one", s.Text)

	_, ok = cfg.Lookup('q')
	assert.False(t, ok)

	assert.Equal(t, []rune{'a'}, cfg.DuplicateTriggers())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
