package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	appDirName     = "keyremap"
	configFileName = "config.json"
	dirPerm        = 0o755
	filePerm       = 0o644

	SourceHook        = "hook"
	SourceSpool       = "spool"
	SourceAppleScript = "applescript"

	DefaultPollIntervalMS   = 100
	DefaultLeaderTimeoutMS  = 1500
	DefaultActivationKey    = "capslock"
	DefaultLeaderKey        = "rctrl"
	defaultSpoolFileName    = "key_events"
	defaultActivationTarget = "https://www.google.com"
)

// Trigger is a single character that selects a shortcut. It is persisted as a
// one-character JSON string.
type Trigger rune

func (t Trigger) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(rune(t)))
}

func (t *Trigger) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("trigger must be a string: %w", err)
	}
	if utf8.RuneCountInString(s) != 1 {
		return fmt.Errorf("trigger %q must be exactly one character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	*t = Trigger(r)
	return nil
}

func (t Trigger) String() string {
	return string(rune(t))
}

type Shortcut struct {
	Trigger Trigger `json:"trigger"`
	Text    string  `json:"text"`
}

// Source selects and tunes the event source. Zero values mean the defaults;
// read them through the accessor methods.
type Source struct {
	Kind            string `json:"kind"`
	ActivationKey   string `json:"activation_key"`
	LeaderKey       string `json:"leader_key"`
	LeaderTimeoutMS int    `json:"leader_timeout_ms"`
	SpoolPath       string `json:"spool_path"`
}

type Config struct {
	ActivationTarget string     `json:"activation_target"`
	Shortcuts        []Shortcut `json:"shortcuts"`
	Source           Source     `json:"source"`
	PollIntervalMS   int        `json:"poll_interval_ms"`
}

func Default() Config {
	return Config{
		ActivationTarget: defaultActivationTarget,
		Shortcuts: []Shortcut{
			{Trigger: 'h', Text: "Hello, World!"},
			{Trigger: 't', Text: "Thank you very much"},
		},
		Source: Source{
			Kind:            SourceHook,
			ActivationKey:   DefaultActivationKey,
			LeaderKey:       DefaultLeaderKey,
			LeaderTimeoutMS: DefaultLeaderTimeoutMS,
			SpoolPath:       DefaultSpoolPath(),
		},
		PollIntervalMS: DefaultPollIntervalMS,
	}
}

// DefaultPath returns the per-user config location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", &IOError{Op: "locate", Path: "", Err: err}
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

func DefaultSpoolPath() string {
	return filepath.Join(os.TempDir(), defaultSpoolFileName)
}

// Load reads the config at path. When the file does not exist the default
// config is written there first and returned. A file that exists but does not
// decode is never replaced.
func Load(path string) (Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		if err := Save(path, cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	return cfg, err
}

// Read decodes and validates the config at path without creating it. A
// missing file is an *IOError matching fs.ErrNotExist. Unset optional fields
// stay unset; the accessors on Config and Source resolve their defaults.
func Read(path string) (Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &IOError{Op: "read", Path: path, Err: err}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	return DefaultPath()
}

// Save writes cfg as indented JSON, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return &IOError{Op: "encode", Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// EffectiveKind is the source kind in canonical form. Unset means hook.
func (s Source) EffectiveKind() string {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	if kind == "" {
		return SourceHook
	}
	return kind
}

func (s Source) Activation() string {
	if strings.TrimSpace(s.ActivationKey) == "" {
		return DefaultActivationKey
	}
	return s.ActivationKey
}

func (s Source) Leader() string {
	if strings.TrimSpace(s.LeaderKey) == "" {
		return DefaultLeaderKey
	}
	return s.LeaderKey
}

func (s Source) LeaderTimeout() time.Duration {
	ms := s.LeaderTimeoutMS
	if ms <= 0 {
		ms = DefaultLeaderTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Spool is the spool file path, DefaultSpoolPath when unset.
func (s Source) Spool() string {
	if strings.TrimSpace(s.SpoolPath) == "" {
		return DefaultSpoolPath()
	}
	return s.SpoolPath
}

func (c Config) PollInterval() time.Duration {
	ms := c.PollIntervalMS
	if ms <= 0 {
		ms = DefaultPollIntervalMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Lookup returns the first shortcut whose trigger is r.
func (c Config) Lookup(r rune) (Shortcut, bool) {
	for _, s := range c.Shortcuts {
		if rune(s.Trigger) == r {
			return s, true
		}
	}
	return Shortcut{}, false
}

// DuplicateTriggers lists triggers declared more than once, in first-seen order.
// Only the first declaration of each is reachable through Lookup.
func (c Config) DuplicateTriggers() []rune {
	seen := make(map[Trigger]int, len(c.Shortcuts))
	var dups []rune
	for _, s := range c.Shortcuts {
		seen[s.Trigger]++
		if seen[s.Trigger] == 2 {
			dups = append(dups, rune(s.Trigger))
		}
	}
	return dups
}
