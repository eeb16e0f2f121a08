// Package spool implements the file-based signal channel used by external
// key monitors. Monitors append one protocol line per key action; the Source
// claims the file by renaming it and reads the claimed copy, so no line is
// delivered twice and none written during a claim is lost.
package spool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"keyremap/internal/event"
	"keyremap/internal/logging"
)

const (
	filePerm            = 0o600
	dirPerm             = 0o755
	defaultPollInterval = 100 * time.Millisecond
	// idleScansBeforeRemoval is how many scans a claimed file must stay
	// unchanged before it is deleted. Writers that opened the spool just
	// before it was claimed finish within that window.
	idleScansBeforeRemoval = 2
)

// Append writes ev to the spool at path as a single line.
func Append(path string, ev event.RawEvent) error {
	line, ok := event.FormatSignal(ev)
	if !ok {
		return fmt.Errorf("event %s has no signal encoding", ev)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return err
	}
	if _, err := f.Write([]byte(line + "\n")); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type claimed struct {
	path   string
	offset int64
	idle   int
}

// Source reads signals from a spool file until its context is cancelled.
type Source struct {
	Path         string
	PollInterval time.Duration

	seq     int
	pending []*claimed
}

func (s *Source) Name() string {
	return "spool"
}

func (s *Source) Run(ctx context.Context, emit func(event.RawEvent)) error {
	if err := s.Prepare(); err != nil {
		return err
	}
	return s.Watch(ctx, emit)
}

// Prepare creates an empty spool and removes leftovers of earlier runs, so
// signals from a previous session are never replayed.
func (s *Source) Prepare() error {
	if s.Path == "" {
		return fmt.Errorf("spool path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), dirPerm); err != nil {
		return fmt.Errorf("create spool dir: %w", err)
	}
	if err := os.WriteFile(s.Path, nil, filePerm); err != nil {
		return fmt.Errorf("reset spool: %w", err)
	}
	stale, _ := filepath.Glob(s.claimPrefix() + "*")
	for _, p := range stale {
		_ = os.Remove(p)
	}
	return nil
}

// Watch scans the spool on every filesystem notification and at least once
// per poll interval. The spool and any claimed files are removed on return.
func (s *Source) Watch(ctx context.Context, emit func(event.RawEvent)) error {
	ctx = logging.WithComponent(ctx, "spool")
	log := logging.FromContext(ctx)
	defer s.cleanup(ctx)

	interval := s.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		notify <-chan fsnotify.Event
		errs   <-chan error
	)
	if w, err := fsnotify.NewWatcher(); err != nil {
		log.Warn().Err(err).Msg("file notifications unavailable, polling only")
	} else {
		defer w.Close()
		if err := w.Add(filepath.Dir(s.Path)); err != nil {
			log.Warn().Err(err).Msg("cannot watch spool dir, polling only")
		} else {
			notify, errs = w.Events, w.Errors
		}
	}

	log.Debug().Str("path", s.Path).Msg("watching spool")
	s.scan(ctx, emit)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.scan(ctx, emit)
		case ev, ok := <-notify:
			if !ok {
				notify = nil
				continue
			}
			if s.concerns(ev.Name) {
				s.scan(ctx, emit)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn().Err(err).Msg("spool watcher error")
		}
	}
}

// concerns reports whether a change to name can carry signals: the spool
// itself or one of its claimed copies.
func (s *Source) concerns(name string) bool {
	name = filepath.Clean(name)
	return name == filepath.Clean(s.Path) || strings.HasPrefix(name, s.claimPrefix())
}

func (s *Source) claimPrefix() string {
	return filepath.Join(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".claim-")
}

// scan first revisits files claimed earlier, then claims the current spool.
func (s *Source) scan(ctx context.Context, emit func(event.RawEvent)) {
	log := logging.FromContext(ctx)

	kept := s.pending[:0]
	for _, c := range s.pending {
		n, err := s.readClaimed(c, emit)
		if err != nil {
			log.Warn().Err(err).Str("path", c.path).Msg("read claimed spool failed")
		}
		if n > 0 {
			c.idle = 0
		} else {
			c.idle++
		}
		if c.idle >= idleScansBeforeRemoval {
			_ = os.Remove(c.path)
			continue
		}
		kept = append(kept, c)
	}
	s.pending = kept

	info, err := os.Stat(s.Path)
	if err != nil || info.Size() == 0 {
		return
	}
	s.seq++
	target := s.claimPrefix() + strconv.Itoa(os.Getpid()) + "-" + strconv.Itoa(s.seq)
	if err := os.Rename(s.Path, target); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Msg("claim spool failed")
		}
		return
	}
	c := &claimed{path: target}
	s.pending = append(s.pending, c)
	if _, err := s.readClaimed(c, emit); err != nil {
		log.Warn().Err(err).Str("path", target).Msg("read claimed spool failed")
	}
}

// readClaimed emits every complete line past c.offset and returns the
// number of bytes consumed. A trailing partial line is left for later.
func (s *Source) readClaimed(c *claimed, emit func(event.RawEvent)) (int, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if _, err := f.Seek(c.offset, io.SeekStart); err != nil {
		return 0, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return 0, err
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return 0, nil
	}
	complete := data[:end+1]
	c.offset += int64(len(complete))
	for _, line := range bytes.Split(complete[:end], []byte{'\n'}) {
		emit(event.ParseSignal(string(line)))
	}
	return len(complete), nil
}

func (s *Source) cleanup(ctx context.Context) {
	log := logging.FromContext(ctx)
	for _, c := range s.pending {
		_ = os.Remove(c.path)
	}
	s.pending = nil
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", s.Path).Msg("remove spool failed")
	}
}
