package spool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"keyremap/internal/event"
	"keyremap/internal/logging"
)

const spoolPlaceholder = "{{spool}}"

// AppleScriptMonitor polls caps lock and the fn key through System Events
// and appends the matching signal lines to the spool. Fn asks for the
// trigger character in a dialog.
const AppleScriptMonitor = `#!/usr/bin/osascript
tell application "System Events"
    repeat
        set caps_state to get capslock of keyboard
        if caps_state is true then
            do shell script "echo 'CAPS_LOCK' >> '{{spool}}'"
            delay 0.5
        end if

        set fn_state to get key code 63
        if fn_state is down then
            set input to text returned of (display dialog "Enter trigger character:" default answer "")
            do shell script "echo 'FN:" & input & "' >> '{{spool}}'"
        end if
        delay 0.05
    end repeat
end tell
`

// ScriptSource runs an external key monitor script that writes into a spool,
// and reads the spool for its signals. The script file and the spool are
// removed when the source stops.
type ScriptSource struct {
	Spool       *Source
	Interpreter string
	Script      string
}

func NewAppleScriptSource(spool *Source) *ScriptSource {
	return &ScriptSource{Spool: spool, Interpreter: "osascript", Script: AppleScriptMonitor}
}

func (s *ScriptSource) Name() string {
	return "script:" + s.Interpreter
}

func (s *ScriptSource) render() (string, error) {
	if strings.ContainsAny(s.Spool.Path, `'"\`) {
		return "", fmt.Errorf("spool path %q cannot be embedded in a monitor script", s.Spool.Path)
	}
	return strings.ReplaceAll(s.Script, spoolPlaceholder, s.Spool.Path), nil
}

func (s *ScriptSource) writeScript() (string, error) {
	content, err := s.render()
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "keyremap-monitor-*")
	if err != nil {
		return "", fmt.Errorf("create monitor script: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write monitor script: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write monitor script: %w", err)
	}
	return f.Name(), nil
}

// Run starts the monitor and forwards its signals until ctx is cancelled.
// A monitor that exits on its own is reported as an error.
func (s *ScriptSource) Run(ctx context.Context, emit func(event.RawEvent)) error {
	log := logging.FromContext(logging.WithComponent(ctx, "monitor"))

	if err := s.Spool.Prepare(); err != nil {
		return err
	}
	scriptPath, err := s.writeScript()
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(scriptPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", scriptPath).Msg("remove monitor script failed")
		}
	}()

	procCtx, stopProc := context.WithCancel(ctx)
	defer stopProc()
	cmd := exec.CommandContext(procCtx, s.Interpreter, scriptPath)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start key monitor: %w", err)
	}
	log.Debug().Int("pid", cmd.Process.Pid).Str("script", scriptPath).Msg("key monitor started")

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watchErr := make(chan error, 1)
	go func() { watchErr <- s.Spool.Watch(watchCtx, emit) }()

	select {
	case <-ctx.Done():
		<-waitErr
		<-watchErr
		return nil
	case err := <-waitErr:
		stopWatch()
		<-watchErr
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("exited unexpectedly")
		}
		return fmt.Errorf("key monitor %s: %w", s.Interpreter, err)
	case err := <-watchErr:
		stopProc()
		<-waitErr
		return err
	}
}
