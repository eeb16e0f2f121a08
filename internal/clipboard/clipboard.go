package clipboard

import (
	"context"
	"fmt"
	"time"

	sysclipboard "github.com/atotto/clipboard"

	"keyremap/internal/keyboard"
	"keyremap/internal/logging"
)

const (
	writeAttempts      = 5
	retryDelay         = 50 * time.Millisecond
	defaultSettleDelay = 80 * time.Millisecond
	defaultRestoreWait = 120 * time.Millisecond
)

type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type SystemClipboard struct{}

func (s *SystemClipboard) ReadAll() (string, error) {
	return sysclipboard.ReadAll()
}

func (s *SystemClipboard) WriteAll(text string) error {
	return sysclipboard.WriteAll(text)
}

// Supported reports whether a clipboard backend was found on this system.
func Supported() bool {
	return !sysclipboard.Unsupported
}

// Injector types text into the focused input by placing it on the clipboard
// and sending the paste chord. The previous clipboard contents are put back
// afterwards.
type Injector struct {
	Clipboard Clipboard
	Keyboard  keyboard.KeySimulator
	// SettleDelay is the pause between writing the clipboard and pasting.
	SettleDelay time.Duration
	// RestoreDelay is the pause before the original contents are restored,
	// giving the target application time to read the clipboard.
	RestoreDelay time.Duration
	Sleep        func(time.Duration)
}

func NewSystemInjector() *Injector {
	return &Injector{
		Clipboard:    &SystemClipboard{},
		Keyboard:     keyboard.NewSystemKeySimulator(),
		SettleDelay:  defaultSettleDelay,
		RestoreDelay: defaultRestoreWait,
	}
}

func (m *Injector) sleep(d time.Duration) {
	if m.Sleep != nil {
		m.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (m *Injector) InjectText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)
	orig, readErr := m.Clipboard.ReadAll()
	if readErr != nil {
		log.Debug().Err(readErr).Msg("clipboard read failed, nothing to restore")
	}
	defer func() {
		if readErr != nil {
			return
		}
		m.sleep(m.RestoreDelay)
		if err := m.writeWithRetry(orig); err != nil {
			log.Warn().Err(err).Msg("failed to restore clipboard")
		}
	}()

	if err := m.writeWithRetry(text); err != nil {
		return err
	}
	m.sleep(m.SettleDelay)
	if err := m.Keyboard.Paste(); err != nil {
		return fmt.Errorf("send paste keystroke: %w", err)
	}
	return nil
}

func (m *Injector) writeWithRetry(text string) error {
	var err error
	for i := 0; i < writeAttempts; i++ {
		if err = m.Clipboard.WriteAll(text); err == nil {
			return nil
		}
		m.sleep(retryDelay)
	}
	return fmt.Errorf("failed to write clipboard: %w", err)
}
