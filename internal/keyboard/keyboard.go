package keyboard

import (
	"runtime"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

// linuxWarmup is how long a freshly created uinput device needs before the
// desktop accepts its events.
const linuxWarmup = 2 * time.Second

type KeySimulator interface {
	Paste() error
}

// SystemKeySimulator sends the platform paste chord: Cmd+V on darwin and
// Ctrl+V elsewhere. The key bonding is created on first use and reused.
type SystemKeySimulator struct {
	once sync.Once
	kb   keybd_event.KeyBonding
	err  error
}

func NewSystemKeySimulator() KeySimulator {
	return &SystemKeySimulator{}
}

func (s *SystemKeySimulator) init() {
	s.kb, s.err = keybd_event.NewKeyBonding()
	if s.err == nil && runtime.GOOS == "linux" {
		time.Sleep(linuxWarmup)
	}
}

func (s *SystemKeySimulator) Paste() error {
	s.once.Do(s.init)
	if s.err != nil {
		return s.err
	}
	s.kb.Clear()
	if runtime.GOOS == "darwin" {
		s.kb.HasSuper(true)
	} else {
		s.kb.HasCTRL(true)
	}
	s.kb.SetKeys(keybd_event.VK_V)
	return s.kb.Launching()
}
