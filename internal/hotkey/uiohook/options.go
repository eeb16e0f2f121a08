// Package uiohook is the cross-platform keyboard hook backend built on
// libuiohook through github.com/robotn/gohook.
package uiohook

import (
	"time"

	"keyremap/internal/hotkey"
)

type Options struct {
	ActivationKey string
	LeaderKey     string
	LeaderWindow  time.Duration
}

func (o Options) classifierOptions() hotkey.ClassifierOptions {
	return hotkey.ClassifierOptions{
		ActivationKey: o.ActivationKey,
		LeaderKey:     o.LeaderKey,
		LeaderWindow:  o.LeaderWindow,
	}
}
