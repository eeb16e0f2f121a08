//go:build !cgo

package uiohook

import (
	"keyremap/internal/event"
	"keyremap/internal/hotkey"
)

const Supported = false

type unsupportedService struct{}

func NewService(opts Options) (hotkey.Service, error) {
	if _, err := hotkey.NewClassifier(opts.classifierOptions()); err != nil {
		return nil, err
	}
	return &unsupportedService{}, nil
}

func (s *unsupportedService) Start(emit func(event.RawEvent)) error {
	return hotkey.ErrUnsupported
}

func (s *unsupportedService) Close() error {
	return nil
}
