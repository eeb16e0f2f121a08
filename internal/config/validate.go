package config

import (
	"errors"
	"fmt"
	"strings"

	"keyremap/internal/hotkey"
)

// Validate checks the schema rules that JSON decoding alone cannot express.
func Validate(c Config) error {
	var errs []error
	if strings.TrimSpace(c.ActivationTarget) == "" {
		errs = append(errs, errors.New("activation_target must not be empty"))
	}
	for i, s := range c.Shortcuts {
		if s.Trigger == 0 {
			errs = append(errs, fmt.Errorf("shortcuts[%d]: trigger is required", i))
		}
	}
	switch c.Source.EffectiveKind() {
	case SourceHook:
		activation, aerr := hotkey.ParseKey(c.Source.Activation())
		if aerr != nil {
			errs = append(errs, fmt.Errorf("source.activation_key: %w", aerr))
		}
		leader, lerr := hotkey.ParseKey(c.Source.Leader())
		if lerr != nil {
			errs = append(errs, fmt.Errorf("source.leader_key: %w", lerr))
		}
		if aerr == nil && lerr == nil && activation == leader {
			errs = append(errs, fmt.Errorf("source.leader_key %q is the activation key", c.Source.Leader()))
		}
	case SourceSpool, SourceAppleScript:
	default:
		errs = append(errs, fmt.Errorf("source.kind %q is not one of %s, %s, %s",
			c.Source.Kind, SourceHook, SourceSpool, SourceAppleScript))
	}
	return errors.Join(errs...)
}
