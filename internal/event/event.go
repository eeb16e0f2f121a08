// Package event defines the raw key signals produced by event sources and the
// queue that carries them to the dispatch engine.
package event

import "fmt"

type Kind int

const (
	// KindMalformed marks input that matched no known signal. It is carried
	// so sources never have to drop data themselves; the engine ignores it.
	KindMalformed Kind = iota
	KindActivation
	KindTrigger
)

func (k Kind) String() string {
	switch k {
	case KindActivation:
		return "activation"
	case KindTrigger:
		return "trigger"
	default:
		return "malformed"
	}
}

// RawEvent is a single classified key signal.
type RawEvent struct {
	Kind Kind
	// Char is set for KindTrigger.
	Char rune
	// Raw holds the unrecognized input for KindMalformed.
	Raw string
}

func Activation() RawEvent {
	return RawEvent{Kind: KindActivation}
}

func Trigger(c rune) RawEvent {
	return RawEvent{Kind: KindTrigger, Char: c}
}

func Malformed(raw string) RawEvent {
	return RawEvent{Kind: KindMalformed, Raw: raw}
}

func (e RawEvent) String() string {
	switch e.Kind {
	case KindActivation:
		return "activation"
	case KindTrigger:
		return fmt.Sprintf("trigger(%q)", e.Char)
	default:
		return fmt.Sprintf("malformed(%q)", e.Raw)
	}
}
