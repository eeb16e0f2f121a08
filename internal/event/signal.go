package event

import (
	"strings"
	"unicode/utf8"
)

// Line protocol written by external key monitors, one signal per line.
const (
	SignalActivation    = "CAPS_LOCK"
	SignalTriggerPrefix = "FN:"
)

// ParseSignal classifies one line of the signal protocol. A trigger line
// yields the first character after the prefix; extra characters are ignored.
func ParseSignal(line string) RawEvent {
	line = strings.TrimRight(line, "\r\n")
	if line == SignalActivation {
		return Activation()
	}
	if rest, ok := strings.CutPrefix(line, SignalTriggerPrefix); ok && rest != "" {
		r, size := utf8.DecodeRuneInString(rest)
		if r == utf8.RuneError && size <= 1 {
			return Malformed(line)
		}
		return Trigger(r)
	}
	return Malformed(line)
}

// FormatSignal renders ev as a protocol line without the trailing newline.
// Malformed events have no encoding and report false.
func FormatSignal(ev RawEvent) (string, bool) {
	switch ev.Kind {
	case KindActivation:
		return SignalActivation, true
	case KindTrigger:
		return SignalTriggerPrefix + string(ev.Char), true
	default:
		return "", false
	}
}
