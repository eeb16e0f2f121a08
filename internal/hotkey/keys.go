package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// libuiohook virtual key codes, as reported in the Keycode field of hook
// events.
const (
	VC_ESCAPE      = 0x0001
	VC_BACKSPACE   = 0x000E
	VC_TAB         = 0x000F
	VC_ENTER       = 0x001C
	VC_SPACE       = 0x0039
	VC_CAPS_LOCK   = 0x003A
	VC_NUM_LOCK    = 0x0045
	VC_SCROLL_LOCK = 0x0046
	VC_PRINTSCREEN = 0x0E37
	VC_PAUSE       = 0x0E45

	VC_INSERT    = 0x0E52
	VC_DELETE    = 0x0E53
	VC_HOME      = 0x0E47
	VC_END       = 0x0E4F
	VC_PAGE_UP   = 0x0E49
	VC_PAGE_DOWN = 0x0E51
	VC_UP        = 0xE048
	VC_LEFT      = 0xE04B
	VC_RIGHT     = 0xE04D
	VC_DOWN      = 0xE050

	VC_SHIFT_L   = 0x002A
	VC_SHIFT_R   = 0x0036
	VC_CONTROL_L = 0x001D
	VC_CONTROL_R = 0x0E1D
	VC_ALT_L     = 0x0038
	VC_ALT_R     = 0x0E38
	VC_META_L    = 0x0E5B
	VC_META_R    = 0x0E5C
	VC_CONTEXT   = 0x0E5D
)

var fKeys = [...]uint16{
	0x003B, 0x003C, 0x003D, 0x003E, 0x003F, 0x0040, 0x0041, 0x0042, // F1-F8
	0x0043, 0x0044, 0x0057, 0x0058, // F9-F12
	0x005B, 0x005C, 0x005D, 0x0063, 0x0064, 0x0065, // F13-F18
	0x0066, 0x0067, 0x0068, 0x0069, 0x006A, 0x006B, // F19-F24
}

var letterKeys = map[byte]uint16{
	'q': 0x10, 'w': 0x11, 'e': 0x12, 'r': 0x13, 't': 0x14, 'y': 0x15, 'u': 0x16, 'i': 0x17, 'o': 0x18, 'p': 0x19,
	'a': 0x1E, 's': 0x1F, 'd': 0x20, 'f': 0x21, 'g': 0x22, 'h': 0x23, 'j': 0x24, 'k': 0x25, 'l': 0x26,
	'z': 0x2C, 'x': 0x2D, 'c': 0x2E, 'v': 0x2F, 'b': 0x30, 'n': 0x31, 'm': 0x32,
}

// ParseKey resolves a key name to its libuiohook code. Names are case
// insensitive; a bare decimal or 0x-prefixed number is taken as a raw code.
func ParseKey(s string) (uint16, error) {
	key := strings.TrimSpace(strings.ToLower(s))
	if key == "" {
		return 0, fmt.Errorf("empty key")
	}
	if strings.Contains(key, "+") {
		return 0, fmt.Errorf("key %q: chords are not supported", s)
	}
	if len(key) == 1 {
		ch := key[0]
		if code, ok := letterKeys[ch]; ok {
			return code, nil
		}
		if ch >= '1' && ch <= '9' {
			return uint16(ch-'1') + 0x0002, nil
		}
		if ch == '0' {
			return 0x000B, nil
		}
	}
	switch key {
	case "esc", "escape":
		return VC_ESCAPE, nil
	case "backspace":
		return VC_BACKSPACE, nil
	case "tab":
		return VC_TAB, nil
	case "enter", "return":
		return VC_ENTER, nil
	case "space":
		return VC_SPACE, nil
	case "capslock", "caps_lock", "caps":
		return VC_CAPS_LOCK, nil
	case "numlock", "num_lock":
		return VC_NUM_LOCK, nil
	case "scrolllock", "scroll_lock":
		return VC_SCROLL_LOCK, nil
	case "printscreen", "print":
		return VC_PRINTSCREEN, nil
	case "pause":
		return VC_PAUSE, nil
	case "insert":
		return VC_INSERT, nil
	case "delete":
		return VC_DELETE, nil
	case "home":
		return VC_HOME, nil
	case "end":
		return VC_END, nil
	case "pageup":
		return VC_PAGE_UP, nil
	case "pagedown":
		return VC_PAGE_DOWN, nil
	case "up":
		return VC_UP, nil
	case "down":
		return VC_DOWN, nil
	case "left":
		return VC_LEFT, nil
	case "right":
		return VC_RIGHT, nil
	case "shift", "lshift":
		return VC_SHIFT_L, nil
	case "rshift":
		return VC_SHIFT_R, nil
	case "ctrl", "control", "lctrl":
		return VC_CONTROL_L, nil
	case "rctrl":
		return VC_CONTROL_R, nil
	case "alt", "menu", "lalt":
		return VC_ALT_L, nil
	case "ralt", "altgr":
		return VC_ALT_R, nil
	case "meta", "win", "super", "cmd", "lmeta":
		return VC_META_L, nil
	case "rmeta", "rwin", "rcmd":
		return VC_META_R, nil
	case "context", "apps":
		return VC_CONTEXT, nil
	}
	if n, ok := strings.CutPrefix(key, "f"); ok {
		if i, err := strconv.Atoi(n); err == nil && i >= 1 && i <= len(fKeys) {
			return fKeys[i-1], nil
		}
	}
	if code, err := strconv.ParseUint(key, 0, 16); err == nil && code > 0 {
		return uint16(code), nil
	}
	return 0, fmt.Errorf("unsupported key token: %s", s)
}
