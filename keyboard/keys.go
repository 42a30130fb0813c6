// Package keyboard defines key and modifier codes for keyboard output
// targets, plus the sink interface the mapping engine emits through.
package keyboard

import (
	"fmt"
	"strings"
)

// Key is a USB HID Keyboard/Keypad usage code.
type Key uint8

// Modifier is a bitmask of modifier keys, laid out like the modifier
// byte of a HID keyboard report.
type Modifier uint8

const (
	ModLeftCtrl   Modifier = 0x01
	ModLeftShift  Modifier = 0x02
	ModLeftAlt    Modifier = 0x04
	ModLeftGUI    Modifier = 0x08
	ModRightCtrl  Modifier = 0x10
	ModRightShift Modifier = 0x20
	ModRightAlt   Modifier = 0x40
	ModRightGUI   Modifier = 0x80
)

// HID usage codes for keys addressable from a mapping.
const (
	KeyNone Key = 0x00

	KeyA Key = 0x04
	KeyB Key = 0x05
	KeyC Key = 0x06
	KeyD Key = 0x07
	KeyE Key = 0x08
	KeyF Key = 0x09
	KeyG Key = 0x0A
	KeyH Key = 0x0B
	KeyI Key = 0x0C
	KeyJ Key = 0x0D
	KeyK Key = 0x0E
	KeyL Key = 0x0F
	KeyM Key = 0x10
	KeyN Key = 0x11
	KeyO Key = 0x12
	KeyP Key = 0x13
	KeyQ Key = 0x14
	KeyR Key = 0x15
	KeyS Key = 0x16
	KeyT Key = 0x17
	KeyU Key = 0x18
	KeyV Key = 0x19
	KeyW Key = 0x1A
	KeyX Key = 0x1B
	KeyY Key = 0x1C
	KeyZ Key = 0x1D

	Key1 Key = 0x1E
	Key2 Key = 0x1F
	Key3 Key = 0x20
	Key4 Key = 0x21
	Key5 Key = 0x22
	Key6 Key = 0x23
	Key7 Key = 0x24
	Key8 Key = 0x25
	Key9 Key = 0x26
	Key0 Key = 0x27

	KeyEnter     Key = 0x28
	KeyEscape    Key = 0x29
	KeyBackspace Key = 0x2A
	KeyTab       Key = 0x2B
	KeySpace     Key = 0x2C
	KeyMinus     Key = 0x2D
	KeyEqual     Key = 0x2E

	KeyF1  Key = 0x3A
	KeyF2  Key = 0x3B
	KeyF3  Key = 0x3C
	KeyF4  Key = 0x3D
	KeyF5  Key = 0x3E
	KeyF6  Key = 0x3F
	KeyF7  Key = 0x40
	KeyF8  Key = 0x41
	KeyF9  Key = 0x42
	KeyF10 Key = 0x43
	KeyF11 Key = 0x44
	KeyF12 Key = 0x45

	KeyPrintScreen Key = 0x46
	KeyScrollLock  Key = 0x47
	KeyPause       Key = 0x48
	KeyInsert      Key = 0x49
	KeyHome        Key = 0x4A
	KeyPageUp      Key = 0x4B
	KeyDelete      Key = 0x4C
	KeyEnd         Key = 0x4D
	KeyPageDown    Key = 0x4E

	KeyRight Key = 0x4F
	KeyLeft  Key = 0x50
	KeyDown  Key = 0x51
	KeyUp    Key = 0x52

	// Modifiers as plain keys, for mappings that bind a bare modifier.
	KeyLeftCtrl   Key = 0xE0
	KeyLeftShift  Key = 0xE1
	KeyLeftAlt    Key = 0xE2
	KeyLeftGUI    Key = 0xE3
	KeyRightCtrl  Key = 0xE4
	KeyRightShift Key = 0xE5
	KeyRightAlt   Key = 0xE6
	KeyRightGUI   Key = 0xE7
)

// keyNames maps usage codes to the names used in stored profiles.
var keyNames = map[Key]string{
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",

	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeySpace:     "Space",
	KeyMinus:     "Minus",
	KeyEqual:     "Equal",

	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",

	KeyPrintScreen: "PrintScreen",
	KeyScrollLock:  "ScrollLock",
	KeyPause:       "Pause",
	KeyInsert:      "Insert",
	KeyHome:        "Home",
	KeyPageUp:      "PageUp",
	KeyDelete:      "Delete",
	KeyEnd:         "End",
	KeyPageDown:    "PageDown",

	KeyRight: "Right",
	KeyLeft:  "Left",
	KeyDown:  "Down",
	KeyUp:    "Up",

	KeyLeftCtrl:   "LeftCtrl",
	KeyLeftShift:  "LeftShift",
	KeyLeftAlt:    "LeftAlt",
	KeyLeftGUI:    "LeftGUI",
	KeyRightCtrl:  "RightCtrl",
	KeyRightShift: "RightShift",
	KeyRightAlt:   "RightAlt",
	KeyRightGUI:   "RightGUI",
}

var keyCodes = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, n := range keyNames {
		m[strings.ToLower(n)] = k
	}
	return m
}()

// String returns the profile name for k, or a hex form for unnamed codes.
func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Key(0x%02X)", uint8(k))
}

// ParseKey resolves a stored key name. Lookup is case-insensitive.
func ParseKey(name string) (Key, error) {
	if k, ok := keyCodes[strings.ToLower(name)]; ok {
		return k, nil
	}
	return KeyNone, fmt.Errorf("unknown key name %q", name)
}

// IsModifier reports whether k is a bare modifier key (either side of
// Ctrl/Shift/Alt/GUI). The editor restricts such keys to Normal mode.
func (k Key) IsModifier() bool {
	return k >= KeyLeftCtrl && k <= KeyRightGUI
}

// AsModifier returns the modifier bit for a bare modifier key, or 0.
func (k Key) AsModifier() Modifier {
	if !k.IsModifier() {
		return 0
	}
	return Modifier(1) << (uint8(k) - uint8(KeyLeftCtrl))
}

// String lists the set modifier names, left-to-right.
func (m Modifier) String() string {
	if m == 0 {
		return ""
	}
	var parts []string
	for k := KeyLeftCtrl; k <= KeyRightGUI; k++ {
		if m&k.AsModifier() != 0 {
			parts = append(parts, k.String())
		}
	}
	return strings.Join(parts, "+")
}

// ParseModifiers resolves a list of modifier key names into a bitmask.
func ParseModifiers(names []string) (Modifier, error) {
	var m Modifier
	for _, n := range names {
		k, err := ParseKey(n)
		if err != nil {
			return 0, err
		}
		if !k.IsModifier() {
			return 0, fmt.Errorf("%q is not a modifier key", n)
		}
		m |= k.AsModifier()
	}
	return m, nil
}

// Names returns the profile names for the set modifier bits.
func (m Modifier) Names() []string {
	var out []string
	for k := KeyLeftCtrl; k <= KeyRightGUI; k++ {
		if m&k.AsModifier() != 0 {
			out = append(out, k.String())
		}
	}
	return out
}
