// Package keynames holds the fixed, case-insensitive mapping from symbolic
// key names (including historical aliases) to HID keyboard usage codes,
// grounded on the key_names table in the original firmware's parser.
package keynames

import "strings"

// table is intentionally a flat literal, following the construction style
// the teacher uses for its own key-name tables (config.keyMap,
// platform/windows.keyMap): one map, several aliases pointing at the same
// code.
var table = map[string]byte{
	"A": 0x04, "B": 0x05, "C": 0x06, "D": 0x07, "E": 0x08, "F": 0x09,
	"G": 0x0A, "H": 0x0B, "I": 0x0C, "J": 0x0D, "K": 0x0E, "L": 0x0F,
	"M": 0x10, "N": 0x11, "O": 0x12, "P": 0x13, "Q": 0x14, "R": 0x15,
	"S": 0x16, "T": 0x17, "U": 0x18, "V": 0x19, "W": 0x1A, "X": 0x1B,
	"Y": 0x1C, "Z": 0x1D,

	"1": 0x1E, "2": 0x1F, "3": 0x20, "4": 0x21, "5": 0x22,
	"6": 0x23, "7": 0x24, "8": 0x25, "9": 0x26, "0": 0x27,

	"ENTER": 0x28, "RETURN": 0x28,
	"ESCAPE": 0x29, "ESC": 0x29,
	"BACKSPACE": 0x2A,
	"TAB":       0x2B,
	"SPACE":     0x2C, "SPACEBAR": 0x2C,

	"MINUS": 0x2D, "DASH": 0x2D, "HYPHEN": 0x2D,
	"EQUAL": 0x2E, "EQUALS": 0x2E, "PLUS": 0x2E,
	"LEFTBRACE": 0x2F, "LEFTBRACKET": 0x2F,
	"RIGHTBRACE": 0x30, "RIGHTBRACKET": 0x30,
	"BACKSLASH": 0x31, "PIPE": 0x31,
	"HASH": 0x32, "NONUSHASH": 0x32,
	"SEMICOLON": 0x33,
	"APOSTROPHE": 0x34, "QUOTE": 0x34,
	"GRAVE": 0x35, "TILDE": 0x35, "BACKTICK": 0x35,
	"COMMA":  0x36,
	"PERIOD": 0x37, "DOT": 0x37,
	"SLASH": 0x38, "FORWARDSLASH": 0x38,

	"CAPSLOCK": 0x39, "CAPS": 0x39,

	"F1": 0x3A, "F2": 0x3B, "F3": 0x3C, "F4": 0x3D,
	"F5": 0x3E, "F6": 0x3F, "F7": 0x40, "F8": 0x41,
	"F9": 0x42, "F10": 0x43, "F11": 0x44, "F12": 0x45,

	"PRINTSCREEN": 0x46, "SYSRQ": 0x46,
	"SCROLLLOCK": 0x47,
	"PAUSE":      0x48, "BREAK": 0x48,
	"INSERT": 0x49,
	"HOME":   0x4A,
	"PAGEUP": 0x4B, "PGUP": 0x4B,
	"DELETE": 0x4C, "DEL": 0x4C,
	"END":      0x4D,
	"PAGEDOWN": 0x4E, "PGDOWN": 0x4E, "PGDN": 0x4E,
	"RIGHT": 0x4F, "RIGHTARROW": 0x4F,
	"LEFT": 0x50, "LEFTARROW": 0x50,
	"DOWN": 0x51, "DOWNARROW": 0x51,
	"UP": 0x52, "UPARROW": 0x52,

	"NUMLOCK": 0x53,
	"KPSLASH": 0x54, "KEYPADSLASH": 0x54,
	"KPASTERISK": 0x55, "KEYPADASTERISK": 0x55,
	"KPMINUS": 0x56, "KEYPADMINUS": 0x56,
	"KPPLUS": 0x57, "KEYPADPLUS": 0x57,
	"KPENTER": 0x58, "KEYPADENTER": 0x58,
	"KP1": 0x59, "KP2": 0x5A, "KP3": 0x5B, "KP4": 0x5C, "KP5": 0x5D,
	"KP6": 0x5E, "KP7": 0x5F, "KP8": 0x60, "KP9": 0x61, "KP0": 0x62,
	"KPDOT": 0x63, "KEYPADDOT": 0x63,

	"LEFTCTRL": 0xE0, "CTRL": 0xE0, "CONTROL": 0xE0, "LEFTCONTROL": 0xE0,
	"LEFTSHIFT": 0xE1, "SHIFT": 0xE1,
	"LEFTALT": 0xE2, "ALT": 0xE2,
	"LEFTGUI": 0xE3, "LEFTWIN": 0xE3, "LEFTMETA": 0xE3, "LEFTSUPER": 0xE3,
	"RIGHTCTRL": 0xE4, "RIGHTCONTROL": 0xE4,
	"RIGHTSHIFT": 0xE5,
	"RIGHTALT":   0xE6,
	"RIGHTGUI":   0xE7, "RIGHTWIN": 0xE7, "RIGHTMETA": 0xE7, "RIGHTSUPER": 0xE7,
}

// Lookup returns the HID usage code for a symbolic key name, matched
// case-insensitively, and whether it was found.
func Lookup(name string) (byte, bool) {
	code, ok := table[strings.ToUpper(name)]
	return code, ok
}
