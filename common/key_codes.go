package common

import "strings"

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW         = 87  // W key (ASCII)
	KeyA         = 65  // A key (ASCII)
	KeyS         = 83  // S key (ASCII)
	KeyD         = 68  // D key (ASCII)
	KeyQ         = 81  // Q key (ASCII)
	KeyE         = 69  // E key (ASCII)
	KeyX         = 88  // X key (ASCII)
	KeySpace     = 32  // Spacebar (ASCII)
	KeyEnter     = 257 // Enter key (GLFW)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyEsc       = 256 // Escape key (GLFW)
	KeyF4        = 293 // F4 key (GLFW)
)

// keyNames maps the lower-case names accepted in configuration files to key codes.
var keyNames = map[string]uint32{
	"w":         KeyW,
	"a":         KeyA,
	"s":         KeyS,
	"d":         KeyD,
	"q":         KeyQ,
	"e":         KeyE,
	"x":         KeyX,
	"space":     KeySpace,
	"enter":     KeyEnter,
	"backspace": KeyBackspace,
	"escape":    KeyEsc,
	"esc":       KeyEsc,
	"f4":        KeyF4,
}

// LookupKey resolves a key name such as "escape" or "q" to its key code.
// Matching is case-insensitive and ignores surrounding whitespace.
//
// Parameters:
//   - name: the key name to resolve
//
// Returns:
//   - uint32: the key code, or 0 if the name is unknown
//   - bool: true if the name was found
func LookupKey(name string) (uint32, bool) {
	code, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}
