package session

import "fmt"

// Mode defines a public type used by goSignin APIs.
//
// Mode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Mode string

const (
	// ModeDurable keeps the session across browser restarts.
	ModeDurable Mode = "durable"
	// ModeTabSession keeps the session for the current tab only.
	ModeTabSession Mode = "tab_session"
	// ModeMemoryOnly keeps the session for the current page load only.
	ModeMemoryOnly Mode = "memory_only"
)

// Valid reports whether m is one of the three defined persistence modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeDurable, ModeTabSession, ModeMemoryOnly:
		return true
	}
	return false
}

// ParseMode converts a stored string into a [Mode].
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown persistence mode %q", s)
	}
	return m, nil
}
