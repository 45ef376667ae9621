// Package hotkey listens for a global key combination that stops the pointer
// even when the preview window does not have focus.
package hotkey

import (
	"context"
	"fmt"
	"log"
	"strings"

	hook "github.com/robotn/gohook"
)

// DefaultCombo stops the session from anywhere on the desktop.
const DefaultCombo = "ctrl+shift+q"

var modifiers = map[string]bool{
	"ctrl":  true,
	"shift": true,
	"alt":   true,
	"cmd":   true,
}

// ParseCombo turns "ctrl+shift+q" into the key list gohook expects:
// the main key first, followed by the modifiers in the order given.
func ParseCombo(combo string) ([]string, error) {
	var key string
	var mods []string

	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			return nil, fmt.Errorf("empty key in combo %q", combo)
		case modifiers[part]:
			mods = append(mods, part)
		case key != "":
			return nil, fmt.Errorf("combo %q has more than one non-modifier key", combo)
		default:
			key = part
		}
	}

	if key == "" {
		return nil, fmt.Errorf("combo %q has no main key", combo)
	}

	return append([]string{key}, mods...), nil
}

// Listener fires a callback when its key combination is pressed.
type Listener struct {
	combo string
	keys  []string
}

// New creates a Listener for combo, e.g. "ctrl+shift+q".
func New(combo string) (*Listener, error) {
	keys, err := ParseCombo(combo)
	if err != nil {
		return nil, err
	}
	return &Listener{combo: combo, keys: keys}, nil
}

// Keys returns the parsed key list.
func (l *Listener) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Listen blocks until the combination is pressed or ctx is done.
// onPress runs at most once, on the hook goroutine.
func (l *Listener) Listen(ctx context.Context, onPress func()) {
	hook.Register(hook.KeyDown, l.keys, func(e hook.Event) {
		log.Printf("%s pressed, stopping", l.combo)
		onPress()
		hook.End()
	})

	s := hook.Start()
	done := hook.Process(s)

	select {
	case <-done:
	case <-ctx.Done():
		hook.End()
		<-done
	}
}
