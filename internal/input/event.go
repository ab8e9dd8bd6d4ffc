// Package input defines the events fed into the editing engine and the
// small pieces of input plumbing around them: modifier state, the
// device-to-image viewport transform, pointer-move throttling, the
// right-then-left chord detector and keyboard shortcut mapping.
package input

import (
	"time"

	"github.com/inamate/annotator/internal/geometry"
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
	Meta
)

// Has reports whether every modifier in m is held.
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// Command reports whether the platform command modifier (Ctrl or Cmd) is
// held.
func (mods Modifiers) Command() bool { return mods&(Ctrl|Meta) != 0 }

// Button identifies a pointer button, numbered as in DOM MouseEvent.button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// Event is one of KeyDown, KeyUp, PointerDown, PointerMove, PointerUp,
// Wheel or ContextMenu. Pointer positions are in device pixels.
type Event interface {
	Mods() Modifiers
	Time() time.Time
	isEvent()
}

// Header carries the fields shared by every event. A zero At means the
// receiver should use its own clock.
type Header struct {
	Modifiers Modifiers
	At        time.Time
}

func (h Header) Mods() Modifiers { return h.Modifiers }
func (h Header) Time() time.Time { return h.At }
func (Header) isEvent()          {}

type KeyDown struct {
	Header
	Key string
	// TextFocus is set by the host when a text field has keyboard focus;
	// shortcuts are not applied then.
	TextFocus bool
}

type KeyUp struct {
	Header
	Key string
}

type PointerDown struct {
	Header
	Pos    geometry.Point
	Button Button
}

type PointerMove struct {
	Header
	Pos geometry.Point
}

type PointerUp struct {
	Header
	Pos    geometry.Point
	Button Button
}

// Wheel zooms; negative DeltaY zooms in.
type Wheel struct {
	Header
	Pos    geometry.Point
	DeltaY float64
}

type ContextMenu struct {
	Header
	Pos geometry.Point
}

// Position returns the device position of pointer-like events.
func Position(ev Event) (geometry.Point, bool) {
	switch ev := ev.(type) {
	case PointerDown:
		return ev.Pos, true
	case PointerMove:
		return ev.Pos, true
	case PointerUp:
		return ev.Pos, true
	case Wheel:
		return ev.Pos, true
	case ContextMenu:
		return ev.Pos, true
	default:
		return geometry.Point{}, false
	}
}
