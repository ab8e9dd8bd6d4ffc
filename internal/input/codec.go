package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/inamate/annotator/internal/geometry"
)

var ErrUnknownEvent = errors.New("unknown event type")

// Wire is the JSON form of an event as sent by a browser host. TimeStamp
// is in milliseconds, as in DOM Event.timeStamp.
type Wire struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Button    int     `json:"button"`
	Key       string  `json:"key,omitempty"`
	DeltaY    float64 `json:"deltaY,omitempty"`
	ShiftKey  bool    `json:"shiftKey,omitempty"`
	CtrlKey   bool    `json:"ctrlKey,omitempty"`
	AltKey    bool    `json:"altKey,omitempty"`
	MetaKey   bool    `json:"metaKey,omitempty"`
	TimeStamp float64 `json:"timeStamp,omitempty"`
	TextFocus bool    `json:"textFocus,omitempty"`
}

// DecodeEvent parses one JSON-encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return w.Event()
}

// Event converts the wire form into an Event.
func (w Wire) Event() (Event, error) {
	h := Header{Modifiers: w.modifiers()}
	if w.TimeStamp > 0 {
		h.At = time.UnixMicro(int64(math.Round(w.TimeStamp * 1000)))
	}
	pos := geometry.Pt(w.X, w.Y)
	if !pos.IsFinite() {
		return nil, fmt.Errorf("event %q: non-finite position", w.Type)
	}

	switch w.Type {
	case "keydown":
		return KeyDown{Header: h, Key: w.Key, TextFocus: w.TextFocus}, nil
	case "keyup":
		return KeyUp{Header: h, Key: w.Key}, nil
	case "pointerdown", "mousedown":
		return PointerDown{Header: h, Pos: pos, Button: Button(w.Button)}, nil
	case "pointermove", "mousemove":
		return PointerMove{Header: h, Pos: pos}, nil
	case "pointerup", "mouseup":
		return PointerUp{Header: h, Pos: pos, Button: Button(w.Button)}, nil
	case "wheel":
		return Wheel{Header: h, Pos: pos, DeltaY: w.DeltaY}, nil
	case "contextmenu":
		return ContextMenu{Header: h, Pos: pos}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, w.Type)
	}
}

func (w Wire) modifiers() Modifiers {
	var m Modifiers
	if w.ShiftKey {
		m |= Shift
	}
	if w.CtrlKey {
		m |= Ctrl
	}
	if w.AltKey {
		m |= Alt
	}
	if w.MetaKey {
		m |= Meta
	}
	return m
}
