package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/annotator/internal/drawing"
	"github.com/inamate/annotator/internal/geometry"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"pointerdown","x":12.5,"y":3,"button":2,"shiftKey":true,"metaKey":true,"timeStamp":1500.5}`))
	require.NoError(t, err)

	down, ok := ev.(PointerDown)
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(12.5, 3), down.Pos)
	assert.Equal(t, ButtonRight, down.Button)
	assert.True(t, down.Mods().Has(Shift))
	assert.True(t, down.Mods().Command())
	assert.False(t, down.Mods().Has(Alt))
	assert.Equal(t, int64(1500500), down.Time().UnixMicro())

	ev, err = DecodeEvent([]byte(`{"type":"keydown","key":"z","ctrlKey":true,"textFocus":true}`))
	require.NoError(t, err)
	key := ev.(KeyDown)
	assert.Equal(t, "z", key.Key)
	assert.True(t, key.TextFocus)
	assert.True(t, key.Time().IsZero())

	_, err = DecodeEvent([]byte(`{"type":"drag"}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	p, ok := Position(Wheel{Pos: geometry.Pt(1, 2)})
	assert.True(t, ok)
	assert.Equal(t, geometry.Pt(1, 2), p)

	_, ok = Position(KeyUp{Key: "Shift"})
	assert.False(t, ok)
}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{Scale: 2, Pan: geometry.Pt(10, -20)}
	img := geometry.Pt(7, 9)

	dev := v.ToDevice(img)
	assert.Equal(t, geometry.Pt(24, -2), dev)
	assert.InDelta(t, img.X, v.ToImage(dev).X, 1e-12)
	assert.InDelta(t, img.Y, v.ToImage(dev).Y, 1e-12)
	assert.Equal(t, 3.0, v.ImageDistance(6))

	zero := Viewport{}
	assert.Equal(t, geometry.Pt(5, 5), zero.ToImage(geometry.Pt(5, 5)), "zero scale acts as 1")
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := Viewport{Scale: 1.5, Pan: geometry.Pt(30, 40)}
	at := geometry.Pt(200, 120)
	before := v.ToImage(at)

	z := v.ZoomAt(at, 2)
	assert.Equal(t, 3.0, z.Scale)
	after := z.ToImage(at)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	assert.Equal(t, float64(MaxScale), v.ZoomAt(at, 1000).Scale)
	assert.Equal(t, MinScale, v.ZoomAt(at, 0.0001).Scale)
	assert.Greater(t, WheelFactor(-100), 1.0)
	assert.Less(t, WheelFactor(100), 1.0)
}

func TestThrottleKeepsLastDroppedMove(t *testing.T) {
	th := NewThrottle(10 * time.Millisecond)
	t0 := time.UnixMilli(1000)
	move := func(x float64) PointerMove { return PointerMove{Pos: geometry.Pt(x, 0)} }

	assert.True(t, th.Allow(move(1), t0))
	assert.False(t, th.Allow(move(2), t0.Add(3*time.Millisecond)))
	assert.False(t, th.Allow(move(3), t0.Add(6*time.Millisecond)))

	last, ok := th.Flush()
	require.True(t, ok)
	assert.Equal(t, 3.0, last.Pos.X)
	_, ok = th.Flush()
	assert.False(t, ok)

	assert.False(t, th.Allow(move(4), t0.Add(8*time.Millisecond)))
	assert.True(t, th.Allow(move(5), t0.Add(10*time.Millisecond)))
	_, ok = th.Flush()
	assert.False(t, ok, "an allowed move clears the pending one")

	off := NewThrottle(0)
	assert.True(t, off.Allow(move(1), t0))
	assert.True(t, off.Allow(move(1), t0))
}

func TestChord(t *testing.T) {
	t0 := time.UnixMilli(5000)

	c := NewChord(DefaultChordWindow)
	c.RightDown(t0)
	assert.True(t, c.LeftDown(t0.Add(200*time.Millisecond)))
	assert.False(t, c.RightUp(), "chorded right press is consumed")

	c.RightDown(t0)
	assert.False(t, c.LeftDown(t0.Add(301*time.Millisecond)))
	assert.False(t, c.RightUp(), "a late left press still consumes the right press")

	c.RightDown(t0)
	assert.True(t, c.RightUp(), "plain right press")

	c.RightDown(t0)
	assert.True(t, c.RightUp())
	assert.False(t, c.LeftDown(t0.Add(10*time.Millisecond)), "released right press no longer arms")

	assert.False(t, c.RightUp(), "no press seen")
}

func TestShortcut(t *testing.T) {
	tests := []struct {
		key    string
		mods   Modifiers
		action Action
		tool   drawing.Tool
	}{
		{"Escape", 0, ActionCancel, ""},
		{"Enter", 0, ActionFinish, ""},
		{"Backspace", 0, ActionBackspace, ""},
		{"Delete", 0, ActionDelete, ""},
		{"z", Ctrl, ActionUndo, ""},
		{"z", Meta, ActionUndo, ""},
		{"Z", Ctrl | Shift, ActionRedo, ""},
		{"y", Ctrl, ActionRedo, ""},
		{"c", Ctrl, ActionCopy, ""},
		{"v", Meta, ActionPaste, ""},
		{"a", Ctrl, ActionSelectAll, ""},
		{"v", 0, ActionTool, drawing.ToolMove},
		{"B", Shift, ActionTool, drawing.ToolBBox},
		{"e", 0, ActionTool, drawing.ToolEllipse},
		{"p", 0, ActionTool, drawing.ToolPolygon},
		{"l", 0, ActionTool, drawing.ToolPolyline},
		{"h", 0, ActionTool, drawing.ToolPan},
		{"p", Alt, ActionNone, ""},
		{"q", Ctrl, ActionNone, ""},
		{"x", 0, ActionNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.action.String(), func(t *testing.T) {
			action, tool := Shortcut(tt.key, tt.mods)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.tool, tool)
		})
	}
}
