package engine

import (
	"log/slog"
	"time"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/drawing"
	"github.com/inamate/annotator/internal/geometry"
	"github.com/inamate/annotator/internal/input"
	"github.com/inamate/annotator/internal/selection"
)

type gestureKind int

const (
	gesturePan gestureKind = iota + 1
	gestureCreate
	gestureMarquee
	gestureVertex
	gestureMove
)

// gesture is a pointer press in progress. Vertex and move gestures edit
// working copies; the store only sees the result on release.
type gesture struct {
	kind     gestureKind
	button   input.Button
	startDev geometry.Point
	startImg geometry.Point
	moved    bool
	target   Target

	panFrom geometry.Point
	marquee geometry.Rect

	indices   []int
	originals []annotation.Annotation
	working   []annotation.Annotation
}

// HandleEvent is the single entry point for host input. It reports whether
// the event was handled; hosts re-render after handled events.
func (e *Engine) HandleEvent(ev input.Event) bool {
	at := ev.Time()
	if at.IsZero() {
		at = e.now()
	}

	switch ev := ev.(type) {
	case input.KeyDown:
		return e.keyDown(ev)
	case input.KeyUp:
		return e.keyUp(ev)
	case input.PointerDown:
		e.mods = ev.Mods()
		return e.pointerDown(ev, at)
	case input.PointerMove:
		e.mods = ev.Mods()
		if !e.throttle.Allow(ev, at) {
			return false
		}
		return e.pointerMove(ev.Pos)
	case input.PointerUp:
		// The last throttled move must land before the release.
		if last, ok := e.throttle.Flush(); ok {
			e.pointerMove(last.Pos)
		}
		e.mods = ev.Mods()
		return e.pointerUp(ev, at)
	case input.Wheel:
		return e.wheel(ev)
	case input.ContextMenu:
		return e.contextMenu(ev)
	}
	slog.Debug("unhandled event", "event", ev)
	return false
}

func (e *Engine) pointerDown(ev input.PointerDown, at time.Time) bool {
	pos := e.toImage(ev.Pos)
	e.contextHandled = false

	switch ev.Button {
	case input.ButtonMiddle:
		return e.startPan(ev)
	case input.ButtonRight:
		return e.rightDown(pos, at)
	case input.ButtonLeft:
		// A gesture already owns the pointer, for example a middle-button pan.
		if e.gesture != nil {
			return false
		}
	default:
		return false
	}

	if e.tool == drawing.ToolPan || e.space {
		return e.startPan(ev)
	}

	if e.session.State() == drawing.Drawing && e.session.Tool().IsPath() {
		if e.chord.LeftDown(at) && e.session.CanFinish() {
			e.finished(e.session.Finish())
			return true
		}
		e.finished(e.session.AddPoint(pos))
		return true
	}

	switch {
	case e.tool.Draws():
		return e.startDrawing(ev, pos)
	case e.tool == drawing.ToolMove:
		return e.startSelect(ev, pos)
	}
	return false
}

func (e *Engine) rightDown(pos geometry.Point, at time.Time) bool {
	if e.session.State() == drawing.Drawing {
		if !e.session.Tool().IsPath() {
			return false
		}
		e.chord.RightDown(at)
		return true
	}
	if e.tool != drawing.ToolMove || e.gesture != nil {
		return false
	}

	shapes := e.store.Shapes()
	t := hitTest(shapes, pos, e.imageRadius(e.opts.VertexRadius))
	if t.Kind != TargetVertex || !shapes[t.Shape].Kind.IsPath() {
		return false
	}
	e.contextHandled = e.DeleteVertex(t.Shape, t.Vertex)
	return e.contextHandled
}

func (e *Engine) startPan(ev input.PointerDown) bool {
	if e.gesture != nil {
		return false
	}
	e.gesture = &gesture{
		kind:     gesturePan,
		button:   ev.Button,
		startDev: ev.Pos,
		panFrom:  e.store.ViewOffset(),
	}
	return true
}

func (e *Engine) startDrawing(ev input.PointerDown, pos geometry.Point) bool {
	if _, _, ok := e.store.Bounds(); !ok {
		slog.Debug("drawing refused, image bounds unknown", "tool", e.tool)
		return false
	}
	if ev.Mods().Has(input.Shift) && e.tool.IsPath() {
		e.session.SetContinuous(true)
	}
	if !e.session.Start(e.tool, pos, e.style) {
		return false
	}
	if !e.tool.IsPath() {
		e.gesture = &gesture{kind: gestureCreate, button: ev.Button, startDev: ev.Pos, startImg: pos}
	}
	return true
}

func (e *Engine) startSelect(ev input.PointerDown, pos geometry.Point) bool {
	shapes := e.store.Shapes()
	t := hitTest(shapes, pos, e.imageRadius(e.opts.VertexRadius))
	g := &gesture{button: ev.Button, startDev: ev.Pos, startImg: pos, target: t}

	switch {
	case appendHeld(ev.Mods()) || t.Kind == TargetBackground:
		g.kind = gestureMarquee
		g.marquee = geometry.RectFromPoints(pos, pos)
	case t.Kind == TargetVertex:
		g.kind = gestureVertex
		e.store.Select(t.Shape)
		g.indices = []int{t.Shape}
	default:
		if !e.store.IsSelected(t.Shape) {
			e.store.Select(t.Shape)
		}
		g.kind = gestureMove
		g.indices = e.store.Selection()
	}
	for _, i := range g.indices {
		g.originals = append(g.originals, shapes[i])
	}
	g.working = annotation.CloneAll(g.originals)
	e.gesture = g
	return true
}

func (e *Engine) pointerMove(dev geometry.Point) bool {
	pos := e.toImage(dev)
	if g := e.gesture; g != nil && g.kind != gestureCreate {
		return e.drag(g, dev, pos)
	}
	if e.session.State() == drawing.Drawing {
		e.finished(e.session.Continue(pos))
		return true
	}
	if e.tool == drawing.ToolMove {
		prev := e.hover
		e.hover = hitTest(e.store.Shapes(), pos, e.imageRadius(e.opts.VertexRadius))
		return prev != e.hover
	}
	return false
}

func (e *Engine) drag(g *gesture, dev, pos geometry.Point) bool {
	if !g.moved && dev.Dist(g.startDev) < e.opts.DragThreshold {
		return false
	}
	g.moved = true

	switch g.kind {
	case gesturePan:
		e.store.SetViewOffset(g.panFrom.Add(dev.Sub(g.startDev)))
	case gestureMarquee:
		g.marquee = geometry.RectFromPoints(g.startImg, pos)
	case gestureVertex:
		if w, h, ok := e.store.Bounds(); ok {
			pos = geometry.ImageRect(w, h).Clamp(pos)
		}
		g.working[0] = moveHandle(g.originals[0], g.target.Vertex, pos)
	case gestureMove:
		d := pos.Sub(g.startImg)
		for k, a := range g.originals {
			g.working[k] = a.Translate(d)
		}
	}
	return true
}

func (e *Engine) pointerUp(ev input.PointerUp, at time.Time) bool {
	pos := e.toImage(ev.Pos)

	if ev.Button == input.ButtonRight {
		plain := e.chord.RightUp()
		if plain && e.session.State() == drawing.Drawing && e.session.Tool().IsPath() {
			return e.session.RemoveLastPoint()
		}
		return false
	}

	g := e.gesture
	if g == nil || g.button != ev.Button {
		return false
	}
	e.gesture = nil

	switch g.kind {
	case gesturePan:
		return e.store.CommitPan(g.panFrom, e.store.ViewOffset())
	case gestureCreate:
		e.session.Continue(pos)
		e.finished(e.session.Finish())
		return true
	case gestureMarquee:
		return e.finishMarquee(g, pos)
	case gestureVertex:
		if !g.moved {
			return e.InsertMidpoint(g.target.Shape, g.target.Vertex)
		}
		return e.store.Update(g.indices[0], annotation.GeometryPatch(g.working[0]))
	case gestureMove:
		if !g.moved {
			return true
		}
		patches := make([]annotation.Patch, len(g.working))
		for k, a := range g.working {
			patches[k] = annotation.GeometryPatch(a)
		}
		return e.store.UpdateMany(g.indices, patches)
	}
	return false
}

func (e *Engine) finishMarquee(g *gesture, pos geometry.Point) bool {
	appending := appendHeld(e.mods)
	if !g.moved {
		switch {
		case g.target.Kind != TargetBackground && appending:
			e.store.ToggleSelect(g.target.Shape)
		case !appending:
			e.store.ClearSelection()
		}
		return true
	}

	rect := geometry.RectFromPoints(g.startImg, pos)
	mode := selection.Replace
	if appending {
		mode = selection.Append
	}
	e.store.SelectMany(selection.FindShapesInRegion(e.store.Shapes(), rect), mode)
	return true
}

func (e *Engine) contextMenu(ev input.ContextMenu) bool {
	if e.contextHandled {
		e.contextHandled = false
		return true
	}
	if e.tool != drawing.ToolMove || e.Drawing() || e.gesture != nil {
		return false
	}
	pos := e.toImage(ev.Pos)
	t, ok := nearestPathVertex(e.store.Shapes(), pos, e.imageRadius(e.opts.ContextMenuRadius))
	if !ok {
		return false
	}
	return e.DeleteVertex(t.Shape, t.Vertex)
}

func (e *Engine) wheel(ev input.Wheel) bool {
	if ev.DeltaY == 0 {
		return false
	}
	v := e.Viewport().ZoomAt(ev.Pos, input.WheelFactor(ev.DeltaY))
	e.scale = v.Scale
	e.session.SetScale(v.Scale)
	e.store.SetViewOffset(v.Pan)
	return true
}

func (e *Engine) abortGesture() {
	if g := e.gesture; g != nil && g.kind == gesturePan {
		e.store.SetViewOffset(g.panFrom)
	}
	e.gesture = nil
}

func appendHeld(m input.Modifiers) bool {
	return m.Has(input.Shift) || m.Command()
}
