package engine

import (
	"github.com/inamate/annotator/internal/drawing"
	"github.com/inamate/annotator/internal/input"
)

func (e *Engine) keyDown(ev input.KeyDown) bool {
	e.mods = ev.Mods()
	if ev.Key == "Shift" {
		e.mods |= input.Shift
	}
	if ev.TextFocus {
		return false
	}

	switch ev.Key {
	case "Shift":
		e.session.SetContinuous(true)
		return true
	case " ":
		e.space = true
		return true
	}

	action, tool := input.Shortcut(ev.Key, ev.Mods())
	switch action {
	case input.ActionCancel:
		e.Cancel()
		return true
	case input.ActionFinish:
		if !e.Drawing() {
			return false
		}
		e.finished(e.session.Finish())
		return true
	case input.ActionBackspace:
		if e.Drawing() && e.session.Tool().IsPath() {
			return e.session.RemoveLastPoint()
		}
		return e.DeleteSelection()
	case input.ActionDelete:
		return e.DeleteSelection()
	case input.ActionUndo:
		return e.Undo()
	case input.ActionRedo:
		return e.Redo()
	case input.ActionCopy:
		return e.Copy() > 0
	case input.ActionPaste:
		return e.Paste()
	case input.ActionSelectAll:
		e.store.SelectAll()
		return true
	case input.ActionTool:
		e.SetTool(tool)
		return true
	}
	return false
}

func (e *Engine) keyUp(ev input.KeyUp) bool {
	switch ev.Key {
	case "Shift":
		e.mods &^= input.Shift
		return e.finished(e.session.SetContinuous(false))
	case " ":
		e.space = false
		return true
	}
	return false
}

// Cursor returns the cursor the host should show.
func (e *Engine) Cursor() input.CursorHint {
	if g := e.gesture; g != nil {
		switch g.kind {
		case gesturePan, gestureMove, gestureVertex:
			return input.CursorGrabbing
		default:
			return input.CursorCrosshair
		}
	}
	if e.tool == drawing.ToolPan || e.space {
		return input.CursorGrab
	}
	if e.tool.Draws() {
		return input.CursorCrosshair
	}
	switch e.hover.Kind {
	case TargetVertex:
		return input.CursorPointer
	case TargetShape:
		return input.CursorGrab
	}
	return input.CursorDefault
}
