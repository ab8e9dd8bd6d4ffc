package input

import (
	"strings"

	"github.com/inamate/annotator/internal/drawing"
)

// Action is an editing command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionCancel
	ActionFinish
	ActionBackspace
	ActionDelete
	ActionUndo
	ActionRedo
	ActionCopy
	ActionPaste
	ActionSelectAll
	ActionTool
)

var actionNames = [...]string{
	ActionNone:      "none",
	ActionCancel:    "cancel",
	ActionFinish:    "finish",
	ActionBackspace: "backspace",
	ActionDelete:    "delete",
	ActionUndo:      "undo",
	ActionRedo:      "redo",
	ActionCopy:      "copy",
	ActionPaste:     "paste",
	ActionSelectAll: "selectAll",
	ActionTool:      "tool",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

var toolHotkeys = map[string]drawing.Tool{
	"v": drawing.ToolMove,
	"b": drawing.ToolBBox,
	"e": drawing.ToolEllipse,
	"p": drawing.ToolPolygon,
	"l": drawing.ToolPolyline,
	"h": drawing.ToolPan,
}

// Shortcut maps a key press to an action. For ActionTool the selected
// tool is returned as well.
func Shortcut(key string, mods Modifiers) (Action, drawing.Tool) {
	switch key {
	case "Escape":
		return ActionCancel, ""
	case "Enter":
		return ActionFinish, ""
	case "Backspace":
		return ActionBackspace, ""
	case "Delete":
		return ActionDelete, ""
	}

	k := strings.ToLower(key)
	if mods.Command() {
		switch {
		case k == "z" && mods.Has(Shift):
			return ActionRedo, ""
		case k == "z":
			return ActionUndo, ""
		case k == "y":
			return ActionRedo, ""
		case k == "c":
			return ActionCopy, ""
		case k == "v":
			return ActionPaste, ""
		case k == "a":
			return ActionSelectAll, ""
		}
		return ActionNone, ""
	}
	if mods.Has(Alt) {
		return ActionNone, ""
	}
	if tool, ok := toolHotkeys[k]; ok {
		return ActionTool, tool
	}
	return ActionNone, ""
}
