//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/annotator/internal/drawing"
	"github.com/inamate/annotator/internal/engine"
	"github.com/inamate/annotator/internal/geometry"
	"github.com/inamate/annotator/internal/input"
)

var eng *engine.Engine

func main() {
	eng = engine.New(engine.DefaultOptions())

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	api.Set("handleEvent", js.FuncOf(handleEvent))
	api.Set("setImageSize", js.FuncOf(setImageSize))
	api.Set("setViewport", js.FuncOf(setViewport))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setLabel", js.FuncOf(setLabel))
	api.Set("setSelection", js.FuncOf(setSelection))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("loadAnnotations", js.FuncOf(loadAnnotations))
	api.Set("loadSample", js.FuncOf(loadSample))

	// --- Queries (frontend ← engine) ---
	api.Set("getAnnotations", js.FuncOf(getAnnotations))
	api.Set("getDrawCommands", js.FuncOf(getDrawCommands))
	api.Set("getCursor", js.FuncOf(getCursor))
	api.Set("getState", js.FuncOf(getState))
	api.Set("hitTest", js.FuncOf(hitTest))

	js.Global().Set("annotatorEngine", api)
	js.Global().Set("annotatorWasmReady", js.ValueOf(true))

	select {}
}

func errorResult(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// handleEvent takes one JSON-encoded DOM-style event and reports whether
// the frontend should re-render.
func handleEvent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing event JSON")
	}
	ev, err := input.DecodeEvent([]byte(args[0].String()))
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(eng.HandleEvent(ev))
}

func setImageSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetImageSize(args[0].Float(), args[1].Float())
	return nil
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	eng.SetViewport(input.Viewport{
		Scale: args[0].Float(),
		Pan:   geometry.Pt(args[1].Float(), args[2].Float()),
	})
	return nil
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing tool")
	}
	tool, ok := drawing.ParseTool(args[0].String())
	if !ok {
		return errorResult("unknown tool")
	}
	eng.SetTool(tool)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setLabel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	return js.ValueOf(eng.SetLabel(args[0].String()))
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.Select(nil)
		return nil
	}
	arr := args[0]
	indices := make([]int, arr.Length())
	for i := range indices {
		indices[i] = arr.Index(i).Int()
	}
	eng.Select(indices)
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

func loadAnnotations(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing annotations JSON")
	}
	if err := eng.LoadAnnotationsJSON([]byte(args[0].String())); err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSample(this js.Value, args []js.Value) interface{} {
	eng.LoadSample()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Query Handlers ---

func getAnnotations(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ShapesJSON())
}

func getDrawCommands(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func getCursor(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(eng.Cursor()))
}

func getState(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.State())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTestJSON(args[0].Float(), args[1].Float()))
}
