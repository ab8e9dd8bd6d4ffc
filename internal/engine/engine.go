// Package engine is the editing core: it owns one annotation store and one
// drawing session, turns input events into drawing, selection and vertex
// edits, and answers the render and cursor queries of its host.
//
// An Engine is single threaded. Every method runs to completion
// synchronously; hosts must not call into one engine from more than one
// goroutine.
package engine

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/drawing"
	"github.com/inamate/annotator/internal/geometry"
	"github.com/inamate/annotator/internal/input"
	"github.com/inamate/annotator/internal/labels"
	"github.com/inamate/annotator/internal/selection"
	"github.com/inamate/annotator/internal/store"
)

// Options configures an Engine. Radii are in device pixels.
type Options struct {
	Drawing           drawing.Options
	MaxHistory        int
	MoveThrottle      time.Duration
	ChordWindow       time.Duration
	PasteOffset       float64
	VertexRadius      float64
	ContextMenuRadius float64
	DragThreshold     float64

	Labels *labels.Registry
	// Now is the clock used for events without a timestamp.
	Now func() time.Time
}

// DefaultOptions returns the standard engine tuning.
func DefaultOptions() Options {
	return Options{
		Drawing:           drawing.DefaultOptions(),
		MoveThrottle:      input.DefaultThrottle,
		ChordWindow:       input.DefaultChordWindow,
		PasteOffset:       10,
		VertexRadius:      6,
		ContextMenuRadius: 10,
		DragThreshold:     3,
	}
}

// Engine is the editing state of one image.
type Engine struct {
	opts    Options
	store   *store.Store
	session *drawing.Session
	labels  *labels.Registry
	now     func() time.Time

	tool  drawing.Tool
	style drawing.Style
	scale float64

	throttle  *input.Throttle
	chord     *input.Chord
	clipboard []annotation.Annotation

	mods  input.Modifiers
	space bool

	gesture        *gesture
	hover          Target
	contextHandled bool
}

// New returns an engine with the move tool active and no image bounds.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	e := &Engine{
		opts:     opts,
		store:    store.New(store.Options{MaxHistory: opts.MaxHistory}),
		session:  drawing.NewSession(opts.Drawing),
		labels:   opts.Labels,
		now:      now,
		tool:     drawing.ToolMove,
		scale:    1,
		throttle: input.NewThrottle(opts.MoveThrottle),
		chord:    input.NewChord(opts.ChordWindow),
	}
	e.style = drawing.Style{Color: e.labels.ColorFor(""), Opacity: annotation.DefaultOpacity}
	return e
}

// --- Commands (host → engine) ---

// Subscribe registers a sink notified after every committed change to the
// shape list.
func (e *Engine) Subscribe(sink store.Sink) {
	e.store.Subscribe(sink)
}

// SetImageSize supplies the image bounds. Shapes cannot be finished
// before this is known.
func (e *Engine) SetImageSize(w, h float64) {
	e.store.SetBounds(w, h)
}

// SetViewport replaces the device transform. The pan part also becomes
// the current view offset; it is not recorded in the history.
func (e *Engine) SetViewport(v input.Viewport) {
	if v.Scale > 0 {
		e.scale = v.Scale
	}
	e.session.SetScale(e.scale)
	e.store.SetViewOffset(v.Pan)
}

// SetTool switches tools, cancelling any shape in progress.
func (e *Engine) SetTool(t drawing.Tool) {
	e.Cancel()
	e.tool = t
	if t.IsPath() && e.mods.Has(input.Shift) {
		e.session.SetContinuous(true)
	}
	slog.Debug("tool selected", "tool", t)
}

// Cancel discards the shape in progress and any pointer gesture. Safe in
// every state.
func (e *Engine) Cancel() {
	e.session.Cancel()
	e.abortGesture()
	e.chord.Reset()
}

// SetLabel sets the label used for new shapes and relabels the selection.
// The colour comes from the label registry.
func (e *Engine) SetLabel(label string) bool {
	color := e.labels.ColorFor(label)
	e.style.Label, e.style.Color = label, color

	sel := e.store.Selection()
	if len(sel) == 0 {
		return false
	}
	patches := make([]annotation.Patch, len(sel))
	for k := range patches {
		patches[k] = annotation.Patch{Label: annotation.String(label), Color: annotation.String(color)}
	}
	return e.store.UpdateMany(sel, patches)
}

// SetOpacity sets the opacity used for new shapes and applies it to the
// selection.
func (e *Engine) SetOpacity(opacity float64) bool {
	if opacity < 0 || opacity > 1 {
		slog.Debug("opacity out of range", "opacity", opacity)
		return false
	}
	e.style.Opacity = opacity

	sel := e.store.Selection()
	if len(sel) == 0 {
		return false
	}
	patches := make([]annotation.Patch, len(sel))
	for k := range patches {
		patches[k] = annotation.Patch{Opacity: annotation.Float(opacity)}
	}
	return e.store.UpdateMany(sel, patches)
}

// LoadAnnotations replaces all shapes, clears the history and cancels any
// shape in progress.
func (e *Engine) LoadAnnotations(shapes []annotation.Annotation) {
	e.Cancel()
	e.store.Load(shapes)
}

// LoadAnnotationsJSON is LoadAnnotations for a JSON array.
func (e *Engine) LoadAnnotationsJSON(data []byte) error {
	var shapes []annotation.Annotation
	if err := json.Unmarshal(data, &shapes); err != nil {
		return err
	}
	e.LoadAnnotations(shapes)
	return nil
}

// LoadSample loads the built-in sample set together with its image size.
func (e *Engine) LoadSample() {
	e.SetImageSize(annotation.SampleWidth, annotation.SampleHeight)
	e.LoadAnnotations(annotation.NewSampleSet())
}

func (e *Engine) Undo() bool {
	e.abortGesture()
	return e.store.Undo()
}

func (e *Engine) Redo() bool {
	e.abortGesture()
	return e.store.Redo()
}

// Select replaces the selection with indices.
func (e *Engine) Select(indices []int) {
	e.store.SelectMany(indices, selection.Replace)
}

// --- Queries (engine → host) ---

func (e *Engine) Tool() drawing.Tool { return e.tool }

// Viewport returns the current device transform.
func (e *Engine) Viewport() input.Viewport {
	return input.Viewport{Scale: e.scale, Pan: e.store.ViewOffset()}
}

// Shapes returns a copy of the shape list.
func (e *Engine) Shapes() []annotation.Annotation {
	return e.store.Shapes()
}

// Selection returns the selected indices, primary first.
func (e *Engine) Selection() []int {
	return e.store.Selection()
}

// Drawing reports whether a shape is in progress.
func (e *Engine) Drawing() bool {
	return e.session.State() == drawing.Drawing
}

// Labels returns the label registry entries.
func (e *Engine) Labels() []labels.Label {
	return e.labels.Labels()
}

// State is a summary of the engine for hosts that poll.
type State struct {
	Tool      drawing.Tool            `json:"tool"`
	Cursor    input.CursorHint        `json:"cursor"`
	Viewport  input.Viewport          `json:"viewport"`
	Shapes    []annotation.Annotation `json:"shapes"`
	Selection []int                   `json:"selection"`
	Drawing   bool                    `json:"drawing"`
	CanUndo   bool                    `json:"canUndo"`
	CanRedo   bool                    `json:"canRedo"`
}

func (e *Engine) State() State {
	shapes := e.store.Shapes()
	if shapes == nil {
		shapes = []annotation.Annotation{}
	}
	sel := e.store.Selection()
	if sel == nil {
		sel = []int{}
	}
	return State{
		Tool:      e.tool,
		Cursor:    e.Cursor(),
		Viewport:  e.Viewport(),
		Shapes:    shapes,
		Selection: sel,
		Drawing:   e.Drawing(),
		CanUndo:   e.store.CanUndo(),
		CanRedo:   e.store.CanRedo(),
	}
}

// ShapesJSON returns the shape list as a JSON array.
func (e *Engine) ShapesJSON() string {
	shapes := e.store.Shapes()
	if shapes == nil {
		shapes = []annotation.Annotation{}
	}
	data, _ := json.Marshal(shapes)
	return string(data)
}

// commit clips a finished shape, drops it when the clipped result is too
// small, and otherwise adds and selects it.
func (e *Engine) commit(a annotation.Annotation) bool {
	w, h, ok := e.store.Bounds()
	if !ok {
		slog.Debug("shape dropped, image bounds unknown", "kind", a.Kind)
		return false
	}
	if a.Color == "" {
		a.Color = e.labels.ColorFor(a.Label)
	}
	clipped, ok := annotation.ClipToBoundary(a, w, h)
	if !ok || !annotation.MeetsMinimumSize(clipped, e.opts.Drawing.MinShapeSize) {
		slog.Debug("shape dropped after clipping", "kind", a.Kind)
		return false
	}
	i, ok := e.store.Add(clipped)
	if !ok {
		return false
	}
	e.store.Select(i)
	return true
}

// finished commits the result of a session call that may have finished a
// shape.
func (e *Engine) finished(a annotation.Annotation, done bool) bool {
	if !done {
		return false
	}
	return e.commit(a)
}

func (e *Engine) toImage(p geometry.Point) geometry.Point {
	return e.Viewport().ToImage(p)
}

func (e *Engine) imageRadius(px float64) float64 {
	return e.Viewport().ImageDistance(px)
}
