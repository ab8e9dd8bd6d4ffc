package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geometry"
)

func entry(n int) Entry {
	shapes := make([]annotation.Annotation, n)
	for i := range shapes {
		shapes[i] = annotation.NewBBox(float64(i), 0, 10, 10)
	}
	return Entry{Shapes: shapes, ViewOffset: geometry.Pt(float64(n), 0)}
}

func TestUndoRedo(t *testing.T) {
	h := New(0)
	_, ok := h.Undo(entry(0))
	assert.False(t, ok)

	h.Record(entry(0))
	h.Record(entry(1))

	prev, ok := h.Undo(entry(2))
	require.True(t, ok)
	assert.Len(t, prev.Shapes, 1)
	assert.True(t, h.CanRedo())

	next, ok := h.Redo(prev)
	require.True(t, ok)
	assert.Equal(t, entry(2), next)

	h.Undo(next)
	h.Record(entry(5))
	assert.False(t, h.CanRedo(), "new mutation clears redo")
	undo, redo := h.Depth()
	assert.Equal(t, 2, undo)
	assert.Equal(t, 0, redo)
}

func TestRecordCopiesAndLimits(t *testing.T) {
	h := New(2)
	e := entry(1)
	h.Record(e)
	e.Shapes[0].X = 99

	h.Record(entry(2))
	h.Record(entry(3))
	undo, _ := h.Depth()
	assert.Equal(t, 2, undo)

	got, _ := h.Undo(entry(4))
	assert.Len(t, got.Shapes, 3)
	got, _ = h.Undo(got)
	assert.Len(t, got.Shapes, 2)
	_, ok := h.Undo(got)
	assert.False(t, ok)

	h.Reset()
	assert.False(t, h.CanUndo())
}
