package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/typeid"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d values, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *int32:
			*p = r.values[i].(int32)
		case *[]byte:
			*p = r.values[i].([]byte)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

type fakeDB struct {
	execs   []string
	queries []string
	args    [][]any
	row     fakeRow
}

func (db *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.queries = append(db.queries, sql)
	db.args = append(db.args, args)
	return db.row
}

func sampleShapes() []annotation.Annotation {
	box := annotation.NewBBox(10, 10, 40, 30)
	box.Label = "car"
	box.Color = "#00ff00"
	return []annotation.Annotation{box}
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewSnapshotStore(db).EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "annotation_snapshots")
}

func TestSaveAssignsSnapshotID(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{int32(3), created}}}

	snap, err := NewSnapshotStore(db).Save(context.Background(), "img_x", sampleShapes())
	require.NoError(t, err)
	assert.NoError(t, typeid.Validate(snap.ID, typeid.PrefixSnapshot))
	assert.Equal(t, int32(3), snap.Version)
	assert.Equal(t, created, snap.CreatedAt)

	require.Len(t, db.args, 1)
	assert.Equal(t, "img_x", db.args[0][1])
	var stored []annotation.Annotation
	require.NoError(t, json.Unmarshal(db.args[0][2].([]byte), &stored))
	assert.Equal(t, sampleShapes(), stored)
}

func TestSaveEncodesEmptyList(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{int32(1), time.Now()}}}
	_, err := NewSnapshotStore(db).Save(context.Background(), "img_x", nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(db.args[0][2].([]byte)))
}

func TestLatest(t *testing.T) {
	data, err := json.Marshal(sampleShapes())
	require.NoError(t, err)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{"snap_1", "img_x", int32(7), data, created}}}

	snap, err := NewSnapshotStore(db).Latest(context.Background(), "img_x")
	require.NoError(t, err)
	assert.Equal(t, int32(7), snap.Version)
	assert.Equal(t, sampleShapes(), snap.Shapes)
}

func TestLatestNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	_, err := NewSnapshotStore(db).Latest(context.Background(), "img_x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestWrapsOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	db := &fakeDB{row: fakeRow{err: boom}}
	_, err := NewSnapshotStore(db).Latest(context.Background(), "img_x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

type recordingSaver struct {
	mu      sync.Mutex
	calls   []savedCall
	entered chan struct{}
	release chan struct{}
}

type savedCall struct {
	imageID string
	shapes  []annotation.Annotation
}

func (s *recordingSaver) Save(_ context.Context, imageID string, shapes []annotation.Annotation) (Snapshot, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, savedCall{imageID, shapes})
	return Snapshot{ImageID: imageID, Version: int32(len(s.calls))}, nil
}

func (s *recordingSaver) snapshot() []savedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]savedCall(nil), s.calls...)
}

func shapesWithLabel(label string) []annotation.Annotation {
	box := annotation.NewBBox(0, 0, 10, 10)
	box.Label = label
	return []annotation.Annotation{box}
}

func TestAsyncSinkCoalescesWhileSaving(t *testing.T) {
	saver := &recordingSaver{entered: make(chan struct{}), release: make(chan struct{})}
	sink := NewAsyncSink(saver, time.Second)

	sink.Enqueue("img_a", shapesWithLabel("v1"))
	<-saver.entered

	sink.Enqueue("img_a", shapesWithLabel("v2"))
	sink.Enqueue("img_a", shapesWithLabel("v3"))
	sink.Enqueue("img_a", shapesWithLabel("v4"))

	go func() {
		for range saver.entered {
		}
	}()
	saver.release <- struct{}{}
	saver.release <- struct{}{}
	sink.Stop()
	close(saver.entered)

	calls := saver.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "v1", calls[0].shapes[0].Label)
	assert.Equal(t, "v4", calls[1].shapes[0].Label)
}

func TestAsyncSinkStopFlushesEveryImage(t *testing.T) {
	saver := &recordingSaver{}
	sink := NewAsyncSink(saver, time.Second)

	sink.For("img_a").AnnotationsChanged(shapesWithLabel("a"))
	sink.For("img_b").AnnotationsChanged(shapesWithLabel("b"))
	sink.Stop()

	got := map[string]string{}
	for _, c := range saver.snapshot() {
		got[c.imageID] = c.shapes[0].Label
	}
	assert.Equal(t, map[string]string{"img_a": "a", "img_b": "b"}, got)
}

func TestAsyncSinkIgnoresAfterStop(t *testing.T) {
	saver := &recordingSaver{}
	sink := NewAsyncSink(saver, time.Second)
	sink.Stop()
	sink.Enqueue("img_a", shapesWithLabel("late"))
	sink.Stop()
	assert.Empty(t, saver.snapshot())
}

type stubLoader struct {
	snap Snapshot
	err  error
}

func (l stubLoader) Latest(context.Context, string) (Snapshot, error) {
	return l.snap, l.err
}

func TestHandlerLatest(t *testing.T) {
	imageID := typeid.NewImageID()
	cases := []struct {
		name    string
		imageID string
		loader  stubLoader
		status  int
		body    string
	}{
		{"found", imageID, stubLoader{snap: Snapshot{ImageID: imageID, Version: 2, Shapes: sampleShapes()}}, http.StatusOK, `"version":2`},
		{"missing", imageID, stubLoader{err: ErrNotFound}, http.StatusNotFound, "not found"},
		{"failure", imageID, stubLoader{err: errors.New("db down")}, http.StatusInternalServerError, "internal error"},
		{"bad id", "nope", stubLoader{}, http.StatusBadRequest, "invalid image id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/images/"+tc.imageID+"/annotations/latest", nil)
			req = mux.SetURLVars(req, map[string]string{"imageId": tc.imageID})
			rec := httptest.NewRecorder()

			NewHandler(tc.loader).Latest(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), tc.body), rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
