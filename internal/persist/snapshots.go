package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/typeid"
)

var ErrNotFound = errors.New("snapshot not found")

// DB is the subset of pgxpool.Pool the snapshot store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Snapshot struct {
	ID        string                  `json:"id"`
	ImageID   string                  `json:"imageId"`
	Version   int32                   `json:"version"`
	Shapes    []annotation.Annotation `json:"shapes"`
	CreatedAt time.Time               `json:"createdAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS annotation_snapshots (
	id         TEXT PRIMARY KEY,
	image_id   TEXT NOT NULL,
	version    INTEGER NOT NULL,
	shapes     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (image_id, version)
)`

const insertSnapshot = `
INSERT INTO annotation_snapshots (id, image_id, version, shapes)
VALUES ($1, $2,
	(SELECT COALESCE(MAX(version), 0) + 1 FROM annotation_snapshots WHERE image_id = $2),
	$3)
RETURNING version, created_at`

const latestSnapshot = `
SELECT id, image_id, version, shapes, created_at
FROM annotation_snapshots
WHERE image_id = $1
ORDER BY version DESC
LIMIT 1`

type SnapshotStore struct {
	db DB
}

func NewSnapshotStore(db DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

// Save writes shapes as the next version for imageID.
func (s *SnapshotStore) Save(ctx context.Context, imageID string, shapes []annotation.Annotation) (Snapshot, error) {
	if shapes == nil {
		shapes = []annotation.Annotation{}
	}
	data, err := json.Marshal(shapes)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode shapes: %w", err)
	}

	snap := Snapshot{
		ID:      typeid.NewSnapshotID(),
		ImageID: imageID,
		Shapes:  shapes,
	}
	err = s.db.QueryRow(ctx, insertSnapshot, snap.ID, imageID, data).Scan(&snap.Version, &snap.CreatedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// Latest returns the highest version stored for imageID.
func (s *SnapshotStore) Latest(ctx context.Context, imageID string) (Snapshot, error) {
	var (
		snap Snapshot
		data []byte
	)
	err := s.db.QueryRow(ctx, latestSnapshot, imageID).Scan(&snap.ID, &snap.ImageID, &snap.Version, &data, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap.Shapes); err != nil {
		return Snapshot{}, fmt.Errorf("decode shapes: %w", err)
	}
	return snap, nil
}
