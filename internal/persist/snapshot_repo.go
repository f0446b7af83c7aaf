package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jackc/pgx/v5"
)

var ErrNoSnapshot = errors.New("no snapshot")

// ActorState is one actor row of a snapshot.
type ActorState struct {
	ID          string
	Kind        string
	Status      actor.StatusType
	Translation mgl64.Vec3
	Rotation    mgl64.Vec3
	Scale       mgl64.Vec3
	Alpha       float64
}

// Capture copies the persisted fields of each actor, in order.
func Capture(actors []*actor.Actor) []ActorState {
	out := make([]ActorState, 0, len(actors))
	for _, a := range actors {
		out = append(out, ActorState{
			ID:          a.ID(),
			Kind:        a.Kind().String(),
			Status:      a.Status(),
			Translation: a.Transform.Translation(),
			Rotation:    a.Transform.Rotation(),
			Scale:       a.Transform.Scale(),
			Alpha:       a.Appearance.Alpha,
		})
	}
	return out
}

// Apply restores transform, status and alpha onto actors whose ids match.
// Returns the number of actors restored.
func Apply(states []ActorState, find func(id string) (*actor.Actor, bool)) int {
	n := 0
	for _, s := range states {
		a, ok := find(s.ID)
		if !ok {
			continue
		}
		a.SetStatus(s.Status)
		a.Transform.SetTranslation(s.Translation)
		a.Transform.SetRotation(s.Rotation)
		a.Transform.SetScale(s.Scale)
		a.Appearance.Alpha = s.Alpha
		n++
	}
	return n
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save writes a snapshot header and all actor rows in a single transaction
// and returns the snapshot id.
func (r *SnapshotRepo) Save(ctx context.Context, scene string, frame uint64, states []ActorState) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO scene_snapshots (scene, frame) VALUES ($1, $2) RETURNING id`,
		scene, int64(frame),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("snapshot insert: %w", err)
	}

	batch := &pgx.Batch{}
	for i, s := range states {
		batch.Queue(
			`INSERT INTO snapshot_actors (snapshot_id, seq, actor_id, kind, status, translation, rotation, scale, alpha)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, i, s.ID, s.Kind, int16(s.Status),
			s.Translation[:], s.Rotation[:], s.Scale[:], s.Alpha,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("snapshot actors: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("snapshot commit: %w", err)
	}
	return id, nil
}

// Latest returns the newest snapshot of scene, or ErrNoSnapshot.
func (r *SnapshotRepo) Latest(ctx context.Context, scene string) (int64, []ActorState, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id FROM scene_snapshots WHERE scene = $1 ORDER BY id DESC LIMIT 1`, scene,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, ErrNoSnapshot
	}
	if err != nil {
		return 0, nil, err
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT actor_id, kind, status, translation, rotation, scale, alpha
		 FROM snapshot_actors WHERE snapshot_id = $1 ORDER BY seq`, id,
	)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var result []ActorState
	for rows.Next() {
		var (
			s          ActorState
			status     int16
			tr, ro, sc []float64
		)
		if err := rows.Scan(&s.ID, &s.Kind, &status, &tr, &ro, &sc, &s.Alpha); err != nil {
			return 0, nil, err
		}
		s.Status = actor.StatusType(status)
		copy(s.Translation[:], tr)
		copy(s.Rotation[:], ro)
		copy(s.Scale[:], sc)
		result = append(result, s)
	}
	return id, result, rows.Err()
}

// Prune deletes all but the newest keep snapshots of scene.
func (r *SnapshotRepo) Prune(ctx context.Context, scene string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM scene_snapshots WHERE scene = $1 AND id NOT IN (
		   SELECT id FROM scene_snapshots WHERE scene = $1 ORDER BY id DESC LIMIT $2)`,
		scene, keep,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
