package system

import (
	"context"
	"time"

	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	coresys "github.com/gdlib/gdengine/internal/core/system"
	"github.com/gdlib/gdengine/internal/persist"
	"go.uber.org/zap"
)

// SnapshotStore is where snapshots go.
type SnapshotStore interface {
	Save(ctx context.Context, scene string, frame uint64, states []persist.ActorState) (int64, error)
	Prune(ctx context.Context, scene string, keep int) (int64, error)
}

// PersistenceSystem writes a scene snapshot when Debug/OnSave was drained
// this frame. Phase 4 (Persist).
type PersistenceSystem struct {
	objects *manager.ObjectManager
	store   SnapshotStore
	scene   string
	frame   func() uint64
	timeout time.Duration
	keep    int
	log     *zap.Logger

	requested bool
	saved     int
}

func NewPersistenceSystem(objects *manager.ObjectManager, store SnapshotStore, scene string, frame func() uint64, timeout time.Duration, keep int, d *event.Dispatcher, log *zap.Logger) *PersistenceSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &PersistenceSystem{
		objects: objects,
		store:   store,
		scene:   scene,
		frame:   frame,
		timeout: timeout,
		keep:    keep,
		log:     log,
	}
	d.Subscribe(event.CategoryDebug, func(e event.Data) {
		if e.Action == event.OnSave {
			s.requested = true
		}
	})
	return s
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	if !s.requested {
		return
	}
	s.requested = false
	s.Save()
}

// Save writes a snapshot immediately. Called for graceful shutdown as well.
func (s *PersistenceSystem) Save() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	states := persist.Capture(s.objects.Actors())
	id, err := s.store.Save(ctx, s.scene, s.frame(), states)
	if err != nil {
		s.log.Error("snapshot save failed", zap.String("scene", s.scene), zap.Error(err))
		return
	}
	s.saved++
	s.log.Info("snapshot saved",
		zap.String("scene", s.scene),
		zap.Int64("snapshot", id),
		zap.Int("actors", len(states)))

	if s.keep > 0 {
		if n, err := s.store.Prune(ctx, s.scene, s.keep); err != nil {
			s.log.Warn("snapshot prune failed", zap.Error(err))
		} else if n > 0 {
			s.log.Debug("snapshots pruned", zap.Int64("count", n))
		}
	}
}

// Saved returns the number of successful saves.
func (s *PersistenceSystem) Saved() int { return s.saved }
