package system

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/manager"
	coresys "github.com/gdlib/gdengine/internal/core/system"
)

// CleanupSystem applies the add/remove requests deferred during the frame.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	objects *manager.ObjectManager
	cameras *manager.CameraManager
}

func NewCleanupSystem(objects *manager.ObjectManager, cameras *manager.CameraManager) *CleanupSystem {
	return &CleanupSystem{objects: objects, cameras: cameras}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.objects.Flush()
	s.cameras.Flush()
}
