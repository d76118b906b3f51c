package roi

import "sync"

// Store is the single source of truth for ROI geometry, keyed by camera.
// Collections are ordered; order is the render z-order and is stable across
// renders. Drag interactions mutate one ROI in place, load/reset flows
// replace a camera's collection wholesale.
//
// Each camera carries a generation counter, bumped on every wholesale
// replace. A drag session snapshots the generation at pointer-down so a
// replace that races with the drag invalidates the session instead of
// mutating the fresh collection.
type Store struct {
	mu       sync.RWMutex
	byCamera map[string][]ROI
	gen      map[string]uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byCamera: make(map[string][]ROI),
		gen:      make(map[string]uint64),
	}
}

// Get returns a copy of the camera's ordered ROI collection, empty if the
// camera is unknown.
func (s *Store) Get(cameraID string) []ROI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rois := s.byCamera[cameraID]
	out := make([]ROI, len(rois))
	copy(out, rois)
	return out
}

// At returns the ROI at position i in the camera's collection.
func (s *Store) At(cameraID string, i int) (ROI, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rois := s.byCamera[cameraID]
	if i < 0 || i >= len(rois) {
		return ROI{}, false
	}
	return rois[i], true
}

// Len returns the number of ROIs for the camera.
func (s *Store) Len(cameraID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCamera[cameraID])
}

// ReplaceAll swaps the camera's collection wholesale and bumps its
// generation. The slice is copied; the caller keeps ownership of its own.
func (s *Store) ReplaceAll(cameraID string, rois []ROI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	replacement := make([]ROI, len(rois))
	copy(replacement, rois)
	s.byCamera[cameraID] = replacement
	s.gen[cameraID]++
}

// ReplaceConfig replaces every camera present in cfg.
func (s *Store) ReplaceConfig(cfg map[string][]ROI) {
	for cameraID, rois := range cfg {
		s.ReplaceAll(cameraID, rois)
	}
}

// Mutate applies fn to exactly one ROI in place. Geometry clamping is the
// caller's responsibility; the store only guards indices.
func (s *Store) Mutate(cameraID string, i int, fn func(*ROI)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rois := s.byCamera[cameraID]
	if i < 0 || i >= len(rois) {
		return false
	}
	fn(&rois[i])
	return true
}

// Generation returns the camera's replace counter.
func (s *Store) Generation(cameraID string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen[cameraID]
}

// Snapshot returns a deep copy of the whole configuration, in the shape the
// backend's save endpoint expects.
func (s *Store) Snapshot() map[string][]ROI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]ROI, len(s.byCamera))
	for cameraID, rois := range s.byCamera {
		cp := make([]ROI, len(rois))
		copy(cp, rois)
		out[cameraID] = cp
	}
	return out
}
