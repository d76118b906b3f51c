// Package drag converts pointer input into move/resize mutations on a
// single ROI. It is a two-state machine, idle or dragging, with typed
// inputs (Begin, Move, End) so it stays independent of any UI toolkit's
// event dispatch.
package drag

import (
	"sync"

	"cube-roi-editor/internal/roi"
	"cube-roi-editor/pkg/geometry"
)

// Mode selects what a drag changes: position or size.
type Mode int

const (
	ModeMove Mode = iota
	ModeResize
)

func (m Mode) String() string {
	if m == ModeResize {
		return "resize"
	}
	return "move"
}

// Session describes one active interaction. The geometry snapshot is a
// copy, not a reference: every Move recomputes from it, so coalesced or
// out-of-order pointer events resolve last-write-wins. The surface bounds
// are captured once at pointer-down; layout must be stable during a drag.
type Session struct {
	Camera   string
	Index    int
	Mode     Mode
	OriginX  float64
	OriginY  float64
	Start    geometry.Rect
	SurfaceW float64
	SurfaceH float64

	generation uint64
}

// Controller owns the at-most-one drag session and applies its mutations
// to the ROI store. All methods are pointer-event-turn sized; none block.
// Pointer events arrive on the UI event loop while invalidations can come
// from a network completion, so the session is mutex-guarded.
type Controller struct {
	mu      sync.Mutex
	store   *roi.Store
	session *Session
}

// NewController creates an idle controller backed by the given store.
func NewController(store *roi.Store) *Controller {
	return &Controller{store: store}
}

// Active reports whether a drag session exists.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Session returns a copy of the current session, if any.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Begin starts a drag session for the ROI at (cameraID, index). A session
// already in flight is replaced atomically; the platform serializes
// pointer-downs, but a replaced session must not leave anything behind.
// Returns false if the ROI does not exist or the surface is degenerate.
func (c *Controller) Begin(cameraID string, index int, mode Mode, px, py, surfaceW, surfaceH float64) bool {
	if surfaceW <= 0 || surfaceH <= 0 {
		return false
	}
	target, ok := c.store.At(cameraID, index)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &Session{
		Camera:     cameraID,
		Index:      index,
		Mode:       mode,
		OriginX:    px,
		OriginY:    py,
		Start:      target.Rect,
		SurfaceW:   surfaceW,
		SurfaceH:   surfaceH,
		generation: c.store.Generation(cameraID),
	}
	return true
}

// Move applies the current pointer position to the dragged ROI and returns
// the resulting geometry. The target is re-resolved by (camera, index) on
// every call; if the camera's collection was replaced wholesale since
// pointer-down the session is invalidated and no mutation happens.
func (c *Controller) Move(px, py float64) (geometry.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return geometry.Rect{}, false
	}
	if c.store.Generation(s.Camera) != s.generation {
		c.session = nil
		return geometry.Rect{}, false
	}

	dx := (px - s.OriginX) / s.SurfaceW
	dy := (py - s.OriginY) / s.SurfaceH

	var updated geometry.Rect
	ok := c.store.Mutate(s.Camera, s.Index, func(r *roi.ROI) {
		switch s.Mode {
		case ModeResize:
			// Top-left corner stays fixed; size honors the floor and the
			// unit square.
			r.W = geometry.Clamp(s.Start.W+dx, geometry.MinSize, 1-r.X)
			r.H = geometry.Clamp(s.Start.H+dy, geometry.MinSize, 1-r.Y)
		default:
			// Size stays fixed; position confined so the box never exits
			// the unit square.
			r.X = geometry.Clamp(s.Start.X+dx, 0, 1-r.W)
			r.Y = geometry.Clamp(s.Start.Y+dy, 0, 1-r.H)
		}
		updated = r.Rect
	})
	if !ok {
		c.session = nil
		return geometry.Rect{}, false
	}
	return updated, true
}

// End terminates the session. Safe to call when idle; pointer-up can
// arrive anywhere, including after an invalidation.
func (c *Controller) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}

// Invalidate drops the session if it targets the given camera. Called when
// a wholesale replace lands while a drag is in flight.
func (c *Controller) Invalidate(cameraID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.Camera == cameraID {
		c.session = nil
	}
}
