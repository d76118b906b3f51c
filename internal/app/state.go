// Package app holds the application state and its event bus. There are no
// ambient globals: the active camera, the ROI store, the prediction cache
// and the drag controller live on one State object that the renderer and
// the interaction handlers share.
package app

import (
	"sync"

	"cube-roi-editor/internal/drag"
	"cube-roi-editor/internal/prediction"
	"cube-roi-editor/internal/roi"
)

// EventType identifies application events.
type EventType int

const (
	EventROIsReplaced EventType = iota
	EventPredictionsReplaced
	EventActiveCameraChanged
	EventCubeStateCaptured
	EventStatus
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State is the application state. All mutation happens on discrete
// pointer or network callback turns; listeners run synchronously on the
// emitting turn.
type State struct {
	mu sync.RWMutex

	ROIs        *roi.Store
	Predictions *prediction.Cache
	Drag        *drag.Controller

	activeCamera string
	listeners    map[EventType][]EventListener
}

// NewState creates the initial state: empty model, camera "0" active.
func NewState() *State {
	store := roi.NewStore()
	return &State{
		ROIs:         store,
		Predictions:  prediction.NewCache(),
		Drag:         drag.NewController(store),
		activeCamera: roi.CameraIDs[0],
		listeners:    make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// ActiveCamera returns the camera currently editable by the user.
func (s *State) ActiveCamera() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCamera
}

// IsActive reports whether the camera is the active one.
func (s *State) IsActive(cameraID string) bool {
	return s.ActiveCamera() == cameraID
}

// SetActiveCamera switches the editable camera. The other camera's overlay
// becomes read-only immediately; no ROI geometry changes. A drag in flight
// on the previously active camera is dropped.
func (s *State) SetActiveCamera(cameraID string) {
	if !roi.ValidCamera(cameraID) {
		return
	}
	s.mu.Lock()
	if s.activeCamera == cameraID {
		s.mu.Unlock()
		return
	}
	prev := s.activeCamera
	s.activeCamera = cameraID
	s.mu.Unlock()

	s.Drag.Invalidate(prev)
	s.Emit(EventActiveCameraChanged, cameraID)
}

// ApplyROIConfig validates a server-issued layout and replaces the model
// wholesale. Any drag in flight on a replaced camera is invalidated via
// the store generation; listeners re-render both overlays.
func (s *State) ApplyROIConfig(cfg map[string][]roi.ROI) {
	s.ROIs.ReplaceConfig(roi.ValidateConfig(cfg))
	s.Emit(EventROIsReplaced, nil)
}

// ApplyDetections replaces the prediction cache with a detection response.
func (s *State) ApplyDetections(cameras map[string][]prediction.Prediction) {
	s.Predictions.ReplaceAll(cameras)
	s.Emit(EventPredictionsReplaced, nil)
}

// Status publishes a user-visible status message.
func (s *State) Status(message string) {
	s.Emit(EventStatus, message)
}
