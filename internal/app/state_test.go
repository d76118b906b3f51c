package app

import (
	"testing"

	"cube-roi-editor/internal/prediction"
	"cube-roi-editor/internal/roi"
	"cube-roi-editor/pkg/geometry"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState()
	if s.ActiveCamera() != "0" {
		t.Errorf("active camera = %q, want 0", s.ActiveCamera())
	}
	if s.Drag.Active() {
		t.Error("fresh state has a drag session")
	}
}

func TestSetActiveCamera(t *testing.T) {
	s := NewState()
	s.ApplyROIConfig(roi.DefaultConfig())
	before := s.ROIs.Get("0")

	var events []string
	s.On(EventActiveCameraChanged, func(data interface{}) {
		events = append(events, data.(string))
	})

	s.SetActiveCamera("1")
	if s.ActiveCamera() != "1" {
		t.Errorf("active camera = %q, want 1", s.ActiveCamera())
	}
	if len(events) != 1 || events[0] != "1" {
		t.Errorf("events = %v, want [1]", events)
	}

	// Switching cameras must not alter any geometry.
	after := s.ROIs.Get("0")
	for i := range after {
		if after[i] != before[i] {
			t.Fatalf("ROI %d changed by a camera switch", i)
		}
	}

	// No event for a no-op switch or an unknown camera.
	s.SetActiveCamera("1")
	s.SetActiveCamera("7")
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
	if s.ActiveCamera() != "1" {
		t.Errorf("unknown camera accepted: %q", s.ActiveCamera())
	}
}

func TestSetActiveCamera_DropsDragOnPreviousCamera(t *testing.T) {
	s := NewState()
	s.ApplyROIConfig(roi.DefaultConfig())
	if !s.Drag.Begin("0", 0, 0, 0, 0, 100, 100) {
		t.Fatal("Begin failed")
	}

	s.SetActiveCamera("1")
	if s.Drag.Active() {
		t.Error("drag session survived the active-camera switch")
	}
}

func TestApplyROIConfig_ValidatesAndEmits(t *testing.T) {
	s := NewState()
	fired := 0
	s.On(EventROIsReplaced, func(interface{}) { fired++ })

	// A truncated layout falls back to defaults rather than corrupting the
	// model.
	s.ApplyROIConfig(map[string][]roi.ROI{
		"0": {{ID: "broken", Face: "U", Rect: geometry.NewRect(2, 2, 9, 9)}},
	})

	if fired != 1 {
		t.Errorf("EventROIsReplaced fired %d times, want 1", fired)
	}
	if got := s.ROIs.Len("0"); got != 27 {
		t.Errorf("camera 0 has %d ROIs, want 27", got)
	}
	if got := s.ROIs.Len("1"); got != 27 {
		t.Errorf("camera 1 has %d ROIs, want 27", got)
	}
}

func TestApplyDetections(t *testing.T) {
	s := NewState()
	fired := 0
	s.On(EventPredictionsReplaced, func(interface{}) { fired++ })

	s.ApplyDetections(map[string][]prediction.Prediction{
		"0": {{ID: "0-U-0", Label: "W-0.92"}},
	})

	if fired != 1 {
		t.Errorf("EventPredictionsReplaced fired %d times, want 1", fired)
	}
	if got := s.Predictions.Text("0", "0-U-0"); got != "W-0.92" {
		t.Errorf("prediction text = %q, want W-0.92", got)
	}
}

func TestStatusEvent(t *testing.T) {
	s := NewState()
	var got string
	s.On(EventStatus, func(data interface{}) { got = data.(string) })
	s.Status("detection complete")
	if got != "detection complete" {
		t.Errorf("status = %q", got)
	}
}
