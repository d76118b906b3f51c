package roi

import (
	"testing"

	"cube-roi-editor/pkg/geometry"
)

func TestDefaultLayout(t *testing.T) {
	for _, cameraID := range CameraIDs {
		rois := DefaultLayout(cameraID)
		if len(rois) != 27 {
			t.Fatalf("camera %s: got %d ROIs, want 27", cameraID, len(rois))
		}

		seen := make(map[string]bool)
		for _, r := range rois {
			if seen[r.ID] {
				t.Errorf("camera %s: duplicate id %q", cameraID, r.ID)
			}
			seen[r.ID] = true

			if !r.InUnitSquare() {
				t.Errorf("camera %s: %q outside the unit square: %+v", cameraID, r.ID, r.Rect)
			}
			if r.W < geometry.MinSize || r.H < geometry.MinSize {
				t.Errorf("camera %s: %q below minimum size: %+v", cameraID, r.ID, r.Rect)
			}
			if r.Index < 0 || r.Index > 8 {
				t.Errorf("camera %s: %q index %d out of range", cameraID, r.ID, r.Index)
			}
		}

		wantFaces := CameraFaces[cameraID]
		counts := make(map[string]int)
		for _, r := range rois {
			counts[r.Face]++
		}
		for _, face := range wantFaces {
			if counts[face] != 9 {
				t.Errorf("camera %s: face %s has %d stickers, want 9", cameraID, face, counts[face])
			}
		}
	}
}

func TestROI_Label(t *testing.T) {
	cases := []struct {
		face  string
		index int
		want  string
	}{
		{"U", 4, "W5"},
		{"F", 0, "B1"},
		{"R", 8, "G9"},
		{"D", 0, "O1"},
		{"B", 2, "Y3"},
		{"L", 6, "R7"},
	}
	for _, c := range cases {
		r := ROI{Face: c.face, Index: c.index}
		if got := r.Label(); got != c.want {
			t.Errorf("Label(%s, %d) = %q, want %q", c.face, c.index, got, c.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(ROI{
		ID:    "0-U-0",
		Face:  "X",
		Index: 42,
		Rect:  geometry.NewRect(1.5, -0.3, 0.001, 0.9),
	})
	if got.Face != "U" {
		t.Errorf("unknown face normalized to %q, want U", got.Face)
	}
	if got.Index != 8 {
		t.Errorf("index clamped to %d, want 8", got.Index)
	}
	if got.W != geometry.MinSize {
		t.Errorf("w = %v, want floor %v", got.W, geometry.MinSize)
	}
	if got.H != maxSize {
		t.Errorf("h = %v, want cap %v", got.H, maxSize)
	}
	if !got.InUnitSquare() {
		t.Errorf("normalized ROI outside unit square: %+v", got.Rect)
	}
}

func TestNormalize_PullsBoxInside(t *testing.T) {
	got := Normalize(ROI{ID: "a", Face: "F", Rect: geometry.NewRect(0.95, 0.95, 0.2, 0.2)})
	if got.X+got.W > 1.0 || got.Y+got.H > 1.0 {
		t.Errorf("box still crosses the unit square: %+v", got.Rect)
	}
	if got.W != 0.2 || got.H != 0.2 {
		t.Errorf("size changed by pull-in: %+v", got.Rect)
	}
}

func TestNormalize_DefaultID(t *testing.T) {
	got := Normalize(ROI{Face: "D", Index: 3, Rect: geometry.NewRect(0.1, 0.1, 0.1, 0.1)})
	if got.ID != "D3" {
		t.Errorf("id = %q, want D3", got.ID)
	}
}

func TestValidateCamera_WrongCountFallsBack(t *testing.T) {
	got := ValidateCamera("0", []ROI{{ID: "only-one"}})
	if len(got) != 27 {
		t.Fatalf("got %d ROIs, want default 27", len(got))
	}
	if got[0].ID == "only-one" {
		t.Error("partial layout was kept, want defaults")
	}
}

func TestValidateConfig_FillsMissingCameras(t *testing.T) {
	got := ValidateConfig(map[string][]ROI{})
	for _, id := range CameraIDs {
		if len(got[id]) != 27 {
			t.Errorf("camera %s: got %d ROIs, want 27", id, len(got[id]))
		}
	}
}
