package overlay

import (
	"reflect"
	"testing"

	"cube-roi-editor/internal/prediction"
	"cube-roi-editor/internal/roi"
	"cube-roi-editor/pkg/geometry"
)

func testROIs() []roi.ROI {
	return []roi.ROI{
		{ID: "0-U-0", Face: "U", Index: 0, Rect: geometry.NewRect(0.1, 0.1, 0.2, 0.2)},
		{ID: "0-U-4", Face: "U", Index: 4, Rect: geometry.NewRect(0.25, 0.25, 0.2, 0.2)},
	}
}

func TestBuild_IsIdempotent(t *testing.T) {
	preds := prediction.NewCache()
	preds.ReplaceAll(map[string][]prediction.Prediction{
		"0": {{ID: "0-U-0", Label: "W-0.92"}},
	})

	first := Build(testROIs(), preds, "0", true, 640, 480)
	second := Build(testROIs(), preds, "0", true, 640, 480)
	if !reflect.DeepEqual(first, second) {
		t.Error("two renders of the same state differ")
	}
}

func TestBuild_LabelsAndPredictions(t *testing.T) {
	preds := prediction.NewCache()
	preds.ReplaceAll(map[string][]prediction.Prediction{
		"0": {{ID: "0-U-0", Label: "W-0.92"}},
	})

	boxes := Build(testROIs(), preds, "0", true, 640, 480)
	if boxes[0].Name != "W1" {
		t.Errorf("box 0 name = %q, want W1", boxes[0].Name)
	}
	if boxes[0].Pred != "W-0.92" {
		t.Errorf("box 0 prediction = %q, want W-0.92", boxes[0].Pred)
	}
	// No cached prediction for 0-U-4: placeholder.
	if boxes[1].Name != "W5" {
		t.Errorf("box 1 name = %q, want W5", boxes[1].Name)
	}
	if boxes[1].Pred != prediction.Placeholder {
		t.Errorf("box 1 prediction = %q, want %q", boxes[1].Pred, prediction.Placeholder)
	}
}

func TestBuild_PixelProjection(t *testing.T) {
	boxes := Build(testROIs(), prediction.NewCache(), "0", true, 640, 480)
	b := boxes[0]
	if b.X != 64 || b.Y != 48 || b.W != 128 || b.H != 96 {
		t.Errorf("box 0 pixels = (%v, %v, %v, %v)", b.X, b.Y, b.W, b.H)
	}
}

func TestBuild_LockedHasNoHandles(t *testing.T) {
	boxes := Build(testROIs(), prediction.NewCache(), "0", false, 640, 480)
	for _, b := range boxes {
		if !b.Locked {
			t.Errorf("box %d not marked locked", b.Index)
		}
		if b.HandleW != 0 || b.HandleH != 0 {
			t.Errorf("locked box %d has a resize handle", b.Index)
		}
	}
}

func TestBuild_PreservesStoreOrder(t *testing.T) {
	boxes := Build(testROIs(), prediction.NewCache(), "0", true, 640, 480)
	for i, b := range boxes {
		if b.Index != i {
			t.Errorf("box at slot %d carries index %d", i, b.Index)
		}
	}
}

func TestHitTest_TopmostWins(t *testing.T) {
	boxes := Build(testROIs(), prediction.NewCache(), "0", true, 640, 480)

	// (180, 140) lies inside both boxes; the later one is on top.
	idx, resize, ok := HitTest(boxes, 180, 140)
	if !ok {
		t.Fatal("no hit where two boxes overlap")
	}
	if idx != 1 {
		t.Errorf("hit index %d, want topmost 1", idx)
	}
	if resize {
		t.Error("body hit reported as resize")
	}
}

func TestHitTest_HandleSelectsResize(t *testing.T) {
	boxes := Build(testROIs(), prediction.NewCache(), "0", true, 640, 480)
	b := boxes[1]

	idx, resize, ok := HitTest(boxes, b.X+b.W-2, b.Y+b.H-2)
	if !ok || idx != 1 {
		t.Fatalf("handle hit failed: idx=%d ok=%v", idx, ok)
	}
	if !resize {
		t.Error("handle hit did not select resize mode")
	}
}

func TestHitTest_Miss(t *testing.T) {
	boxes := Build(testROIs(), prediction.NewCache(), "0", true, 640, 480)
	if _, _, ok := HitTest(boxes, 639, 479); ok {
		t.Error("hit reported outside every box")
	}
}

func TestPlace_RecomputesSingleBox(t *testing.T) {
	boxes := Build(testROIs(), prediction.NewCache(), "0", true, 640, 480)
	moved := Place(boxes[0], geometry.NewRect(0.5, 0.5, 0.2, 0.2), 640, 480)

	if moved.X != 320 || moved.Y != 240 {
		t.Errorf("moved box at (%v, %v), want (320, 240)", moved.X, moved.Y)
	}
	if moved.Name != boxes[0].Name || moved.Pred != boxes[0].Pred {
		t.Error("captions changed by a reposition")
	}
	if moved.HandleX != moved.X+moved.W-HandleSize {
		t.Errorf("handle not tracking the box: %v", moved.HandleX)
	}
}
