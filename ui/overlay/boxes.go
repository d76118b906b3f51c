// Package overlay renders a camera's ROI boxes on top of its video feed
// and feeds pointer input into the drag controller.
package overlay

import (
	"cube-roi-editor/internal/prediction"
	"cube-roi-editor/internal/roi"
	"cube-roi-editor/pkg/geometry"
)

// HandleSize is the edge length in pixels of the resize handle square in
// the bottom-right corner of an unlocked box.
const HandleSize float32 = 12

// Box is the computed visual state of one ROI: pixel geometry, captions,
// and the resize handle rect. Building boxes is pure, so rendering the
// same model twice yields identical output.
type Box struct {
	Index int
	ID    string
	Face  string

	X, Y, W, H float32

	// Resize handle; zero-sized when the overlay is locked.
	HandleX, HandleY, HandleW, HandleH float32

	Name   string
	Pred   string
	Locked bool
}

// Build projects a camera's ROI collection onto a w x h pixel surface, in
// store order (which is the z-order). Locked overlays get no handles.
func Build(rois []roi.ROI, preds *prediction.Cache, cameraID string, active bool, w, h float32) []Box {
	boxes := make([]Box, len(rois))
	for i, r := range rois {
		px, py, pw, ph := r.Rect.Pixels(float64(w), float64(h))
		b := Box{
			Index:  i,
			ID:     r.ID,
			Face:   r.Face,
			X:      float32(px),
			Y:      float32(py),
			W:      float32(pw),
			H:      float32(ph),
			Name:   r.Label(),
			Pred:   preds.Text(cameraID, r.ID),
			Locked: !active,
		}
		if active {
			b.HandleX, b.HandleY, b.HandleW, b.HandleH = handleRect(b.X, b.Y, b.W, b.H)
		}
		boxes[i] = b
	}
	return boxes
}

// Place recomputes one box's pixel geometry from fresh ROI geometry, used
// to reposition only the dragged box without a full rebuild.
func Place(b Box, rect geometry.Rect, w, h float32) Box {
	px, py, pw, ph := rect.Pixels(float64(w), float64(h))
	b.X, b.Y, b.W, b.H = float32(px), float32(py), float32(pw), float32(ph)
	if !b.Locked {
		b.HandleX, b.HandleY, b.HandleW, b.HandleH = handleRect(b.X, b.Y, b.W, b.H)
	}
	return b
}

// HitTest finds the topmost box containing (x, y) and whether the point is
// on its resize handle. Boxes later in the slice are on top.
func HitTest(boxes []Box, x, y float32) (index int, resize bool, ok bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if x < b.X || x > b.X+b.W || y < b.Y || y > b.Y+b.H {
			continue
		}
		onHandle := b.HandleW > 0 &&
			x >= b.HandleX && x <= b.HandleX+b.HandleW &&
			y >= b.HandleY && y <= b.HandleY+b.HandleH
		return b.Index, onHandle, true
	}
	return 0, false, false
}

// handleRect returns the resize handle square, shrunk for tiny boxes so it
// never covers more than a quarter of either edge.
func handleRect(x, y, w, h float32) (hx, hy, hw, hh float32) {
	s := HandleSize
	if s > w/2 {
		s = w / 2
	}
	if s > h/2 {
		s = h / 2
	}
	return x + w - s, y + h - s, s, s
}
