package roi

import (
	"fmt"

	"cube-roi-editor/pkg/geometry"
)

// Normalization bounds. Positions may start anywhere up to 0.98 so a
// minimum-size box still fits; sizes are capped at 0.60 of the frame.
const (
	maxOrigin = 0.98
	maxSize   = 0.60
)

// Normalize coerces a single ROI into the invariants the model guarantees:
// known face, index in 0..8, geometry inside the unit square with the
// minimum size floor. Unknown faces fall back to "U", mirroring the
// backend's own validation.
func Normalize(raw ROI) ROI {
	face := raw.Face
	if !validFace(face) {
		face = "U"
	}

	index := int(geometry.Clamp(float64(raw.Index), 0, 8))

	x := geometry.Clamp(raw.X, 0, maxOrigin)
	y := geometry.Clamp(raw.Y, 0, maxOrigin)
	w := geometry.Clamp(raw.W, geometry.MinSize, maxSize)
	h := geometry.Clamp(raw.H, geometry.MinSize, maxSize)

	// Pull the box back inside the unit square rather than shrinking it.
	if x+w > 1.0 {
		x = 1.0 - w
	}
	if y+h > 1.0 {
		y = 1.0 - h
	}

	id := raw.ID
	if id == "" {
		id = fmt.Sprintf("%s%d", face, index)
	}

	return ROI{
		ID:    id,
		Face:  face,
		Index: index,
		Rect:  geometry.NewRect(x, y, w, h).Round5(),
	}
}

// ValidateCamera normalizes a candidate ROI list for a camera. A list that
// does not contain exactly 27 stickers is replaced wholesale by the default
// layout, the same all-or-nothing rule the backend applies.
func ValidateCamera(cameraID string, candidate []ROI) []ROI {
	if len(candidate) != 27 {
		return DefaultLayout(cameraID)
	}
	normalized := make([]ROI, len(candidate))
	for i, raw := range candidate {
		normalized[i] = Normalize(raw)
	}
	return normalized
}

// ValidateConfig normalizes a whole per-camera configuration, filling in
// defaults for missing cameras.
func ValidateConfig(candidate map[string][]ROI) map[string][]ROI {
	clean := make(map[string][]ROI, len(CameraIDs))
	for _, id := range CameraIDs {
		clean[id] = ValidateCamera(id, candidate[id])
	}
	return clean
}
