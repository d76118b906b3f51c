// Package roi maintains the per-camera regions of interest that mark the
// cube stickers in each camera frame. The package owns the wire schema
// shared with the detection backend, the default layout, and the in-memory
// store edited by the drag interaction.
package roi

import (
	"fmt"

	"cube-roi-editor/pkg/geometry"
)

// CameraIDs lists the two camera identifiers used by the rig.
var CameraIDs = []string{"0", "1"}

// FaceOrder is the canonical cube face order (matches kociemba input order).
var FaceOrder = []string{"U", "R", "F", "D", "L", "B"}

// CameraFaces maps each camera to the three faces it can see.
var CameraFaces = map[string][]string{
	"0": {"U", "F", "R"},
	"1": {"D", "B", "L"},
}

// FaceLetters maps a face to the color letter of its center sticker on a
// solved cube in the rig's mounting orientation. Used only for overlay
// labels, never sent over the wire.
var FaceLetters = map[string]string{
	"U": "W",
	"F": "B",
	"R": "G",
	"D": "O",
	"B": "Y",
	"L": "R",
}

// ROI is one sticker region. The json tags are the backend wire schema.
type ROI struct {
	ID    string `json:"id"`
	Face  string `json:"face"`
	Index int    `json:"index"`
	geometry.Rect
}

// Label returns the overlay caption for the ROI, the face color letter
// followed by the 1-based sticker number, e.g. "W5" for U sticker 4.
func (r ROI) Label() string {
	letter, ok := FaceLetters[r.Face]
	if !ok {
		letter = "?"
	}
	return fmt.Sprintf("%s%d", letter, r.Index+1)
}

// ValidCamera reports whether id names one of the rig's cameras.
func ValidCamera(id string) bool {
	for _, c := range CameraIDs {
		if c == id {
			return true
		}
	}
	return false
}

func validFace(face string) bool {
	for _, f := range FaceOrder {
		if f == face {
			return true
		}
	}
	return false
}
