// Package cube holds the client-side view of a captured cube state. The
// backend assembles and solves the cube; this package only normalizes the
// captured faces for display.
package cube

import (
	"strings"

	"cube-roi-editor/internal/roi"
)

// Unknown marks a sticker the detector could not classify.
const Unknown = "?"

// colorSet is the set of valid sticker color letters.
var colorSet = map[string]bool{
	"W": true, "Y": true, "R": true, "O": true, "B": true, "G": true,
}

// ColorNames maps a color letter to its display name.
var ColorNames = map[string]string{
	"W": "White",
	"Y": "Yellow",
	"R": "Red",
	"O": "Orange",
	"B": "Blue",
	"G": "Green",
	Unknown: "Unknown",
}

// FaceState maps a face to its 9 sticker color letters in row-major order.
type FaceState map[string][]string

// FromCapture normalizes a capture response's faces: every face present
// with exactly 9 entries, unknown stickers as "?".
func FromCapture(faces map[string][]string) FaceState {
	state := make(FaceState, len(roi.FaceOrder))
	for _, face := range roi.FaceOrder {
		stickers := make([]string, 9)
		src := faces[face]
		for i := 0; i < 9; i++ {
			if i < len(src) && colorSet[src[i]] {
				stickers[i] = src[i]
			} else {
				stickers[i] = Unknown
			}
		}
		state[face] = stickers
	}
	return state
}

// Complete reports whether every sticker of every face has a known color.
func (f FaceState) Complete() bool {
	for _, face := range roi.FaceOrder {
		stickers := f[face]
		if len(stickers) != 9 {
			return false
		}
		for _, color := range stickers {
			if !colorSet[color] {
				return false
			}
		}
	}
	return true
}

// Summary renders the state as one compact line for the status area, e.g.
// "U:WWWWWWWWW R:GGGGGGGGG ...".
func (f FaceState) Summary() string {
	parts := make([]string, 0, len(roi.FaceOrder))
	for _, face := range roi.FaceOrder {
		parts = append(parts, face+":"+strings.Join(f[face], ""))
	}
	return strings.Join(parts, " ")
}
