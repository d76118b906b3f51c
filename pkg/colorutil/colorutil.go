// Package colorutil provides the shared sticker colors for the editor's
// overlays.
package colorutil

import "image/color"

// Overlay colors.
var (
	Transparent = color.RGBA{}
	LockedGray  = color.RGBA{R: 140, G: 140, B: 140, A: 200}
	HandleFill  = color.RGBA{R: 255, G: 255, B: 255, A: 210}
	CaptionText = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// stickers maps a face color letter to its display color.
var stickers = map[string]color.RGBA{
	"W": {R: 245, G: 245, B: 245, A: 255},
	"Y": {R: 240, G: 220, B: 40, A: 255},
	"R": {R: 220, G: 40, B: 40, A: 255},
	"O": {R: 245, G: 140, B: 30, A: 255},
	"B": {R: 40, G: 90, B: 235, A: 255},
	"G": {R: 40, G: 190, B: 80, A: 255},
}

// Sticker returns the display color for a face color letter, falling back
// to the locked gray for anything unrecognized.
func Sticker(letter string) color.RGBA {
	if c, ok := stickers[letter]; ok {
		return c
	}
	return LockedGray
}
