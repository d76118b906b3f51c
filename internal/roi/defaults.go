package roi

import (
	"fmt"

	"cube-roi-editor/pkg/geometry"
)

// Default layout constants: three 3x3 face blocks per camera frame, laid
// out left to right. Values match the backend's stored layout so a fresh
// client and a fresh server agree without a round trip.
var faceOriginsX = [3]float64{0.05, 0.37, 0.69}

const (
	defaultOriginY = 0.17
	faceBlockSpan  = 0.26
)

// DefaultLayout builds the default 27-ROI layout for one camera.
func DefaultLayout(cameraID string) []ROI {
	faces := CameraFaces[cameraID]
	cell := faceBlockSpan / 3.0
	boxSize := cell * 0.82

	rois := make([]ROI, 0, len(faces)*9)
	for faceIdx, face := range faces {
		originX := faceOriginsX[faceIdx]
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				sticker := row*3 + col
				rect := geometry.NewRect(
					originX+float64(col)*cell+(cell-boxSize)/2.0,
					defaultOriginY+float64(row)*cell+(cell-boxSize)/2.0,
					boxSize,
					boxSize,
				).Round5()
				rois = append(rois, ROI{
					ID:    fmt.Sprintf("%s-%s-%d", cameraID, face, sticker),
					Face:  face,
					Index: sticker,
					Rect:  rect,
				})
			}
		}
	}
	return rois
}

// DefaultConfig builds the default layout for every camera.
func DefaultConfig() map[string][]ROI {
	cfg := make(map[string][]ROI, len(CameraIDs))
	for _, id := range CameraIDs {
		cfg[id] = DefaultLayout(id)
	}
	return cfg
}
