// Package detect is the face-detection capability boundary.
// The detection model itself runs out of process; we hand it a frame and get
// back candidate boxes, then apply the deployment-configured confidence and
// overlap-suppression thresholds.
package detect

import (
	"github.com/bmharper/cimg/v2"
)

const DefaultConfidenceThreshold = 0.5
const DefaultNmsIouThreshold = 0.3

// Detection is one face found in a frame.
type Detection struct {
	Box        Rect    `json:"box"`
	Confidence float32 `json:"confidence"` // 0..1
}

// Detector finds faces in a frame.
// Implementations must only be handed pixels in the channel order they
// specify. Swapping channels does not fail loudly, it silently degrades
// detection quality, so callers convert before calling.
type Detector interface {
	DetectFaces(img *cimg.Image) ([]Detection, error)
	Close()
}
