// Package detector provides hand landmark detection for the pointer pipeline.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// MinLandmarks is the fewest points a detection must carry to reach the
// middle fingertip. Shorter detections are discarded.
const MinLandmarks = MiddleTip + 1

// Point3D is a landmark position. X and Y are normalized to the frame (0-1);
// Z is relative depth as reported by the model.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// FromPoints builds HandLandmarks from a variable-length point list.
// It returns false when fewer than MinLandmarks points are present.
// Points beyond NumLandmarks are ignored; missing trailing points stay zero.
func FromPoints(points []Point3D, handedness string, score float64) (HandLandmarks, bool) {
	if len(points) < MinLandmarks {
		return HandLandmarks{}, false
	}

	lm := HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}
	copy(lm.Points[:], points)

	return lm, true
}
