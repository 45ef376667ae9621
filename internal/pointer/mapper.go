// Package pointer turns hand landmarks into cursor positions and click decisions.
package pointer

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/airpointer/internal/detector"
)

// Default mapping parameters.
const (
	// DefaultThresholdPx is the fingertip distance, in frame pixels, below which a click triggers.
	DefaultThresholdPx = 40.0
	// DefaultSmoothing is the per-frame interpolation weight toward the raw target.
	DefaultSmoothing = 0.2
)

// ErrInvalidParams is returned when mapping parameters or dimensions are out of range.
var ErrInvalidParams = errors.New("invalid pointer parameters")

// Button identifies a mouse button.
type Button int

const (
	// Left is the primary mouse button.
	Left Button = iota
	// Right is the secondary mouse button.
	Right
)

// String returns the lowercase button name.
func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Size is a width and height in pixels.
type Size struct {
	W int
	H int
}

// Validate reports whether both dimensions are positive.
func (s Size) Validate() error {
	if s.W <= 0 || s.H <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidParams, s.W, s.H)
	}
	return nil
}

// Params configures the mapping.
type Params struct {
	ThresholdPx float64
	Smoothing   float64
	// RapidFire disables click debouncing: a click is emitted on every frame
	// the fingers touch.
	RapidFire bool
}

// DefaultParams returns the smoothed, debounced mapping.
func DefaultParams() Params {
	return Params{
		ThresholdPx: DefaultThresholdPx,
		Smoothing:   DefaultSmoothing,
	}
}

// Validate checks threshold and smoothing ranges.
func (p Params) Validate() error {
	if p.ThresholdPx <= 0 {
		return fmt.Errorf("%w: threshold %v must be positive", ErrInvalidParams, p.ThresholdPx)
	}
	if p.Smoothing <= 0 || p.Smoothing > 1 {
		return fmt.Errorf("%w: smoothing %v must be in (0,1]", ErrInvalidParams, p.Smoothing)
	}
	return nil
}

// State is the pointer state carried from one frame to the next.
type State struct {
	Cursor      Point
	LeftActive  bool
	RightActive bool
}

// Result is the outcome of mapping a single frame.
type Result struct {
	// Cursor is the smoothed screen position to move to.
	Cursor Point
	// Target is the unsmoothed screen position under the index fingertip.
	Target Point
	// Index is the index fingertip in frame pixels.
	Index      Point
	DistThumb  float64
	DistMiddle float64
	// Clicks holds the buttons to click this frame, left before right.
	Clicks []Button
	// Moved is false when no hand was supplied.
	Moved bool
}

// CursorInt rounds the cursor to whole pixels and clamps it into screen.
func (r Result) CursorInt(screen Size) (int, int) {
	return clampRound(r.Cursor.X, screen.W), clampRound(r.Cursor.Y, screen.H)
}

func clampRound(v float64, limit int) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if limit > 0 && n > limit-1 {
		return limit - 1
	}
	return n
}

// MapFrame computes the cursor position and click decisions for one frame.
// A nil hand leaves prev untouched and returns an empty Result.
func MapFrame(hand *detector.HandLandmarks, frame, screen Size, prev State, p Params) (Result, State) {
	if hand == nil {
		return Result{}, prev
	}

	tip := hand.Points[detector.IndexTip]
	target := Point{X: tip.X * float64(screen.W), Y: tip.Y * float64(screen.H)}

	next := prev
	next.Cursor = Point{
		X: prev.Cursor.X + (target.X-prev.Cursor.X)*p.Smoothing,
		Y: prev.Cursor.Y + (target.Y-prev.Cursor.Y)*p.Smoothing,
	}

	index := toPixels(tip, frame)
	res := Result{
		Cursor:     next.Cursor,
		Target:     target,
		Index:      index,
		DistThumb:  distance(index, toPixels(hand.Points[detector.ThumbTip], frame)),
		DistMiddle: distance(index, toPixels(hand.Points[detector.MiddleTip], frame)),
		Moved:      true,
	}

	var fire bool
	if fire, next.LeftActive = edge(res.DistThumb < p.ThresholdPx, prev.LeftActive, p.RapidFire); fire {
		res.Clicks = append(res.Clicks, Left)
	}
	if fire, next.RightActive = edge(res.DistMiddle < p.ThresholdPx, prev.RightActive, p.RapidFire); fire {
		res.Clicks = append(res.Clicks, Right)
	}

	return res, next
}

// edge reports whether a click fires and the new active flag.
func edge(touching, wasActive, rapid bool) (bool, bool) {
	if !touching {
		return false, false
	}
	return rapid || !wasActive, true
}

func toPixels(p detector.Point3D, frame Size) Point {
	return Point{X: p.X * float64(frame.W), Y: p.Y * float64(frame.H)}
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
