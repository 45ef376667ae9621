package actuator

import (
	"image"
	"log"
	"sync"

	"github.com/ayusman/airpointer/internal/pointer"
)

// Recorder is an Actuator that records calls instead of touching the OS.
// It backs dry runs and tests.
type Recorder struct {
	mu      sync.Mutex
	width   int
	height  int
	verbose bool
	moves   []image.Point
	clicks  []pointer.Button
}

// NewRecorder creates a Recorder that reports the given screen size.
// When verbose is set every click is logged.
func NewRecorder(width, height int, verbose bool) *Recorder {
	return &Recorder{
		width:   width,
		height:  height,
		verbose: verbose,
	}
}

// MoveTo records a cursor move.
func (r *Recorder) MoveTo(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, image.Pt(x, y))
}

// Click records a click.
func (r *Recorder) Click(button pointer.Button) {
	r.mu.Lock()
	r.clicks = append(r.clicks, button)
	var pos image.Point
	if n := len(r.moves); n > 0 {
		pos = r.moves[n-1]
	}
	r.mu.Unlock()

	if r.verbose {
		log.Printf("[dry-run] %s click at (%d, %d)", button, pos.X, pos.Y)
	}
}

// ScreenSize returns the configured screen size.
func (r *Recorder) ScreenSize() (int, int) {
	return r.width, r.height
}

// Moves returns a copy of all recorded moves.
func (r *Recorder) Moves() []image.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]image.Point(nil), r.moves...)
}

// Clicks returns a copy of all recorded clicks.
func (r *Recorder) Clicks() []pointer.Button {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pointer.Button(nil), r.clicks...)
}

// Last returns the most recent cursor position and whether any move happened.
func (r *Recorder) Last() (image.Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.moves) == 0 {
		return image.Point{}, false
	}
	return r.moves[len(r.moves)-1], true
}
