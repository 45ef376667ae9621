// Package overlay draws pointer feedback on camera frames and shows them.
package overlay

import (
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/pointer"
)

// KeyEscape is the key code that ends the session.
const KeyEscape = 27

// NoKey is returned by Show when no key was pressed.
const NoKey = -1

// Feedback styling.
const (
	MarkerRadius = 10
	FontScale    = 1.0
	TextWeight   = 2
)

var (
	// MarkerColor marks the index fingertip.
	MarkerColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	// LeftColor labels a left click.
	LeftColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	// RightColor labels a right click.
	RightColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	// StatusColor labels paused or idle state.
	StatusColor = color.RGBA{R: 255, G: 255, B: 0, A: 0}

	labelOrigin  = image.Pt(10, 60)
	statusOrigin = image.Pt(10, 30)
)

// Display renders annotated frames for the user.
type Display interface {
	DrawMarker(img *gocv.Mat, at image.Point)
	DrawText(img *gocv.Mat, text string, at image.Point, c color.RGBA)
	// Show presents img and returns the key pressed meanwhile, or NoKey.
	Show(img *gocv.Mat) int
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	window *gocv.Window
	delay  int
}

// NewWindow opens a window titled name. delayMs is how long Show waits for
// a key press.
func NewWindow(name string, delayMs int) *Window {
	if delayMs <= 0 {
		delayMs = 1
	}
	return &Window{
		window: gocv.NewWindow(name),
		delay:  delayMs,
	}
}

// DrawMarker draws a filled circle at the fingertip.
func (w *Window) DrawMarker(img *gocv.Mat, at image.Point) {
	gocv.Circle(img, at, MarkerRadius, MarkerColor, -1)
}

// DrawText writes a label onto the frame.
func (w *Window) DrawText(img *gocv.Mat, text string, at image.Point, c color.RGBA) {
	gocv.PutText(img, text, at, gocv.FontHersheySimplex, FontScale, c, TextWeight)
}

// Show displays the frame and polls the keyboard.
func (w *Window) Show(img *gocv.Mat) int {
	w.window.IMShow(*img)
	return w.window.WaitKey(w.delay)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless is a Display that draws nothing. It counts shown frames and
// reports keys queued with Press.
type Headless struct {
	mu     sync.Mutex
	shown  int
	labels []string
	keys   []int
}

// NewHeadless creates a Headless display.
func NewHeadless() *Headless {
	return &Headless{}
}

// DrawMarker does nothing.
func (h *Headless) DrawMarker(img *gocv.Mat, at image.Point) {}

// DrawText records the label.
func (h *Headless) DrawText(img *gocv.Mat, text string, at image.Point, c color.RGBA) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.labels = append(h.labels, text)
}

// Show counts the frame and returns the next pressed key, if any.
func (h *Headless) Show(img *gocv.Mat) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shown++
	if len(h.keys) == 0 {
		return NoKey
	}
	key := h.keys[0]
	h.keys = h.keys[1:]
	return key
}

// Close does nothing.
func (h *Headless) Close() error { return nil }

// Press queues a key to be returned by a later Show.
func (h *Headless) Press(key int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, key)
}

// Shown returns how many frames were shown.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Labels returns every label drawn so far.
func (h *Headless) Labels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.labels...)
}

// Annotate draws the fingertip marker and click labels for res.
// Nothing is drawn when res carries no hand.
func Annotate(d Display, img *gocv.Mat, res pointer.Result) {
	if !res.Moved {
		return
	}

	d.DrawMarker(img, image.Pt(int(res.Index.X), int(res.Index.Y)))

	for _, b := range res.Clicks {
		switch b {
		case pointer.Left:
			d.DrawText(img, "Left Click", labelOrigin, LeftColor)
		case pointer.Right:
			d.DrawText(img, "Right Click", labelOrigin, RightColor)
		}
	}
}

// Status writes a status line such as "Paused" at the top of the frame.
func Status(d Display, img *gocv.Mat, text string) {
	d.DrawText(img, text, statusOrigin, StatusColor)
}
