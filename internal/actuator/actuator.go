// Package actuator moves the system cursor and synthesizes mouse clicks.
package actuator

import (
	"github.com/go-vgo/robotgo"

	"github.com/ayusman/airpointer/internal/pointer"
)

// Actuator drives the operating system pointer.
type Actuator interface {
	// MoveTo places the cursor at absolute screen coordinates.
	MoveTo(x, y int)
	// Click presses and releases a mouse button at the current position.
	Click(button pointer.Button)
	// ScreenSize returns the main display size in pixels.
	ScreenSize() (width, height int)
}

// Robot implements Actuator with robotgo.
type Robot struct{}

// NewRobot creates a robotgo-backed actuator.
func NewRobot() *Robot {
	return &Robot{}
}

// MoveTo moves the cursor without easing; smoothing is done upstream.
func (r *Robot) MoveTo(x, y int) {
	robotgo.Move(x, y)
}

// Click clicks the given button once.
func (r *Robot) Click(button pointer.Button) {
	robotgo.Click(button.String())
}

// ScreenSize returns the main display size.
func (r *Robot) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
