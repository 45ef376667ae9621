// Package app wires the camera, landmark detector, pointer mapping and OS
// actuator into the frame loop.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airpointer/internal/actuator"
	"github.com/ayusman/airpointer/internal/capture"
	"github.com/ayusman/airpointer/internal/detector"
	"github.com/ayusman/airpointer/internal/metrics"
	"github.com/ayusman/airpointer/internal/overlay"
	"github.com/ayusman/airpointer/internal/pointer"
)

// Loop timing constants.
const (
	// KeyDelayMs is how long each frame waits for a key press in the preview window.
	KeyDelayMs = 5
	// DefaultIdleTimeout is how long the scene must be still before the motion gate closes.
	DefaultIdleTimeout = 2 * time.Second
	// ReadRetryDelay is the pause after a failed camera read.
	ReadRetryDelay = 10 * time.Millisecond
)

// Config holds configuration options for the application.
type Config struct {
	CameraID    int
	FrameWidth  int
	FrameHeight int
	// Mirror flips frames horizontally before detection so the cursor follows
	// the hand the way a mirror image would.
	Mirror   bool
	Pointer  pointer.Params
	Detector detector.Config
	// MotionThresh is the percentage of changed pixels that counts as motion.
	// Zero disables the motion gate.
	MotionThresh float64
	IdleTimeout  time.Duration
	Verbose      bool
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		CameraID:    0,
		FrameWidth:  capture.DefaultWidth,
		FrameHeight: capture.DefaultHeight,
		Mirror:      true,
		Pointer:     pointer.DefaultParams(),
		Detector:    detector.DefaultConfig(),
		IdleTimeout: DefaultIdleTimeout,
	}
}

// Validate checks the configuration before any device is opened.
func (c Config) Validate() error {
	if c.CameraID < 0 {
		return fmt.Errorf("camera id must not be negative, got %d", c.CameraID)
	}
	if err := c.Pointer.Validate(); err != nil {
		return err
	}
	if err := c.Detector.Validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if c.MotionThresh < 0 {
		return fmt.Errorf("motion threshold must not be negative, got %f", c.MotionThresh)
	}
	return nil
}

// App is the pointer application. The frame loop owns the pointer state;
// only the enabled flag is shared with other goroutines.
type App struct {
	config    Config
	sessionID string
	camera    capture.Camera
	detector  detector.Detector
	actuator  actuator.Actuator
	display   overlay.Display
	gate      *capture.MotionGate
	metrics   *metrics.Metrics
	screen    pointer.Size
	state     pointer.State
	onClick   func(pointer.Button)

	mu      sync.RWMutex
	enabled bool
}

// New creates an App over the given collaborators.
func New(config Config, camera capture.Camera, det detector.Detector, act actuator.Actuator, display overlay.Display) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if camera == nil || det == nil || act == nil || display == nil {
		return nil, errors.New("camera, detector, actuator and display are required")
	}

	w, h := act.ScreenSize()
	screen := pointer.Size{W: w, H: h}
	if err := screen.Validate(); err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}

	a := &App{
		config:    config,
		sessionID: uuid.NewString(),
		camera:    camera,
		detector:  det,
		actuator:  act,
		display:   display,
		metrics:   metrics.New(),
		screen:    screen,
		enabled:   true,
	}

	if config.MotionThresh > 0 {
		idle := config.IdleTimeout
		if idle <= 0 {
			idle = DefaultIdleTimeout
		}
		a.gate = capture.NewMotionGate(config.MotionThresh, idle)
	}

	return a, nil
}

// SetEnabled pauses or resumes pointer control.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether pointer control is active.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnClick registers a callback invoked on the loop goroutine after each click.
// It must be set before Run.
func (a *App) OnClick(fn func(pointer.Button)) {
	a.onClick = fn
}

// State returns a copy of the pointer state.
// It is only safe to call from the loop goroutine or after Run returns.
func (a *App) State() pointer.State {
	return a.state
}

// Screen returns the screen size the pointer maps onto.
func (a *App) Screen() pointer.Size {
	return a.screen
}

// SessionID identifies this run in logs.
func (a *App) SessionID() string {
	return a.sessionID
}

// Metrics returns the loop counters.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

func (a *App) debugf(format string, args ...any) {
	if a.config.Verbose {
		log.Printf(format, args...)
	}
}
