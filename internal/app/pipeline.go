package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/capture"
	"github.com/ayusman/airpointer/internal/overlay"
	"github.com/ayusman/airpointer/internal/pointer"
)

// Run opens the camera and processes frames until ESC is pressed in the
// preview, ctx is cancelled, or the camera reaches end of stream.
//
// Per frame:
// 1. Read; skip transient read failures
// 2. Mirror, gate on motion, detect, map, actuate (Step)
// 3. Show the annotated frame and poll for ESC
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.shutdown()

	log.Printf("Session %s started (screen %dx%d, threshold %.0fpx, smoothing %.2f)",
		a.sessionID, a.screen.W, a.screen.H, a.config.Pointer.ThresholdPx, a.config.Pointer.Smoothing)

	for {
		select {
		case <-ctx.Done():
			log.Println("Stop requested")
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrEndOfStream) {
				log.Println("Camera reached end of stream")
				return nil
			}
			if errors.Is(err, capture.ErrCameraNotOpen) {
				return err
			}
			a.metrics.FramesDropped.Inc()
			a.debugf("Error reading frame: %v", err)
			time.Sleep(ReadRetryDelay)
			continue
		}
		a.metrics.FramesRead.Inc()

		a.Step(frame)

		key := a.display.Show(frame)
		frame.Close()

		if key == overlay.KeyEscape {
			log.Println("ESC pressed")
			return nil
		}
	}
}

// Step processes a single frame: it updates the pointer state, moves the
// cursor, emits clicks and annotates frame. Frames without a usable hand
// leave the state untouched.
func (a *App) Step(frame *gocv.Mat) pointer.Result {
	if frame == nil || frame.Empty() {
		a.metrics.FramesDropped.Inc()
		return pointer.Result{}
	}

	if a.config.Mirror {
		capture.Mirror(frame)
	}

	if !a.IsEnabled() {
		overlay.Status(a.display, frame, "Paused")
		return pointer.Result{}
	}

	if a.gate != nil {
		allow, changed := a.gate.Allow(frame, time.Now())
		if changed {
			if allow {
				log.Println("Switched to active mode")
			} else {
				log.Println("Switched to idle mode")
			}
		}
		if !allow {
			a.metrics.FramesIdle.Inc()
			return pointer.Result{}
		}
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.metrics.DetectErrors.Inc()
		a.debugf("Error detecting hands: %v", err)
		return pointer.Result{}
	}
	if len(hands) == 0 {
		a.metrics.FramesNoHand.Inc()
		return pointer.Result{}
	}

	size := pointer.Size{W: frame.Cols(), H: frame.Rows()}
	res, next := pointer.MapFrame(&hands[0], size, a.screen, a.state, a.config.Pointer)
	a.state = next
	a.metrics.HandsSeen.Inc()

	x, y := res.CursorInt(a.screen)
	a.actuator.MoveTo(x, y)

	for _, b := range res.Clicks {
		a.actuator.Click(b)
		a.metrics.Click(b)
		a.debugf("%s click at (%d, %d)", b, x, y)
		if a.onClick != nil {
			a.onClick(b)
		}
	}

	overlay.Annotate(a.display, frame, res)
	return res
}

// shutdown releases every collaborator and logs the session counters.
func (a *App) shutdown() {
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	if err := a.display.Close(); err != nil {
		log.Printf("Error closing display: %v", err)
	}
	if a.gate != nil {
		a.gate.Close()
	}

	log.Printf("Session %s ended: %s", a.sessionID, a.metrics.Summary())
}
