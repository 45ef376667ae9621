package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ayusman/airpointer/internal/actuator"
	"github.com/ayusman/airpointer/internal/app"
	"github.com/ayusman/airpointer/internal/capture"
	"github.com/ayusman/airpointer/internal/detector"
	"github.com/ayusman/airpointer/internal/hotkey"
	"github.com/ayusman/airpointer/internal/overlay"
	"github.com/ayusman/airpointer/internal/pointer"
	"github.com/ayusman/airpointer/internal/tray"
)

const windowName = "Virtual Mouse"

type options struct {
	cfg      app.Config
	headless bool
	dryRun   bool
	useTray  bool
	useHook  bool
	combo    string
	logLevel string
}

func parseFlags(args []string) (options, error) {
	opts := options{cfg: app.DefaultConfig()}
	cfg := &opts.cfg

	fs := flag.NewFlagSet("airpointer", flag.ContinueOnError)
	fs.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "camera device index")
	fs.IntVar(&cfg.FrameWidth, "width", cfg.FrameWidth, "requested frame width")
	fs.IntVar(&cfg.FrameHeight, "height", cfg.FrameHeight, "requested frame height")
	fs.BoolVar(&cfg.Mirror, "mirror", cfg.Mirror, "flip frames horizontally before detection")
	fs.Float64Var(&cfg.Pointer.ThresholdPx, "threshold", cfg.Pointer.ThresholdPx, "fingertip distance in frame pixels that triggers a click")
	fs.Float64Var(&cfg.Pointer.Smoothing, "smoothing", cfg.Pointer.Smoothing, "cursor interpolation weight per frame, 1 disables smoothing")
	fs.BoolVar(&cfg.Pointer.RapidFire, "rapid-fire", cfg.Pointer.RapidFire, "click on every frame the fingers touch instead of once per touch")
	fs.IntVar(&cfg.Detector.MaxHands, "max-hands", cfg.Detector.MaxHands, "hands the landmark model looks for; only the first drives the pointer")
	fs.Float64Var(&cfg.Detector.MinConfidence, "min-confidence", cfg.Detector.MinConfidence, "minimum hand detection confidence")
	fs.Float64Var(&cfg.Detector.MinTrackingConf, "min-tracking-confidence", cfg.Detector.MinTrackingConf, "minimum hand tracking confidence")
	fs.Float64Var(&cfg.MotionThresh, "motion-threshold", cfg.MotionThresh, "percent of changed pixels that wakes detection (0 disables the motion gate)")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "stillness before the motion gate pauses detection")
	fs.BoolVar(&opts.headless, "headless", false, "do not open a preview window")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "log clicks instead of moving the real cursor")
	fs.BoolVar(&opts.useTray, "tray", false, "show a system tray menu to pause and quit")
	fs.BoolVar(&opts.useHook, "hotkey", true, "listen for a global stop key combination")
	fs.StringVar(&opts.combo, "hotkey-combo", hotkey.DefaultCombo, "global stop key combination")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: info or debug")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch opts.logLevel {
	case "info":
	case "debug":
		cfg.Verbose = true
	default:
		return opts, fmt.Errorf("invalid log level: %s", opts.logLevel)
	}

	if opts.useTray && !opts.headless && runtime.GOOS == "darwin" {
		return opts, fmt.Errorf("--tray needs --headless on macOS: the tray and the preview window both require the main thread")
	}

	return opts, cfg.Validate()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err == flag.ErrHelp {
		return
	}
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	fmt.Println("airpointer - hand tracked virtual mouse")

	det, err := detector.NewMediaPipeDetector(opts.cfg.Detector)
	if err != nil {
		log.Fatalf("Landmark detector unavailable: %v", err)
	}

	var act actuator.Actuator = actuator.NewRobot()
	if opts.dryRun {
		w, h := act.ScreenSize()
		act = actuator.NewRecorder(w, h, true)
	}

	var display overlay.Display
	if opts.headless {
		display = overlay.NewHeadless()
	} else {
		display = overlay.NewWindow(windowName, app.KeyDelayMs)
	}

	camera := capture.NewCameraWithSize(opts.cfg.CameraID, opts.cfg.FrameWidth, opts.cfg.FrameHeight)

	a, err := app.New(opts.cfg, camera, det, act, display)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.useHook {
		listener, err := hotkey.New(opts.combo)
		if err != nil {
			log.Fatalf("Invalid hotkey: %v", err)
		}
		go listener.Listen(ctx, cancel)
		log.Printf("Press %s to stop", opts.combo)
	}

	if !opts.useTray {
		if err := a.Run(ctx); err != nil {
			log.Fatalf("Pointer loop failed: %v", err)
		}
		return
	}

	// The tray owns the main goroutine; the frame loop runs beside it.
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		log.Printf("Pointer enabled: %v", enabled)
	})
	t.OnQuit(cancel)
	a.OnClick(func(b pointer.Button) {
		t.SetLastClick(b.String())
	})

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		t.Quit()
	}()

	t.Run()
	cancel()

	if err := <-done; err != nil {
		log.Fatalf("Pointer loop failed: %v", err)
	}
}
