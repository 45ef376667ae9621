package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

// solidFrame returns a 640x480 BGR frame filled with a single gray level.
func solidFrame(level float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(level, level, level, 0), 480, 640, gocv.MatTypeCV8UC3)
}

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{name: "default threshold", threshold: 1.0},
		{name: "high threshold", threshold: 5.0},
		{name: "low threshold", threshold: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			if md == nil {
				t.Fatal("NewMotionDetector returned nil")
			}
			defer md.Close()

			if md.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", md.threshold, tt.threshold)
			}
			if md.initialized {
				t.Error("motion detector should not be initialized initially")
			}
		})
	}
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := solidFrame(0)
	defer black.Close()
	white := solidFrame(255)
	defer white.Close()

	t.Run("identical frames", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()

		if detected, pct := md.Detect(&black); detected || pct != 0 {
			t.Errorf("first frame = (%v, %f), want (false, 0)", detected, pct)
		}
		if detected, pct := md.Detect(&black); detected {
			t.Errorf("identical frames should not detect motion, changePercent = %f", pct)
		}
	})

	t.Run("black to white", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()

		md.Detect(&black)
		detected, pct := md.Detect(&white)
		if !detected {
			t.Errorf("black to white should detect motion, changePercent = %f", pct)
		}
		if pct < 50.0 {
			t.Errorf("changePercent = %f, expected > 50%%", pct)
		}
	})

	t.Run("nil frame", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()

		if detected, _ := md.Detect(nil); detected {
			t.Error("nil frame should not detect motion")
		}
	})
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := solidFrame(0)
	defer frame.Close()

	md.Detect(&frame)
	if !md.initialized {
		t.Error("detector should be initialized after first Detect")
	}

	md.Reset()

	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}
	if !md.prevGray.Empty() {
		t.Error("prevGray should be empty after Reset")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after SetThreshold", md.threshold)
	}

	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("negative threshold should be ignored, got %f", md.threshold)
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)

	// Close multiple times should not panic
	md.Close()
	md.Close()
}

func TestMotionGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := solidFrame(0)
	defer black.Close()
	white := solidFrame(255)
	defer white.Close()

	gate := NewMotionGate(1.0, 2*time.Second)
	defer gate.Close()

	start := time.Unix(1000, 0)

	// Baseline frame: nothing seen yet, gate stays closed.
	if allow, changed := gate.Allow(&black, start); allow || changed {
		t.Errorf("baseline = (%v, %v), want (false, false)", allow, changed)
	}

	// Motion opens the gate.
	if allow, changed := gate.Allow(&white, start.Add(100*time.Millisecond)); !allow || !changed {
		t.Errorf("motion = (%v, %v), want (true, true)", allow, changed)
	}

	// Still scene within the idle timeout keeps it open.
	if allow, changed := gate.Allow(&white, start.Add(time.Second)); !allow || changed {
		t.Errorf("still within timeout = (%v, %v), want (true, false)", allow, changed)
	}

	// Still scene past the idle timeout closes it.
	if allow, changed := gate.Allow(&white, start.Add(3*time.Second)); allow || !changed {
		t.Errorf("idle = (%v, %v), want (false, true)", allow, changed)
	}
	if gate.Active() {
		t.Error("gate should be idle")
	}
}
