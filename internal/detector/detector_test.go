package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

// tipDistance returns the pixel distance between two landmarks in a 640x480 frame.
func tipDistance(h HandLandmarks, a, b int) float64 {
	dx := (h.Points[a].X - h.Points[b].X) * 640
	dy := (h.Points[a].Y - h.Points[b].Y) * 480
	return math.Hypot(dx, dy)
}

func TestFromPoints(t *testing.T) {
	t.Run("full skeleton is accepted", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		for i := range points {
			points[i] = Point3D{X: float64(i) / 100, Y: float64(i) / 50}
		}

		lm, ok := FromPoints(points, "Left", 0.8)
		if !ok {
			t.Fatal("expected full skeleton to be accepted")
		}
		if lm.Handedness != "Left" {
			t.Errorf("expected handedness Left, got %s", lm.Handedness)
		}
		if lm.Score != 0.8 {
			t.Errorf("expected score 0.8, got %f", lm.Score)
		}
		if math.Abs(lm.Points[PinkyTip].Y-0.4) > epsilon {
			t.Errorf("expected pinky tip Y 0.4, got %f", lm.Points[PinkyTip].Y)
		}
	})

	t.Run("skeleton reaching middle tip is accepted", func(t *testing.T) {
		points := make([]Point3D, MinLandmarks)
		points[MiddleTip] = Point3D{X: 0.3, Y: 0.3}

		lm, ok := FromPoints(points, "Right", 0.9)
		if !ok {
			t.Fatal("expected 13-point skeleton to be accepted")
		}
		if lm.Points[MiddleTip].X != 0.3 {
			t.Errorf("expected middle tip X 0.3, got %f", lm.Points[MiddleTip].X)
		}
		if lm.Points[PinkyTip] != (Point3D{}) {
			t.Errorf("expected missing points to stay zero, got %+v", lm.Points[PinkyTip])
		}
	})

	t.Run("short skeleton is rejected", func(t *testing.T) {
		for _, n := range []int{0, 1, 9, MinLandmarks - 1} {
			if _, ok := FromPoints(make([]Point3D, n), "Right", 0.9); ok {
				t.Errorf("expected %d points to be rejected", n)
			}
		}
	})

	t.Run("extra points are ignored", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks+5)
		if _, ok := FromPoints(points, "Right", 0.9); !ok {
			t.Error("expected oversized skeleton to be accepted")
		}
	})
}

func TestParseResponse(t *testing.T) {
	full := `{"x":0.5,"y":0.5,"z":0}` + strings.Repeat(`,{"x":0.5,"y":0.5,"z":0}`, NumLandmarks-1)
	short := `{"x":0.1,"y":0.1,"z":0}` + strings.Repeat(`,{"x":0.1,"y":0.1,"z":0}`, 7)

	tests := []struct {
		name      string
		line      string
		wantHands int
		wantErr   bool
	}{
		{
			name:      "no hands",
			line:      `{"hands":[]}`,
			wantHands: 0,
		},
		{
			name:      "one hand",
			line:      `{"hands":[{"points":[` + full + `],"handedness":"Right","score":0.93}]}`,
			wantHands: 1,
		},
		{
			name:      "malformed hand dropped",
			line:      `{"hands":[{"points":[` + short + `],"handedness":"Right","score":0.93},{"points":[` + full + `],"handedness":"Left","score":0.8}]}`,
			wantHands: 1,
		},
		{
			name:    "service error",
			line:    `{"hands":[],"error":"model not loaded"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			line:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := parseResponse([]byte(tt.line))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResponse() error = %v", err)
			}
			if len(hands) != tt.wantHands {
				t.Errorf("expected %d hands, got %d", tt.wantHands, len(hands))
			}
		})
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("expected %d bytes, got %d", 4+len(payload), len(out))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("expected length prefix %d, got %d", len(payload), n)
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload mismatch: %x", out[4:])
	}
}

func TestConfig(t *testing.T) {
	t.Run("defaults track a single hand", func(t *testing.T) {
		cfg := DefaultConfig()
		if cfg.MaxHands != 1 {
			t.Errorf("expected MaxHands 1, got %d", cfg.MaxHands)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		bad := []Config{
			{MaxHands: 0, MinConfidence: 0.5, MinTrackingConf: 0.5},
			{MaxHands: 1, MinConfidence: 1.5, MinTrackingConf: 0.5},
			{MaxHands: 1, MinConfidence: 0.5, MinTrackingConf: -0.1},
		}
		for _, cfg := range bad {
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected %+v to be rejected", cfg)
			}
		}
	})

	t.Run("renders service flags", func(t *testing.T) {
		got := strings.Join(DefaultConfig().args(), " ")
		want := "--max-hands=1 --min-detection-confidence=0.7 --min-tracking-confidence=0.7"
		if got != want {
			t.Errorf("args = %q, want %q", got, want)
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{PointingLandmarks(), PinchLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("queued results are consumed in order", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{PointingLandmarks()})
		mock.Queue(nil, []HandLandmarks{PinchLandmarks(), PinchLandmarks()})

		first, _ := mock.Detect(nil)
		second, _ := mock.Detect(nil)
		third, _ := mock.Detect(nil)

		if len(first) != 0 {
			t.Errorf("expected first call to return no hands, got %d", len(first))
		}
		if len(second) != 2 {
			t.Errorf("expected second call to return 2 hands, got %d", len(second))
		}
		if len(third) != 1 {
			t.Errorf("expected fallback to configured hands, got %d", len(third))
		}
		if mock.Calls() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks detector closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected Closed() to be true")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPresetLandmarks(t *testing.T) {
	tests := []struct {
		name        string
		hand        HandLandmarks
		thumbClose  bool
		middleClose bool
	}{
		{name: "pointing", hand: PointingLandmarks()},
		{name: "pinch", hand: PinchLandmarks(), thumbClose: true},
		{name: "two finger", hand: TwoFingerLandmarks(), middleClose: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := tipDistance(tt.hand, IndexTip, ThumbTip)
			middle := tipDistance(tt.hand, IndexTip, MiddleTip)

			if (thumb < 40) != tt.thumbClose {
				t.Errorf("thumb distance %.1f, want close=%v", thumb, tt.thumbClose)
			}
			if (middle < 40) != tt.middleClose {
				t.Errorf("middle distance %.1f, want close=%v", middle, tt.middleClose)
			}
		})
	}
}

func TestAt(t *testing.T) {
	hand := At(PinchLandmarks(), 0.2, 0.7)

	if math.Abs(hand.Points[IndexTip].X-0.2) > epsilon || math.Abs(hand.Points[IndexTip].Y-0.7) > epsilon {
		t.Errorf("expected index tip at (0.2, 0.7), got (%f, %f)", hand.Points[IndexTip].X, hand.Points[IndexTip].Y)
	}

	before := tipDistance(PinchLandmarks(), IndexTip, ThumbTip)
	after := tipDistance(hand, IndexTip, ThumbTip)
	if math.Abs(before-after) > 1e-6 {
		t.Errorf("expected spacing preserved, got %f vs %f", before, after)
	}
}
