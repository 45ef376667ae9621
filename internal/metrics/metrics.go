// Package metrics counts what the pointer loop does, frame by frame.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayusman/airpointer/internal/pointer"
)

const namespace = "airpointer"

// Metrics holds the loop counters in a private registry.
type Metrics struct {
	FramesRead    prometheus.Counter
	FramesDropped prometheus.Counter
	FramesIdle    prometheus.Counter
	HandsSeen     prometheus.Counter
	FramesNoHand  prometheus.Counter
	DetectErrors  prometheus.Counter
	Clicks        *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a Metrics instance with all counters registered.
func New() *Metrics {
	m := &Metrics{
		FramesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_read_total",
			Help:      "Frames read from the camera",
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Camera reads that failed and were skipped",
		}),
		FramesIdle: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_idle_total",
			Help:      "Frames skipped by the motion gate",
		}),
		HandsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hands_detected_total",
			Help:      "Frames in which a hand drove the pointer",
		}),
		FramesNoHand: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_no_hand_total",
			Help:      "Frames processed without a usable hand",
		}),
		DetectErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detect_errors_total",
			Help:      "Landmark detection failures",
		}),
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Clicks emitted by button",
		}, []string{"button"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FramesRead,
		m.FramesDropped,
		m.FramesIdle,
		m.HandsSeen,
		m.FramesNoHand,
		m.DetectErrors,
		m.Clicks,
	)

	return m
}

// Click counts one click of button.
func (m *Metrics) Click(button pointer.Button) {
	m.Clicks.WithLabelValues(button.String()).Inc()
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Summary renders the non-zero counters as a single log line.
func (m *Metrics) Summary() string {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Sprintf("metrics unavailable: %v", err)
	}

	var parts []string
	for _, mf := range families {
		name := strings.TrimSuffix(strings.TrimPrefix(mf.GetName(), namespace+"_"), "_total")
		for _, metric := range mf.GetMetric() {
			v := metric.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			label := name
			for _, lp := range metric.GetLabel() {
				label += "." + lp.GetValue()
			}
			parts = append(parts, fmt.Sprintf("%s=%d", label, int64(v)))
		}
	}
	sort.Strings(parts)

	if len(parts) == 0 {
		return "no frames processed"
	}
	return strings.Join(parts, " ")
}
