// Package lottie reads the handful of top-level fields this application
// needs from a Lottie animation descriptor. All other interpretation of
// the descriptor is the playback engine's responsibility.
package lottie

import (
	"encoding/json"
	"fmt"
	"math"
)

// Descriptor holds the top-level timing and sizing fields of an
// animation descriptor.
type Descriptor struct {
	Version   string  `json:"v"`
	FrameRate float64 `json:"fr"`
	Width     float64 `json:"w"`
	Height    float64 `json:"h"`
	InPoint   float64 `json:"ip"`
	OutPoint  float64 `json:"op"`
	Name      string  `json:"nm"`
}

// Parse decodes data as an animation descriptor. It fails on malformed
// JSON and on descriptors without usable dimensions or timing.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse animation descriptor: %w", err)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("animation descriptor has no usable dimensions (w=%g h=%g)", d.Width, d.Height)
	}
	if d.FrameRate <= 0 {
		return nil, fmt.Errorf("animation descriptor has no usable frame rate (fr=%g)", d.FrameRate)
	}
	if d.OutPoint <= d.InPoint {
		return nil, fmt.Errorf("animation descriptor has an empty timeline (ip=%g op=%g)", d.InPoint, d.OutPoint)
	}
	return &d, nil
}

// TotalFrames returns the frame count in index space (op - ip)
func (d *Descriptor) TotalFrames() int {
	return int(math.Round(d.OutPoint - d.InPoint))
}

// DisplayName returns the descriptor's name, or fallback when unnamed
func (d *Descriptor) DisplayName(fallback string) string {
	if d.Name != "" {
		return d.Name
	}
	return fallback
}
