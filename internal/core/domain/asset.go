package domain

import (
	"fmt"
	"math"
	"strings"
)

// AssetKind distinguishes the two supported input formats
type AssetKind int

const (
	// KindAnimation is a Lottie animation descriptor (.json / .lottie)
	KindAnimation AssetKind = iota
	// KindStaticSVG is a plain SVG document with no timeline
	KindStaticSVG
)

// NoFrames is the playback position sentinel for assets without a timeline
const NoFrames = -1

// Asset represents the currently loaded subject of the viewer.
// Exactly one Asset is active at a time; a new load fully replaces it.
type Asset struct {
	Kind   AssetKind
	Name   string // display name, usually the base filename
	Width  float64
	Height float64

	// OriginX/OriginY are the viewBox origin of a static document.
	// Content coordinates start there, not at (0,0). Always 0 for
	// animations.
	OriginX float64
	OriginY float64

	// FrameCount is the number of frames in index space (op - ip).
	// 0 for static assets.
	FrameCount int

	// FrameRate is frames per second; 0 for static assets
	FrameRate float64

	ByteSize int64
}

// IsAnimated reports whether the asset has a timeline
func (a *Asset) IsAnimated() bool {
	return a.Kind == KindAnimation && a.FrameCount > 0
}

// LastFrame returns the highest valid frame index (0 for static assets)
func (a *Asset) LastFrame() int {
	if a.FrameCount <= 0 {
		return 0
	}
	return a.FrameCount - 1
}

// ClampFrame clamps n into the asset's valid frame index range
func (a *Asset) ClampFrame(n int) int {
	if n < 0 {
		return 0
	}
	if last := a.LastFrame(); n > last {
		return last
	}
	return n
}

// Duration returns the animation length in seconds, 0 for static assets
func (a *Asset) Duration() float64 {
	if !a.IsAnimated() || a.FrameRate <= 0 {
		return 0
	}
	return float64(a.FrameCount) / a.FrameRate
}

// DurationLabel formats the duration with one decimal, truncated
// (a 100-frame 24fps asset reads "4.1 seconds", not "4.2")
func (a *Asset) DurationLabel() string {
	d := a.Duration()
	if d == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f seconds", math.Floor(d*10)/10)
}

// DimensionsLabel formats the intrinsic dimensions, e.g. "800 x 600"
func (a *Asset) DimensionsLabel() string {
	return fmt.Sprintf("%g x %g", a.Width, a.Height)
}

// SizeLabel formats the byte size in human units
func (a *Asset) SizeLabel() string {
	return FormatByteSize(a.ByteSize)
}

// BaseName returns the display name without its extension
func (a *Asset) BaseName() string {
	name := a.Name
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// FormatByteSize renders a byte count as B / KB / MB with one decimal
func FormatByteSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
