package services

import "math"

// ZoomMode selects how the preview scale is derived
type ZoomMode int

const (
	// ZoomFit derives scale from the container size
	ZoomFit ZoomMode = iota
	// ZoomFixed uses a user-chosen percentage
	ZoomFixed
)

const (
	// MinZoomPercent and MaxZoomPercent bound the fixed-mode percentage
	MinZoomPercent = 2
	MaxZoomPercent = 3200

	minScale = 0.02
	maxScale = 32

	// ContainerInset is the fixed padding reserved on each side of the
	// container for surrounding chrome, in container pixels
	ContainerInset = 4.0

	// wheelStepFactor is the multiplicative zoom step per wheel notch
	wheelStepFactor = 1.1

	// maxWheelNotches caps how many notches a single event may apply
	maxWheelNotches = 4
)

// PanOffset is the accumulated drag offset in container pixels
type PanOffset struct {
	X float64
	Y float64
}

// Transform maps intrinsic asset coordinates onto the container:
// translation then uniform scale.
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

// ViewportService owns zoom mode, zoom percentage and pan offset, and
// computes the on-screen transform as a pure function of that state, the
// asset's intrinsic dimensions and the live container bounds, never of
// history.
type ViewportService struct {
	mode    ZoomMode
	percent float64
	pan     PanOffset

	containerW float64
	containerH float64
	intrinsicW float64
	intrinsicH float64

	onChange func()
}

// NewViewportService creates a viewport in fit mode
func NewViewportService() *ViewportService {
	return &ViewportService{mode: ZoomFit, percent: 100}
}

// OnChange registers a callback fired after every state change the UI
// must project (mode, percentage, pan, resize, new intrinsic bounds).
func (v *ViewportService) OnChange(fn func()) {
	v.onChange = fn
}

// SetIntrinsic installs a new asset's intrinsic dimensions. Pan resets
// with the new asset; the mode returns to fit so the first paint is
// fully visible.
func (v *ViewportService) SetIntrinsic(w, h float64) {
	v.intrinsicW, v.intrinsicH = w, h
	v.pan = PanOffset{}
	v.mode = ZoomFit
	v.notify()
}

// Resize updates the live container bounds. In fit mode this changes the
// effective scale, so the percent label must refresh.
func (v *ViewportService) Resize(w, h float64) {
	v.containerW, v.containerH = w, h
	v.notify()
}

// Mode returns the current zoom mode
func (v *ViewportService) Mode() ZoomMode { return v.mode }

// SetMode switches zoom mode. Entering fit resets the pan offset;
// fixed-mode pan is meaningless once the frame of reference becomes
// size-responsive. Entering fixed preserves whatever pan was last set.
func (v *ViewportService) SetMode(m ZoomMode) {
	if m == ZoomFit {
		v.pan = PanOffset{}
	}
	v.mode = m
	v.notify()
}

// SetPercent switches to fixed mode at the given percentage, clamped to
// [MinZoomPercent, MaxZoomPercent].
func (v *ViewportService) SetPercent(p float64) {
	v.percent = clamp(p, MinZoomPercent, MaxZoomPercent)
	v.mode = ZoomFixed
	v.notify()
}

// Pan returns the accumulated pan offset
func (v *ViewportService) Pan() PanOffset { return v.pan }

// PanBy accumulates a drag delta into the pan offset
func (v *ViewportService) PanBy(dx, dy float64) {
	v.pan.X += dx
	v.pan.Y += dy
	v.notify()
}

// ResetPan zeroes the pan offset without touching zoom mode or percentage
func (v *ViewportService) ResetPan() {
	v.pan = PanOffset{}
	v.notify()
}

// EffectiveScale returns the scale currently in effect, whichever mode
// supplies it.
func (v *ViewportService) EffectiveScale() float64 {
	if v.mode == ZoomFit {
		return v.fitScale()
	}
	return clamp(v.percent/100, minScale, maxScale)
}

// Percent returns the rounded integer percentage currently in effect,
// for the on-screen indicator.
func (v *ViewportService) Percent() int {
	return int(math.Round(v.EffectiveScale() * 100))
}

// WheelZoom applies a wheel gesture: the current effective percentage is
// multiplied by wheelStepFactor per notch (capped at maxWheelNotches per
// event), the mode switches to fixed at the clamped target, and the pan
// is rescaled so the screen center, not the cursor, stays visually
// anchored.
func (v *ViewportService) WheelZoom(notches int) {
	if notches > maxWheelNotches {
		notches = maxWheelNotches
	}
	if notches < -maxWheelNotches {
		notches = -maxWheelNotches
	}
	oldScale := v.EffectiveScale()
	if oldScale <= 0 {
		return
	}

	target := oldScale * 100 * math.Pow(wheelStepFactor, float64(notches))
	v.percent = clamp(target, MinZoomPercent, MaxZoomPercent)
	v.mode = ZoomFixed

	// Pan is measured from the centered position, so anchoring the
	// screen center is a pure rescale of the offset.
	ratio := v.EffectiveScale() / oldScale
	v.pan.X *= ratio
	v.pan.Y *= ratio
	v.notify()
}

// Transform computes the transform mapping intrinsic coordinates onto
// the container: the asset is centered in the inset area at the
// effective scale, offset by the accumulated pan.
func (v *ViewportService) Transform() Transform {
	scale := v.EffectiveScale()
	availW, availH := v.available()
	tx := ContainerInset + (availW-v.intrinsicW*scale)/2 + v.pan.X
	ty := ContainerInset + (availH-v.intrinsicH*scale)/2 + v.pan.Y
	return Transform{Scale: scale, TX: tx, TY: ty}
}

func (v *ViewportService) fitScale() float64 {
	if v.intrinsicW <= 0 || v.intrinsicH <= 0 {
		return 1
	}
	availW, availH := v.available()
	return math.Min(availW/v.intrinsicW, availH/v.intrinsicH)
}

func (v *ViewportService) available() (float64, float64) {
	return math.Max(v.containerW-2*ContainerInset, 1),
		math.Max(v.containerH-2*ContainerInset, 1)
}

func (v *ViewportService) notify() {
	if v.onChange != nil {
		v.onChange()
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
