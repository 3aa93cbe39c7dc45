package services

import (
	"math"
	"testing"
)

// newTestViewport returns a viewport sized so the available area is
// exactly 800x600 around an 800x600 asset (fit scale 1.0).
func newTestViewport() *ViewportService {
	v := NewViewportService()
	v.SetIntrinsic(800, 600)
	v.Resize(800+2*ContainerInset, 600+2*ContainerInset)
	return v
}

func TestViewportFitScale(t *testing.T) {
	tests := []struct {
		name          string
		intrinsicW    float64
		intrinsicH    float64
		containerW    float64
		containerH    float64
		expectedScale float64
	}{
		{
			name:       "exact fit",
			intrinsicW: 800, intrinsicH: 600,
			containerW: 800 + 2*ContainerInset, containerH: 600 + 2*ContainerInset,
			expectedScale: 1.0,
		},
		{
			name:       "width constrained",
			intrinsicW: 800, intrinsicH: 600,
			containerW: 400 + 2*ContainerInset, containerH: 600 + 2*ContainerInset,
			expectedScale: 0.5,
		},
		{
			name:       "height constrained",
			intrinsicW: 800, intrinsicH: 600,
			containerW: 800 + 2*ContainerInset, containerH: 150 + 2*ContainerInset,
			expectedScale: 0.25,
		},
		{
			name:       "upscaling small asset",
			intrinsicW: 100, intrinsicH: 100,
			containerW: 400 + 2*ContainerInset, containerH: 400 + 2*ContainerInset,
			expectedScale: 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewportService()
			v.SetIntrinsic(tt.intrinsicW, tt.intrinsicH)
			v.Resize(tt.containerW, tt.containerH)

			if got := v.EffectiveScale(); math.Abs(got-tt.expectedScale) > 1e-9 {
				t.Errorf("EffectiveScale() = %g, want %g", got, tt.expectedScale)
			}
		})
	}
}

func TestViewportTransformIsPureFunction(t *testing.T) {
	v := newTestViewport()
	v.SetPercent(150)
	v.PanBy(10, -20)

	first := v.Transform()
	second := v.Transform()
	if first != second {
		t.Errorf("Transform differs across calls with unchanged state: %+v vs %+v", first, second)
	}
}

func TestViewportTransformCentering(t *testing.T) {
	v := NewViewportService()
	v.SetIntrinsic(400, 300)
	v.Resize(800+2*ContainerInset, 600+2*ContainerInset)
	v.SetPercent(100)

	tr := v.Transform()
	if tr.Scale != 1.0 {
		t.Fatalf("Expected scale 1.0, got %g", tr.Scale)
	}
	// 400x300 content centered in 800x600 available area
	if tr.TX != ContainerInset+200 || tr.TY != ContainerInset+150 {
		t.Errorf("Expected centered transform, got TX=%g TY=%g", tr.TX, tr.TY)
	}
}

func TestViewportPercentClamping(t *testing.T) {
	v := newTestViewport()

	v.SetPercent(5000)
	if v.Percent() != MaxZoomPercent {
		t.Errorf("Expected percent clamped to %d, got %d", MaxZoomPercent, v.Percent())
	}

	v.SetPercent(0.5)
	if v.Percent() != MinZoomPercent {
		t.Errorf("Expected percent clamped to %d, got %d", MinZoomPercent, v.Percent())
	}
}

func TestViewportModeSwitchPanReset(t *testing.T) {
	v := newTestViewport()
	v.SetPercent(200)
	v.PanBy(15, 25)

	// Switching to fixed never changes pan
	v.SetMode(ZoomFixed)
	if v.Pan() != (PanOffset{X: 15, Y: 25}) {
		t.Errorf("Expected pan preserved entering fixed mode, got %+v", v.Pan())
	}

	// Switching to fit always resets pan
	v.SetMode(ZoomFit)
	if v.Pan() != (PanOffset{}) {
		t.Errorf("Expected pan reset entering fit mode, got %+v", v.Pan())
	}
}

func TestViewportWheelZoomReversal(t *testing.T) {
	v := newTestViewport()
	v.SetPercent(100)

	v.WheelZoom(3)
	v.WheelZoom(-3)

	if got := v.Percent(); got != 100 {
		t.Errorf("Expected zoom in/out by equal notches to restore 100%%, got %d%%", got)
	}
}

func TestViewportWheelZoomSwitchesToFixed(t *testing.T) {
	v := newTestViewport()
	if v.Mode() != ZoomFit {
		t.Fatal("Expected initial fit mode")
	}

	v.WheelZoom(1)
	if v.Mode() != ZoomFixed {
		t.Error("Expected wheel zoom to switch to fixed mode")
	}
	// From fit scale 1.0, one notch lands at 110%
	if got := v.Percent(); got != 110 {
		t.Errorf("Expected 110%% after one notch from fit, got %d%%", got)
	}
}

func TestViewportWheelZoomNotchCap(t *testing.T) {
	v := newTestViewport()
	v.SetPercent(100)

	v.WheelZoom(50)
	want := int(math.Round(100 * math.Pow(wheelStepFactor, maxWheelNotches)))
	if got := v.Percent(); got != want {
		t.Errorf("Expected notches capped at %d (=> %d%%), got %d%%", maxWheelNotches, want, got)
	}
}

func TestViewportWheelZoomAnchorsScreenCenter(t *testing.T) {
	v := newTestViewport()
	v.SetPercent(100)
	v.PanBy(10, 20)

	v.WheelZoom(1)

	pan := v.Pan()
	if math.Abs(pan.X-11) > 1e-9 || math.Abs(pan.Y-22) > 1e-9 {
		t.Errorf("Expected pan rescaled by 1.1 to keep center anchored, got %+v", pan)
	}

	// The intrinsic point under the screen center must be unchanged:
	// it is (w/2 - panX/scale, h/2 - panY/scale) in the centered
	// parameterization, i.e. pan/scale must be invariant.
	if math.Abs(pan.X/v.EffectiveScale()-10.0) > 1e-9 {
		t.Error("Expected pan/scale invariant under center-anchored zoom")
	}
}

func TestViewportResetPanKeepsZoom(t *testing.T) {
	v := newTestViewport()
	v.SetPercent(200)
	v.PanBy(5, 5)

	v.ResetPan()

	if v.Pan() != (PanOffset{}) {
		t.Error("Expected pan reset")
	}
	if v.Mode() != ZoomFixed || v.Percent() != 200 {
		t.Error("Expected zoom mode and percentage untouched by pan reset")
	}
}

func TestViewportResizeRecomputesFit(t *testing.T) {
	v := NewViewportService()
	v.SetIntrinsic(800, 600)
	v.Resize(800+2*ContainerInset, 600+2*ContainerInset)
	if v.Percent() != 100 {
		t.Fatalf("Expected 100%%, got %d%%", v.Percent())
	}

	notified := false
	v.OnChange(func() { notified = true })
	v.Resize(400+2*ContainerInset, 600+2*ContainerInset)

	if v.Percent() != 50 {
		t.Errorf("Expected fit recompute to 50%% after resize, got %d%%", v.Percent())
	}
	if !notified {
		t.Error("Expected resize to notify the percent indicator")
	}
}

func TestViewportNewAssetResetsPanAndMode(t *testing.T) {
	v := newTestViewport()
	v.SetPercent(300)
	v.PanBy(40, 40)

	v.SetIntrinsic(100, 100)

	if v.Pan() != (PanOffset{}) {
		t.Error("Expected pan reset on new asset")
	}
	if v.Mode() != ZoomFit {
		t.Error("Expected fit mode on new asset")
	}
}
