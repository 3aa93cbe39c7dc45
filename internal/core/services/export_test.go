package services

import (
	"bytes"
	"errors"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
	"github.com/CarloBu/lottie-svg-toolbox/internal/core/ports/mocks"
)

func testFrameSource() FrameSource {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="808" height="608" viewBox="0 0 808 608" style="background:#222">` +
		`<style id="` + OpacityOverrideID + `">* { opacity: 1 !important; }</style>` +
		`<g id="` + PreviewWrapID + `" transform="translate(4 4) scale(2)">` +
		`<rect width="800" height="600" fill="red"/>` +
		`<rect id="` + FrameOutlineID + `" x="0" y="0" width="800" height="600" fill="none" stroke="#3ddcff"/>` +
		`</g></svg>`
	return FrameSource{
		Markup: markup,
		Asset: domain.Asset{
			Kind:       domain.KindAnimation,
			Name:       "bounce.json",
			Width:      800,
			Height:     600,
			FrameCount: 100,
			FrameRate:  24,
		},
		Frame: 50,
	}
}

func TestExportVectorStripsPreviewArtifacts(t *testing.T) {
	opt := &mocks.MockOptimizer{}
	svc := NewExportService(opt, &mocks.MockRasterizer{})

	res, err := svc.Vector(testFrameSource(), false)
	if err != nil {
		t.Fatalf("Vector failed: %v", err)
	}

	out := string(res.Data)
	for _, gone := range []string{PreviewWrapID, FrameOutlineID, OpacityOverrideID, "style="} {
		if strings.Contains(out, gone) {
			t.Errorf("Expected preview artifact %q stripped from export", gone)
		}
	}
	if !strings.Contains(out, `fill="red"`) {
		t.Error("Expected wrapped content preserved after unwrap")
	}
	for _, want := range []string{`width="800"`, `height="600"`, `viewBox="0 0 800 600"`, `preserveAspectRatio="xMidYMid meet"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected intrinsic root attribute %s in export, got:\n%s", want, out)
		}
	}
	if res.Filename != "bounce-50-frame.svg" {
		t.Errorf("Expected filename %q, got %q", "bounce-50-frame.svg", res.Filename)
	}
	if len(opt.Calls) != 1 {
		t.Fatalf("Expected one optimizer call, got %d", len(opt.Calls))
	}
}

func TestExportVectorAggressiveFlagForwarded(t *testing.T) {
	opt := &mocks.MockOptimizer{}
	svc := NewExportService(opt, &mocks.MockRasterizer{})

	if _, err := svc.Vector(testFrameSource(), true); err != nil {
		t.Fatalf("Vector failed: %v", err)
	}
	if !opt.Calls[0].Aggressive {
		t.Error("Expected aggressive flag forwarded to optimizer")
	}
}

func TestExportVectorOptimizerFailureFallsBack(t *testing.T) {
	opt := &mocks.MockOptimizer{Fail: true}
	svc := NewExportService(opt, &mocks.MockRasterizer{})

	res, err := svc.Vector(testFrameSource(), false)
	if err != nil {
		t.Fatalf("Expected fallback to cleaned markup, got error: %v", err)
	}
	out := string(res.Data)
	if strings.Contains(out, PreviewWrapID) {
		t.Error("Expected fallback output to still be cleaned")
	}
	if !strings.Contains(out, `viewBox="0 0 800 600"`) {
		t.Error("Expected fallback output to carry intrinsic dimensions")
	}
}

func TestExportVectorKeepsViewBoxOrigin(t *testing.T) {
	src := FrameSource{
		Markup: `<svg xmlns="http://www.w3.org/2000/svg" width="308" height="158" viewBox="0 0 308 158">` +
			`<g id="` + PreviewWrapID + `" transform="translate(-16 -36) scale(2)">` +
			`<circle cx="160" cy="95" r="40"/>` +
			`</g></svg>`,
		Asset: domain.Asset{
			Kind:    domain.KindStaticSVG,
			Name:    "badge.svg",
			Width:   300,
			Height:  150,
			OriginX: 10,
			OriginY: 20,
		},
	}

	svc := NewExportService(&mocks.MockOptimizer{}, &mocks.MockRasterizer{})
	res, err := svc.Vector(src, false)
	if err != nil {
		t.Fatalf("Vector failed: %v", err)
	}

	out := string(res.Data)
	// The content still uses coordinates starting at (10,20), so the
	// exported viewBox must keep that origin.
	if !strings.Contains(out, `viewBox="10 20 300 150"`) {
		t.Errorf("Expected origin-preserving viewBox in export, got:\n%s", out)
	}
	for _, want := range []string{`width="300"`, `height="150"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected intrinsic %s in export, got:\n%s", want, out)
		}
	}
}

func TestExportVectorEmptySource(t *testing.T) {
	svc := NewExportService(&mocks.MockOptimizer{}, &mocks.MockRasterizer{})
	_, err := svc.Vector(FrameSource{}, false)
	if !errors.Is(err, domain.ErrNothingToExport) {
		t.Errorf("Expected ErrNothingToExport, got %v", err)
	}
}

func TestExportRasterScaleFactor(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		expected float64
	}{
		{name: "default index aliases 1x", index: 0, expected: 1},
		{name: "half", index: 1, expected: 0.5},
		{name: "native", index: 2, expected: 1},
		{name: "double", index: 3, expected: 2},
		{name: "max", index: 5, expected: 8},
		{name: "past end clamps", index: 9, expected: 8},
		{name: "negative aliases 1x", index: -1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RasterScaleFactor(tt.index); got != tt.expected {
				t.Errorf("RasterScaleFactor(%d) = %g, want %g", tt.index, got, tt.expected)
			}
		})
	}
}

func TestExportRasterPNGDimensions(t *testing.T) {
	raster := &mocks.MockRasterizer{}
	svc := NewExportService(&mocks.MockOptimizer{}, raster)

	// 800x600 at the 2x step
	res, err := svc.Raster(testFrameSource(), RasterOptions{Format: FormatPNG, ScaleIndex: 3})
	if err != nil {
		t.Fatalf("Raster failed: %v", err)
	}
	if raster.LastWidth != 1600 || raster.LastHeight != 1200 {
		t.Errorf("Expected 1600x1200 render, got %dx%d", raster.LastWidth, raster.LastHeight)
	}

	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("Expected valid PNG output: %v", err)
	}
	if img.Bounds().Dx() != 1600 || img.Bounds().Dy() != 1200 {
		t.Errorf("Expected encoded 1600x1200, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if res.Filename != "bounce-50-frame.png" {
		t.Errorf("Expected filename %q, got %q", "bounce-50-frame.png", res.Filename)
	}
}

func TestExportRasterJPEGWhiteUnderlay(t *testing.T) {
	// Transparent render: JPEG output must be white, not black
	raster := &mocks.MockRasterizer{}
	svc := NewExportService(&mocks.MockOptimizer{}, raster)

	res, err := svc.Raster(testFrameSource(), RasterOptions{Format: FormatJPEG, ScaleIndex: 2, Compression: 0})
	if err != nil {
		t.Fatalf("Raster failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("Expected valid JPEG output: %v", err)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Errorf("Expected white underlay behind transparent pixels, got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	if res.Filename != "bounce-50-frame.jpg" {
		t.Errorf("Expected filename %q, got %q", "bounce-50-frame.jpg", res.Filename)
	}
}

func TestExportRasterFailure(t *testing.T) {
	svc := NewExportService(&mocks.MockOptimizer{}, &mocks.MockRasterizer{Fail: true})
	_, err := svc.Raster(testFrameSource(), RasterOptions{Format: FormatPNG})
	if !errors.Is(err, domain.ErrExportFailure) {
		t.Errorf("Expected ErrExportFailure, got %v", err)
	}
}

func TestExportStaticFilename(t *testing.T) {
	src := testFrameSource()
	src.Asset = domain.Asset{
		Kind:   domain.KindStaticSVG,
		Name:   "logo.svg",
		Width:  300,
		Height: 150,
	}
	src.Frame = 0

	svc := NewExportService(&mocks.MockOptimizer{}, &mocks.MockRasterizer{})
	res, err := svc.Vector(src, false)
	if err != nil {
		t.Fatalf("Vector failed: %v", err)
	}
	if res.Filename != "logo.svg" {
		t.Errorf("Expected static export named %q, got %q", "logo.svg", res.Filename)
	}
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		name        string
		compression int
		expected    int
	}{
		{name: "no compression", compression: 0, expected: 100},
		{name: "mid", compression: 40, expected: 60},
		{name: "max floors at 1", compression: 100, expected: 1},
		{name: "over range clamps", compression: 250, expected: 1},
		{name: "negative clamps", compression: -5, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JPEGQuality(tt.compression); got != tt.expected {
				t.Errorf("JPEGQuality(%d) = %d, want %d", tt.compression, got, tt.expected)
			}
		})
	}
}
