package services

import (
	"strings"
	"testing"
)

const surfaceMarkup = `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600"><rect width="800" height="600"/></svg>`

func TestSurfaceHiddenUntilFirstWrite(t *testing.T) {
	s := NewSurface()
	s.Reset(1)

	if s.Visible() || s.HasContent() {
		t.Fatal("Expected fresh surface hidden and empty")
	}

	s.Write(1, surfaceMarkup)

	if !s.Visible() || !s.HasContent() {
		t.Error("Expected surface revealed after first write")
	}
}

func TestSurfaceFirstContentWatchFiresOnce(t *testing.T) {
	s := NewSurface()
	s.Reset(1)

	fired := 0
	s.WatchFirstContent(func() { fired++ })

	s.Write(1, surfaceMarkup)
	s.Write(1, surfaceMarkup)
	s.Write(1, surfaceMarkup)

	if fired != 1 {
		t.Errorf("Expected one-shot watch to fire exactly once, fired %d times", fired)
	}
}

func TestSurfaceStaleGenerationDropped(t *testing.T) {
	s := NewSurface()
	s.Reset(1)
	s.Write(1, surfaceMarkup)

	s.Reset(2)
	s.Write(1, `<svg><rect id="stale"/></svg>`)

	if s.HasContent() || s.Visible() {
		t.Error("Expected stale-generation write dropped")
	}
	if s.Raw() != "" {
		t.Errorf("Expected empty surface, got %q", s.Raw())
	}

	s.Write(2, surfaceMarkup)
	if !s.HasContent() {
		t.Error("Expected current-generation write accepted")
	}
}

func TestSurfaceResetRearmsHiddenState(t *testing.T) {
	s := NewSurface()
	s.Reset(1)
	s.Write(1, surfaceMarkup)

	s.Reset(2)

	if s.Visible() || s.HasContent() || s.Raw() != "" {
		t.Error("Expected reset to hide and empty the surface")
	}

	fired := false
	s.WatchFirstContent(func() { fired = true })
	s.Write(2, surfaceMarkup)
	if !fired {
		t.Error("Expected watch re-armed for the new generation")
	}
}

func TestSurfaceEmptyWriteIgnored(t *testing.T) {
	s := NewSurface()
	s.Reset(1)

	s.Write(1, "")

	if s.HasContent() {
		t.Error("Expected empty markup ignored")
	}
}

func TestSurfaceComposeWrapsAndSizes(t *testing.T) {
	s := NewSurface()
	s.Reset(1)
	s.Write(1, surfaceMarkup)

	doc, err := s.Compose(ComposeSpec{
		ContainerWidth:  808,
		ContainerHeight: 608,
		Transform:       Transform{Scale: 2, TX: 10, TY: 20},
		IntrinsicWidth:  800,
		IntrinsicHeight: 600,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	for _, want := range []string{
		`width="808"`,
		`height="608"`,
		`viewBox="0 0 808 608"`,
		`<g id="` + PreviewWrapID + `" transform="translate(10 20) scale(2)">`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("Expected composed document to contain %s, got:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "preserveAspectRatio") {
		t.Error("Expected preserveAspectRatio dropped so the root never letterboxes")
	}
	if !strings.Contains(doc, `<rect width="800" height="600"/>`) {
		t.Error("Expected original content inside the wrapper")
	}
}

func TestSurfaceComposeOverlays(t *testing.T) {
	s := NewSurface()
	s.Reset(1)
	s.Write(1, surfaceMarkup)

	spec := ComposeSpec{
		ContainerWidth:  808,
		ContainerHeight: 608,
		Transform:       Transform{Scale: 2},
		IntrinsicWidth:  800,
		IntrinsicHeight: 600,
		ShowOutline:     true,
		IgnoreOpacity:   true,
	}
	doc, err := s.Compose(spec)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !strings.Contains(doc, OpacityOverrideID) {
		t.Error("Expected opacity override style injected")
	}
	// Outline geometry stays constant on screen: stroke and dashes are
	// divided by the 2x scale.
	if !strings.Contains(doc, `stroke-width="0.75"`) {
		t.Errorf("Expected scale-compensated stroke width, got:\n%s", doc)
	}
	if !strings.Contains(doc, `stroke-dasharray="2 2"`) {
		t.Errorf("Expected scale-compensated dash lengths, got:\n%s", doc)
	}

	// Outline must live inside the wrapper so it tracks pan and zoom
	wrapAt := strings.Index(doc, PreviewWrapID)
	outlineAt := strings.Index(doc, FrameOutlineID)
	closeAt := strings.LastIndex(doc, "</g>")
	if outlineAt < wrapAt || outlineAt > closeAt {
		t.Error("Expected outline rect inside the transform wrapper")
	}

	spec.ShowOutline = false
	spec.IgnoreOpacity = false
	doc, _ = s.Compose(spec)
	if strings.Contains(doc, FrameOutlineID) || strings.Contains(doc, OpacityOverrideID) {
		t.Error("Expected overlays absent when toggled off")
	}
}

func TestSurfaceComposeOffsetOrigin(t *testing.T) {
	s := NewSurface()
	s.Reset(1)
	s.Write(1, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="10 20 300 150"><circle cx="160" cy="95" r="40"/></svg>`)

	doc, err := s.Compose(ComposeSpec{
		ContainerWidth:  308,
		ContainerHeight: 158,
		Transform:       Transform{Scale: 2, TX: 4, TY: 4},
		IntrinsicWidth:  300,
		IntrinsicHeight: 150,
		OriginX:         10,
		OriginY:         20,
		ShowOutline:     true,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// The wrapper shifts by -scale*origin so content drawn at (10,20)
	// lands where zero-origin content would: 4-2*10=-16, 4-2*20=-36.
	if !strings.Contains(doc, `transform="translate(-16 -36) scale(2)"`) {
		t.Errorf("Expected origin-compensated translate, got:\n%s", doc)
	}
	if !strings.Contains(doc, `x="10" y="20" width="300" height="150"`) {
		t.Errorf("Expected outline anchored at the content origin, got:\n%s", doc)
	}
}

func TestSurfaceComposeEmpty(t *testing.T) {
	s := NewSurface()
	s.Reset(1)

	if _, err := s.Compose(ComposeSpec{}); err == nil {
		t.Error("Expected error composing an empty surface")
	}
}
