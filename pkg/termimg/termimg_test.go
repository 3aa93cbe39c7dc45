package termimg

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderGridShape(t *testing.T) {
	img := solidImage(100, 100, color.RGBA{R: 0xff, A: 0xff})
	out := Render(img, Options{Cols: 20, Rows: 10})

	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("Expected 10 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := strings.Count(line, halfBlock); got != 20 {
			t.Errorf("Row %d: expected 20 cells, got %d", i, got)
		}
		if !strings.HasSuffix(line, "\x1b[0m") {
			t.Errorf("Row %d: expected trailing color reset", i)
		}
	}
}

func TestRenderOpaqueColorPassthrough(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{R: 0xff, A: 0xff})
	out := Render(img, Options{Cols: 2, Rows: 1})

	if !strings.Contains(out, "38;2;255;0;0") {
		t.Errorf("Expected red foreground escape, got %q", out)
	}
}

func TestRenderTransparentShowsBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{name: "dark", opts: Options{Cols: 2, Rows: 1, Background: BackgroundDark}, expected: "38;2;26;29;35"},
		{name: "light", opts: Options{Cols: 2, Rows: 1, Background: BackgroundLight}, expected: "38;2;242;242;242"},
		{name: "custom", opts: Options{Cols: 2, Rows: 1, Background: BackgroundCustom, CustomColor: color.RGBA{R: 1, G: 2, B: 3}}, expected: "38;2;1;2;3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(img, tt.opts)
			if !strings.Contains(out, tt.expected) {
				t.Errorf("Expected background escape %q in %q", tt.expected, out)
			}
		})
	}
}

func TestRenderEmptyTarget(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{A: 0xff})
	if out := Render(img, Options{Cols: 0, Rows: 5}); out != "" {
		t.Error("Expected empty output for zero-width target")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected color.RGBA
		wantErr  bool
	}{
		{name: "long form", input: "#1a2b3c", expected: color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}},
		{name: "no hash", input: "ff0000", expected: color.RGBA{R: 0xff, A: 0xff}},
		{name: "short form", input: "#f00", expected: color.RGBA{R: 0xff, A: 0xff}},
		{name: "garbage", input: "#xyz123", wantErr: true},
		{name: "wrong length", input: "#ff00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}
