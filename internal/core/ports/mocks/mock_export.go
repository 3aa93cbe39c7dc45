package mocks

import (
	"fmt"
	"image"
	"image/color"
)

// MockOptimizer is a mock implementation of the Optimizer port
type MockOptimizer struct {
	// Fail makes Optimize return an error, exercising caller fallback
	Fail bool

	// Prefix, when set, is prepended as a comment so tests can detect
	// that optimization ran
	Prefix string

	Calls []struct {
		Markup     string
		Aggressive bool
	}
}

func (m *MockOptimizer) Optimize(markup string, aggressive bool) (string, error) {
	m.Calls = append(m.Calls, struct {
		Markup     string
		Aggressive bool
	}{markup, aggressive})

	if m.Fail {
		return "", fmt.Errorf("mock optimizer: internal failure")
	}
	if m.Prefix != "" {
		return m.Prefix + markup, nil
	}
	return markup, nil
}

// MockRasterizer is a mock implementation of the Rasterizer port that
// returns a uniformly filled image of the requested size.
type MockRasterizer struct {
	// Fail makes Rasterize return an error
	Fail bool

	// Fill is the color of every pixel; zero value is transparent
	Fill color.RGBA

	LastWidth, LastHeight int
}

func (m *MockRasterizer) Rasterize(markup string, width, height int) (image.Image, error) {
	if m.Fail {
		return nil, fmt.Errorf("mock rasterizer: decode failed")
	}
	m.LastWidth, m.LastHeight = width, height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, m.Fill)
		}
	}
	return img, nil
}
