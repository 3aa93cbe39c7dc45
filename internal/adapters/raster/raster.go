package raster

import (
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// OkRasterizer renders vector markup to pixels via oksvg/rasterx. It is
// a Rasterizer port implementation.
//
// The renderer ignores recoverable parse problems (unknown elements,
// unsupported CSS) and draws what it understands, which is the right
// trade for both preview thumbnails and raster export of real-world
// animation frames.
type OkRasterizer struct{}

// NewOkRasterizer creates a rasterizer
func NewOkRasterizer() *OkRasterizer {
	return &OkRasterizer{}
}

// Rasterize renders the markup onto a transparent canvas of exactly
// width x height pixels, scaling the document to fill the target.
func (r *OkRasterizer) Rasterize(markup string, width, height int) (image.Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("raster target %dx%d is empty", width, height)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vector markup: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	icon.SetTarget(0, 0, float64(width), float64(height))

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return img, nil
}
