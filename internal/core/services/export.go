package services

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
	"github.com/CarloBu/lottie-svg-toolbox/internal/core/ports"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/svgdoc"
)

// RasterScaleSteps is the fixed raster export step table, addressed by a
// UI index. Index 0 is an alias for 1x: the leftmost position is the
// default, not literally 0.25x.
var RasterScaleSteps = []float64{0.25, 0.5, 1, 2, 4, 8}

// RasterScaleFactor resolves a UI step index to a scale factor
func RasterScaleFactor(index int) float64 {
	if index <= 0 {
		return 1
	}
	if index >= len(RasterScaleSteps) {
		return RasterScaleSteps[len(RasterScaleSteps)-1]
	}
	return RasterScaleSteps[index]
}

// RasterFormat is a raster export encoding
type RasterFormat string

const (
	FormatPNG  RasterFormat = "png"
	FormatJPEG RasterFormat = "jpg"
)

// FrameSource is the export pipeline's input: the live surface markup
// (still carrying preview-only artifacts) plus the asset it renders.
type FrameSource struct {
	Markup string
	Asset  domain.Asset
	Frame  int
}

// ExportResult is a finished download: output bytes plus the computed
// filename.
type ExportResult struct {
	Filename string
	Data     []byte
}

// RasterOptions configures a raster export
type RasterOptions struct {
	Format RasterFormat

	// ScaleIndex selects from RasterScaleSteps
	ScaleIndex int

	// Compression is the user-facing 0..100 level; JPEG quality is
	// derived from it
	Compression int
}

// ExportService produces downloadable files representing exactly the
// currently displayed frame, independent of any preview transform or
// overlay applied on screen.
type ExportService struct {
	optimizer ports.Optimizer
	raster    ports.Rasterizer
}

// NewExportService creates an export service around the optimization and
// rasterization collaborators.
func NewExportService(optimizer ports.Optimizer, raster ports.Rasterizer) *ExportService {
	return &ExportService{optimizer: optimizer, raster: raster}
}

// Vector exports the frame as a standalone, optimized SVG document with
// the asset's intrinsic dimensions reinstated.
func (s *ExportService) Vector(src FrameSource, aggressive bool) (*ExportResult, error) {
	clean, err := s.cleanMarkup(src)
	if err != nil {
		return nil, err
	}

	optimized, err := s.optimizer.Optimize(clean, aggressive)
	if err != nil {
		// The collaborator failed internally; the manually cleaned
		// document is already standalone and correct, so ship that.
		optimized = clean
	}

	return &ExportResult{
		Filename: exportFilename(src.Asset, src.Frame, "svg"),
		Data:     []byte(optimized),
	}, nil
}

// Raster exports the frame as PNG or JPEG at intrinsic size times the
// selected scale factor, never the on-screen zoom scale.
func (s *ExportService) Raster(src FrameSource, opts RasterOptions) (*ExportResult, error) {
	clean, err := s.cleanMarkup(src)
	if err != nil {
		return nil, err
	}

	factor := RasterScaleFactor(opts.ScaleIndex)
	w := int(math.Round(src.Asset.Width * factor))
	h := int(math.Round(src.Asset.Height * factor))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: raster size %dx%d is empty", domain.ErrExportFailure, w, h)
	}

	img, err := s.raster.Rasterize(clean, w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExportFailure, err)
	}

	var buf bytes.Buffer
	switch opts.Format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		// JPEG has no transparency channel: fill opaque white first,
		// then draw the rendered vector on top.
		canvas := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(canvas, canvas.Bounds(), img, image.Point{}, draw.Over)
		err = jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: JPEGQuality(opts.Compression)})
	default:
		return nil, fmt.Errorf("%w: unknown raster format %q", domain.ErrExportFailure, opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExportFailure, err)
	}

	return &ExportResult{
		Filename: exportFilename(src.Asset, src.Frame, string(opts.Format)),
		Data:     buf.Bytes(),
	}, nil
}

// cleanMarkup strips the preview-only artifacts and reinstates the
// asset's intrinsic dimensions so the document stands alone.
func (s *ExportService) cleanMarkup(src FrameSource) (string, error) {
	if src.Markup == "" {
		return "", domain.ErrNothingToExport
	}

	m, _ := svgdoc.RemoveElementByID(src.Markup, FrameOutlineID)
	m, _ = svgdoc.RemoveElementByID(m, OpacityOverrideID)
	m, _ = svgdoc.UnwrapElementByID(m, PreviewWrapID)

	// A non-zero viewBox origin means the content coordinates start
	// there; the exported viewBox keeps it so nothing renders shifted.
	viewBox := fmt.Sprintf("%s %s %s %s",
		fnum(src.Asset.OriginX), fnum(src.Asset.OriginY),
		fnum(src.Asset.Width), fnum(src.Asset.Height))
	clean, err := svgdoc.SetRootAttrs(m,
		[]svgdoc.Attr{
			{Key: "width", Value: fnum(src.Asset.Width)},
			{Key: "height", Value: fnum(src.Asset.Height)},
			{Key: "viewBox", Value: viewBox},
			{Key: "preserveAspectRatio", Value: "xMidYMid meet"},
		},
		[]string{"style"},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExportFailure, err)
	}
	return clean, nil
}

// JPEGQuality derives the encoder quality from the user-facing 0..100
// compression level (higher compression, lower quality), floored at 1.
func JPEGQuality(compression int) int {
	if compression < 0 {
		compression = 0
	}
	if compression > 100 {
		compression = 100
	}
	q := 100 - compression
	if q < 1 {
		q = 1
	}
	return q
}

// exportFilename computes the download name: animated assets embed the
// exported frame index, static assets keep their base name.
func exportFilename(a domain.Asset, frame int, ext string) string {
	if a.IsAnimated() {
		return fmt.Sprintf("%s-%d-frame.%s", a.BaseName(), frame, ext)
	}
	return a.BaseName() + "." + ext
}
