package services

import (
	"fmt"
	"strconv"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/svgdoc"
)

// IDs of the preview-only nodes the export pipeline strips back out
const (
	PreviewWrapID     = "lsvg-preview-wrap"
	FrameOutlineID    = "lsvg-frame-outline"
	OpacityOverrideID = "lsvg-opacity-override"
)

// Surface is the render surface: it owns the markup of the currently
// displayed frame. Writes are stamped with a load generation so output
// from a superseded load never lands, and the first content insertion
// fires a one-shot watch (the surface stays hidden until then, avoiding
// a flash of incorrectly scaled content on first paint).
type Surface struct {
	markup     string
	generation int
	visible    bool
	hasContent bool
	onFirst    func()
}

// NewSurface creates an empty, hidden surface
func NewSurface() *Surface {
	return &Surface{}
}

// Reset clears the surface for a new load generation. The surface is
// hidden again until the generation's first write.
func (s *Surface) Reset(generation int) {
	s.markup = ""
	s.generation = generation
	s.visible = false
	s.hasContent = false
	s.onFirst = nil
}

// WatchFirstContent arms a one-shot callback fired on the next first
// content insertion. It disconnects itself after firing.
func (s *Surface) WatchFirstContent(fn func()) {
	s.onFirst = fn
}

// Write replaces the surface markup. Writes stamped with a stale
// generation are dropped.
func (s *Surface) Write(generation int, markup string) {
	if generation != s.generation || markup == "" {
		return
	}
	first := !s.hasContent
	s.markup = markup
	s.hasContent = true
	if first {
		s.visible = true
		if fn := s.onFirst; fn != nil {
			s.onFirst = nil
			fn()
		}
	}
}

// HasContent reports whether any frame has been rendered this generation
func (s *Surface) HasContent() bool { return s.hasContent }

// Visible reports whether the surface has been revealed
func (s *Surface) Visible() bool { return s.visible }

// Raw returns the undecorated frame markup
func (s *Surface) Raw() string { return s.markup }

// ComposeSpec describes the preview decoration around the frame markup
type ComposeSpec struct {
	ContainerWidth  float64
	ContainerHeight float64
	Transform       Transform
	IntrinsicWidth  float64
	IntrinsicHeight float64

	// OriginX/OriginY is the content's viewBox origin. The wrapper
	// transform compensates for it so content drawn at (minX, minY)
	// lands where zero-origin content would.
	OriginX float64
	OriginY float64

	ShowOutline   bool
	IgnoreOpacity bool
}

// Compose returns the live preview document: the frame markup resized
// to the container, its content wrapped in the positioning/scaling
// transform, with the overlay nodes injected. This is exactly what the
// export pipeline later strips back down to a standalone document.
func (s *Surface) Compose(spec ComposeSpec) (string, error) {
	if !s.hasContent {
		return "", domain.ErrNothingToExport
	}

	cw := fnum(spec.ContainerWidth)
	ch := fnum(spec.ContainerHeight)
	doc, err := svgdoc.SetRootAttrs(s.markup,
		[]svgdoc.Attr{
			{Key: "width", Value: cw},
			{Key: "height", Value: ch},
			{Key: "viewBox", Value: fmt.Sprintf("0 0 %s %s", cw, ch)},
		},
		[]string{"preserveAspectRatio"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to compose preview: %w", err)
	}

	open, inner, closing, err := svgdoc.SplitRoot(doc)
	if err != nil {
		return "", fmt.Errorf("failed to compose preview: %w", err)
	}

	t := spec.Transform
	tx := t.TX - t.Scale*spec.OriginX
	ty := t.TY - t.Scale*spec.OriginY
	var b []byte
	b = append(b, open...)
	if spec.IgnoreOpacity {
		b = append(b, opacityOverrideStyle()...)
	}
	b = append(b, fmt.Sprintf(`<g id="%s" transform="translate(%s %s) scale(%s)">`,
		PreviewWrapID, fnum(tx), fnum(ty), fnum(t.Scale))...)
	b = append(b, inner...)
	if spec.ShowOutline {
		b = append(b, frameOutlineRect(spec.OriginX, spec.OriginY, spec.IntrinsicWidth, spec.IntrinsicHeight, t.Scale)...)
	}
	b = append(b, "</g>"...)
	b = append(b, closing...)
	return string(b), nil
}

func opacityOverrideStyle() string {
	return fmt.Sprintf(`<style id="%s">* { opacity: 1 !important; }</style>`, OpacityOverrideID)
}

// frameOutlineRect draws a dashed rectangle at the asset's intrinsic
// bounds, anchored at the content's viewBox origin. The rect lives
// inside the transformed coordinate space, so its stroke width and dash
// lengths are divided by the current scale to keep a constant on-screen
// appearance at any zoom level.
func frameOutlineRect(x, y, w, h, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	return fmt.Sprintf(
		`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#3ddcff" stroke-width="%s" stroke-dasharray="%s %s"/>`,
		FrameOutlineID, fnum(x), fnum(y), fnum(w), fnum(h), fnum(1.5/scale), fnum(4/scale), fnum(4/scale))
}

// fnum formats a float compactly for attribute values
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
