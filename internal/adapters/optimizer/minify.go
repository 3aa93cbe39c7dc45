package optimizer

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const svgMediaType = "image/svg+xml"

// SVGOptimizer shrinks vector markup for export. It is an Optimizer
// port implementation built on tdewolff/minify.
//
// The default pass is lossless: whitespace, comments and attribute
// quoting. The aggressive pass additionally truncates numeric precision,
// which changes rendered output below the visible threshold but can
// matter for downstream tooling, hence the separate opt-in.
type SVGOptimizer struct {
	standard   *minify.M
	aggressive *minify.M
}

// NewSVGOptimizer creates an optimizer with both passes configured
func NewSVGOptimizer() *SVGOptimizer {
	std := minify.New()
	std.AddFunc(svgMediaType, svg.Minify)

	agg := minify.New()
	agg.Add(svgMediaType, &svg.Minifier{Precision: 3})

	return &SVGOptimizer{standard: std, aggressive: agg}
}

// Optimize returns a minified copy of the markup. The input document is
// expected to already be standalone; optimization never adds or removes
// elements, only compacts the serialization.
func (o *SVGOptimizer) Optimize(markup string, aggressive bool) (string, error) {
	m := o.standard
	if aggressive {
		m = o.aggressive
	}
	out, err := m.String(svgMediaType, markup)
	if err != nil {
		return "", fmt.Errorf("failed to minify markup: %w", err)
	}
	return out, nil
}
