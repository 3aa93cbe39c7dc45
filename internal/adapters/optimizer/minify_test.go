package optimizer

import (
	"strings"
	"testing"
)

func TestOptimizeStripsWhitespaceAndComments(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
	<!-- generated -->
	<g>
		<rect x="0" y="0" width="100" height="100" fill="#ff0000"/>
	</g>
</svg>`

	o := NewSVGOptimizer()
	out, err := o.Optimize(in, false)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if len(out) >= len(in) {
		t.Errorf("Expected output smaller than input: %d >= %d", len(out), len(in))
	}
	if strings.Contains(out, "<!--") {
		t.Error("Expected comments stripped")
	}
	if !strings.Contains(out, "rect") {
		t.Error("Expected content elements preserved")
	}
}

func TestOptimizeAggressiveTruncatesPrecision(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"><path d="M 10.123456789 20.987654321 L 30.555555555 40.111111111"/></svg>`

	o := NewSVGOptimizer()
	out, err := o.Optimize(in, true)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if strings.Contains(out, "10.123456789") {
		t.Error("Expected aggressive pass to truncate path coordinate precision")
	}
}

func TestOptimizeStandardKeepsPrecision(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg"><path d="M10.123456789 20.987654321"/></svg>`

	o := NewSVGOptimizer()
	out, err := o.Optimize(in, false)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !strings.Contains(out, "10.123456789") {
		t.Errorf("Expected lossless pass to keep full precision, got:\n%s", out)
	}
}
