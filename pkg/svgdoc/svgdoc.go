// Package svgdoc inspects and rewrites SVG markup at the token level:
// reading intrinsic dimensions, rewriting root attributes, and removing
// or unwrapping elements by id. It never builds a DOM; elements are
// located with encoding/xml token offsets and the markup is spliced, so
// everything outside the touched spans survives byte for byte.
package svgdoc

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Attr is an ordered attribute for root tag rewriting
type Attr struct {
	Key   string
	Value string
}

// ViewBox is the document's user coordinate system: origin plus size
type ViewBox struct {
	MinX   float64
	MinY   float64
	Width  float64
	Height float64
}

// ReadViewBox resolves the document's coordinate system: from the
// viewBox attribute when present, falling back to a zero origin with
// the numeric portion of the width/height attributes. The origin
// matters: content of a document with viewBox="10 20 300 150" lives at
// (10,20), not (0,0).
func ReadViewBox(markup string) (ViewBox, error) {
	root, err := rootElement(markup)
	if err != nil {
		return ViewBox{}, err
	}

	if vb, ok := attrValue(root, "viewBox"); ok {
		nums := splitNumberList(vb)
		if len(nums) == 4 && nums[2] > 0 && nums[3] > 0 {
			return ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, nil
		}
	}

	ws, wok := attrValue(root, "width")
	hs, hok := attrValue(root, "height")
	if wok && hok {
		w, werr := ParseLength(ws)
		h, herr := ParseLength(hs)
		if werr == nil && herr == nil && w > 0 && h > 0 {
			return ViewBox{Width: w, Height: h}, nil
		}
	}

	return ViewBox{}, fmt.Errorf("document declares no usable dimensions")
}

// SplitRoot splits markup into the root open tag, the inner content, and
// the root close tag. Content before and after the root element is
// dropped.
func SplitRoot(markup string) (openTag, inner, closeTag string, err error) {
	s0, s1, e0, e1, err := rootSpans(markup)
	if err != nil {
		return "", "", "", err
	}
	return markup[s0:s1], markup[s1:e0], markup[e0:e1], nil
}

// SetRootAttrs returns markup with the listed root attributes dropped
// and then set (replaced in place, or appended when absent). Attribute
// order otherwise survives.
func SetRootAttrs(markup string, set []Attr, drop []string) (string, error) {
	s0, s1, _, _, err := rootSpans(markup)
	if err != nil {
		return "", err
	}
	tag, err := rewriteTag(markup[s0:s1], set, drop)
	if err != nil {
		return "", err
	}
	return markup[:s0] + tag + markup[s1:], nil
}

// RemoveElementByID removes the element with the given id, including all
// of its children. Reports whether anything was removed.
func RemoveElementByID(markup, id string) (string, bool) {
	s0, _, _, e1, ok := elementSpansByID(markup, id)
	if !ok {
		return markup, false
	}
	return markup[:s0] + markup[e1:], true
}

// UnwrapElementByID removes the element's start and end tags, keeping
// its children in place. Reports whether anything was unwrapped.
func UnwrapElementByID(markup, id string) (string, bool) {
	s0, s1, e0, e1, ok := elementSpansByID(markup, id)
	if !ok {
		return markup, false
	}
	return markup[:s0] + markup[s1:e0] + markup[e1:], true
}

// ParseLength parses the numeric portion of an SVG length, ignoring any
// trailing unit ("300", "300px", "12.5pt").
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '+' || c == '-' ||
			((c == 'e' || c == 'E') && end > 0) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, fmt.Errorf("no numeric portion in length %q", s)
	}
	return strconv.ParseFloat(s[:end], 64)
}

// splitNumberList splits a whitespace- or comma-separated number list
func splitNumberList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ',' || r == '\r'
	})
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		nums = append(nums, n)
	}
	return nums
}

// newDecoder configures a lenient decoder the way SVG in the wild needs
func newDecoder(markup string) *xml.Decoder {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	return dec
}

// rootElement returns the first start element of the document
func rootElement(markup string) (xml.StartElement, error) {
	dec := newDecoder(markup)
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, fmt.Errorf("no root element found: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

func attrValue(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// rootSpans locates the byte spans of the root element's open tag
// [s0,s1) and close tag [e0,e1). For a self-closing root all of
// s1, e0 and e1 coincide.
func rootSpans(markup string) (s0, s1, e0, e1 int, err error) {
	dec := newDecoder(markup)
	last := int64(0)
	depth := 0
	started := false
	for {
		tok, terr := dec.Token()
		if terr != nil {
			return 0, 0, 0, 0, fmt.Errorf("malformed markup: %w", terr)
		}
		switch tok.(type) {
		case xml.StartElement:
			if !started {
				started = true
				s0, s1 = int(last), int(dec.InputOffset())
			}
			depth++
		case xml.EndElement:
			depth--
			if started && depth == 0 {
				e0, e1 = int(last), int(dec.InputOffset())
				return s0, s1, e0, e1, nil
			}
		}
		last = dec.InputOffset()
	}
}

// elementSpansByID locates the open tag span [s0,s1) and end tag span
// [e0,e1) of the element whose id attribute equals id.
func elementSpansByID(markup, id string) (s0, s1, e0, e1 int, found bool) {
	dec := newDecoder(markup)
	last := int64(0)
	depth := 0
	matched := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0, 0, 0, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if matched {
				depth++
				break
			}
			if v, ok := attrValue(se, "id"); ok && v == id {
				matched = true
				depth = 1
				s0, s1 = int(last), int(dec.InputOffset())
			}
		case xml.EndElement:
			if matched {
				depth--
				if depth == 0 {
					e0, e1 = int(last), int(dec.InputOffset())
					return s0, s1, e0, e1, true
				}
			}
		}
		last = dec.InputOffset()
	}
}

// rawAttr is an attribute as it appears in source, value still escaped
type rawAttr struct {
	key    string
	rawVal string
}

// rewriteTag rebuilds a raw open tag with drop keys removed and set keys
// replaced or appended. Works on source text so existing escaping and
// namespace prefixes survive untouched.
func rewriteTag(tag string, set []Attr, drop []string) (string, error) {
	name, attrs, selfClose, err := scanTag(tag)
	if err != nil {
		return "", err
	}

	dropSet := make(map[string]bool, len(drop))
	for _, k := range drop {
		dropSet[k] = true
	}
	setVals := make(map[string]string, len(set))
	for _, a := range set {
		setVals[a.Key] = a.Value
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)

	seen := make(map[string]bool)
	for _, a := range attrs {
		if dropSet[a.key] {
			continue
		}
		if v, ok := setVals[a.key]; ok {
			writeAttr(&b, a.key, escapeAttr(v))
			seen[a.key] = true
			continue
		}
		writeAttr(&b, a.key, a.rawVal)
	}
	for _, a := range set {
		if !seen[a.Key] {
			writeAttr(&b, a.Key, escapeAttr(a.Value))
		}
	}

	if selfClose {
		b.WriteString("/>")
	} else {
		b.WriteByte('>')
	}
	return b.String(), nil
}

func writeAttr(b *strings.Builder, key, rawVal string) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(rawVal)
	b.WriteByte('"')
}

func escapeAttr(v string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(v)
}

// scanTag tokenizes a raw open tag like `<svg width="10" viewBox="0 0 1 1">`
func scanTag(tag string) (name string, attrs []rawAttr, selfClose bool, err error) {
	if len(tag) < 3 || tag[0] != '<' {
		return "", nil, false, fmt.Errorf("not an open tag: %q", tag)
	}
	i := 1
	start := i
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	name = tag[start:i]
	if name == "" {
		return "", nil, false, fmt.Errorf("missing tag name in %q", tag)
	}

	for i < len(tag) {
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			break
		}
		if tag[i] == '/' {
			selfClose = true
			i++
			continue
		}

		keyStart := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
			i++
		}
		key := tag[keyStart:i]
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		val := ""
		if i < len(tag) && tag[i] == '=' {
			i++
			for i < len(tag) && isSpace(tag[i]) {
				i++
			}
			if i < len(tag) && (tag[i] == '"' || tag[i] == '\'') {
				quote := tag[i]
				i++
				valStart := i
				for i < len(tag) && tag[i] != quote {
					i++
				}
				val = tag[valStart:i]
				if i < len(tag) {
					i++ // closing quote
				}
			}
		}
		if key != "" {
			attrs = append(attrs, rawAttr{key: key, rawVal: val})
		}
	}
	return name, attrs, selfClose, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
