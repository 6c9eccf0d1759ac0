package splitter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// DefaultTitleFraction is the share of the viewBox height treated as title.
const DefaultTitleFraction = 0.70

// subtitleElements are the root children considered as subtitle candidates.
var subtitleElements = map[string]bool{"g": true, "text": true, "path": true}

// ViewBox is a parsed SVG viewBox.
type ViewBox struct {
	X, Y, W, H float64
}

func (v ViewBox) String() string {
	return strings.Join([]string{num(v.X), num(v.Y), num(v.W), num(v.H)}, " ")
}

// Element is a root child of an SVG document. Inner holds the element's
// content verbatim. Space is the namespace URL of the element name.
type Element struct {
	Name  string
	Space string
	Attrs []xml.Attr
	Inner []byte
}

// Attr returns the value of the un-namespaced attribute name.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Y returns the element's numeric y attribute.
func (e Element) Y() (float64, bool) {
	v, ok := e.Attr("y")
	if !ok {
		return 0, false
	}
	f, err := parseLength(v)
	return f, err == nil
}

// Parts is a full logo separated into the part that is turned into bricks
// and the part kept as vectors.
type Parts struct {
	// Title is a standalone SVG document cropped to the title area.
	Title []byte
	// Leftovers are the root children lying below Boundary, in document order.
	Leftovers []Element
	// Boundary is the y coordinate separating title from subtitle.
	Boundary float64
	// ViewBox is the viewBox of the original document.
	ViewBox ViewBox
	// Namespaces are the xmlns declarations of the original root, carried
	// over to the composed document so the leftovers keep their prefixes.
	Namespaces []xml.Attr

	ns namespaces
}

type rawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

type rawDocument struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []rawElement `xml:",any"`
}

func parse(doc []byte) (*rawDocument, error) {
	var root rawDocument
	if err := xml.Unmarshal(doc, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSplit, err, "parse svg")
	}
	if root.XMLName.Local != "svg" {
		return nil, errors.New(errors.ErrCodeSplit, "root element is <%s>, want <svg>", root.XMLName.Local)
	}
	return &root, nil
}

// Split keeps the top titleFraction of doc's viewBox as the title and
// collects the g, text and path root children whose y attribute lies below
// that boundary.
func Split(doc []byte, titleFraction float64) (*Parts, error) {
	if !(titleFraction > 0 && titleFraction <= 1) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "title fraction must be in (0, 1] (got %v)", titleFraction)
	}
	root, err := parse(doc)
	if err != nil {
		return nil, err
	}
	vb, err := viewBoxOf(root.Attrs)
	if err != nil {
		return nil, err
	}

	titleH := vb.H * titleFraction
	ns := newNamespaces(root.Attrs)
	s := &Parts{
		Boundary:   vb.Y + titleH,
		ViewBox:    vb,
		Namespaces: declarations(root.Attrs),
		ns:         ns,
	}

	titleVB := ViewBox{X: vb.X, Y: vb.Y, W: vb.W, H: titleH}
	attrs := setAttr(root.Attrs, "viewBox", titleVB.String())
	attrs = setAttr(attrs, "height", num(titleH))

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	writeStart(&buf, "svg", attrs, ns)
	buf.WriteString("\n")
	for _, c := range root.Children {
		e := Element{Name: c.XMLName.Local, Space: c.XMLName.Space, Attrs: c.Attrs, Inner: c.Inner}
		writeElement(&buf, e, ns)
		buf.WriteString("\n")
		if !subtitleElements[e.Name] {
			continue
		}
		if y, ok := e.Y(); ok && y > s.Boundary {
			s.Leftovers = append(s.Leftovers, e)
		}
	}
	buf.WriteString("</svg>\n")
	s.Title = buf.Bytes()
	return s, nil
}

// Compose places the brick rendering of the title above the parts'
// leftovers. The leftovers are scaled to the brick document's width and
// moved so the boundary lines up with the bottom of the bricks.
func Compose(brickSVG []byte, s *Parts) ([]byte, error) {
	if s == nil || s.ViewBox.W <= 0 {
		return nil, errors.New(errors.ErrCodeSplit, "compose needs a split with a valid viewBox")
	}
	bricks, err := parse(brickSVG)
	if err != nil {
		return nil, err
	}
	bvb, err := viewBoxOf(bricks.Attrs)
	if err != nil {
		return nil, err
	}

	scale := bvb.W / s.ViewBox.W
	subtitleH := (s.ViewBox.Y + s.ViewBox.H - s.Boundary) * scale
	total := bvb.H + subtitleH

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg"`,
		num(bvb.W), num(total), num(bvb.W), num(total))
	for _, a := range s.Namespaces {
		if a.Name.Space == "xmlns" {
			fmt.Fprintf(&buf, ` xmlns:%s="%s"`, a.Name.Local, html.EscapeString(a.Value))
		}
	}
	buf.WriteString(">\n")

	brickNS := newNamespaces(bricks.Attrs)
	buf.WriteString(`  <g id="brick-title">` + "\n")
	for _, c := range bricks.Children {
		if c.XMLName.Local == "desc" {
			continue
		}
		buf.WriteString("    ")
		writeElement(&buf, Element{Name: c.XMLName.Local, Space: c.XMLName.Space, Attrs: c.Attrs, Inner: c.Inner}, brickNS)
		buf.WriteString("\n")
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g id="vector-subtitle" transform="translate(0,%s) scale(%s) translate(0,%s)">`+"\n",
		num(bvb.H), num(scale), num(-s.Boundary))
	for _, e := range s.Leftovers {
		buf.WriteString("    ")
		writeElement(&buf, e, s.ns)
		buf.WriteString("\n")
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes(), nil
}

func viewBoxOf(attrs []xml.Attr) (ViewBox, error) {
	if v, ok := attrValue(attrs, "viewBox"); ok {
		return parseViewBox(v)
	}
	wv, wok := attrValue(attrs, "width")
	hv, hok := attrValue(attrs, "height")
	if !wok || !hok {
		return ViewBox{}, errors.New(errors.ErrCodeSplit, "svg has neither viewBox nor width and height")
	}
	w, err := parseLength(wv)
	if err != nil {
		return ViewBox{}, errors.Wrap(errors.ErrCodeSplit, err, "svg width")
	}
	h, err := parseLength(hv)
	if err != nil {
		return ViewBox{}, errors.Wrap(errors.ErrCodeSplit, err, "svg height")
	}
	if w <= 0 || h <= 0 {
		return ViewBox{}, errors.New(errors.ErrCodeSplit, "svg size %vx%v is empty", w, h)
	}
	return ViewBox{W: w, H: h}, nil
}

func parseViewBox(s string) (ViewBox, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, errors.New(errors.ErrCodeSplit, "malformed viewBox %q", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, errors.Wrap(errors.ErrCodeSplit, err, "malformed viewBox %q", s)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return ViewBox{}, errors.New(errors.ErrCodeSplit, "viewBox %q has no area", s)
	}
	return ViewBox{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// parseLength parses a plain or px-suffixed SVG length.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	return strconv.ParseFloat(s, 64)
}

func attrValue(attrs []xml.Attr, name string) (string, bool) {
	return Element{Attrs: attrs}.Attr(name)
}

// setAttr returns attrs with name set to value, replacing an existing
// un-namespaced attribute or appending a new one.
func setAttr(attrs []xml.Attr, name, value string) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs)+1)
	found := false
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			a.Value = value
			found = true
		}
		out = append(out, a)
	}
	if !found {
		out = append(out, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	}
	return out
}

func writeElement(buf *bytes.Buffer, e Element, ns namespaces) {
	ns = ns.with(e.Attrs)
	name := ns.qualify(xml.Name{Space: e.Space, Local: e.Name})
	writeStart(buf, name, e.Attrs, ns)
	buf.Write(e.Inner)
	fmt.Fprintf(buf, "</%s>", name)
}

func writeStart(buf *bytes.Buffer, name string, attrs []xml.Attr, ns namespaces) {
	buf.WriteString("<" + name)
	for _, a := range attrs {
		fmt.Fprintf(buf, ` %s="%s"`, ns.qualify(a.Name), html.EscapeString(a.Value))
	}
	buf.WriteString(">")
}

// namespaces maps namespace URLs back to the prefixes declared for them.
// encoding/xml reports a prefixed name with the URL as its Space, so names
// must be re-prefixed before they are written again.
type namespaces map[string]string

const (
	xlinkNS = "http://www.w3.org/1999/xlink"
	xmlNS   = "http://www.w3.org/XML/1998/namespace"
)

func newNamespaces(attrs []xml.Attr) namespaces {
	ns := namespaces{xlinkNS: "xlink", xmlNS: "xml"}
	return ns.with(attrs)
}

// with returns ns extended by the xmlns declarations in attrs. ns itself is
// left untouched when attrs declares anything.
func (ns namespaces) with(attrs []xml.Attr) namespaces {
	var out namespaces
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefix = ""
		default:
			continue
		}
		if out == nil {
			out = make(namespaces, len(ns)+1)
			for k, v := range ns {
				out[k] = v
			}
		}
		out[a.Value] = prefix
	}
	if out == nil {
		return ns
	}
	return out
}

// qualify writes n in prefixed form. A Space that was never declared is
// either an undeclared prefix, kept as is, or an unknown URL, dropped.
func (ns namespaces) qualify(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	case "xlink", "xml":
		return n.Space + ":" + n.Local
	}
	if prefix, ok := ns[n.Space]; ok {
		if prefix == "" {
			return n.Local
		}
		return prefix + ":" + n.Local
	}
	switch n.Space {
	case xlinkNS:
		return "xlink:" + n.Local
	case xmlNS:
		return "xml:" + n.Local
	}
	if strings.ContainsAny(n.Space, ":/") {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// declarations returns the xmlns:prefix attributes of attrs.
func declarations(attrs []xml.Attr) []xml.Attr {
	var out []xml.Attr
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			out = append(out, a)
		}
	}
	return out
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
