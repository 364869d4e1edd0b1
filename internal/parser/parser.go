// Package parser classifies raw template strings against a bindings
// mapping. A template string is one of three shapes: a plain literal, a
// single bind point covering the whole string, or a concatenation of
// literal text and bind points. The parser also extracts capture points,
// which name result values to save, optionally under an alias.
//
// Syntax:
//
//	{name}            bind point referencing the binding called "name"
//	[name]            capture point
//	[name as alias]   capture point saved under "alias"
//
// Capture points are stripped from the template text before bind-point
// scanning, so they never contribute to the literal content.
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a parsed template string.
type Kind int

const (
	// KindLiteral is a string with no bind points.
	KindLiteral Kind = iota
	// KindBindRef is a string that is exactly one bind point.
	KindBindRef
	// KindConcat is a string mixing literal text and bind points.
	KindConcat
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindBindRef:
		return "bindref"
	case KindConcat:
		return "concat"
	default:
		return "unknown"
	}
}

// BindPoint is a reference to a named binding inside a template string.
type BindPoint struct {
	// Name is the binding name as written between the braces.
	Name string
	// Spec is the binding specification the name resolves to.
	Spec string
}

// CapturePoint names a value to extract from an operation's result.
type CapturePoint struct {
	Name  string
	Alias string
}

// AsName returns the name the captured value should be saved under.
func (c CapturePoint) AsName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Segment is one piece of a concatenation: either literal text or a
// bind point, never both.
type Segment struct {
	Literal string
	Bind    *BindPoint
}

// ParsedTemplate is the classification result for one template string.
type ParsedTemplate struct {
	Raw      string
	Kind     Kind
	Captures []CapturePoint

	// Literal holds the capture-stripped text for KindLiteral.
	Literal string
	// Point is set for KindBindRef.
	Point *BindPoint
	// Segments is set for KindConcat, in source order.
	Segments []Segment
}

// BindSpec returns the binding specification for a bindref template.
func (p *ParsedTemplate) BindSpec() (string, bool) {
	if p.Kind == KindBindRef {
		return p.Point.Spec, true
	}
	return "", false
}

var (
	bindPointRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_.-]*)\}`)
	captureRe   = regexp.MustCompile(`\[([a-zA-Z_][a-zA-Z0-9_.-]*)(?:\s+as\s+([a-zA-Z_][a-zA-Z0-9_.-]*))?\]`)
)

// Parse classifies raw against the given bindings mapping. A bind point
// naming a binding absent from the mapping is an error: templates must
// not silently degrade to literals when a binding name is mistyped.
func Parse(raw string, bindings map[string]string) (*ParsedTemplate, error) {
	pt := &ParsedTemplate{Raw: raw}

	text := captureRe.ReplaceAllStringFunc(raw, func(m string) string {
		groups := captureRe.FindStringSubmatch(m)
		pt.Captures = append(pt.Captures, CapturePoint{Name: groups[1], Alias: groups[2]})
		return ""
	})

	locs := bindPointRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		pt.Kind = KindLiteral
		pt.Literal = text
		return pt, nil
	}

	var segments []Segment
	prev := 0
	for _, loc := range locs {
		name := text[loc[2]:loc[3]]
		spec, ok := bindings[name]
		if !ok {
			return nil, fmt.Errorf("bind point {%s}: no binding named %q is defined", name, name)
		}
		if lit := text[prev:loc[0]]; lit != "" {
			segments = append(segments, Segment{Literal: lit})
		}
		segments = append(segments, Segment{Bind: &BindPoint{Name: name, Spec: spec}})
		prev = loc[1]
	}
	if lit := text[prev:]; lit != "" {
		segments = append(segments, Segment{Literal: lit})
	}

	if len(segments) == 1 && segments[0].Bind != nil {
		pt.Kind = KindBindRef
		pt.Point = segments[0].Bind
		return pt, nil
	}

	pt.Kind = KindConcat
	pt.Segments = segments
	return pt, nil
}

// BindPoints returns every bind point in the template in source order.
func (p *ParsedTemplate) BindPoints() []BindPoint {
	switch p.Kind {
	case KindBindRef:
		return []BindPoint{*p.Point}
	case KindConcat:
		var points []BindPoint
		for _, seg := range p.Segments {
			if seg.Bind != nil {
				points = append(points, *seg.Bind)
			}
		}
		return points
	default:
		return nil
	}
}

// Describe renders a short diagnostic form of the template, useful in
// validation output.
func (p *ParsedTemplate) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", p.Kind)
	if len(p.Captures) > 0 {
		names := make([]string, len(p.Captures))
		for i, c := range p.Captures {
			names[i] = c.AsName()
		}
		fmt.Fprintf(&b, " captures=%s", strings.Join(names, ","))
	}
	return b.String()
}
