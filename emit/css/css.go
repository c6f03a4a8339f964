/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package css emits design tokens as CSS custom properties scoped by data
// attribute selectors, with breakpoint overrides in min-width media queries.
package css

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/emit"
	"bennypowers.dev/tokenpipe/graph"
)

// Platform is the configuration key of this emitter.
const Platform = "css"

// Emitter outputs CSS custom properties.
type Emitter struct {
	ctx  *emit.Context
	opts config.CSSPlatform
}

// New creates a CSS emitter.
func New(ctx *emit.Context) *Emitter {
	return &Emitter{ctx: ctx, opts: ctx.Config.Platforms.CSS}
}

// Platform implements emit.Emitter.
func (e *Emitter) Platform() string {
	return Platform
}

// Identifier returns the custom property name, e.g. "--semantic-text-text-primary".
func (e *Emitter) Identifier(lv *classify.LayeredVariable) string {
	name := emit.Canonical(lv.Path)
	if e.opts.Prefix != "" {
		name = strings.TrimSuffix(e.opts.Prefix, "-") + "-" + name
	}
	return "--" + name
}

// FormatValue renders a token. Aliases to emitted variables become var()
// references; everything else is a literal.
func (e *Emitter) FormatValue(lv *classify.LayeredVariable, tok combine.Token) string {
	if !tok.OK() {
		return strconv.Quote(tok.Text)
	}
	literal := e.literal(lv, tok.Text)
	target, ok := e.ctx.Reference(tok)
	if !ok {
		return literal
	}
	if e.withFallback(target.Layer) {
		return fmt.Sprintf("var(%s, %s)", e.Identifier(target), literal)
	}
	return fmt.Sprintf("var(%s)", e.Identifier(target))
}

func (e *Emitter) literal(lv *classify.LayeredVariable, text string) string {
	switch kind := emit.KindOf(lv.Variable, text); kind {
	case emit.KindString:
		return strconv.Quote(text)
	case emit.KindColor, emit.KindBoolean:
		return text
	default:
		return emit.Length(kind, text, e.opts.FontSizeUnit, e.opts.RemBase)
	}
}

func (e *Emitter) withFallback(target classify.Layer) bool {
	fs := e.opts.FallbackStrategy
	switch target {
	case classify.Primitive, classify.Mapping:
		return fs.PrimitiveRefs
	case classify.Semantic:
		return fs.SemanticRefs
	case classify.Component:
		return fs.ComponentRefs
	}
	return false
}

// FilePath implements emit.Emitter.
func (e *Emitter) FilePath(f *emit.File) string {
	return path.Join(Platform, f.Layer.String(), f.Name()+".css")
}

// Selector returns the rule selector of a file scope.
func (e *Emitter) Selector(f *emit.File) string {
	if len(f.Parts) == 0 {
		return ":root"
	}
	var sb strings.Builder
	for _, p := range f.Parts {
		fmt.Fprintf(&sb, "[%s=%q]", e.attribute(p.Axis), emit.Slug(p.Mode.Name))
	}
	return sb.String()
}

func (e *Emitter) attribute(a graph.Axis) string {
	attrs := e.opts.DataAttributes
	switch a {
	case graph.AxisColorBrand:
		return attrs.ColorBrand
	case graph.AxisContentBrand:
		return attrs.ContentBrand
	case graph.AxisTheme:
		return attrs.Theme
	case graph.AxisDensity:
		return attrs.Density
	}
	return "data-" + emit.ToKebabCase(a.String())
}

// Render writes the base rule, then one media query per larger breakpoint.
func (e *Emitter) Render(f *emit.File) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(emit.Header(e.ctx.Config), emit.CStyleComments))

	records := emit.Records(e, e.ctx, f)
	selector := e.Selector(f)
	sb.WriteString(selector + " {\n")
	for _, rec := range records {
		writeDeclaration(&sb, "  ", rec, rec.Value)
	}
	sb.WriteString("}\n")

	for i, bp := range breakpoints(records) {
		if i == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n@media (min-width: %dpx) {\n", bp.MinWidth)
		sb.WriteString("  " + selector + " {\n")
		for _, rec := range records {
			if !rec.Responsive() {
				continue
			}
			writeDeclaration(&sb, "    ", rec, rec.Breakpoints[i].Value)
		}
		sb.WriteString("  }\n}\n")
	}
	return []byte(sb.String()), nil
}

// breakpoints returns the breakpoint modes used by the responsive records.
func breakpoints(records []emit.Record) []graph.Mode {
	for _, rec := range records {
		if rec.Responsive() {
			modes := make([]graph.Mode, len(rec.Breakpoints))
			for i, bp := range rec.Breakpoints {
				modes[i] = bp.Mode
			}
			return modes
		}
	}
	return nil
}

func writeDeclaration(sb *strings.Builder, indent string, rec emit.Record, value string) {
	if rec.Comment != "" {
		fmt.Fprintf(sb, "%s/* %s */\n", indent, strings.ReplaceAll(rec.Comment, "*/", "* /"))
	}
	fmt.Fprintf(sb, "%s%s: %s;\n", indent, rec.Identifier, value)
}

// Index writes css/tokens.css importing every file.
func (e *Emitter) Index(files []*emit.File) (string, []byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(emit.Header(e.ctx.Config), emit.CStyleComments))
	for _, f := range files {
		rel := strings.TrimPrefix(e.FilePath(f), Platform+"/")
		fmt.Fprintf(&sb, "@import %q;\n", "./"+rel)
	}
	return path.Join(Platform, "tokens.css"), []byte(sb.String()), nil
}
