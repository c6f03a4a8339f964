/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package scss emits design tokens as SCSS variables, one partial per scope.
// Breakpoint-sensitive tokens become maps keyed by breakpoint.
package scss

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/emit"
)

// Platform is the configuration key of this emitter.
const Platform = "scss"

// Emitter outputs SCSS partials.
type Emitter struct {
	ctx  *emit.Context
	opts config.SCSSPlatform
	css  config.CSSPlatform
}

// New creates an SCSS emitter. Font sizes follow the CSS unit settings.
func New(ctx *emit.Context) *Emitter {
	return &Emitter{ctx: ctx, opts: ctx.Config.Platforms.SCSS, css: ctx.Config.Platforms.CSS}
}

// Platform implements emit.Emitter.
func (e *Emitter) Platform() string {
	return Platform
}

// Identifier returns the variable name, e.g. "$semantic-text-text-primary".
func (e *Emitter) Identifier(lv *classify.LayeredVariable) string {
	name := emit.Canonical(lv.Path)
	if e.opts.Prefix != "" {
		name = strings.TrimSuffix(e.opts.Prefix, "-") + "-" + name
	}
	return "$" + name
}

// FormatValue renders a token literal. Partials are independent modules, so
// aliases are always inlined.
func (e *Emitter) FormatValue(lv *classify.LayeredVariable, tok combine.Token) string {
	if !tok.OK() {
		return strconv.Quote(tok.Text)
	}
	switch kind := emit.KindOf(lv.Variable, tok.Text); kind {
	case emit.KindString:
		return strconv.Quote(tok.Text)
	case emit.KindColor, emit.KindBoolean:
		return tok.Text
	default:
		unit, base := e.css.FontSizeUnit, e.css.RemBase
		if unit == "" {
			unit = "px"
		}
		return emit.Length(kind, tok.Text, unit, base)
	}
}

// FilePath implements emit.Emitter.
func (e *Emitter) FilePath(f *emit.File) string {
	return path.Join(Platform, f.Layer.String(), "_"+f.Name()+".scss")
}

// Render implements emit.Emitter.
func (e *Emitter) Render(f *emit.File) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(emit.Header(e.ctx.Config), emit.SCSSComments))
	for _, rec := range emit.Records(e, e.ctx, f) {
		if rec.Comment != "" {
			for _, line := range strings.Split(rec.Comment, "\n") {
				sb.WriteString("// " + line + "\n")
			}
		}
		if !rec.Responsive() {
			fmt.Fprintf(&sb, "%s: %s;\n", rec.Identifier, rec.Value)
			continue
		}
		pairs := make([]string, 0, len(rec.Breakpoints))
		for _, bp := range rec.Breakpoints {
			pairs = append(pairs, fmt.Sprintf("%s: %s", strings.ToLower(bp.Mode.Name), bp.Value))
		}
		fmt.Fprintf(&sb, "%s: (%s);\n", rec.Identifier, strings.Join(pairs, ", "))
	}
	return []byte(sb.String()), nil
}

// Index writes scss/_index.scss forwarding every partial under a scope prefix.
func (e *Emitter) Index(files []*emit.File) (string, []byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(emit.Header(e.ctx.Config), emit.SCSSComments))
	for _, f := range files {
		module := path.Join(f.Layer.String(), f.Name())
		fmt.Fprintf(&sb, "@forward %q as %s-%s-*;\n", module, f.Layer, f.Name())
	}
	return path.Join(Platform, "_index.scss"), []byte(sb.String()), nil
}
