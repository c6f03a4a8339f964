/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package js emits design tokens as ES modules of named constants, with an
// index module re-exporting every scope under a namespace.
package js

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
const Platform = "js"

// Emitter outputs ES modules.
type Emitter struct {
	ctx  *emit.Context
	opts config.JSPlatform
}

// New creates a JS emitter.
func New(ctx *emit.Context) *Emitter {
	return &Emitter{ctx: ctx, opts: ctx.Config.Platforms.JS}
}

// Platform implements emit.Emitter.
func (e *Emitter) Platform() string {
	return Platform
}

// Extension returns the file extension for the configured language.
func (e *Emitter) Extension() string {
	if e.opts.TypeScript {
		return ".ts"
	}
	return ".js"
}

// Identifier returns the export name, e.g. "semanticTextTextPrimary".
func (e *Emitter) Identifier(lv *classify.LayeredVariable) string {
	return emit.ToCamelCase(lv.Path)
}

// FormatValue renders a token as a JS literal. Dimensions are CSS-ready
// strings; ratios and weights are numbers.
func (e *Emitter) FormatValue(lv *classify.LayeredVariable, tok combine.Token) string {
	if !tok.OK() {
		return strconv.Quote(tok.Text)
	}
	switch kind := emit.KindOf(lv.Variable, tok.Text); kind {
	case emit.KindBoolean:
		return tok.Text
	case emit.KindColor, emit.KindString:
		return strconv.Quote(tok.Text)
	case emit.KindUnitless:
		return emit.Length(kind, tok.Text, "px", 0)
	case emit.KindLineHeight:
		if f, ok := emit.ParseNumber(tok.Text); ok && emit.IsRatioLineHeight(f) {
			return emit.FormatNumber(f)
		}
		return strconv.Quote(emit.Length(kind, tok.Text, "px", 0))
	default:
		return strconv.Quote(emit.Length(kind, tok.Text, "px", 0))
	}
}

// FilePath implements emit.Emitter.
func (e *Emitter) FilePath(f *emit.File) string {
	return path.Join(Platform, f.Layer.String(), f.Name()+e.Extension())
}

// Render implements emit.Emitter.
func (e *Emitter) Render(f *emit.File) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(emit.Header(e.ctx.Config), emit.CStyleComments))
	suffix := ""
	if e.opts.TypeScript {
		suffix = " as const"
	}
	for _, rec := range emit.Records(e, e.ctx, f) {
		if rec.Comment != "" {
			fmt.Fprintf(&sb, "/** %s */\n", strings.ReplaceAll(rec.Comment, "*/", "* /"))
		}
		value := rec.Value
		if rec.Responsive() {
			pairs := make([]string, 0, len(rec.Breakpoints))
			for _, bp := range rec.Breakpoints {
				pairs = append(pairs, fmt.Sprintf("%s: %s", strings.ToLower(bp.Mode.Name), bp.Value))
			}
			value = "{ " + strings.Join(pairs, ", ") + " }"
		}
		fmt.Fprintf(&sb, "export const %s = %s%s;\n", rec.Identifier, value, suffix)
	}
	return []byte(sb.String()), nil
}

// Index writes the entry module re-exporting each file as a namespace.
func (e *Emitter) Index(files []*emit.File) (string, []byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(emit.Header(e.ctx.Config), emit.CStyleComments))
	if e.opts.ModuleName != "" {
		fmt.Fprintf(&sb, "/** @module %s */\n\n", e.opts.ModuleName)
	}
	for _, f := range files {
		rel := "./" + path.Join(f.Layer.String(), f.Name()) + ".js"
		fmt.Fprintf(&sb, "export * as %s from %q;\n", emit.ToCamelCase(f.TypeName()), rel)
	}
	return path.Join(Platform, "index"+e.Extension()), []byte(sb.String()), nil
}
