/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package android emits design tokens as Kotlin objects for Jetpack Compose,
// with breakpoint-sensitive tokens nested under window size class objects.
package android

import (
	"fmt"
	"math"
	"path"
	"strings"
	"unicode"

	"github.com/mazznoer/csscolorparser"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/emit"
)

// Platform is the configuration key of this emitter.
const Platform = "android"

const indent = "    "

// Emitter outputs Kotlin source files.
type Emitter struct {
	ctx  *emit.Context
	opts config.AndroidPlatform
}

// New creates a Kotlin emitter.
func New(ctx *emit.Context) *Emitter {
	return &Emitter{ctx: ctx, opts: ctx.Config.Platforms.Android}
}

// Platform implements emit.Emitter.
func (e *Emitter) Platform() string {
	return Platform
}

// Identifier returns the property name, e.g. "semanticTextTextPrimary".
func (e *Emitter) Identifier(lv *classify.LayeredVariable) string {
	return emit.ToCamelCase(lv.Path)
}

// FormatValue renders a token as a Kotlin expression.
func (e *Emitter) FormatValue(lv *classify.LayeredVariable, tok combine.Token) string {
	if !tok.OK() {
		return stringLiteral(tok.Text)
	}
	kind := emit.KindOf(lv.Variable, tok.Text)
	switch kind {
	case emit.KindColor:
		return Color(tok.Text)
	case emit.KindBoolean:
		return tok.Text
	case emit.KindString:
		return stringLiteral(tok.Text)
	}
	f, ok := emit.ParseNumber(tok.Text)
	if !ok {
		return stringLiteral(tok.Text)
	}
	n := emit.FormatNumber(f)
	switch kind {
	case emit.KindFontSize:
		return n + ".sp"
	case emit.KindLineHeight:
		if emit.IsRatioLineHeight(f) {
			return n + "f"
		}
		return n + ".sp"
	case emit.KindUnitless:
		if f == math.Trunc(f) {
			return n
		}
		return n + "f"
	}
	return n + ".dp"
}

// Color converts a CSS color literal to a Compose Color(0xAARRGGBB).
// Unparsable input is returned as a string literal.
func Color(value string) string {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return stringLiteral(value)
	}
	r, g, b, a := c.RGBA255()
	return fmt.Sprintf("Color(0x%02X%02X%02X%02X)", a, r, g, b)
}

// stringLiteral renders s as a Kotlin string literal. Dollar signs are
// escaped so values never become string templates.
func stringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '$':
			sb.WriteString(`\$`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&sb, `\u%04X`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Package returns the Kotlin package of a file.
func (e *Emitter) Package(f *emit.File) string {
	return e.opts.PackageName + "." + f.Layer.String()
}

// FilePath implements emit.Emitter.
func (e *Emitter) FilePath(f *emit.File) string {
	return path.Join(Platform, f.Layer.String(), f.TypeName()+".kt")
}

// Render implements emit.Emitter.
func (e *Emitter) Render(f *emit.File) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(emit.Header(e.ctx.Config), emit.SCSSComments))
	fmt.Fprintf(&sb, "package %s\n\n", e.Package(f))
	sb.WriteString("import androidx.compose.ui.graphics.Color\n")
	sb.WriteString("import androidx.compose.ui.unit.dp\n")
	sb.WriteString("import androidx.compose.ui.unit.sp\n\n")
	fmt.Fprintf(&sb, "object %s {\n", f.TypeName())
	records := emit.Records(e, e.ctx, f)
	for _, rec := range records {
		writeProperty(&sb, indent, rec, rec.Value)
	}
	if f.HasResponsive() {
		for _, class := range e.ctx.SizeClasses(e.opts.SizeClasses) {
			fmt.Fprintf(&sb, "\n%sobject %s {\n", indent, emit.ToPascalCase(class.Name))
			for _, rec := range records {
				value, ok := rec.At(class.Mode.Name)
				if !ok {
					continue
				}
				writeProperty(&sb, indent+indent, rec, value)
			}
			sb.WriteString(indent + "}\n")
		}
	}
	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func writeProperty(sb *strings.Builder, in string, rec emit.Record, value string) {
	if rec.Comment != "" {
		fmt.Fprintf(sb, "%s/** %s */\n", in, strings.ReplaceAll(rec.Comment, "*/", "* /"))
	}
	fmt.Fprintf(sb, "%sval %s = %s\n", in, rec.Identifier, value)
}
