/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package swift emits design tokens as Swift enums of static constants, with
// breakpoint-sensitive tokens nested under size-class enums.
package swift

import (
	"fmt"
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
const Platform = "ios"

const indent = "    "

// Emitter outputs Swift source files.
type Emitter struct {
	ctx  *emit.Context
	opts config.IOSPlatform
}

// New creates a Swift emitter.
func New(ctx *emit.Context) *Emitter {
	return &Emitter{ctx: ctx, opts: ctx.Config.Platforms.IOS}
}

// Platform implements emit.Emitter.
func (e *Emitter) Platform() string {
	return Platform
}

// Identifier returns the constant name, e.g. "semanticTextTextPrimary".
func (e *Emitter) Identifier(lv *classify.LayeredVariable) string {
	return emit.ToCamelCase(lv.Path)
}

// FormatValue renders a token as a Swift expression.
func (e *Emitter) FormatValue(lv *classify.LayeredVariable, tok combine.Token) string {
	if !tok.OK() {
		return stringLiteral(tok.Text)
	}
	switch emit.KindOf(lv.Variable, tok.Text) {
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
	return "CGFloat(" + emit.FormatNumber(f) + ")"
}

// Color converts a CSS color literal to a UIColor initializer with
// three-decimal channels. Unparsable input is returned as a string literal.
func Color(value string) string {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return stringLiteral(value)
	}
	return fmt.Sprintf("UIColor(red: %.3f, green: %.3f, blue: %.3f, alpha: %.3f)", c.R, c.G, c.B, c.A)
}

// stringLiteral renders s as a Swift string literal.
func stringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&sb, `\u{%X}`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// FilePath implements emit.Emitter.
func (e *Emitter) FilePath(f *emit.File) string {
	return path.Join(Platform, emit.ToPascalCase(f.Layer.String()), f.TypeName()+".swift")
}

// Render implements emit.Emitter.
func (e *Emitter) Render(f *emit.File) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(emit.FormatHeader(e.header(), emit.SCSSComments))
	sb.WriteString("import UIKit\n\n")
	fmt.Fprintf(&sb, "public enum %s {\n", f.TypeName())
	records := emit.Records(e, e.ctx, f)
	for _, rec := range records {
		writeConstant(&sb, indent, rec, rec.Value)
	}
	if f.HasResponsive() {
		for _, class := range e.ctx.SizeClasses(e.opts.SizeClasses) {
			fmt.Fprintf(&sb, "\n%spublic enum %s {\n", indent, emit.ToPascalCase(class.Name))
			for _, rec := range records {
				value, ok := rec.At(class.Mode.Name)
				if !ok {
					continue
				}
				writeConstant(&sb, indent+indent, rec, value)
			}
			sb.WriteString(indent + "}\n")
		}
	}
	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *Emitter) header() string {
	h := emit.Header(e.ctx.Config)
	if e.opts.ModuleName != "" {
		h += "\nModule: " + e.opts.ModuleName
	}
	return h
}

func writeConstant(sb *strings.Builder, in string, rec emit.Record, value string) {
	if rec.Comment != "" {
		for _, line := range strings.Split(rec.Comment, "\n") {
			fmt.Fprintf(sb, "%s/// %s\n", in, line)
		}
	}
	fmt.Fprintf(sb, "%spublic static let %s = %s\n", in, rec.Identifier, value)
}
