/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package emit holds the contract shared by the platform emitters: records,
// identifier casing, unit conversion and the grouping of tokens into files.
package emit

import (
	"strings"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/graph"
)

// Record is one emitted token, formatted for a platform.
type Record struct {
	Var        *classify.LayeredVariable
	Identifier string

	// Value is the formatted base token.
	Value string

	// Comment is the variable description, empty unless enabled for the platform.
	Comment string

	// Breakpoints mirrors Entry.Breakpoints with formatted values.
	Breakpoints []BreakpointValue
}

// BreakpointValue is a formatted value from one breakpoint up.
type BreakpointValue struct {
	Mode  graph.Mode
	Value string
}

// Responsive reports whether the record varies by breakpoint.
func (r Record) Responsive() bool {
	return len(r.Breakpoints) > 0
}

// At returns the value at the breakpoint whose mode name matches key.
func (r Record) At(key string) (string, bool) {
	for _, bp := range r.Breakpoints {
		if strings.EqualFold(bp.Mode.Name, key) {
			return bp.Value, true
		}
	}
	return "", false
}

// Emitter formats tokens for one platform.
type Emitter interface {
	// Platform returns the platform key used in configuration.
	Platform() string

	// Identifier returns the platform identifier for a variable.
	Identifier(lv *classify.LayeredVariable) string

	// FormatValue renders a token as a platform literal or expression.
	FormatValue(lv *classify.LayeredVariable, tok combine.Token) string

	// FilePath returns the output path of f relative to the dist directory.
	FilePath(f *File) string

	// Render produces the complete contents of f.
	Render(f *File) ([]byte, error)
}

// Indexer is implemented by emitters that write an entry point over all files.
type Indexer interface {
	Index(files []*File) (path string, content []byte, err error)
}

// Context is the shared input of every emitter.
type Context struct {
	Config *config.Config
	Result *combine.Result
}

// Graph returns the source graph.
func (ctx *Context) Graph() *graph.Graph {
	return ctx.Result.Set.Graph()
}

// Emittable reports whether a variable appears in generated output.
func (ctx *Context) Emittable(lv *classify.LayeredVariable) bool {
	if lv == nil || lv.Hidden {
		return false
	}
	if lv.Type == graph.TypeBoolean {
		return ctx.Config.Output.BooleanTokens
	}
	return true
}

// Description returns the comment text for lv on platform, or "".
func (ctx *Context) Description(platform string, lv *classify.LayeredVariable) string {
	if !ctx.Config.ShowDescription(platform) {
		return ""
	}
	return strings.TrimSpace(lv.Description)
}

// NewRecord formats one file entry with e.
func NewRecord(e Emitter, ctx *Context, entry Entry) Record {
	r := Record{
		Var:        entry.Var,
		Identifier: e.Identifier(entry.Var),
		Value:      e.FormatValue(entry.Var, entry.Base),
		Comment:    ctx.Description(e.Platform(), entry.Var),
	}
	for _, bp := range entry.Breakpoints {
		r.Breakpoints = append(r.Breakpoints, BreakpointValue{Mode: bp.Mode, Value: e.FormatValue(entry.Var, bp.Token)})
	}
	return r
}

// Records formats every entry of f in file order.
func Records(e Emitter, ctx *Context, f *File) []Record {
	out := make([]Record, 0, len(f.Entries))
	for _, entry := range f.Entries {
		out = append(out, NewRecord(e, ctx, entry))
	}
	return out
}

// CommentStyle describes a comment syntax.
type CommentStyle struct {
	Open       string
	LinePrefix string
	Close      string
}

var (
	// CStyleComments renders /* ... */ blocks.
	CStyleComments = CommentStyle{Open: "/*", LinePrefix: " * ", Close: " */"}

	// SCSSComments renders // line comments.
	SCSSComments = CommentStyle{LinePrefix: "// "}
)

// FormatHeader renders a file header in the given comment style, followed by
// a blank line. Single lines of block styles use the line form.
func FormatHeader(header string, style CommentStyle) string {
	header = strings.TrimRight(header, "\n")
	if header == "" {
		return ""
	}
	lines := strings.Split(header, "\n")
	var sb strings.Builder
	if style.Open == "" {
		for _, line := range lines {
			sb.WriteString(strings.TrimRight(style.LinePrefix+line, " ") + "\n")
		}
		sb.WriteString("\n")
		return sb.String()
	}
	if len(lines) == 1 && style.Open == "/*" {
		return "/* " + lines[0] + " */\n\n"
	}
	sb.WriteString(style.Open + "\n")
	for _, line := range lines {
		sb.WriteString(strings.TrimRight(style.LinePrefix+line, " ") + "\n")
	}
	sb.WriteString(style.Close + "\n\n")
	return sb.String()
}

// Header builds the generated-file notice from the configured identity.
func Header(cfg *config.Config) string {
	lines := []string{"Do not edit directly, this file was auto-generated."}
	if cfg.Identity.Name != "" {
		lines = append(lines, cfg.Identity.Name)
	}
	if cfg.Identity.Copyright != "" {
		lines = append(lines, "Copyright "+cfg.Identity.Copyright)
	}
	return strings.Join(lines, "\n")
}

// Reference returns the variable a token aliases directly when that alias
// follows the page's active modes and the target is itself emitted. Pinned
// aliases, fallbacks and failed resolutions have no reference.
func (ctx *Context) Reference(tok combine.Token) (*classify.LayeredVariable, bool) {
	if !tok.OK() || tok.Fallback() || len(tok.Value.Chain) < 2 {
		return nil, false
	}
	next := tok.Value.Chain[1]
	if next.Pinned {
		return nil, false
	}
	target := ctx.Result.Set.Get(next.VariableID)
	if !ctx.Emittable(target) {
		return nil, false
	}
	return target, true
}
