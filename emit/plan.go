/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package emit

import (
	"cmp"
	"slices"
	"strings"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/graph"
)

// ScopePart is one axis value selecting a file's scope.
type ScopePart struct {
	Axis graph.Axis
	Mode graph.Mode
}

// BreakpointToken is a token's value from one breakpoint up.
type BreakpointToken struct {
	Mode  graph.Mode
	Token combine.Token
}

// Entry is one variable within a file.
type Entry struct {
	Var *classify.LayeredVariable

	// Base is the value at the smallest breakpoint, or the only value.
	Base combine.Token

	// Breakpoints is set for breakpoint-sensitive variables, ascending by minWidth.
	Breakpoints []BreakpointToken
}

// Responsive reports whether the entry varies by breakpoint.
func (e Entry) Responsive() bool {
	return len(e.Breakpoints) > 0
}

// File is the unit of output: the variables of one layer sharing the same
// non-breakpoint axes, under one value of each of those axes.
type File struct {
	Layer   classify.Layer
	Axes    graph.AxisSet
	Scope   combine.Combination
	Parts   []ScopePart
	Entries []Entry
}

// Name is the file stem, e.g. "colorbrand-bild_theme-light", or "base".
func (f *File) Name() string {
	if len(f.Parts) == 0 {
		return "base"
	}
	segs := make([]string, 0, len(f.Parts))
	for _, p := range f.Parts {
		segs = append(segs, strings.ToLower(p.Axis.String())+"-"+Slug(p.Mode.Name))
	}
	return strings.Join(segs, "_")
}

// TypeName is the PascalCase type name for typed platforms, e.g.
// "SemanticThemeLight" or "PrimitiveTokens".
func (f *File) TypeName() string {
	if len(f.Parts) == 0 {
		return ToPascalCase(f.Layer.String()) + "Tokens"
	}
	var sb strings.Builder
	sb.WriteString(ToPascalCase(f.Layer.String()))
	for _, p := range f.Parts {
		sb.WriteString(ToPascalCase(p.Axis.String()))
		sb.WriteString(ToPascalCase(p.Mode.Name))
	}
	return sb.String()
}

// HasResponsive reports whether any entry varies by breakpoint.
func (f *File) HasResponsive() bool {
	for _, e := range f.Entries {
		if e.Responsive() {
			return true
		}
	}
	return false
}

type group struct {
	layer classify.Layer
	axes  graph.AxisSet
}

// Plan groups every emittable variable into files. Files are ordered by
// layer, then axis set, then combination enumeration order.
func (ctx *Context) Plan() []*File {
	res := ctx.Result
	groups := map[group][]*classify.LayeredVariable{}
	var order []group
	for _, lv := range res.Set.All() {
		if !ctx.Emittable(lv) {
			continue
		}
		k := group{layer: lv.Layer, axes: lv.Affinity.Without(graph.AxisBreakpoint)}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], lv)
	}
	slices.SortFunc(order, func(a, b group) int {
		if c := cmp.Compare(a.layer, b.layer); c != 0 {
			return c
		}
		return cmp.Compare(a.axes, b.axes)
	})

	breakpoints := res.Axes.Modes(graph.AxisBreakpoint)
	var files []*File
	for _, k := range order {
		for _, scope := range res.Axes.Enumerate(k.axes) {
			f := &File{Layer: k.layer, Axes: k.axes, Scope: scope}
			for _, a := range k.axes.Axes() {
				m, _ := res.Axes.Mode(a, scope.Get(a))
				f.Parts = append(f.Parts, ScopePart{Axis: a, Mode: m})
			}
			for _, lv := range groups[k] {
				f.Entries = append(f.Entries, entry(res, lv, scope, breakpoints))
			}
			files = append(files, f)
		}
	}
	return files
}

func entry(res *combine.Result, lv *classify.LayeredVariable, scope combine.Combination, breakpoints []graph.Mode) Entry {
	e := Entry{Var: lv}
	if !lv.Affinity.Has(graph.AxisBreakpoint) || len(breakpoints) == 0 {
		e.Base, _ = res.Token(lv.ID, scope)
		return e
	}
	for _, m := range breakpoints {
		tok, _ := res.Token(lv.ID, scope.With(graph.AxisBreakpoint, m.ID))
		e.Breakpoints = append(e.Breakpoints, BreakpointToken{Mode: m, Token: tok})
	}
	e.Base = e.Breakpoints[0].Token
	return e
}

// SizeClass is a native size class bound to a breakpoint mode.
type SizeClass struct {
	Name string
	Mode graph.Mode
}

// SizeClasses binds configured size classes (class name to breakpoint key)
// to breakpoint modes, ordered by minWidth then name. Classes naming an
// unknown breakpoint are skipped.
func (ctx *Context) SizeClasses(classes map[string]string) []SizeClass {
	var out []SizeClass
	for _, m := range ctx.Result.Axes.Modes(graph.AxisBreakpoint) {
		var names []string
		for name, key := range classes {
			if strings.EqualFold(key, m.Name) {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		for _, name := range names {
			out = append(out, SizeClass{Name: name, Mode: m})
		}
	}
	return out
}
