/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package combine

import (
	"strings"

	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/resolver"
)

// Combination is a concrete tuple of mode IDs, one per axis. An empty field
// means the axis is not part of the combination.
type Combination struct {
	ColorBrand   string
	ContentBrand string
	Theme        string
	Density      string
	Breakpoint   string
}

// Get returns the mode ID for axis a.
func (c Combination) Get(a graph.Axis) string {
	switch a {
	case graph.AxisColorBrand:
		return c.ColorBrand
	case graph.AxisContentBrand:
		return c.ContentBrand
	case graph.AxisTheme:
		return c.Theme
	case graph.AxisDensity:
		return c.Density
	case graph.AxisBreakpoint:
		return c.Breakpoint
	}
	return ""
}

// With returns c with axis a set to modeID.
func (c Combination) With(a graph.Axis, modeID string) Combination {
	switch a {
	case graph.AxisColorBrand:
		c.ColorBrand = modeID
	case graph.AxisContentBrand:
		c.ContentBrand = modeID
	case graph.AxisTheme:
		c.Theme = modeID
	case graph.AxisDensity:
		c.Density = modeID
	case graph.AxisBreakpoint:
		c.Breakpoint = modeID
	}
	return c
}

// Project keeps only the axes in s.
func (c Combination) Project(s graph.AxisSet) Combination {
	var out Combination
	for _, a := range s.Axes() {
		out = out.With(a, c.Get(a))
	}
	return out
}

// AxisSet returns the axes that have a mode set.
func (c Combination) AxisSet() graph.AxisSet {
	var s graph.AxisSet
	for _, a := range graph.Axes {
		if c.Get(a) != "" {
			s = s.With(a)
		}
	}
	return s
}

// AxisValues holds the auto-discovered modes of every axis.
type AxisValues struct {
	collections map[graph.Axis]*graph.Collection
}

// Discover reads axis values from the graph's axis collections. Brand lists
// come from the brand-mapping collections, so adding a brand needs no
// configuration change.
func Discover(g *graph.Graph) *AxisValues {
	av := &AxisValues{collections: map[graph.Axis]*graph.Collection{}}
	for _, a := range graph.Axes {
		if c := g.CollectionForAxis(a); c != nil && len(c.Modes) > 0 {
			av.collections[a] = c
		}
	}
	return av
}

// Collection returns the collection defining axis a, or nil.
func (av *AxisValues) Collection(a graph.Axis) *graph.Collection {
	return av.collections[a]
}

// Modes returns the modes of axis a in declared order. Breakpoint modes are
// ascending by minWidth.
func (av *AxisValues) Modes(a graph.Axis) []graph.Mode {
	if c := av.collections[a]; c != nil {
		return c.Modes
	}
	return nil
}

// Present returns the axes that have at least one mode.
func (av *AxisValues) Present() graph.AxisSet {
	var s graph.AxisSet
	for a := range av.collections {
		s = s.With(a)
	}
	return s
}

// Mode looks up the mode for a combination's value on axis a.
func (av *AxisValues) Mode(a graph.Axis, modeID string) (graph.Mode, bool) {
	c := av.collections[a]
	if c == nil {
		return graph.Mode{}, false
	}
	return c.Mode(modeID)
}

// Enumerate returns the Cartesian product of the modes of the axes in s,
// in declared axis order with the first axis varying slowest.
func (av *AxisValues) Enumerate(s graph.AxisSet) []Combination {
	out := []Combination{{}}
	for _, a := range s.Axes() {
		modes := av.Modes(a)
		if len(modes) == 0 {
			continue
		}
		next := make([]Combination, 0, len(out)*len(modes))
		for _, c := range out {
			for _, m := range modes {
				next = append(next, c.With(a, m.ID))
			}
		}
		out = next
	}
	return out
}

// All enumerates every combination over every present axis.
func (av *AxisValues) All() []Combination {
	return av.Enumerate(av.Present())
}

// Count returns the number of combinations over every present axis.
func (av *AxisValues) Count() int {
	n := 1
	for _, a := range graph.Axes {
		if modes := av.Modes(a); len(modes) > 0 {
			n *= len(modes)
		}
	}
	return n
}

// Context returns the resolver mode context selecting c's modes.
func (av *AxisValues) Context(c Combination) resolver.ModeContext {
	ctx := resolver.ModeContext{}
	for _, a := range graph.Axes {
		coll := av.collections[a]
		if id := c.Get(a); coll != nil && id != "" {
			ctx[coll.ID] = id
		}
	}
	return ctx
}

// Label renders c with mode display names, e.g. "colorBrand=BILD theme=Light".
func (av *AxisValues) Label(c Combination) string {
	var parts []string
	for _, a := range graph.Axes {
		id := c.Get(a)
		if id == "" {
			continue
		}
		name := id
		if m, ok := av.Mode(a, id); ok {
			name = m.Name
		}
		parts = append(parts, a.String()+"="+name)
	}
	if len(parts) == 0 {
		return "base"
	}
	return strings.Join(parts, " ")
}

// Names maps each set axis of c to its mode display name.
func (av *AxisValues) Names(c Combination) map[string]string {
	out := map[string]string{}
	for _, a := range graph.Axes {
		id := c.Get(a)
		if id == "" {
			continue
		}
		name := id
		if m, ok := av.Mode(a, id); ok {
			name = m.Name
		}
		out[a.String()] = name
	}
	return out
}
