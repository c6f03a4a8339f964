/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package graph provides the typed variable graph loaded from a Figma variables export.
//
// A Graph is built once by the parser and is read-only afterwards, so it may be
// shared freely between resolver and emitter goroutines.
package graph

import (
	"slices"
	"sort"
	"strings"
)

// Type is the declared type of a variable.
type Type string

const (
	TypeColor   Type = "COLOR"
	TypeFloat   Type = "FLOAT"
	TypeString  Type = "STRING"
	TypeBoolean Type = "BOOLEAN"
)

// PathSeparator separates the segments of a variable path.
const PathSeparator = "/"

// Mode is one axis value within a collection.
type Mode struct {
	// ID is the export's opaque mode ID.
	ID string

	// Name is the display name (e.g. "Light", "sm", "BILD").
	Name string

	// MinWidth is joined in from configuration for breakpoint modes only.
	MinWidth int

	// DeviceName is joined in from configuration for breakpoint modes only.
	DeviceName string
}

// Collection is a named group of variables sharing a set of modes.
type Collection struct {
	ID   string
	Name string

	// Role is the configuration key naming this collection (e.g. "colorMode"),
	// empty for collections the configuration does not declare.
	Role string

	// Axis is the dimension this collection's modes vary over.
	Axis Axis

	// Modes in export order, except breakpoint modes which are sorted by MinWidth.
	Modes []Mode

	// DefaultModeID is used when a resolution context does not select a mode.
	DefaultModeID string

	// VariableIDs lists member variables sorted by path.
	VariableIDs []string
}

// Mode looks up a mode by ID.
func (c *Collection) Mode(id string) (Mode, bool) {
	for _, m := range c.Modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

// ModeByName looks up a mode by display name, case-insensitively.
func (c *Collection) ModeByName(name string) (Mode, bool) {
	for _, m := range c.Modes {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Mode{}, false
}

// ModeIndex returns the position of a mode ID, or -1.
func (c *Collection) ModeIndex(id string) int {
	return slices.IndexFunc(c.Modes, func(m Mode) bool { return m.ID == id })
}

// ValueKind distinguishes literal values from aliases.
type ValueKind int

const (
	KindLiteral ValueKind = iota
	KindAlias
)

// Value is a per-mode variable value: either a literal or an alias to another variable.
type Value struct {
	Kind ValueKind

	// Literal holds the normalised literal text (hex colors, canonical decimals, raw strings).
	Literal string

	// AliasID is the referenced variable ID.
	AliasID string

	// AliasModeID optionally pins the mode used in the referenced variable's collection.
	AliasModeID string
}

// Literal returns a literal value.
func Literal(s string) Value {
	return Value{Kind: KindLiteral, Literal: s}
}

// Alias returns an alias value. modeID may be empty.
func Alias(id, modeID string) Value {
	return Value{Kind: KindAlias, AliasID: id, AliasModeID: modeID}
}

// IsAlias reports whether the value references another variable.
func (v Value) IsAlias() bool {
	return v.Kind == KindAlias
}

// Variable is the atomic token definition.
type Variable struct {
	ID           string
	Path         string
	CollectionID string
	Type         Type
	Description  string

	// Scopes are Figma's usage scopes (FONT_SIZE, LINE_HEIGHT, ...).
	Scopes []string

	// Hidden variables may be alias targets but are never emitted.
	Hidden bool

	// Values maps mode ID to value.
	Values map[string]Value
}

// Segments splits the path into its components.
func (v *Variable) Segments() []string {
	return strings.Split(v.Path, PathSeparator)
}

// HasScope reports whether the variable declares the given Figma scope.
func (v *Variable) HasScope(scope string) bool {
	return slices.ContainsFunc(v.Scopes, func(s string) bool { return strings.EqualFold(s, scope) })
}

// Graph is the loaded collection/mode/variable graph.
type Graph struct {
	collections map[string]*Collection
	variables   map[string]*Variable
	byRole      map[string]*Collection
	byAxis      map[Axis]*Collection
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		collections: make(map[string]*Collection),
		variables:   make(map[string]*Variable),
		byRole:      make(map[string]*Collection),
		byAxis:      make(map[Axis]*Collection),
	}
}

// AddCollection registers a collection. The first collection registered for an axis owns it.
func (g *Graph) AddCollection(c *Collection) {
	g.collections[c.ID] = c
	if c.Role != "" {
		g.byRole[c.Role] = c
	}
	if c.Axis != AxisNone {
		if _, taken := g.byAxis[c.Axis]; !taken {
			g.byAxis[c.Axis] = c
		}
	}
}

// AddVariable registers a variable and appends it to its collection's member list.
func (g *Graph) AddVariable(v *Variable) {
	g.variables[v.ID] = v
	if c, ok := g.collections[v.CollectionID]; ok && !slices.Contains(c.VariableIDs, v.ID) {
		c.VariableIDs = append(c.VariableIDs, v.ID)
	}
}

// Collection looks up a collection by ID.
func (g *Graph) Collection(id string) *Collection {
	return g.collections[id]
}

// CollectionForRole looks up a collection by configuration role key.
func (g *Graph) CollectionForRole(role string) *Collection {
	return g.byRole[role]
}

// CollectionForAxis returns the collection whose modes define the axis, or nil.
func (g *Graph) CollectionForAxis(a Axis) *Collection {
	return g.byAxis[a]
}

// Variable looks up a variable by ID.
func (g *Graph) Variable(id string) *Variable {
	return g.variables[id]
}

// CollectionOf returns the owning collection of a variable.
func (g *Graph) CollectionOf(v *Variable) *Collection {
	if v == nil {
		return nil
	}
	return g.collections[v.CollectionID]
}

// Collections returns all collections sorted by name, then ID.
func (g *Graph) Collections() []*Collection {
	out := make([]*Collection, 0, len(g.collections))
	for _, c := range g.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Variables returns all variables sorted by path, then ID.
func (g *Graph) Variables() []*Variable {
	out := make([]*Variable, 0, len(g.variables))
	for _, v := range g.variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindByPath returns the variables whose path equals p, in ID order.
func (g *Graph) FindByPath(p string) []*Variable {
	var out []*Variable
	for _, v := range g.Variables() {
		if v.Path == p {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of variables.
func (g *Graph) Len() int {
	return len(g.variables)
}
